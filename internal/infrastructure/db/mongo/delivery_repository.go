package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

const (
	collectionDeliveries = "deliveries"
	// indexOneInTransit enforces at most one in-transit delivery per courier.
	indexOneInTransit = "uniq_courier_in_transit"
)

// DeliveryRepository implements ports.DeliveryRepository using MongoDB.
type DeliveryRepository struct {
	col *mongo.Collection
}

func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{col: db.Collection(collectionDeliveries)}
}

// Create inserts a new delivery document.
func (r *DeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return storeErr("create delivery", err)
	}
	return nil
}

// FindByID retrieves a delivery by its id.
func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*domain.Delivery, error) {
	return r.findOne(ctx, "find delivery", bson.M{"_id": id})
}

// FindByTrackingToken retrieves a delivery by its public token.
func (r *DeliveryRepository) FindByTrackingToken(ctx context.Context, token string) (*domain.Delivery, error) {
	return r.findOne(ctx, "find delivery by token", bson.M{"tracking_token": token})
}

// FindActiveByCourier returns the courier's in-transit delivery.
func (r *DeliveryRepository) FindActiveByCourier(ctx context.Context, courierID string) (*domain.Delivery, error) {
	return r.findOne(ctx, "find active delivery", bson.M{
		"courier_id": courierID,
		"status":     string(domain.StatusInTransit),
	})
}

// CompareAndSwap replaces the document only while its status is one of
// expected and its version is unchanged since next was read. A violation of
// the in-transit index is reported as a conflict.
func (r *DeliveryRepository) CompareAndSwap(ctx context.Context, next *domain.Delivery, expected ...domain.DeliveryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *next
	doc.Version++
	res, err := r.col.ReplaceOne(ctx, casFilter(next, expected), &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflictActiveDelivery
		}
		return storeErr("replace delivery", err)
	}
	if res.MatchedCount > 0 {
		next.Version = doc.Version
		return nil
	}

	// Nothing matched: the delivery is gone, or its status or version moved on.
	if _, err := r.FindByID(ctx, next.ID); err != nil {
		return err
	}
	return domain.ErrInvalidState
}

// CountOpenByCourier counts assigned and in-transit deliveries.
func (r *DeliveryRepository) CountOpenByCourier(ctx context.Context, courierID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"courier_id": courierID,
		"status":     bson.M{"$in": bson.A{string(domain.StatusAssigned), string(domain.StatusInTransit)}},
	})
	if err != nil {
		return 0, storeErr("count open deliveries", err)
	}
	return n, nil
}

// EnsureIndexes creates necessary indexes on the deliveries collection.
func (r *DeliveryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, deliveryIndexes())
	return err
}

func deliveryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "courier_id", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys: bson.D{{Key: "courier_id", Value: 1}},
			Options: options.Index().
				SetName(indexOneInTransit).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusInTransit)}),
		},
	}
}

func (r *DeliveryRepository) findOne(ctx context.Context, op string, filter bson.M) (*domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Delivery
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDeliveryNotFound
		}
		return nil, storeErr(op, err)
	}
	return &d, nil
}

// casFilter matches the revision next was derived from.
func casFilter(next *domain.Delivery, expected []domain.DeliveryStatus) bson.M {
	statuses := make(bson.A, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}
	return bson.M{
		"_id":     next.ID,
		"status":  bson.M{"$in": statuses},
		"version": next.Version,
	}
}
