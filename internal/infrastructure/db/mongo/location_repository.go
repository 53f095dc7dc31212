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
	collectionTelemetry   = "telemetry_reports"
	collectionRoutePoints = "route_points"
)

// LocationRepository implements ports.LocationRepository with two append-only
// collections. Documents get a driver-generated ObjectID, so sorting by _id
// yields arrival order.
type LocationRepository struct {
	telemetry *mongo.Collection
	points    *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{
		telemetry: db.Collection(collectionTelemetry),
		points:    db.Collection(collectionRoutePoints),
	}
}

// AppendTelemetry inserts one report into the courier-global stream.
func (r *LocationRepository) AppendTelemetry(ctx context.Context, rep *domain.TelemetryReport) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.telemetry.InsertOne(ctx, rep); err != nil {
		return storeErr("append telemetry", err)
	}
	return nil
}

// AppendRoutePoint inserts one point into the delivery trail.
func (r *LocationRepository) AppendRoutePoint(ctx context.Context, p *domain.RoutePoint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.points.InsertOne(ctx, p); err != nil {
		return storeErr("append route point", err)
	}
	return nil
}

// LatestForCourier returns the courier's most recently recorded report.
func (r *LocationRepository) LatestForCourier(ctx context.Context, courierID string) (*domain.TelemetryReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rep domain.TelemetryReport
	err := r.telemetry.FindOne(ctx, bson.M{"courier_id": courierID}, latestFirst()).Decode(&rep)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("latest telemetry", err)
	}
	return &rep, nil
}

// LatestForDelivery returns the delivery's most recently recorded point.
func (r *LocationRepository) LatestForDelivery(ctx context.Context, deliveryID string) (*domain.RoutePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.RoutePoint
	err := r.points.FindOne(ctx, bson.M{"delivery_id": deliveryID}, latestFirst()).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("latest route point", err)
	}
	return &p, nil
}

// RoutePoints returns the delivery trail in arrival order.
func (r *LocationRepository) RoutePoints(ctx context.Context, deliveryID string) ([]domain.RoutePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.points.Find(ctx,
		bson.M{"delivery_id": deliveryID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, storeErr("list route points", err)
	}
	defer cur.Close(ctx)

	points := make([]domain.RoutePoint, 0)
	if err := cur.All(ctx, &points); err != nil {
		return nil, storeErr("decode route points", err)
	}
	return points, nil
}

// EnsureIndexes creates the lookup indexes of both streams.
func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := r.telemetry.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "courier_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
	}); err != nil {
		return err
	}
	_, err := r.points.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "delivery_id", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "delivery_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
	})
	return err
}

func latestFirst() *options.FindOneOptions {
	return options.FindOne().SetSort(bson.D{{Key: "recorded_at", Value: -1}, {Key: "_id", Value: -1}})
}
