package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

const collectionCouriers = "couriers"

// CourierRepository is a read-only view of the couriers collection owned by
// user management.
type CourierRepository struct {
	coll *mongo.Collection
}

func NewCourierRepository(db *mongo.Database) *CourierRepository {
	return &CourierRepository{coll: db.Collection(collectionCouriers)}
}

type mongoCourier struct {
	ID       string `bson:"_id"`
	FullName string `bson:"full_name"`
	Active   bool   `bson:"active"`
}

func (r *CourierRepository) FindByID(ctx context.Context, id string) (*domain.Courier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCourier
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourierNotFound
		}
		return nil, storeErr("find courier", err)
	}

	return toCourier(mc), nil
}

func toCourier(mc mongoCourier) *domain.Courier {
	return &domain.Courier{
		ID:       mc.ID,
		FullName: mc.FullName,
		Active:   mc.Active,
	}
}
