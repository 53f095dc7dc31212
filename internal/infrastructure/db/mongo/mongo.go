package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

const appName = "courier-tracking"

type Config struct {
	URI      string
	Database string
	// Timeout bounds connecting, server selection and the startup ping.
	Timeout time.Duration
}

// Connect opens the client, waits for a reachable primary and returns the
// tracking database. Writes use majority acknowledgement.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Ping returns a readiness check that runs the ping command against db.
func Ping(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			return fmt.Errorf("mongo ping %s: %w", db.Name(), err)
		}
		return nil
	}
}

// EnsureIndexes creates the indexes of every repository.
func EnsureIndexes(ctx context.Context, deliveries *DeliveryRepository, locations *LocationRepository) error {
	if err := deliveries.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("delivery indexes: %w", err)
	}
	if err := locations.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("location indexes: %w", err)
	}
	return nil
}

// storeErr tags a driver error as a store failure. Context errors keep their
// identity so callers can tell a deadline from an outage.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreFailure, err)
}
