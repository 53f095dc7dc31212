package ports

import (
	"context"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// CourierDirectory is the read-only view of couriers owned by user management.
type CourierDirectory interface {
	FindByID(ctx context.Context, id string) (*domain.Courier, error)
}
