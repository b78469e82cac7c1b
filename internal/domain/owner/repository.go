package owner

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Owner entities.
type Repository interface {
	Create(ctx context.Context, o *Owner) error
	GetByID(ctx context.Context, id int64) (*Owner, error)
	Update(ctx context.Context, o *Owner) error
	ListByClinic(ctx context.Context, clinicID int64) ([]*Owner, error)
}
