package pet

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Pet entities.
type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id int64) (*Pet, error)
	Update(ctx context.Context, p *Pet) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*Pet, error)
}
