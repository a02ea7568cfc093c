package repository

import (
	"context"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
)

// AddressRepository defines the interface for address-related database operations.
// ListByUser returns addresses in insertion order, stable across repeated calls.
type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Address, error)
	Update(ctx context.Context, a *entity.Address) error
	Delete(ctx context.Context, id string) error
}
