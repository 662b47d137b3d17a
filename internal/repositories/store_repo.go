package repositories

import (
	"context"
	"errors"

	"storedash/internal/models"
)

// ErrStoreNotFound is returned when no store matches the requested ID.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	// ListByOwner returns the stores owned by the given user, used by the
	// store-selection screen.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Store, error)
	GetByID(ctx context.Context, id string) (*models.Store, error)
}
