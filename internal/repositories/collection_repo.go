package repositories

import (
	"context"
	"errors"

	"storedash/internal/models"
)

// ErrCollectionNotFound is returned when no collection matches the requested ID.
var ErrCollectionNotFound = errors.New("collection not found")

// CollectionRepository defines the interface for collection data access.
type CollectionRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]models.Collection, error)
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id string) error
}
