package services

import (
	"context"
	"fmt"

	"storedash/internal/models"
	"storedash/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CollectionService handles business logic related to a store's collections.
type CollectionService struct {
	repo     repositories.CollectionRepository
	validate *validator.Validate
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(repo repositories.CollectionRepository) *CollectionService {
	return &CollectionService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetCollections retrieves all collections of the given store.
func (s *CollectionService) GetCollections(ctx context.Context, storeID string) ([]models.Collection, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	return s.repo.ListByStore(ctx, storeID)
}

// GetCollectionByID retrieves a single collection scoped to the given store.
func (s *CollectionService) GetCollectionByID(ctx context.Context, storeID, id string) (*models.Collection, error) {
	collection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection.StoreID != storeID {
		return nil, repositories.ErrCollectionNotFound
	}
	return collection, nil
}

// CreateCollection validates and creates a new collection for the given store.
func (s *CollectionService) CreateCollection(ctx context.Context, storeID string, collection *models.Collection) error {
	collection.StoreID = storeID
	if err := s.validate.Struct(collection); err != nil {
		return fmt.Errorf("invalid collection: %w", err)
	}
	return s.repo.Create(ctx, collection)
}

// UpdateCollection validates and updates an existing collection.
func (s *CollectionService) UpdateCollection(ctx context.Context, storeID string, collection *models.Collection) error {
	if _, err := s.GetCollectionByID(ctx, storeID, collection.ID); err != nil {
		return err
	}
	collection.StoreID = storeID
	if err := s.validate.Struct(collection); err != nil {
		return fmt.Errorf("invalid collection: %w", err)
	}
	return s.repo.Update(ctx, collection)
}

// DeleteCollection deletes a collection of the given store.
func (s *CollectionService) DeleteCollection(ctx context.Context, storeID, id string) error {
	if _, err := s.GetCollectionByID(ctx, storeID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
