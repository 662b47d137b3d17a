package services

import (
	"context"
	"errors"

	"storedash/internal/models"
	"storedash/internal/repositories"
)

// ErrStoreAccessDenied is returned when a user tries to act on a store they
// do not own.
var ErrStoreAccessDenied = errors.New("store does not belong to this user")

// StoreService handles store selection and ownership checks.
type StoreService struct {
	repo repositories.StoreRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(repo repositories.StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

// GetUserStores returns the stores the given user owns, for the
// store-selection screen.
func (s *StoreService) GetUserStores(ctx context.Context, userID string) ([]models.Store, error) {
	if userID == "" {
		return []models.Store{}, nil
	}
	return s.repo.ListByOwner(ctx, userID)
}

// GetStoreByID retrieves a single store.
func (s *StoreService) GetStoreByID(ctx context.Context, storeID string) (*models.Store, error) {
	if storeID == "" {
		return nil, repositories.ErrStoreNotFound
	}
	return s.repo.GetByID(ctx, storeID)
}

// AuthorizeStoreAccess verifies the user owns the store before any
// store-scoped operation is served.
func (s *StoreService) AuthorizeStoreAccess(ctx context.Context, userID, storeID string) (*models.Store, error) {
	store, err := s.GetStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !store.OwnedBy(userID) {
		return nil, ErrStoreAccessDenied
	}
	return store, nil
}
