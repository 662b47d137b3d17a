package repositories

import (
	"context"
	"sync"

	"storedash/internal/models"

	"github.com/google/uuid"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
type MockStoreRepository struct {
	stores map[string]models.Store
	mu     sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	return &MockStoreRepository{
		stores: make(map[string]models.Store),
	}
}

// Seed inserts a store directly, generating an ID when none is provided.
func (r *MockStoreRepository) Seed(store models.Store) models.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	r.stores[store.ID] = store
	return store
}

// ListByOwner returns the stores owned by the given user.
func (r *MockStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make([]models.Store, 0)
	for _, store := range r.stores {
		if store.StoreOwnerID == ownerID {
			stores = append(stores, store)
		}
	}
	return stores, nil
}

// GetByID returns a store by its ID.
func (r *MockStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, ErrStoreNotFound
	}
	return &store, nil
}
