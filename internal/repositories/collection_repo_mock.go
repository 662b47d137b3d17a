package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storedash/internal/models"

	"github.com/google/uuid"
)

// MockCollectionRepository is an in-memory implementation of CollectionRepository.
type MockCollectionRepository struct {
	collections map[string]models.Collection
	mu          sync.RWMutex
}

// NewMockCollectionRepository creates a new instance of MockCollectionRepository.
func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{
		collections: make(map[string]models.Collection),
	}
}

// ListByStore returns all collections of the given store, newest first.
func (r *MockCollectionRepository) ListByStore(ctx context.Context, storeID string) ([]models.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collections := make([]models.Collection, 0)
	for _, c := range r.collections {
		if c.StoreID == storeID {
			collections = append(collections, c)
		}
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt.After(collections[j].CreatedAt)
	})
	return collections, nil
}

// GetByID returns a collection by its ID.
func (r *MockCollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection, ok := r.collections[id]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return &collection, nil
}

// Create adds a new collection.
func (r *MockCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if collection.ID == "" {
		collection.ID = uuid.New().String()
	}
	collection.CreatedAt = time.Now()
	r.collections[collection.ID] = *collection
	return nil
}

// Update modifies an existing collection.
func (r *MockCollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection.ID]; !ok {
		return ErrCollectionNotFound
	}
	r.collections[collection.ID] = *collection
	return nil
}

// Delete removes a collection by its ID.
func (r *MockCollectionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[id]; !ok {
		return ErrCollectionNotFound
	}
	delete(r.collections, id)
	return nil
}
