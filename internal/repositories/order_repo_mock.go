package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storedash/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// mirrors the document store's ordering and cursor semantics so that service
// and handler tests exercise the same pagination behavior.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex

	// failWith, when set, makes every operation return this error. Tests use
	// it to simulate backend failures.
	failWith error
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Seed inserts an order directly, keeping whatever IDs and timestamps it
// carries. Missing IDs are generated.
func (r *MockOrderRepository) Seed(order models.Order) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	r.orders[order.ID] = order
	return order
}

// FailWith makes every subsequent operation return err; nil restores normal
// behavior.
func (r *MockOrderRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// List returns one page of orders ordered by createdAt descending.
func (r *MockOrderRepository) List(ctx context.Context, q OrderListQuery) ([]models.Order, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, "", r.failWith
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	matched := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if order.StoreID != q.StoreID {
			continue
		}
		if q.Status != "" && order.Status != q.Status {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if q.Cursor != "" {
		createdAt, lastID, err := DecodeCursor(q.Cursor)
		if err != nil {
			return nil, "", err
		}
		filtered := matched[:0]
		for _, order := range matched {
			if order.CreatedAt.Before(createdAt) ||
				(order.CreatedAt.Equal(createdAt) && order.ID < lastID) {
				filtered = append(filtered, order)
			}
		}
		matched = filtered
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	nextCursor := ""
	if q.Limit > 0 && len(matched) == q.Limit {
		nextCursor = EncodeCursor(matched[len(matched)-1])
	}
	return matched, nextCursor, nil
}

// Count returns the number of orders matching the predicates.
func (r *MockOrderRepository) Count(ctx context.Context, storeID string, status models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return 0, r.failWith
	}

	var count int64
	for _, order := range r.orders {
		if order.StoreID != storeID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		count++
	}
	return count, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// UpdateStatus updates the status of an order and refreshes updatedAt,
// keeping updatedAt strictly increasing.
func (r *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	now := time.Now()
	if !now.After(order.UpdatedAt) {
		now = order.UpdatedAt.Add(time.Nanosecond)
	}
	order.Status = status
	order.UpdatedAt = now
	r.orders[id] = order
	return nil
}
