package repositories

import (
	"context"
	"errors"

	"storedash/internal/models"
)

// ErrOrderNotFound is returned when no order matches the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// OrderListQuery describes one page request against the orders collection.
// Predicates are exact-match only: storeId always, status when set.
type OrderListQuery struct {
	StoreID string
	Status  models.OrderStatus // empty means no status predicate
	Limit   int
	Cursor  string // opaque pagination token, empty for the first page
}

// OrderRepository defines the interface for order data access. The dashboard
// never creates or deletes orders; checkout lives in another system.
type OrderRepository interface {
	// List returns one page of orders ordered by createdAt descending, plus
	// the cursor for the next page (empty when the page was not full).
	List(ctx context.Context, q OrderListQuery) ([]models.Order, string, error)
	// Count returns the number of orders matching the same predicate set as
	// List, independent of any pagination window.
	Count(ctx context.Context, storeID string, status models.OrderStatus) (int64, error)
	// GetByID fetches a single order. Store scoping is the caller's concern.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// UpdateStatus writes the status and refreshes updatedAt. It accepts any
	// status value; transition rules live with the caller.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}
