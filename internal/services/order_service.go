package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storedash/internal/models"
	"storedash/internal/repositories"
	"storedash/pkg/rabbitmq"

	"go.uber.org/zap"
)

// ErrStoreIDRequired is returned when a query is issued without a store.
var ErrStoreIDRequired = errors.New("storeId is required")

// ErrOrderNotFound is returned when an order is absent or belongs to a
// different store. The two cases are deliberately indistinguishable so that
// an order id cannot be probed across stores.
var ErrOrderNotFound = repositories.ErrOrderNotFound

// DefaultPageSize is the fixed page size of the orders list.
const DefaultPageSize = 10

// DefaultSearchLimit caps how many recent orders one search call scans.
const DefaultSearchLimit = 50

// CountAll is the pseudo-status key for the unfiltered aggregate count.
const CountAll = "all"

// OrderFilter describes the predicates of one page fetch.
type OrderFilter struct {
	Status   models.OrderStatus // empty means all statuses
	Cursor   string             // opaque token from a previous page, empty for page one
	PageSize int                // zero means the service default
}

// OrderPage is one page of results plus the total for the same predicates.
//
// The total comes from a separate count round trip, so it can disagree with
// the page contents when orders change between the two queries. That is an
// accepted eventual-consistency trade-off, not a bug to paper over.
type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// StatusPublisher publishes order status-change events. *rabbitmq.Client
// satisfies it; tests substitute their own.
type StatusPublisher interface {
	PublishStatusEvent(event rabbitmq.StatusEvent) error
}

// OrdersService is the query gateway between the dashboard and the orders
// collection. It translates filter state into repository queries and owns the
// store-scoping rules; presentation state lives with the presenters.
type OrdersService struct {
	repo        repositories.OrderRepository
	publisher   StatusPublisher
	log         *zap.Logger
	pageSize    int
	searchLimit int
}

// NewOrdersService creates a new OrdersService. A nil publisher disables
// event publishing; a nil logger is replaced with a no-op one.
func NewOrdersService(repo repositories.OrderRepository, publisher StatusPublisher, log *zap.Logger) *OrdersService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrdersService{
		repo:        repo,
		publisher:   publisher,
		log:         log,
		pageSize:    DefaultPageSize,
		searchLimit: DefaultSearchLimit,
	}
}

// WithPageSize overrides the fixed page size (configuration hook).
func (s *OrdersService) WithPageSize(size int) *OrdersService {
	if size > 0 {
		s.pageSize = size
	}
	return s
}

// WithSearchLimit overrides the search scan ceiling (configuration hook).
func (s *OrdersService) WithSearchLimit(limit int) *OrdersService {
	if limit > 0 {
		s.searchLimit = limit
	}
	return s
}

// PageSize returns the configured page size.
func (s *OrdersService) PageSize() int { return s.pageSize }

// FetchPage returns one page of the store's orders, newest first, plus the
// total count for the same predicates.
//
// List and count failures are converted to an empty page rather than
// propagated; callers cannot tell "no orders" from "backend down". The
// failure is logged so operators can.
func (s *OrdersService) FetchPage(ctx context.Context, storeID string, filter OrderFilter) (*OrderPage, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = s.pageSize
	}
	orders, nextCursor, err := s.repo.List(ctx, repositories.OrderListQuery{
		StoreID: storeID,
		Status:  filter.Status,
		Limit:   limit,
		Cursor:  filter.Cursor,
	})
	if err != nil {
		s.log.Warn("orders list query failed, returning empty page",
			zap.String("storeId", storeID),
			zap.Error(err))
		return &OrderPage{Orders: []models.Order{}}, nil
	}
	if orders == nil {
		orders = []models.Order{}
	}
	for i := range orders {
		s.fillTimestamps(&orders[i])
	}

	total, err := s.repo.Count(ctx, storeID, filter.Status)
	if err != nil {
		s.log.Warn("orders count query failed, reporting zero",
			zap.String("storeId", storeID),
			zap.Error(err))
		total = 0
	}

	return &OrderPage{
		Orders:     orders,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}

// SearchPage fetches up to the configured ceiling of the store's most recent
// orders and filters them by a case-insensitive substring match against the
// order id, customer name, phone, and short order number.
//
// This scans at most searchLimit records per call and misses anything older.
// A real search index would change the contract; do not swap one in quietly.
func (s *OrdersService) SearchPage(ctx context.Context, storeID, text string, status models.OrderStatus) (*OrderPage, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	orders, _, err := s.repo.List(ctx, repositories.OrderListQuery{
		StoreID: storeID,
		Status:  status,
		Limit:   s.searchLimit,
	})
	if err != nil {
		s.log.Warn("orders search query failed, returning empty page",
			zap.String("storeId", storeID),
			zap.Error(err))
		return &OrderPage{Orders: []models.Order{}}, nil
	}

	needle := strings.ToLower(text)
	matched := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if orderMatches(&order, needle, text) {
			matched = append(matched, order)
		}
	}

	for i := range matched {
		s.fillTimestamps(&matched[i])
	}

	return &OrderPage{
		Orders: matched,
		Total:  int64(len(matched)),
	}, nil
}

// fillTimestamps stamps an order whose createdAt never parsed with the
// current time, once, as it leaves the gateway. Projections downstream stay
// pure because the fallback is recorded on the order itself.
func (s *OrdersService) fillTimestamps(order *models.Order) {
	if order.CreatedAt.IsZero() {
		s.log.Warn("order has no parseable createdAt, using current time",
			zap.String("orderId", order.ID))
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
}

// orderMatches reports whether the order matches the search text. The phone
// field is compared against the raw query since phone numbers are entered
// with their own formatting.
func orderMatches(order *models.Order, needle, raw string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.ID), needle) ||
		strings.Contains(strings.ToLower(order.Name), needle) ||
		(raw != "" && strings.Contains(order.Phone, raw)) ||
		strings.Contains(strings.ToLower(order.OrderNumber()), needle)
}

// FetchOne fetches a single order and verifies it belongs to the given
// store. An ownership mismatch is reported as ErrOrderNotFound.
func (s *OrdersService) FetchOne(ctx context.Context, storeID, orderID string) (*models.Order, error) {
	if storeID == "" || orderID == "" {
		return nil, ErrOrderNotFound
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	if order.StoreID != storeID {
		s.log.Warn("order store mismatch",
			zap.String("orderId", orderID),
			zap.String("requestedStoreId", storeID))
		return nil, ErrOrderNotFound
	}
	s.fillTimestamps(order)
	return order, nil
}

// UpdateStatus writes the new status unconditionally and refreshes
// updatedAt. Transition rules are a display concern; the mutation boundary
// accepts any known status value.
func (s *OrdersService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update status of order %s: %w", orderID, err)
	}

	if s.publisher != nil {
		event := rabbitmq.StatusEvent{
			OrderID:    orderID,
			Status:     string(status),
			OccurredAt: time.Now(),
		}
		if err := s.publisher.PublishStatusEvent(event); err != nil {
			s.log.Warn("failed to publish status event",
				zap.String("orderId", orderID),
				zap.Error(err))
		}
	}
	return nil
}

// CountsByStatus returns one count per known status plus the "all"
// aggregate, used by the list view's status tabs. A failing count falls back
// to zero with a warning, matching the list path's swallow-to-empty policy.
func (s *OrdersService) CountsByStatus(ctx context.Context, storeID string) (map[string]int64, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	counts := make(map[string]int64, len(models.AllStatuses)+1)
	for _, status := range models.AllStatuses {
		count, err := s.repo.Count(ctx, storeID, status)
		if err != nil {
			s.log.Warn("status count query failed, reporting zero",
				zap.String("storeId", storeID),
				zap.String("status", string(status)),
				zap.Error(err))
			count = 0
		}
		counts[string(status)] = count
	}

	total, err := s.repo.Count(ctx, storeID, "")
	if err != nil {
		s.log.Warn("aggregate count query failed, reporting zero",
			zap.String("storeId", storeID),
			zap.Error(err))
		total = 0
	}
	counts[CountAll] = total

	return counts, nil
}
