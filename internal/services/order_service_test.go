package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storedash/internal/models"
	"storedash/internal/repositories"
	"storedash/internal/services"
	"storedash/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, q repositories.OrderListQuery) ([]models.Order, string, error) {
	args := m.Called(ctx, q)
	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}
	return orders, args.String(1), args.Error(2)
}

func (m *MockOrderRepository) Count(ctx context.Context, storeID string, status models.OrderStatus) (int64, error) {
	args := m.Called(ctx, storeID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockStatusPublisher is a mock implementation of services.StatusPublisher
type MockStatusPublisher struct {
	mock.Mock
}

func (m *MockStatusPublisher) PublishStatusEvent(event rabbitmq.StatusEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func sampleOrders(storeID string, n int) []models.Order {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, models.Order{
			ID:        string(rune('a'+i)) + "-order",
			StoreID:   storeID,
			Status:    models.StatusPending,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return orders
}

func TestOrdersService_FetchPage(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	orders := sampleOrders("store-1", 3)
	mockRepo.On("List", mock.Anything, repositories.OrderListQuery{
		StoreID: "store-1",
		Status:  models.StatusPending,
		Limit:   10,
	}).Return(orders, "next-token", nil).Once()
	mockRepo.On("Count", mock.Anything, "store-1", models.StatusPending).
		Return(int64(23), nil).Once()

	page, err := service.FetchPage(context.Background(), "store-1", services.OrderFilter{
		Status: models.StatusPending,
	})

	assert.NoError(t, err)
	assert.Equal(t, orders, page.Orders)
	assert.EqualValues(t, 23, page.Total)
	assert.Equal(t, "next-token", page.NextCursor)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_FetchPageStampsMissingCreatedAt(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	// A record whose createdAt never parsed leaves the repository with a
	// zero time. The gateway stamps it once on the way out so every later
	// projection of the order sees the same date.
	mockRepo.On("List", mock.Anything, mock.Anything).
		Return([]models.Order{{ID: "o-1", StoreID: "store-1"}}, "", nil).Once()
	mockRepo.On("Count", mock.Anything, "store-1", models.OrderStatus("")).
		Return(int64(1), nil).Once()

	before := time.Now()
	page, err := service.FetchPage(context.Background(), "store-1", services.OrderFilter{})

	assert.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.False(t, page.Orders[0].CreatedAt.IsZero())
	assert.False(t, page.Orders[0].CreatedAt.Before(before))
	assert.Equal(t, page.Orders[0].CreatedAt, page.Orders[0].UpdatedAt)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_FetchPageRequiresStore(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	page, err := service.FetchPage(context.Background(), "", services.OrderFilter{})

	assert.ErrorIs(t, err, services.ErrStoreIDRequired)
	assert.Nil(t, page)
	mockRepo.AssertNotCalled(t, "List")
}

func TestOrdersService_FetchPageSwallowsBackendFailure(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	mockRepo.On("List", mock.Anything, mock.Anything).
		Return(nil, "", errors.New("connection refused")).Once()

	page, err := service.FetchPage(context.Background(), "store-1", services.OrderFilter{})

	// A backend failure renders as an empty list, never as an error.
	assert.NoError(t, err)
	assert.Empty(t, page.Orders)
	assert.EqualValues(t, 0, page.Total)
	assert.Empty(t, page.NextCursor)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_FetchPageCountFailureReportsZero(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	orders := sampleOrders("store-1", 2)
	mockRepo.On("List", mock.Anything, mock.Anything).Return(orders, "", nil).Once()
	mockRepo.On("Count", mock.Anything, "store-1", models.OrderStatus("")).
		Return(int64(0), errors.New("count timed out")).Once()

	page, err := service.FetchPage(context.Background(), "store-1", services.OrderFilter{})

	assert.NoError(t, err)
	assert.Equal(t, orders, page.Orders)
	assert.EqualValues(t, 0, page.Total)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_SearchPage(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	recent := []models.Order{
		{ID: "abc12345-1", StoreID: "store-1", Name: "Alice Smith", Phone: "+1 555-0100"},
		{ID: "def67890-2", StoreID: "store-1", Name: "Bob Jones", Phone: "+1 555-0101"},
		{ID: "ghi13579-3", StoreID: "store-1", Name: "Carol White", Phone: "+44 20 7946"},
	}
	mockRepo.On("List", mock.Anything, repositories.OrderListQuery{
		StoreID: "store-1",
		Limit:   50,
	}).Return(recent, "ignored", nil).Times(4)

	// Case-insensitive name match.
	page, err := service.SearchPage(context.Background(), "store-1", "alice", "")
	assert.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, "Alice Smith", page.Orders[0].Name)

	// Short order number match, including the '#' prefix.
	page, err = service.SearchPage(context.Background(), "store-1", "#DEF67890", "")
	assert.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, "def67890-2", page.Orders[0].ID)

	// Phone match against the raw query text.
	page, err = service.SearchPage(context.Background(), "store-1", "555-0101", "")
	assert.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, "Bob Jones", page.Orders[0].Name)

	// No match.
	page, err = service.SearchPage(context.Background(), "store-1", "zzz", "")
	assert.NoError(t, err)
	assert.Empty(t, page.Orders)

	// Search never returns a pagination cursor.
	assert.Empty(t, page.NextCursor)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_FetchOneStoreMismatch(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	order := &models.Order{ID: "o-1", StoreID: "store-2"}
	mockRepo.On("GetByID", mock.Anything, "o-1").Return(order, nil).Once()

	got, err := service.FetchOne(context.Background(), "store-1", "o-1")

	// An order belonging to another store must look exactly like a missing one.
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_FetchOne(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	order := &models.Order{ID: "o-1", StoreID: "store-1", Status: models.StatusReady}
	mockRepo.On("GetByID", mock.Anything, "o-1").Return(order, nil).Once()

	got, err := service.FetchOne(context.Background(), "store-1", "o-1")
	assert.NoError(t, err)
	assert.Equal(t, order, got)

	mockRepo.On("GetByID", mock.Anything, "missing").
		Return(nil, repositories.ErrOrderNotFound).Once()
	got, err = service.FetchOne(context.Background(), "store-1", "missing")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_UpdateStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	publisher := new(MockStatusPublisher)
	service := services.NewOrdersService(mockRepo, publisher, nil)

	mockRepo.On("UpdateStatus", mock.Anything, "o-1", models.StatusConfirmed).
		Return(nil).Once()
	publisher.On("PublishStatusEvent", mock.MatchedBy(func(e rabbitmq.StatusEvent) bool {
		return e.OrderID == "o-1" && e.Status == "confirmed"
	})).Return(nil).Once()

	err := service.UpdateStatus(context.Background(), "o-1", models.StatusConfirmed)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrdersService_UpdateStatusRejectsUnknownValue(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	err := service.UpdateStatus(context.Background(), "o-1", "shipped")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
	mockRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestOrdersService_UpdateStatusPublishFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	publisher := new(MockStatusPublisher)
	service := services.NewOrdersService(mockRepo, publisher, nil)

	mockRepo.On("UpdateStatus", mock.Anything, "o-1", models.StatusCancelled).
		Return(nil).Once()
	publisher.On("PublishStatusEvent", mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	// The status write already happened; a broken broker must not fail it.
	err := service.UpdateStatus(context.Background(), "o-1", models.StatusCancelled)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrdersService_CountsByStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	perStatus := map[models.OrderStatus]int64{
		models.StatusPending:   4,
		models.StatusConfirmed: 2,
		models.StatusPreparing: 1,
		models.StatusReady:     0,
		models.StatusDelivered: 9,
		models.StatusCancelled: 3,
	}
	var total int64
	for status, n := range perStatus {
		mockRepo.On("Count", mock.Anything, "store-1", status).Return(n, nil).Once()
		total += n
	}
	mockRepo.On("Count", mock.Anything, "store-1", models.OrderStatus("")).
		Return(total, nil).Once()

	counts, err := service.CountsByStatus(context.Background(), "store-1")

	assert.NoError(t, err)
	assert.Len(t, counts, 7)
	assert.EqualValues(t, 4, counts["pending"])
	assert.EqualValues(t, 9, counts["delivered"])
	assert.EqualValues(t, total, counts["all"])

	// The per-status buckets partition the aggregate.
	var sum int64
	for _, status := range models.AllStatuses {
		sum += counts[string(status)]
	}
	assert.Equal(t, counts["all"], sum)
	mockRepo.AssertExpectations(t)
}

func TestOrdersService_CountsByStatusFailuresFallBackToZero(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrdersService(mockRepo, nil, nil)

	mockRepo.On("Count", mock.Anything, "store-1", models.StatusPending).
		Return(int64(0), errors.New("timeout")).Once()
	for _, status := range models.AllStatuses[1:] {
		mockRepo.On("Count", mock.Anything, "store-1", status).Return(int64(1), nil).Once()
	}
	mockRepo.On("Count", mock.Anything, "store-1", models.OrderStatus("")).
		Return(int64(5), nil).Once()

	counts, err := service.CountsByStatus(context.Background(), "store-1")

	assert.NoError(t, err)
	assert.EqualValues(t, 0, counts["pending"])
	assert.EqualValues(t, 5, counts["all"])
	mockRepo.AssertExpectations(t)
}
