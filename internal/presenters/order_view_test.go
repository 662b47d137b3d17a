package presenters_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storedash/internal/models"
	"storedash/internal/presenters"
	"storedash/internal/repositories"
	"storedash/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatusTimeline(t *testing.T) {
	updated := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	order := &models.Order{Status: models.StatusPreparing, UpdatedAt: updated}

	steps := presenters.BuildStatusTimeline(order)
	require.Len(t, steps, 5)

	assert.Equal(t, "Order Placed", steps[0].Label)
	assert.True(t, steps[0].IsCompleted)
	assert.True(t, steps[1].IsCompleted)
	assert.True(t, steps[2].IsCurrent)
	assert.False(t, steps[2].IsCompleted)
	assert.False(t, steps[3].IsCompleted)
	assert.False(t, steps[3].IsCurrent)
	assert.False(t, steps[4].IsCurrent)

	// Dates accompany the reached steps only.
	require.NotNil(t, steps[2].Date)
	assert.Equal(t, updated, *steps[2].Date)
	assert.Nil(t, steps[4].Date)

	// Delivered completes everything before it.
	order.Status = models.StatusDelivered
	steps = presenters.BuildStatusTimeline(order)
	assert.True(t, steps[4].IsCurrent)
	for _, step := range steps[:4] {
		assert.True(t, step.IsCompleted)
	}
}

func TestBuildStatusTimelineCancelled(t *testing.T) {
	order := &models.Order{Status: models.StatusCancelled}

	// Cancelled sits outside the forward flow, so no step is reached.
	for _, step := range presenters.BuildStatusTimeline(order) {
		assert.False(t, step.IsCompleted)
		assert.False(t, step.IsCurrent)
		assert.Nil(t, step.Date)
	}
}

func TestViewPresenterLoad(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := repo.Seed(models.Order{
		StoreID: "store-1",
		Name:    "Alice",
		Status:  models.StatusConfirmed,
	})
	gateway := services.NewOrdersService(repo, nil, nil)

	p := presenters.NewOrderViewPresenter(gateway, nil)
	defer p.Close()
	p.Load("store-1", order.ID)

	assert.Eventually(t, func() bool {
		return p.Snapshot().State == presenters.ViewLoaded
	}, waitFor, tick)

	snap := p.Snapshot()
	require.NotNil(t, snap.Order)
	assert.Equal(t, order.ID, snap.Order.ID)
	require.Len(t, snap.Timeline, 5)
	assert.True(t, snap.Timeline[1].IsCurrent)
	assert.Equal(t, []models.OrderStatus{
		models.StatusPreparing, models.StatusReady, models.StatusDelivered,
	}, snap.Next)
}

func TestViewPresenterLoadWrongStore(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := repo.Seed(models.Order{StoreID: "store-2", Status: models.StatusPending})
	gateway := services.NewOrdersService(repo, nil, nil)

	p := presenters.NewOrderViewPresenter(gateway, nil)
	defer p.Close()
	p.Load("store-1", order.ID)

	assert.Eventually(t, func() bool {
		return p.Snapshot().State == presenters.ViewError
	}, waitFor, tick)
	snap := p.Snapshot()
	assert.Nil(t, snap.Order)
	assert.NotEmpty(t, snap.Error)
}

func TestViewPresenterChangeStatus(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := repo.Seed(models.Order{StoreID: "store-1", Status: models.StatusConfirmed})
	gateway := services.NewOrdersService(repo, nil, nil)

	p := presenters.NewOrderViewPresenter(gateway, nil)
	defer p.Close()
	p.Load("store-1", order.ID)
	assert.Eventually(t, func() bool {
		return p.Snapshot().State == presenters.ViewLoaded
	}, waitFor, tick)

	err := p.ChangeStatus(context.Background(), models.StatusPreparing)
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Equal(t, models.StatusPreparing, snap.Order.Status)
	assert.True(t, snap.Timeline[2].IsCurrent)

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, stored.Status)
}

func TestViewPresenterChangeStatusFailureKeepsOrder(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := repo.Seed(models.Order{StoreID: "store-1", Status: models.StatusConfirmed})
	gateway := services.NewOrdersService(repo, nil, nil)

	p := presenters.NewOrderViewPresenter(gateway, nil)
	defer p.Close()
	p.Load("store-1", order.ID)
	assert.Eventually(t, func() bool {
		return p.Snapshot().State == presenters.ViewLoaded
	}, waitFor, tick)

	repo.FailWith(errors.New("write refused"))
	err := p.ChangeStatus(context.Background(), models.StatusPreparing)
	require.Error(t, err)

	// The displayed order never flipped; there was nothing to roll back.
	snap := p.Snapshot()
	assert.Equal(t, models.StatusConfirmed, snap.Order.Status)
	assert.True(t, snap.Timeline[1].IsCurrent)
	assert.NotEmpty(t, snap.Error)
}

func TestViewPresenterCancelOrder(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := repo.Seed(models.Order{StoreID: "store-1", Status: models.StatusReady})
	gateway := services.NewOrdersService(repo, nil, nil)

	p := presenters.NewOrderViewPresenter(gateway, nil)
	defer p.Close()
	p.Load("store-1", order.ID)
	assert.Eventually(t, func() bool {
		return p.Snapshot().State == presenters.ViewLoaded
	}, waitFor, tick)

	// A missing confirmation callback counts as a decline; the order is
	// only ever cancelled on an explicit yes.
	require.NoError(t, p.CancelOrder(context.Background(), nil))
	assert.Equal(t, models.StatusReady, p.Snapshot().Order.Status)

	// A declined confirmation changes nothing.
	require.NoError(t, p.CancelOrder(context.Background(), func() bool { return false }))
	assert.Equal(t, models.StatusReady, p.Snapshot().Order.Status)

	require.NoError(t, p.CancelOrder(context.Background(), func() bool { return true }))

	// The view reloads the stored record rather than patching locally.
	assert.Eventually(t, func() bool {
		snap := p.Snapshot()
		return snap.State == presenters.ViewLoaded &&
			snap.Order != nil && snap.Order.Status == models.StatusCancelled
	}, waitFor, tick)

	snap := p.Snapshot()
	for _, step := range snap.Timeline {
		assert.False(t, step.IsCurrent)
	}
	assert.Empty(t, snap.Next)
}
