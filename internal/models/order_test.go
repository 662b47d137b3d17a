package models_test

import (
	"testing"
	"time"

	"storedash/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusNextStatuses(t *testing.T) {
	assert.Equal(t, []models.OrderStatus{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	}, models.StatusPending.NextStatuses())

	assert.Equal(t, []models.OrderStatus{
		models.StatusDelivered,
	}, models.StatusReady.NextStatuses())

	// Terminal states offer nothing further.
	assert.Empty(t, models.StatusDelivered.NextStatuses())
	assert.Empty(t, models.StatusCancelled.NextStatuses())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusPending.Terminal())
	assert.False(t, models.StatusReady.Terminal())
}

func TestOrderStatusOrDefault(t *testing.T) {
	assert.Equal(t, models.StatusReady, models.StatusReady.OrDefault())
	assert.Equal(t, models.StatusPending, models.OrderStatus("shipped").OrDefault())
	assert.Equal(t, models.StatusPending, models.OrderStatus("").OrDefault())
}

func TestOrderNumber(t *testing.T) {
	order := models.Order{ID: "abc12345-6789-xyz"}
	assert.Equal(t, "#ABC12345", order.OrderNumber())

	// Short ids are used whole.
	order.ID = "ab12"
	assert.Equal(t, "#AB12", order.OrderNumber())
}

func TestOrderTotalItems(t *testing.T) {
	order := models.Order{Items: []models.OrderItem{
		{Quantity: 2},
		{Quantity: 1},
		{Quantity: 4},
	}}
	assert.Equal(t, 7, order.TotalItems())
	assert.Equal(t, 0, (&models.Order{}).TotalItems())
}

func TestOrderItemTotals(t *testing.T) {
	item := models.OrderItem{Price: 4.5, Weight: 0.25, Quantity: 3}
	assert.InDelta(t, 13.5, item.TotalPrice(), 1e-9)
	assert.InDelta(t, 0.75, item.TotalWeight(), 1e-9)
}

func TestOrderNormalize(t *testing.T) {
	before := time.Now()
	order := models.Order{
		Status:        "shipped",
		PaymentStatus: "unknown",
		PaymentMethod: "barter",
	}
	order.Normalize()

	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.MethodCash, order.PaymentMethod)
	assert.False(t, order.CreatedAt.Before(before))
	assert.False(t, order.UpdatedAt.Before(before))

	// Known values survive untouched.
	created := time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC)
	order = models.Order{
		Status:        models.StatusReady,
		PaymentStatus: models.PaymentPaid,
		PaymentMethod: models.MethodStripe,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	order.Normalize()
	assert.Equal(t, models.StatusReady, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, created, order.CreatedAt)
}
