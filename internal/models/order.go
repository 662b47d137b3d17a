package models

import (
	"strings"
	"time"
)

// OrderStatus is the fulfillment state of an order. The flow moves forward
// through pending -> confirmed -> preparing -> ready -> delivered; cancelled
// is a side-exit reachable from any non-terminal state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// StatusFlow is the forward-moving fulfillment sequence, excluding cancelled.
var StatusFlow = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
}

// AllStatuses lists every known status, used for per-status count queries.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// NextStatuses returns the statuses that come after s in the forward flow.
// This drives the status selector in the dashboard; the update operation
// itself does not enforce it.
func (s OrderStatus) NextStatuses() []OrderStatus {
	for i, step := range StatusFlow {
		if step == s {
			next := make([]OrderStatus, len(StatusFlow)-i-1)
			copy(next, StatusFlow[i+1:])
			return next
		}
	}
	return nil
}

// OrDefault returns s if it is a known status, otherwise pending.
func (s OrderStatus) OrDefault() OrderStatus {
	if s.Valid() {
		return s
	}
	return StatusPending
}

// PaymentStatus is the payment axis of an order, independent of OrderStatus.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// OrDefault returns p if it is a known payment status, otherwise pending.
func (p PaymentStatus) OrDefault() PaymentStatus {
	if p.Valid() {
		return p
	}
	return PaymentPending
}

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	MethodStripe      PaymentMethod = "stripe"
	MethodCash        PaymentMethod = "cash"
	MethodCard        PaymentMethod = "card"
	MethodMobileMoney PaymentMethod = "mobile_money"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodStripe, MethodCash, MethodCard, MethodMobileMoney:
		return true
	}
	return false
}

// OrDefault returns m if it is a known payment method, otherwise cash.
func (m PaymentMethod) OrDefault() PaymentMethod {
	if m.Valid() {
		return m
	}
	return MethodCash
}

// OrderItem is one line item of an order, snapshotted at checkout time.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"` // unit price at the time of order
	Weight    float64 `json:"weight" bson:"weight"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// TotalPrice is the line total (unit price times quantity).
func (i OrderItem) TotalPrice() float64 {
	return i.Price * float64(i.Quantity)
}

// TotalWeight is the line weight (unit weight times quantity).
func (i OrderItem) TotalWeight() float64 {
	return i.Weight * float64(i.Quantity)
}

// Address is a delivery address snapshot on an order.
type Address struct {
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// Order is one purchase transaction tied to exactly one store and one
// purchaser. Orders are created by an external checkout process; the
// dashboard only reads them and transitions their status.
type Order struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	StoreID       string        `json:"storeId" bson:"storeId"`
	UserID        string        `json:"userId" bson:"userId"`
	Items         []OrderItem   `json:"items" bson:"items"`
	Subtotal      float64       `json:"subtotal" bson:"subtotal"`
	DeliveryFee   float64       `json:"deliveryFee" bson:"deliveryFee"`
	Total         float64       `json:"total" bson:"total"`
	TotalWeight   float64       `json:"totalWeight" bson:"totalWeight"`
	Status        OrderStatus   `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod" bson:"paymentMethod"`
	Name          string        `json:"name" bson:"name"`
	Phone         string        `json:"phone" bson:"phone"`
	Address       Address       `json:"address" bson:"address"`
	OrderNote     string        `json:"orderNote,omitempty" bson:"orderNote,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// OrderNumber is the short display form of the order id: its first eight
// characters uppercased, prefixed with '#'.
func (o *Order) OrderNumber() string {
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "#" + strings.ToUpper(id)
}

// TotalItems sums the quantities across all line items.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Normalize fills every optional field with a safe default so consumers never
// observe missing data: a nil items slice becomes empty, zero timestamps fall
// back to now, and enum fields outside their known values are coerced.
func (o *Order) Normalize() {
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	o.Status = o.Status.OrDefault()
	o.PaymentStatus = o.PaymentStatus.OrDefault()
	o.PaymentMethod = o.PaymentMethod.OrDefault()
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
}
