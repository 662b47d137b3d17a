package presenters

import (
	"context"
	"sync"
	"time"

	"storedash/internal/models"
	"storedash/internal/services"

	"go.uber.org/zap"
)

// ViewState is the lifecycle of the order detail view.
type ViewState string

const (
	ViewIdle    ViewState = "idle"
	ViewLoading ViewState = "loading"
	ViewLoaded  ViewState = "loaded"
	ViewError   ViewState = "error"
)

// StatusStep is one entry of the order's progress timeline.
type StatusStep struct {
	Status      models.OrderStatus `json:"status"`
	Label       string             `json:"label"`
	IsCompleted bool               `json:"isCompleted"`
	IsCurrent   bool               `json:"isCurrent"`
	Date        *time.Time         `json:"date,omitempty"`
}

var stepLabels = map[models.OrderStatus]string{
	models.StatusPending:   "Order Placed",
	models.StatusConfirmed: "Confirmed",
	models.StatusPreparing: "Preparing",
	models.StatusReady:     "Ready",
	models.StatusDelivered: "Delivered",
}

// BuildStatusTimeline maps an order's status onto the five forward steps.
// A cancelled order matches none of them, so every step renders as upcoming
// and the cancellation is shown out of band by the view.
func BuildStatusTimeline(order *models.Order) []StatusStep {
	current := -1
	for i, s := range models.StatusFlow {
		if s == order.Status {
			current = i
			break
		}
	}

	steps := make([]StatusStep, 0, len(models.StatusFlow))
	for i, s := range models.StatusFlow {
		step := StatusStep{
			Status:      s,
			Label:       stepLabels[s],
			IsCompleted: current >= 0 && i < current,
			IsCurrent:   i == current,
		}
		if step.IsCompleted || step.IsCurrent {
			at := order.UpdatedAt
			step.Date = &at
		}
		steps = append(steps, step)
	}
	return steps
}

// ViewSnapshot is an immutable view of the detail presenter's state.
type ViewSnapshot struct {
	State    ViewState
	Order    *models.Order
	Timeline []StatusStep
	Next     []models.OrderStatus
	Error    string
	Updating bool
}

// OrderViewPresenter owns the state of a single order's detail view: loading
// it, rendering its timeline, and applying status changes. Like the list
// presenter, a newer load always wins over an older in-flight one.
type OrderViewPresenter struct {
	gateway *services.OrdersService
	log     *zap.Logger

	mu       sync.Mutex
	state    ViewState
	order    *models.Order
	timeline []StatusStep
	errMsg   string
	updating bool

	storeID string
	orderID string

	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewOrderViewPresenter creates a presenter in the idle state.
func NewOrderViewPresenter(gateway *services.OrdersService, log *zap.Logger) *OrderViewPresenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderViewPresenter{gateway: gateway, log: log, state: ViewIdle}
}

// Load fetches the order, cancelling any fetch still in flight.
func (p *OrderViewPresenter) Load(storeID, orderID string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.storeID = storeID
	p.orderID = orderID
	p.mu.Unlock()

	p.startLoad()
}

// Snapshot returns a copy of the current view state.
func (p *OrderViewPresenter) Snapshot() ViewSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := ViewSnapshot{
		State:    p.state,
		Error:    p.errMsg,
		Updating: p.updating,
	}
	if p.order != nil {
		order := *p.order
		snap.Order = &order
		snap.Next = order.Status.NextStatuses()
	}
	snap.Timeline = make([]StatusStep, len(p.timeline))
	copy(snap.Timeline, p.timeline)
	return snap
}

// ChangeStatus writes the new status and, only once the write succeeds,
// updates the local order. A failed write leaves the view exactly as it was;
// there is no optimistic flip to roll back.
func (p *OrderViewPresenter) ChangeStatus(ctx context.Context, status models.OrderStatus) error {
	p.mu.Lock()
	if p.order == nil || p.updating {
		p.mu.Unlock()
		return nil
	}
	orderID := p.orderID
	p.updating = true
	p.mu.Unlock()

	err := p.gateway.UpdateStatus(ctx, orderID, status)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.updating = false
	if err != nil {
		p.errMsg = "Failed to update order status. Please try again."
		p.log.Warn("status change failed",
			zap.String("orderId", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		return err
	}
	if p.order != nil {
		p.order.Status = status
		p.order.UpdatedAt = time.Now()
		p.timeline = BuildStatusTimeline(p.order)
	}
	p.errMsg = ""
	return nil
}

// CancelOrder asks for confirmation, writes the cancelled status, and then
// reloads the whole order so the view reflects the stored record rather than
// a locally patched one. A nil confirm callback counts as a declined
// confirmation; the write never happens without an explicit yes.
func (p *OrderViewPresenter) CancelOrder(ctx context.Context, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	p.mu.Lock()
	if p.order == nil {
		p.mu.Unlock()
		return nil
	}
	orderID := p.orderID
	p.mu.Unlock()

	if err := p.gateway.UpdateStatus(ctx, orderID, models.StatusCancelled); err != nil {
		p.mu.Lock()
		p.errMsg = "Failed to cancel order. Please try again."
		p.mu.Unlock()
		p.log.Warn("order cancel failed", zap.String("orderId", orderID), zap.Error(err))
		return err
	}

	p.startLoad()
	return nil
}

// Close cancels any in-flight load; late results are discarded.
func (p *OrderViewPresenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *OrderViewPresenter) startLoad() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	gen := p.generation
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = ViewLoading
	p.errMsg = ""
	storeID := p.storeID
	orderID := p.orderID
	p.mu.Unlock()

	go func() {
		defer cancel()
		order, err := p.gateway.FetchOne(ctx, storeID, orderID)
		p.applyLoad(gen, order, err)
	}()
}

func (p *OrderViewPresenter) applyLoad(gen uint64, order *models.Order, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.closed {
		return
	}

	if err != nil {
		p.state = ViewError
		p.order = nil
		p.timeline = nil
		p.errMsg = "Order not found."
		p.log.Warn("order load failed",
			zap.String("orderId", p.orderID),
			zap.Error(err))
		return
	}

	order.Normalize()
	p.state = ViewLoaded
	p.order = order
	p.timeline = BuildStatusTimeline(order)
}
