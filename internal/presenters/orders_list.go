package presenters

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"storedash/internal/models"
	"storedash/internal/services"

	"go.uber.org/zap"
)

// ListState is the lifecycle of the orders list view.
type ListState string

const (
	ListIdle    ListState = "idle"
	ListLoading ListState = "loading"
	ListLoaded  ListState = "loaded"
	ListError   ListState = "error"
)

// DefaultDebounce is how long filter and search changes are coalesced before
// a fetch is issued.
const DefaultDebounce = 300 * time.Millisecond

// OrderRow is one display-ready row of the orders table.
type OrderRow struct {
	ID             string             `json:"id"`
	OrderNumber    string             `json:"orderNumber"`
	CustomerName   string             `json:"customerName"`
	Total          float64            `json:"total"`
	FormattedTotal string             `json:"formattedTotal"`
	Status         models.OrderStatus `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	TotalItems     int                `json:"totalItems"`
}

// ProjectOrderRow converts an order into its display row. The projection is
// pure: the same order always yields the same row. Records with an
// unparseable createdAt are stamped once at the gateway, not here.
func ProjectOrderRow(order models.Order) OrderRow {
	name := order.Name
	if name == "" {
		name = "Guest"
	}

	return OrderRow{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber(),
		CustomerName:   name,
		Total:          order.Total,
		FormattedTotal: FormatCurrency(order.Total),
		Status:         order.Status.OrDefault(),
		CreatedAt:      order.CreatedAt,
		TotalItems:     order.TotalItems(),
	}
}

// FormatCurrency renders an amount as en-US USD, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), cents)
}

// ListSnapshot is an immutable view of the presenter's current state.
type ListSnapshot struct {
	State      ListState
	Rows       []OrderRow
	Total      int64
	Error      string
	Counts     map[string]int64
	HasNext    bool
	HasPrev    bool
	StoreID    string
	Status     models.OrderStatus
	SearchText string
}

// OrdersListPresenter owns the pagination and filter state of the orders
// table. Every new fetch cancels the one before it, and a result is applied
// only if no newer fetch has started since. "Last request wins" is enforced
// by explicit cancellation plus a generation check, never by arrival order.
type OrdersListPresenter struct {
	gateway *services.OrdersService
	log     *zap.Logger

	mu         sync.Mutex
	state      ListState
	rows       []OrderRow
	total      int64
	errMsg     string
	counts     map[string]int64
	storeID    string
	status     models.OrderStatus
	searchText string
	cursor     string
	nextCursor string
	prevStack  []string
	pageSize   int

	debounce      time.Duration
	debounceTimer *time.Timer

	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewOrdersListPresenter creates a presenter in the idle state. Nothing is
// fetched until a store is selected.
func NewOrdersListPresenter(gateway *services.OrdersService, log *zap.Logger) *OrdersListPresenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrdersListPresenter{
		gateway:  gateway,
		log:      log,
		state:    ListIdle,
		counts:   map[string]int64{},
		debounce: DefaultDebounce,
	}
}

// WithDebounce overrides the debounce interval; tests use short values.
func (p *OrdersListPresenter) WithDebounce(d time.Duration) *OrdersListPresenter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.debounce = d
	return p
}

// SetStore selects the store whose orders are shown. Filters and pagination
// reset and the first page loads immediately.
func (p *OrdersListPresenter) SetStore(storeID string) {
	p.mu.Lock()
	p.storeID = storeID
	p.status = ""
	p.searchText = ""
	p.resetPagingLocked()
	p.mu.Unlock()

	p.startFetch()
	p.startCountsRefresh()
}

// SetStatusFilter changes the status tab. The fetch is debounced and the
// cursor resets to the first page.
func (p *OrdersListPresenter) SetStatusFilter(status models.OrderStatus) {
	p.mu.Lock()
	p.status = status
	p.resetPagingLocked()
	p.scheduleDebouncedLocked()
	p.mu.Unlock()
}

// SetSearch changes the search text. The fetch is debounced and the cursor
// resets to the first page.
func (p *OrdersListPresenter) SetSearch(text string) {
	p.mu.Lock()
	p.searchText = text
	p.resetPagingLocked()
	p.scheduleDebouncedLocked()
	p.mu.Unlock()
}

// SetPageSize changes how many rows one page holds and resets to the first
// page.
func (p *OrdersListPresenter) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.mu.Lock()
	p.pageSize = size
	p.resetPagingLocked()
	p.mu.Unlock()

	p.startFetch()
}

// NextPage advances to the next page when one exists.
func (p *OrdersListPresenter) NextPage() {
	p.mu.Lock()
	if p.nextCursor == "" {
		p.mu.Unlock()
		return
	}
	p.prevStack = append(p.prevStack, p.cursor)
	p.cursor = p.nextCursor
	p.mu.Unlock()

	p.startFetch()
}

// PrevPage returns to the previous page when one exists.
func (p *OrdersListPresenter) PrevPage() {
	p.mu.Lock()
	if len(p.prevStack) == 0 {
		p.mu.Unlock()
		return
	}
	p.cursor = p.prevStack[len(p.prevStack)-1]
	p.prevStack = p.prevStack[:len(p.prevStack)-1]
	p.mu.Unlock()

	p.startFetch()
}

// Refresh reloads the current page and the tab counts.
func (p *OrdersListPresenter) Refresh() {
	p.startFetch()
	p.startCountsRefresh()
}

// Snapshot returns a copy of the current view state.
func (p *OrdersListPresenter) Snapshot() ListSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := make([]OrderRow, len(p.rows))
	copy(rows, p.rows)
	counts := make(map[string]int64, len(p.counts))
	for k, v := range p.counts {
		counts[k] = v
	}
	return ListSnapshot{
		State:      p.state,
		Rows:       rows,
		Total:      p.total,
		Error:      p.errMsg,
		Counts:     counts,
		HasNext:    p.nextCursor != "",
		HasPrev:    len(p.prevStack) > 0,
		StoreID:    p.storeID,
		Status:     p.status,
		SearchText: p.searchText,
	}
}

// Close cancels any in-flight fetch and pending debounce. The presenter must
// not be used afterwards; results arriving late are discarded.
func (p *OrdersListPresenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.generation++
	if p.debounceTimer != nil {
		p.debounceTimer.Stop()
		p.debounceTimer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *OrdersListPresenter) resetPagingLocked() {
	p.cursor = ""
	p.nextCursor = ""
	p.prevStack = nil
}

func (p *OrdersListPresenter) scheduleDebouncedLocked() {
	if p.debounceTimer != nil {
		p.debounceTimer.Stop()
	}
	p.debounceTimer = time.AfterFunc(p.debounce, func() {
		p.startFetch()
		p.startCountsRefresh()
	})
}

// startFetch begins a new page fetch. The previous in-flight fetch is
// cancelled first so a slow earlier response can never overwrite a newer one.
func (p *OrdersListPresenter) startFetch() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.storeID == "" {
		p.state = ListError
		p.errMsg = "store is not selected"
		p.rows = nil
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
	p.state = ListLoading
	p.errMsg = ""

	storeID := p.storeID
	status := p.status
	search := p.searchText
	cursor := p.cursor
	pageSize := p.pageSize
	p.mu.Unlock()

	go func() {
		defer cancel()

		var page *services.OrderPage
		var err error
		if search != "" {
			page, err = p.gateway.SearchPage(ctx, storeID, search, status)
		} else {
			page, err = p.gateway.FetchPage(ctx, storeID, services.OrderFilter{
				Status:   status,
				Cursor:   cursor,
				PageSize: pageSize,
			})
		}
		p.applyPage(gen, page, err)
	}()
}

// applyPage installs a fetch result unless a newer fetch has started since.
func (p *OrdersListPresenter) applyPage(gen uint64, page *services.OrderPage, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.closed {
		return // a newer request owns the view now
	}

	if err != nil {
		p.state = ListError
		p.errMsg = "Failed to load orders. Please try again."
		p.rows = nil
		p.total = 0
		p.nextCursor = ""
		p.log.Warn("orders page fetch failed", zap.Error(err))
		return
	}

	rows := make([]OrderRow, 0, len(page.Orders))
	for _, order := range page.Orders {
		rows = append(rows, ProjectOrderRow(order))
	}
	p.state = ListLoaded
	p.rows = rows
	p.total = page.Total
	p.nextCursor = page.NextCursor
}

// startCountsRefresh reloads the status tab counts, independent of the page
// fetch. Failures leave the previous counts in place.
func (p *OrdersListPresenter) startCountsRefresh() {
	p.mu.Lock()
	if p.closed || p.storeID == "" {
		p.mu.Unlock()
		return
	}
	gen := p.generation
	storeID := p.storeID
	p.mu.Unlock()

	go func() {
		counts, err := p.gateway.CountsByStatus(context.Background(), storeID)
		if err != nil {
			p.log.Warn("status counts refresh failed", zap.Error(err))
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed || gen != p.generation {
			return
		}
		p.counts = counts
	}()
}
