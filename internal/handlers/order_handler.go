package handlers

import (
	"errors"

	"storedash/internal/models"
	"storedash/internal/presenters"
	"storedash/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for a store's orders.
type OrderHandler struct {
	service *services.OrdersService
	log     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrdersService, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the order routes under a store-scoped group.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/counts", h.HandleStatusCounts)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

type orderListResponse struct {
	Orders     []presenters.OrderRow `json:"orders"`
	Total      int64                 `json:"total"`
	NextCursor string                `json:"nextCursor,omitempty"`
}

// HandleListOrders returns one page of the store's orders, newest first.
// Query parameters: status (tab filter), cursor (opaque page token), q
// (search text; when present the cursor is ignored and the recent-order
// search path is used instead).
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown status filter",
		})
	}

	var page *services.OrderPage
	var err error
	if q := c.Query("q"); q != "" {
		page, err = h.service.SearchPage(c.Context(), storeID, q, status)
	} else {
		page, err = h.service.FetchPage(c.Context(), storeID, services.OrderFilter{
			Status: status,
			Cursor: c.Query("cursor"),
		})
	}
	if err != nil {
		h.log.Error("order list failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}

	rows := make([]presenters.OrderRow, 0, len(page.Orders))
	for _, order := range page.Orders {
		rows = append(rows, presenters.ProjectOrderRow(order))
	}
	return c.JSON(orderListResponse{
		Orders:     rows,
		Total:      page.Total,
		NextCursor: page.NextCursor,
	})
}

// HandleStatusCounts returns the per-status order counts that drive the
// list view's tabs, including the "all" aggregate.
func (h *OrderHandler) HandleStatusCounts(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	counts, err := h.service.CountsByStatus(c.Context(), storeID)
	if err != nil {
		h.log.Error("status counts failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order counts",
		})
	}
	return c.JSON(fiber.Map{"counts": counts})
}

// HandleGetOrder returns a single order with its progress timeline and the
// statuses it can advance to.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	orderID := c.Params("id")

	order, err := h.service.FetchOne(c.Context(), storeID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		h.log.Error("order fetch failed", zap.String("orderId", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
		})
	}

	order.Normalize()
	return c.JSON(fiber.Map{
		"order":        order,
		"timeline":     presenters.BuildStatusTimeline(order),
		"nextStatuses": order.Status.NextStatuses(),
	})
}

// HandleUpdateStatus writes a new status for the order. The order must
// belong to the store; the new status only has to be a known value.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	orderID := c.Params("id")

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if !body.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown order status",
		})
	}

	// Ownership check first so a foreign order id cannot be mutated.
	if _, err := h.service.FetchOne(c.Context(), storeID, orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		h.log.Error("order fetch failed", zap.String("orderId", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
		})
	}

	if err := h.service.UpdateStatus(c.Context(), orderID, body.Status); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		h.log.Error("status update failed",
			zap.String("orderId", orderID),
			zap.String("status", string(body.Status)),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"status":  body.Status,
	})
}

// HandleCancelOrder moves the order to cancelled and returns the refreshed
// record, mirroring the dashboard's cancel-then-reload flow.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	orderID := c.Params("id")

	order, err := h.service.FetchOne(c.Context(), storeID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		h.log.Error("order fetch failed", zap.String("orderId", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not cancel order",
		})
	}
	if order.Status.Terminal() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order is already completed or cancelled",
		})
	}

	if err := h.service.UpdateStatus(c.Context(), orderID, models.StatusCancelled); err != nil {
		h.log.Error("order cancel failed", zap.String("orderId", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not cancel order",
		})
	}

	refreshed, err := h.service.FetchOne(c.Context(), storeID, orderID)
	if err != nil {
		h.log.Warn("order reload after cancel failed", zap.String("orderId", orderID), zap.Error(err))
		return c.JSON(fiber.Map{"message": "Order cancelled"})
	}
	refreshed.Normalize()
	return c.JSON(fiber.Map{
		"message": "Order cancelled",
		"order":   refreshed,
	})
}
