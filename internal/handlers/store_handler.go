package handlers

import (
	"storedash/internal/models"
	"storedash/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StoreHandler handles HTTP requests for the user's stores.
type StoreHandler struct {
	service *services.StoreService
	log     *zap.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.StoreService, log *zap.Logger) *StoreHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreHandler{service: service, log: log}
}

// RegisterRoutes registers the store listing route with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stores", h.HandleListStores)
}

// RegisterScopedRoutes registers routes that require the store-scope
// middleware to have resolved the store already.
func (h *StoreHandler) RegisterScopedRoutes(router fiber.Router) {
	router.Get("/", h.HandleGetStore)
}

// HandleListStores returns the stores owned by the authenticated user, used
// by the dashboard's store switcher.
func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	stores, err := h.service.GetUserStores(c.Context(), userID)
	if err != nil {
		h.log.Error("store list failed", zap.String("userId", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stores",
		})
	}
	if stores == nil {
		stores = []models.Store{}
	}
	return c.JSON(fiber.Map{"stores": stores})
}

// HandleGetStore returns one store. Ownership was already verified by the
// store-scope middleware, which leaves the store in the request locals.
func (h *StoreHandler) HandleGetStore(c *fiber.Ctx) error {
	store, ok := c.Locals("store").(*models.Store)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Store not found",
		})
	}
	return c.JSON(fiber.Map{"store": store})
}
