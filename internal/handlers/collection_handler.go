package handlers

import (
	"errors"

	"storedash/internal/models"
	"storedash/internal/repositories"
	"storedash/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CollectionHandler handles HTTP requests for a store's collections.
type CollectionHandler struct {
	service *services.CollectionService
	log     *zap.Logger
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *services.CollectionService, log *zap.Logger) *CollectionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollectionHandler{service: service, log: log}
}

// RegisterRoutes registers the collection routes under a store-scoped group.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	collectionRoutes := router.Group("/collections")
	collectionRoutes.Get("/", h.HandleListCollections)
	collectionRoutes.Get("/:id", h.HandleGetCollection)
	collectionRoutes.Post("/", h.HandleCreateCollection)
	collectionRoutes.Put("/:id", h.HandleUpdateCollection)
	collectionRoutes.Delete("/:id", h.HandleDeleteCollection)
}

// HandleListCollections returns the store's collections.
func (h *CollectionHandler) HandleListCollections(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	collections, err := h.service.GetCollections(c.Context(), storeID)
	if err != nil {
		h.log.Error("collection list failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collections",
		})
	}
	if collections == nil {
		collections = []models.Collection{}
	}
	return c.JSON(fiber.Map{"collections": collections})
}

// HandleGetCollection returns one collection belonging to the store.
func (h *CollectionHandler) HandleGetCollection(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	collection, err := h.service.GetCollectionByID(c.Context(), storeID, c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		h.log.Error("collection fetch failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collection",
		})
	}
	return c.JSON(fiber.Map{"collection": collection})
}

// HandleCreateCollection creates a collection in the store.
func (h *CollectionHandler) HandleCreateCollection(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	var collection models.Collection
	if err := c.BodyParser(&collection); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.service.CreateCollection(c.Context(), storeID, &collection); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validationMessages(err),
			})
		}
		h.log.Error("collection create failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create collection",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"collection": collection})
}

// HandleUpdateCollection updates a collection belonging to the store.
func (h *CollectionHandler) HandleUpdateCollection(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	var collection models.Collection
	if err := c.BodyParser(&collection); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	collection.ID = c.Params("id")

	if err := h.service.UpdateCollection(c.Context(), storeID, &collection); err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validationMessages(err),
			})
		}
		h.log.Error("collection update failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update collection",
		})
	}
	return c.JSON(fiber.Map{"collection": collection})
}

// HandleDeleteCollection removes a collection belonging to the store.
func (h *CollectionHandler) HandleDeleteCollection(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	if err := h.service.DeleteCollection(c.Context(), storeID, c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		h.log.Error("collection delete failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete collection",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
