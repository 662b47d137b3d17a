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

// ProductHandler handles HTTP requests for a store's products.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{service: service, log: log}
}

// RegisterRoutes registers the product routes under a store-scoped group.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns the store's products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	products, err := h.service.GetProducts(c.Context(), storeID)
	if err != nil {
		h.log.Error("product list failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleGetProduct returns one product belonging to the store.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	product, err := h.service.GetProductByID(c.Context(), storeID, c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		h.log.Error("product fetch failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleCreateProduct creates a product in the store.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.service.CreateProduct(c.Context(), storeID, &product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validationMessages(err),
			})
		}
		h.log.Error("product create failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

// HandleUpdateProduct updates a product belonging to the store.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.Context(), storeID, &product); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validationMessages(err),
			})
		}
		h.log.Error("product update failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
		})
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleDeleteProduct removes a product belonging to the store.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	storeID := c.Params("storeId")
	if err := h.service.DeleteProduct(c.Context(), storeID, c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		h.log.Error("product delete failed", zap.String("storeId", storeID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
