package middleware

import (
	"errors"
	"strings"

	"storedash/internal/repositories"
	"storedash/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Warn("jwt validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])

		return c.Next()
	}
}

// StoreScopeRequired verifies that the authenticated user owns the store
// named in the :storeId route parameter. A store that exists but belongs to
// someone else gets the same 404 as one that does not exist at all.
func StoreScopeRequired(storeService *services.StoreService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("storeId")
		if storeID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "storeId is required",
			})
		}

		userID, _ := c.Locals("user_id").(string)
		store, err := storeService.AuthorizeStoreAccess(c.Context(), userID, storeID)
		if err != nil {
			if errors.Is(err, repositories.ErrStoreNotFound) || errors.Is(err, services.ErrStoreAccessDenied) {
				log.Warn("store access refused",
					zap.String("storeId", storeID),
					zap.String("userId", userID))
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "Store not found",
				})
			}
			log.Error("store authorization failed", zap.String("storeId", storeID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not verify store access",
			})
		}

		c.Locals("store", store)
		return c.Next()
	}
}
