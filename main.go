package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"storedash/internal/config"
	"storedash/internal/handlers"
	"storedash/internal/middleware"
	"storedash/internal/repositories"
	"storedash/internal/services"
	"storedash/pkg/logger"
	"storedash/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// --- MongoDB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zl.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		zl.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zl.Warn("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)
	zl.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zl)
	if err != nil {
		zl.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
	}
	defer mqClient.Close()

	// --- Repositories ---
	orderRepo := repositories.NewMongoOrderRepository(db)
	productRepo := repositories.NewMongoProductRepository(db)
	collectionRepo := repositories.NewMongoCollectionRepository(db)
	storeRepo := repositories.NewMongoStoreRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)

	// --- Services ---
	ordersService := services.NewOrdersService(orderRepo, mqClient, zl).
		WithPageSize(cfg.OrdersPageSize).
		WithSearchLimit(cfg.SearchFetchLimit)
	productService := services.NewProductService(productRepo)
	collectionService := services.NewCollectionService(collectionRepo)
	storeService := services.NewStoreService(storeRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, zl)

	// --- Handlers ---
	orderHandler := handlers.NewOrderHandler(ordersService, zl)
	productHandler := handlers.NewProductHandler(productService, zl)
	collectionHandler := handlers.NewCollectionHandler(collectionService, zl)
	storeHandler := handlers.NewStoreHandler(storeService, zl)
	authHandler := handlers.NewAuthHandler(authService, zl)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	authed := apiV1.Group("", middleware.AuthRequired(authService, zl))
	storeHandler.RegisterRoutes(authed)

	// Everything below is scoped to one store and gated on ownership.
	storeScoped := authed.Group("/stores/:storeId", middleware.StoreScopeRequired(storeService, zl))
	storeHandler.RegisterScopedRoutes(storeScoped)
	orderHandler.RegisterRoutes(storeScoped)
	productHandler.RegisterRoutes(storeScoped)
	collectionHandler.RegisterRoutes(storeScoped)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Status event consumer ---
	// The dashboard publishes these itself; the consumer exists so downstream
	// side effects (notifications, audit trail) run even in a single-binary
	// deployment.
	go func() {
		handler := func(msg amqp.Delivery) error {
			var event rabbitmq.StatusEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				zl.Warn("Discarding malformed status event", zap.Error(err))
				return nil
			}
			zl.Info("Order status event",
				zap.String("orderId", event.OrderID),
				zap.String("status", event.Status))
			return nil
		}
		if err := mqClient.ConsumeStatusEvents(handler); err != nil {
			zl.Error("Failed to start status event consumer", zap.Error(err))
		}
	}()

	// --- HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("Starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zl.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zl.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zl.Warn("Error during shutdown", zap.Error(err))
	}
	zl.Info("Server stopped")
}
