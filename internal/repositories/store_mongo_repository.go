package repositories

import (
	"context"
	"fmt"

	"storedash/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStoreRepository is a MongoDB implementation of StoreRepository.
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new instance of MongoStoreRepository.
func NewMongoStoreRepository(db *mongo.Database) *MongoStoreRepository {
	return &MongoStoreRepository{
		collection: db.Collection("stores"),
	}
}

// ListByOwner retrieves all stores owned by the given user.
func (r *MongoStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"storeOwnerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to query stores for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode stores: %w", err)
	}
	return stores, nil
}

// GetByID retrieves a single store by its ID.
func (r *MongoStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.collection.FindOne(ctx, idFilter(id)).Decode(&store); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store %s: %w", id, err)
	}
	return &store, nil
}
