package repositories

import (
	"context"
	"fmt"
	"time"

	"storedash/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollectionRepository is a MongoDB implementation of CollectionRepository.
type MongoCollectionRepository struct {
	collection *mongo.Collection
}

// NewMongoCollectionRepository creates a new instance of MongoCollectionRepository.
func NewMongoCollectionRepository(db *mongo.Database) *MongoCollectionRepository {
	return &MongoCollectionRepository{
		collection: db.Collection("collections"),
	}
}

// ListByStore retrieves all collections of the given store, newest first.
func (r *MongoCollectionRepository) ListByStore(ctx context.Context, storeID string) ([]models.Collection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"storeId": storeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections for store %s: %w", storeID, err)
	}
	defer cursor.Close(ctx)

	var collections []models.Collection
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, fmt.Errorf("failed to decode collections: %w", err)
	}
	return collections, nil
}

// GetByID retrieves a single collection by its ID.
func (r *MongoCollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	var collection models.Collection
	if err := r.collection.FindOne(ctx, idFilter(id)).Decode(&collection); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", id, err)
	}
	return &collection, nil
}

// Create inserts a new collection, generating an ID when none is provided.
func (r *MongoCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.New().String()
	}
	collection.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, collection); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Update replaces an existing collection.
func (r *MongoCollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	res, err := r.collection.ReplaceOne(ctx, idFilter(collection.ID), collection)
	if err != nil {
		return fmt.Errorf("failed to update collection %s: %w", collection.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

// Delete removes a collection by its ID.
func (r *MongoCollectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrCollectionNotFound
	}
	return nil
}
