package repositories

import (
	"context"
	"fmt"
	"time"

	"storedash/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// rawOrder mirrors models.Order but leaves identity and timestamps untyped.
// Records are written by several clients and carry BSON dates, ISO strings,
// or epoch numbers interchangeably; the boundary parser below produces the
// typed model and never lets untyped data travel further in.
type rawOrder struct {
	ID            interface{}          `bson:"_id"`
	StoreID       string               `bson:"storeId"`
	UserID        string               `bson:"userId"`
	Items         []models.OrderItem   `bson:"items"`
	Subtotal      float64              `bson:"subtotal"`
	DeliveryFee   float64              `bson:"deliveryFee"`
	Total         float64              `bson:"total"`
	TotalWeight   float64              `bson:"totalWeight"`
	Status        models.OrderStatus   `bson:"status"`
	PaymentStatus models.PaymentStatus `bson:"paymentStatus"`
	PaymentMethod models.PaymentMethod `bson:"paymentMethod"`
	Name          string               `bson:"name"`
	Phone         string               `bson:"phone"`
	Address       models.Address       `bson:"address"`
	OrderNote     string               `bson:"orderNote"`
	CreatedAt     interface{}          `bson:"createdAt"`
	UpdatedAt     interface{}          `bson:"updatedAt"`
}

// toOrder converts a raw document into the typed model. Unparseable
// timestamps stay zero; the gateway stamps the fallback.
func (r rawOrder) toOrder() models.Order {
	order := models.Order{
		ID:            stringifyID(r.ID),
		StoreID:       r.StoreID,
		UserID:        r.UserID,
		Items:         r.Items,
		Subtotal:      r.Subtotal,
		DeliveryFee:   r.DeliveryFee,
		Total:         r.Total,
		TotalWeight:   r.TotalWeight,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		PaymentMethod: r.PaymentMethod,
		Name:          r.Name,
		Phone:         r.Phone,
		Address:       r.Address,
		OrderNote:     r.OrderNote,
	}
	if t, ok := models.ParseTimestamp(r.CreatedAt); ok {
		order.CreatedAt = t
	}
	if t, ok := models.ParseTimestamp(r.UpdatedAt); ok {
		order.UpdatedAt = t
	}
	return order
}

func stringifyID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// idFilter matches a document whether its _id was stored as an ObjectID or a
// plain string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// orderListFilter builds the find predicate for one page request. The
// timestamp-tie clause compares _id as an ObjectID when the cursor id is one.
// BSON orders all strings before all ObjectIDs, so a string bound would skip
// every ObjectID document sharing the cursor's createdAt; an ObjectID bound
// under a descending _id sort matches both the remaining ObjectIDs and every
// string id after them.
func orderListFilter(q OrderListQuery) (bson.M, error) {
	filter := bson.M{"storeId": q.StoreID}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Cursor != "" {
		createdAt, lastID, err := DecodeCursor(q.Cursor)
		if err != nil {
			return nil, err
		}
		var bound interface{} = lastID
		if oid, err := primitive.ObjectIDFromHex(lastID); err == nil {
			bound = oid
		}
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": createdAt}},
			bson.M{"createdAt": createdAt, "_id": bson.M{"$lt": bound}},
		}
	}
	return filter, nil
}

// List returns one page of orders ordered by createdAt descending.
func (r *MongoOrderRepository) List(ctx context.Context, q OrderListQuery) ([]models.Order, string, error) {
	filter, err := orderListFilter(q)
	if err != nil {
		return nil, "", err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var raw rawOrder
		if err := cursor.Decode(&raw); err != nil {
			return nil, "", fmt.Errorf("failed to decode order document: %w", err)
		}
		orders = append(orders, raw.toOrder())
	}
	if err := cursor.Err(); err != nil {
		return nil, "", fmt.Errorf("orders cursor failed: %w", err)
	}

	nextCursor := ""
	if q.Limit > 0 && len(orders) == q.Limit {
		nextCursor = EncodeCursor(orders[len(orders)-1])
	}
	return orders, nextCursor, nil
}

// Count returns the number of orders matching the given predicates.
func (r *MongoOrderRepository) Count(ctx context.Context, storeID string, status models.OrderStatus) (int64, error) {
	filter := bson.M{"storeId": storeID}
	if status != "" {
		filter["status"] = status
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var raw rawOrder
	if err := r.collection.FindOne(ctx, idFilter(id)).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	order := raw.toOrder()
	return &order, nil
}

// UpdateStatus writes the status and refreshes updatedAt.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
