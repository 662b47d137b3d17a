package models

import "time"

// Product represents a product listed by a store.
type Product struct {
	ID            string    `json:"id" bson:"_id,omitempty" validate:"omitempty"`
	StoreID       string    `json:"storeId" bson:"storeId" validate:"required"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description   string    `json:"description" bson:"description" validate:"omitempty,max=2000"`
	Price         float64   `json:"price" bson:"price" validate:"required,gt=0"`
	DiscountPrice float64   `json:"discountPrice,omitempty" bson:"discountPrice,omitempty" validate:"omitempty,gte=0"`
	Images        []string  `json:"images" bson:"images"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	Quantity      int       `json:"quantity" bson:"quantity" validate:"gte=0"`
	IsAvailable   bool      `json:"isAvailable" bson:"isAvailable"`
	Weight        float64   `json:"weight" bson:"weight" validate:"gte=0"`
	IsFeatured    bool      `json:"isFeatured" bson:"isFeatured"`
	CollectionIDs []string  `json:"collectionIds" bson:"collectionIds"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
