package models

import "time"

// Collection is a named grouping of products within one store.
type Collection struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	StoreID   string    `json:"storeId" bson:"storeId" validate:"required"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
