package models

import "time"

// Store is a merchant entity owning products, collections, and orders.
// StoreOwnerID scopes which stores a dashboard user may select.
type Store struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description  string    `json:"description" bson:"description"`
	Email        string    `json:"email" bson:"email" validate:"omitempty,email"`
	PhoneNumber  string    `json:"phoneNumber" bson:"phoneNumber"`
	Address      Address   `json:"address" bson:"address"`
	StoreOwnerID string    `json:"storeOwnerId" bson:"storeOwnerId" validate:"required"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	IsApproved   bool      `json:"isApproved" bson:"isApproved"`
	IsOpen       bool      `json:"isOpen" bson:"isOpen"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OwnedBy reports whether the store belongs to the given user.
func (s *Store) OwnedBy(userID string) bool {
	return userID != "" && s.StoreOwnerID == userID
}
