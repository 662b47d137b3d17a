package models

import "time"

// User is a dashboard account. Store ownership is expressed through
// Store.StoreOwnerID referencing this ID.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty" validate:"omitempty,uuid"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Password  string    `json:"password,omitempty" bson:"password" validate:"required,min=6"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
