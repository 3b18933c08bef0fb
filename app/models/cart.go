package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart belongs to exactly one user.
type Cart struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user"      bson:"user"`
	Items     []CartItem         `json:"items"     bson:"items"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CartItem is one line of a cart.
type CartItem struct {
	Watch    primitive.ObjectID `json:"watch"    bson:"watch"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

// EmptyCart is the cart of a user who has not added anything yet.
func EmptyCart(user primitive.ObjectID) *Cart {
	return &Cart{User: user, Items: []CartItem{}}
}

// CartItemInput adds a watch to the cart.
type CartItemInput struct {
	WatchID  string `json:"watchId"  validate:"required,objectid"`
	Quantity int    `json:"quantity" validate:"nullable,gte=1"` // 0 means 1
}

// CartQuantityInput sets the quantity of a line.
type CartQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
