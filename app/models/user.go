package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in.
type User struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Name      string             `json:"name"      bson:"name"`
	Email     string             `json:"email"     bson:"email"`
	Password  string             `json:"-"         bson:"password"` // bcrypt hash
	Role      string             `json:"role"      bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// RegisterInput is the sign-up request.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the sign-in request. Presence is checked by the handler so
// both fields share one message.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
