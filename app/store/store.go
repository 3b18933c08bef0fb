// Package store persists watches, carts and users.
//
// Each resource has an interface with a MongoDB implementation and an
// in-memory one. Lookups that find nothing return ErrNotFound, and so do
// ids that are not valid ObjectIDs.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// WatchFilter narrows a catalog listing. Empty fields match everything.
type WatchFilter struct {
	Category string
}

type Watches interface {
	// Create assigns the id and timestamps of w and persists it.
	Create(ctx context.Context, w *models.Watch) error
	FindByID(ctx context.Context, id string) (*models.Watch, error)
	Find(ctx context.Context, f WatchFilter) ([]models.Watch, error)
	// Update applies u and returns the record as stored afterwards.
	Update(ctx context.Context, id string, u models.WatchUpdate) (*models.Watch, error)
	// Delete removes the watch and returns what was removed.
	Delete(ctx context.Context, id string) (*models.Watch, error)
}

type Carts interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	// AddItem adds qty to the line for watchID, creating the cart and the
	// line as needed.
	AddItem(ctx context.Context, userID, watchID string, qty int) (*models.Cart, error)
	// SetQuantity returns ErrNotFound when the watch is not in the cart.
	SetQuantity(ctx context.Context, userID, watchID string, qty int) (*models.Cart, error)
	// RemoveItem returns ErrNotFound when the watch is not in the cart.
	RemoveItem(ctx context.Context, userID, watchID string) (*models.Cart, error)
	// Clear empties the cart. A user without a cart gets an empty one back.
	Clear(ctx context.Context, userID string) (*models.Cart, error)
}

type Users interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, email, role string) (*models.User, error)
}

// Stores bundles the three stores handed to controllers.
type Stores struct {
	Watches Watches
	Carts   Carts
	Users   Users
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
