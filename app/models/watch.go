package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
)

// Watch is a catalog entry.
type Watch struct {
	ID          primitive.ObjectID `json:"_id"                   bson:"_id,omitempty"`
	Name        string             `json:"name"                  bson:"name"`
	Brand       string             `json:"brand,omitempty"       bson:"brand,omitempty"`
	Category    string             `json:"category"              bson:"category"`
	Price       float64            `json:"price"                 bson:"price"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Stock       int                `json:"stock"                 bson:"stock"`
	WatchImage  string             `json:"watchImage"            bson:"watchImage"`
	CreatedAt   time.Time          `json:"createdAt"             bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"             bson:"updatedAt"`
}

// WatchInput is the create request. The image comes from the upload, never
// from the body.
type WatchInput struct {
	Name        string  `json:"name"        validate:"required,max=120"`
	Brand       string  `json:"brand"       validate:"max=60"`
	Category    string  `json:"category"    validate:"required,max=60"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=2000"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

// Watch builds the record to persist.
func (in WatchInput) Watch(image string) *Watch {
	return &Watch{
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		Stock:       in.Stock,
		WatchImage:  image,
	}
}

// WatchUpdate is a partial update. Nil fields are left untouched.
type WatchUpdate struct {
	Name        *string  `json:"name"        validate:"min=1,max=120"`
	Brand       *string  `json:"brand"       validate:"max=60"`
	Category    *string  `json:"category"    validate:"min=1,max=60"`
	Price       *float64 `json:"price"       validate:"gt=0"`
	Description *string  `json:"description" validate:"max=2000"`
	Stock       *int     `json:"stock"       validate:"gte=0"`
	WatchImage  *string  `json:"-"`
}

// Empty reports whether u sets nothing.
func (u WatchUpdate) Empty() bool {
	return u.Name == nil && u.Brand == nil && u.Category == nil && u.Price == nil &&
		u.Description == nil && u.Stock == nil && u.WatchImage == nil
}

// Check rejects an update that would change nothing.
func (u WatchUpdate) Check() error {
	if u.Empty() {
		return apperr.Validation("Nothing to update")
	}
	return nil
}

// Set returns the fields to write, keyed by document field name.
func (u WatchUpdate) Set() bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Brand != nil {
		set["brand"] = *u.Brand
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.WatchImage != nil {
		set["watchImage"] = *u.WatchImage
	}
	return set
}

// Apply writes the non-nil fields of u onto w.
func (u WatchUpdate) Apply(w *Watch) {
	if u.Name != nil {
		w.Name = *u.Name
	}
	if u.Brand != nil {
		w.Brand = *u.Brand
	}
	if u.Category != nil {
		w.Category = *u.Category
	}
	if u.Price != nil {
		w.Price = *u.Price
	}
	if u.Description != nil {
		w.Description = *u.Description
	}
	if u.Stock != nil {
		w.Stock = *u.Stock
	}
	if u.WatchImage != nil {
		w.WatchImage = *u.WatchImage
	}
}
