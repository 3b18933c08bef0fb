package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/migration"
)

func init() {
	migration.Register("20260101000000_users_email_unique", &UsersEmailUnique{})
	migration.Register("20260101000001_carts_user_unique", &CartsUserUnique{})
	migration.Register("20260101000002_watches_category_index", &WatchesCategoryIndex{})
}

func createIndex(ctx context.Context, col *mongo.Collection, name, field string, unique bool) error {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: opts,
	})
	return err
}

func dropIndex(ctx context.Context, col *mongo.Collection, name string) error {
	_, err := col.Indexes().DropOne(ctx, name)
	return err
}

// -------- 0001: users.email --------

type UsersEmailUnique struct{}

func (m *UsersEmailUnique) Up(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db.Collection("users"), "email_unique", "email", true)
}

func (m *UsersEmailUnique) Down(ctx context.Context, db *mongo.Database) error {
	return dropIndex(ctx, db.Collection("users"), "email_unique")
}

// -------- 0002: carts.user --------

type CartsUserUnique struct{}

func (m *CartsUserUnique) Up(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db.Collection("carts"), "user_unique", "user", true)
}

func (m *CartsUserUnique) Down(ctx context.Context, db *mongo.Database) error {
	return dropIndex(ctx, db.Collection("carts"), "user_unique")
}

// -------- 0003: watches.category --------

type WatchesCategoryIndex struct{}

func (m *WatchesCategoryIndex) Up(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db.Collection("watches"), "category", "category", false)
}

func (m *WatchesCategoryIndex) Down(ctx context.Context, db *mongo.Database) error {
	return dropIndex(ctx, db.Collection("watches"), "category")
}
