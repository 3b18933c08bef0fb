// Package database owns the MongoDB client lifecycle.
//
// The handle is created once at startup and passed to the stores:
//
//	db, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
//	defer db.Close(context.Background())
//	watches := store.NewMongoWatches(db.DB())
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo is an open client bound to one database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and verifies the server answers. Returns an error
// instead of exiting so the caller can shut down gracefully.
func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("database: MONGO_URI is empty")
	}
	if database == "" {
		return nil, errors.New("database: database name is empty")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(2 * time.Minute).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(database)}
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// DB returns the bound database.
func (m *Mongo) DB() *mongo.Database { return m.db }

// Client returns the underlying client.
func (m *Mongo) Client() *mongo.Client { return m.client }

// Collection is shorthand for DB().Collection(name).
func (m *Mongo) Collection(name string) *mongo.Collection { return m.db.Collection(name) }

// Ping checks the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting for in-use connections up to the
// context deadline.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
