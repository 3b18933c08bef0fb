// Package migration runs versioned schema changes against MongoDB.
//
// Collections are schemaless, so migrations here create indexes and reshape
// documents. Each one registers itself from an init():
//
//	func init() {
//	    migration.Register("20260101000000_users_email_unique", &UsersEmailUnique{})
//	}
//
//	type UsersEmailUnique struct{}
//	func (m *UsersEmailUnique) Up(ctx context.Context, db *mongo.Database) error   { ... }
//	func (m *UsersEmailUnique) Down(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	rolex migrate             // run all pending
//	rolex migrate:rollback    // rollback last batch
//	rolex migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

// Record is one applied migration.
type Record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

// Tracker persists which migrations have run.
type Tracker interface {
	List(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, rec Record) error
	Delete(ctx context.Context, name string) error
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. name should be
// timestamp-prefixed so names sort chronologically.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ErrNoMigrations is returned when Run is called but no migrations are registered.
var ErrNoMigrations = errors.New("no migrations registered")

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db         *mongo.Database
	tracker    Tracker
	migrations []registeredMigration
	out        io.Writer
}

// New creates a Runner tracking applied migrations in the "migrations"
// collection of db.
func New(db *mongo.Database, out io.Writer) *Runner {
	return NewWithTracker(db, &mongoTracker{col: db.Collection("migrations")}, out)
}

// NewWithTracker creates a Runner over the global registry with a custom
// tracker.
func NewWithTracker(db *mongo.Database, t Tracker, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, tracker: t, migrations: registry, out: out}
}

// EnsureIndex creates the unique name index on the tracking collection.
func EnsureIndex(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("migrations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Pending returns the migrations that have not yet been run, by name.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	pending, err := r.pending(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(pending))
	for i, p := range pending {
		names[i] = p.name
	}
	return names, nil
}

func (r *Runner) pending(ctx context.Context) ([]registeredMigration, error) {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range r.migrations {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})
	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.migrations) == 0 {
		return ErrNoMigrations
	}

	pending, err := r.pending(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return fmt.Errorf("migration: next batch: %w", err)
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		rec := Record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}
		if err := r.tracker.Insert(ctx, rec); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return err
	}

	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var batch []Record
	for _, rec := range ran {
		if rec.Batch == last {
			batch = append(batch, rec)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name > batch[j].Name })

	regMap := make(map[string]Migration, len(r.migrations))
	for _, reg := range r.migrations {
		regMap[reg.name] = reg.m
	}

	for _, rec := range batch {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.tracker.Delete(ctx, rec.Name); err != nil {
			return err
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return err
	}

	ranMap := make(map[string]Record, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	names := make([]string, 0, len(r.migrations))
	for _, reg := range r.migrations {
		names = append(names, reg.name)
	}
	sort.Strings(names)

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, name := range names {
		if rec, ok := ranMap[name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", name, "Pending")
		}
	}
	return nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, rec := range ran {
		if rec.Batch > max {
			max = rec.Batch
		}
	}
	return max + 1, nil
}

// ------------------- Mongo tracker -------------------

type mongoTracker struct {
	col *mongo.Collection
}

func (t *mongoTracker) List(ctx context.Context) ([]Record, error) {
	cur, err := t.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *mongoTracker) Insert(ctx context.Context, rec Record) error {
	_, err := t.col.InsertOne(ctx, rec)
	return err
}

func (t *mongoTracker) Delete(ctx context.Context, name string) error {
	_, err := t.col.DeleteOne(ctx, bson.M{"name": name})
	return err
}
