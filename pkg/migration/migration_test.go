package migration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type memTracker struct {
	records []Record
}

func (t *memTracker) List(context.Context) ([]Record, error) {
	return append([]Record(nil), t.records...), nil
}

func (t *memTracker) Insert(_ context.Context, rec Record) error {
	t.records = append(t.records, rec)
	return nil
}

func (t *memTracker) Delete(_ context.Context, name string) error {
	for i, r := range t.records {
		if r.Name == name {
			t.records = append(t.records[:i], t.records[i+1:]...)
			break
		}
	}
	return nil
}

type stepMigration struct {
	name string
	log  *[]string
}

func (m *stepMigration) Up(context.Context, *mongo.Database) error {
	*m.log = append(*m.log, "up:"+m.name)
	return nil
}

func (m *stepMigration) Down(context.Context, *mongo.Database) error {
	*m.log = append(*m.log, "down:"+m.name)
	return nil
}

func newRunner(t *testing.T, log *[]string, names ...string) (*Runner, *memTracker) {
	t.Helper()
	tr := &memTracker{}
	var regs []registeredMigration
	for _, n := range names {
		regs = append(regs, registeredMigration{name: n, m: &stepMigration{name: n, log: log}})
	}
	return &Runner{tracker: tr, migrations: regs, out: &bytes.Buffer{}}, tr
}

func TestRun_AppliesPendingInNameOrder(t *testing.T) {
	var log []string
	r, tr := newRunner(t, &log, "0002_b", "0001_a")

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"up:0001_a", "up:0002_b"}, log)
	require.Len(t, tr.records, 2)
	assert.Equal(t, 1, tr.records[0].Batch)

	pending, err := r.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)

	// second run is a no-op
	require.NoError(t, r.Run(context.Background()))
	assert.Len(t, log, 2)
}

func TestRollback_LastBatchOnly(t *testing.T) {
	var log []string
	r, tr := newRunner(t, &log, "0001_a")
	require.NoError(t, r.Run(context.Background()))

	r.migrations = append(r.migrations, registeredMigration{name: "0002_b", m: &stepMigration{name: "0002_b", log: &log}})
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, tr.records[1].Batch)

	log = nil
	require.NoError(t, r.Rollback(context.Background()))
	assert.Equal(t, []string{"down:0002_b"}, log)
	require.Len(t, tr.records, 1)
	assert.Equal(t, "0001_a", tr.records[0].Name)
}

func TestRun_NoMigrations(t *testing.T) {
	r := &Runner{tracker: &memTracker{}, out: &bytes.Buffer{}}
	assert.ErrorIs(t, r.Run(context.Background()), ErrNoMigrations)
}

func TestStatus(t *testing.T) {
	var log []string
	r, _ := newRunner(t, &log, "0001_a")
	out := &bytes.Buffer{}
	r.out = out
	require.NoError(t, r.Status(context.Background()))
	assert.Contains(t, out.String(), "Pending")

	require.NoError(t, r.Run(context.Background()))
	out.Reset()
	require.NoError(t, r.Status(context.Background()))
	assert.Contains(t, out.String(), "Ran")
}
