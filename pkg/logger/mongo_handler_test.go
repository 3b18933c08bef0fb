package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandler_FlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, slog.LevelInfo)

	log := slog.New(h).With("request_id", "abc123")
	log.Debug("dropped by level")
	log.Info("watch posted", "category", "diver")
	log.WithGroup("store").Warn("slow query", "op", "find")

	h.Close()
	h.Close()

	require.Len(t, col.docs, 2)
	assert.Equal(t, "watch posted", col.docs[0].Msg)
	assert.Equal(t, "abc123", col.docs[0].RequestID)
	assert.Equal(t, "diver", col.docs[0].Attrs["category"])
	assert.Equal(t, "WARN", col.docs[1].Level)
	assert.Equal(t, "find", col.docs[1].Attrs["store.op"])
}

func TestMultiHandler_Enabled(t *testing.T) {
	col := &fakeCollection{}
	mh := newMongoHandler(col, slog.LevelError)
	defer mh.Close()

	m := NewMultiHandler(mh)
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
}
