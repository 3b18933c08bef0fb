// Package middleware provides the HTTP middleware used by the API kernel.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/response"
)

// RateStore counts hits per key inside fixed windows.
type RateStore interface {
	// Hit records one request for key and returns the count in the current
	// window and when that window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// ─── Memory store ─────────────────────────────────────────────────────────────

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]*bucket{}, now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	b, ok := s.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.resetAt, nil
}

// sweep evicts expired buckets at most once per window.
func (s *MemoryStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	s.lastSweep = now
	for key, b := range s.buckets {
		if !now.Before(b.resetAt) {
			delete(s.buckets, key)
		}
	}
}

// ─── Redis store ──────────────────────────────────────────────────────────────

// RedisStore shares windows between processes through Redis.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore uses client with keys under prefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	k := s.prefix + key

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: redis incr: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("ratelimit: redis expire: %w", err)
		}
		return 1, time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: redis ttl: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry (crash between INCR and PEXPIRE); restart the window.
		_ = s.client.PExpire(ctx, k, window).Err()
		ttl = window
	}
	return int(count), time.Now().Add(ttl), nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// RateLimit allows each client max requests per window. When the store
// fails the request is let through and a warning is logged.
//
//	r.Use(middleware.RateLimit(middleware.NewMemoryStore(), 100, 15*time.Minute))
func RateLimit(store RateStore, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, resetAt, err := store.Hit(r.Context(), ctx.ClientIP(r), window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max - count
			if remaining < 0 {
				remaining = 0
			}
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(max))
			h.Set("RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(int(time.Until(resetAt).Seconds()+0.5)))

			if count > max {
				h.Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds()+0.5)))
				response.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
