// Package seeders provides a registry of store seed functions.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    Register("admin", SeedAdmin)
//	}
//
//	func SeedAdmin(ctx context.Context, s store.Stores) error {
//	    // insert documents …
//	    return nil
//	}
//
// Then run via CLI: rolex seed
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, s store.Stores) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll(ctx context.Context, s store.Stores, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, s); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
