package capability

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vk/capsel/internal/options"
)

// Result is the outcome of one selection: the chosen descriptor's name and
// score plus its materialized implementation. Immutable once produced; it is
// superseded only by re-selection after invalidation.
type Result[T any] struct {
	Name  string
	Score Score
	Impl  T
}

// selectionCache memoizes selection results keyed by the canonical options
// form. The registry invalidates it en masse on every mutation: selection
// depends on the whole registry, so clearing everything is the simplest
// policy that cannot go stale.
type selectionCache[T any] struct {
	reg *registry[T]

	mu      sync.RWMutex
	gen     uint64
	entries map[string]Result[T]
	// materialized memoizes implementations per descriptor name, so two
	// cache keys that select the same winner load it once. Cleared together
	// with entries.
	materialized map[string]T

	flight singleflight.Group
}

func newSelectionCache[T any](reg *registry[T]) *selectionCache[T] {
	return &selectionCache[T]{
		reg:          reg,
		entries:      make(map[string]Result[T]),
		materialized: make(map[string]T),
	}
}

// invalidateAll drops every cached selection and materialization memo and
// advances the generation so in-flight selections cannot write stale
// entries back.
func (c *selectionCache[T]) invalidateAll() {
	c.mu.Lock()
	c.gen++
	clear(c.entries)
	clear(c.materialized)
	c.mu.Unlock()
}

// get returns the cached selection for the key, computing it on a miss.
// Concurrent misses for the same key share one in-flight computation;
// different keys proceed independently. A selection computed against a
// registry generation that has since changed is returned to its waiters but
// not cached, so the next call reflects the latest registry. Failures are
// never cached.
func (c *selectionCache[T]) get(ctx context.Context, key string, opts options.Options) (Result[T], error) {
	c.mu.RLock()
	res, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return res, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent call may have populated
		// the entry between the fast path and here.
		c.mu.RLock()
		res, ok := c.entries[key]
		gen := c.gen
		c.mu.RUnlock()
		if ok {
			return res, nil
		}

		winner, score, err := selectBest(ctx, c.reg.list(), opts)
		if err != nil {
			return nil, err
		}
		impl, err := c.materialize(ctx, winner, gen)
		if err != nil {
			return nil, fmt.Errorf("materialize %q: %w", winner.Name, err)
		}

		res = Result[T]{Name: winner.Name, Score: score, Impl: impl}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = res
		}
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return Result[T]{}, err
	}
	return v.(Result[T]), nil
}

// materialize returns the descriptor's implementation, reusing the
// per-descriptor memo when possible. The memo is only written while the
// registry generation is unchanged, so a replaced descriptor can never leak
// a stale implementation under its name.
func (c *selectionCache[T]) materialize(ctx context.Context, d Descriptor[T], gen uint64) (T, error) {
	c.mu.RLock()
	impl, ok := c.materialized[d.Name]
	c.mu.RUnlock()
	if ok {
		return impl, nil
	}

	impl, err := d.Materialize(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.materialized[d.Name] = impl
	}
	c.mu.Unlock()
	return impl, nil
}
