package capability

import (
	"context"
	"fmt"

	"github.com/vk/capsel/internal/options"
)

// FallbackName is the reserved name of the built-in fallback descriptor
// registered at façade construction. The slash keeps it out of the flat
// namespace collaborators use for their own implementations.
const FallbackName = "builtin/fallback"

// defaultKey is the sentinel cache key for the default (no-options)
// invocation. Canonical options keys always start with '{', so it can never
// collide with a caller-supplied options value.
const defaultKey = "\x00default"

// Info is descriptive selection metadata, suitable for logging and
// diagnostics.
type Info struct {
	Name  string
	Score Score
}

// Capability is the façade bound to one capability: its registry, its
// selection cache, and the registration entry point collaborators use to
// add implementations. Instances are independent; two capabilities share no
// state. T is the capability's own callable or value shape, for example
// func([]byte) uint64 for a hashing capability.
type Capability[T any] struct {
	name     string
	defaults options.Options
	reg      *registry[T]
	cache    *selectionCache[T]
}

// New constructs a capability façade and pre-registers the built-in
// fallback, which supports every options value at the Fallback band score.
// defaults is the fixed options value the no-argument invocation selects
// against. A nil fallback is a programming error and panics: without it the
// guarantee that selection always resolves cannot hold.
func New[T any](name string, fallback MaterializeFunc[T], defaults options.Options) *Capability[T] {
	if fallback == nil {
		panic(fmt.Sprintf("capability %q constructed without a fallback implementation", name))
	}

	c := &Capability[T]{
		name:     name,
		defaults: defaults,
		reg:      newRegistry[T](),
	}
	c.cache = newSelectionCache(c.reg)
	c.reg.onMutate = c.cache.invalidateAll

	c.reg.put(Descriptor[T]{
		Name: FallbackName,
		Supports: func(options.Options) (Score, bool) {
			return ScoreFallback, true
		},
		Materialize: fallback,
	})
	return c
}

// Name returns the capability's name.
func (c *Capability[T]) Name() string {
	return c.name
}

// Register adds or replaces an implementation descriptor. This is the sole
// extension point: collaborators call it at a time of their choosing and
// never touch the registry or cache directly. Registration invalidates all
// cached selections.
func (c *Capability[T]) Register(d Descriptor[T]) error {
	return c.reg.register(d)
}

// Remove deletes an implementation by name. The built-in fallback is
// protected.
func (c *Capability[T]) Remove(name string) error {
	return c.reg.remove(name)
}

// Selection returns the full selection result for the options value,
// computing and caching it if needed.
func (c *Capability[T]) Selection(ctx context.Context, opts options.Options) (Result[T], error) {
	return c.cache.get(ctx, opts.Canonical(), opts)
}

// Select returns the implementation selected for the options value. Calling
// the returned value is equivalent to the default invocation, just resolved
// against a different cache key.
func (c *Capability[T]) Select(ctx context.Context, opts options.Options) (T, error) {
	res, err := c.Selection(ctx, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Impl, nil
}

// DefaultSelection returns the full selection result for the default
// options value, cached under the sentinel default key.
func (c *Capability[T]) DefaultSelection(ctx context.Context) (Result[T], error) {
	return c.cache.get(ctx, defaultKey, c.defaults)
}

// Resolve returns the implementation for the default options value. As long
// as the built-in fallback is intact this cannot fail to select; only
// materialization of the winner can error.
func (c *Capability[T]) Resolve(ctx context.Context) (T, error) {
	res, err := c.DefaultSelection(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Impl, nil
}

// Default reports which implementation the default invocation currently
// resolves to, without invoking it.
func (c *Capability[T]) Default(ctx context.Context) (Info, error) {
	res, err := c.DefaultSelection(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{Name: res.Name, Score: res.Score}, nil
}

// Implementations returns the registered descriptor names in tie-break
// order, for diagnostics and testing.
func (c *Capability[T]) Implementations() []string {
	descs := c.reg.list()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names
}
