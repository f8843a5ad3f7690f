package capability

import (
	"context"
	"fmt"

	"github.com/vk/capsel/internal/options"
)

// Score expresses how well an implementation fits a given options value.
// Higher wins. The named bands below are convention, not enforced: scores
// outside them are permitted and compared by raw value.
type Score float64

const (
	// ScoreRisky marks an implementation that functions but may fail
	// unpredictably; a last resort.
	ScoreRisky Score = -1.0

	// ScoreFallback is the always-available baseline; it loses to anything
	// non-negative.
	ScoreFallback Score = -0.1

	// ScoreBaseline marks a correct but unmeasured implementation.
	ScoreBaseline Score = 0.0

	// ScoreGood marks an implementation measured as performant.
	ScoreGood Score = 0.5

	// ScoreOptimal marks the best known implementation for the options.
	ScoreOptimal Score = 1.0
)

// SupportsFunc reports whether an implementation applies to the given
// options value and how well it fits. ok=false excludes the implementation
// from consideration for that call.
//
// Supports must be pure and fast: it runs on every selection that is not
// satisfied by the cache, and selection determinism depends on it returning
// the same answer for the same options.
type SupportsFunc func(opts options.Options) (score Score, ok bool)

// MaterializeFunc produces the actual value implementing the capability.
// It may be slow (loading a native or platform-specific resource) and is
// deferred until its descriptor is actually selected. A successful result
// is memoized until the registry changes; a failure is surfaced to the
// caller and retried on the next call.
type MaterializeFunc[T any] func(ctx context.Context) (T, error)

// Descriptor describes one candidate implementation of a capability.
type Descriptor[T any] struct {
	// Name uniquely identifies the implementation within its capability.
	// Registering a second descriptor with an existing name replaces the
	// prior one.
	Name string

	// Supports scores the implementation for an options value.
	Supports SupportsFunc

	// Materialize produces the implementation itself.
	Materialize MaterializeFunc[T]
}

// validate reports whether the descriptor is complete enough to register.
func (d Descriptor[T]) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDescriptor)
	}
	if d.Supports == nil {
		return fmt.Errorf("%w: descriptor %q has no supports function", ErrInvalidDescriptor, d.Name)
	}
	if d.Materialize == nil {
		return fmt.Errorf("%w: descriptor %q has no materialize function", ErrInvalidDescriptor, d.Name)
	}
	return nil
}
