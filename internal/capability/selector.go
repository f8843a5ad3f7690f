package capability

import (
	"context"
	"fmt"

	"github.com/vk/capsel/internal/ctxlog"
	"github.com/vk/capsel/internal/options"
)

// selectBest scores every descriptor against the options value and returns
// the winner: the highest score, with ties broken by registry order
// (earliest registered wins). Descriptors whose Supports declines or panics
// are excluded for this call. It fails only when every descriptor declined,
// which means the built-in fallback's contract was violated.
func selectBest[T any](ctx context.Context, descs []Descriptor[T], opts options.Options) (Descriptor[T], Score, error) {
	var (
		winner Descriptor[T]
		best   Score
		found  bool
	)
	for _, d := range descs {
		score, ok := safeSupports(ctx, d, opts)
		if !ok {
			continue
		}
		// Strict comparison keeps the earliest descriptor on ties.
		if !found || score > best {
			winner, best, found = d, score, true
		}
	}
	if !found {
		return Descriptor[T]{}, 0, fmt.Errorf("%w (candidates: %d)", ErrNoSupportedImplementation, len(descs))
	}
	return winner, best, nil
}

// safeSupports invokes a caller-supplied Supports function, containing any
// panic so one bad descriptor cannot break selection for the whole
// capability. A panicking descriptor is treated as not applicable for this
// call and logged.
func safeSupports[T any](ctx context.Context, d Descriptor[T], opts options.Options) (score Score, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Warn("Supports function panicked; implementation excluded for this call.",
				"implementation", d.Name, "panic", r)
			score, ok = 0, false
		}
	}()
	return d.Supports(opts)
}
