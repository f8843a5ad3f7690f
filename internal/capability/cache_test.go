package capability

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/capsel/internal/options"
)

// countingSupports wraps a constant score and counts invocations, so tests
// can tell a cache hit from a re-evaluation.
func countingSupports(score Score, calls *atomic.Int64) SupportsFunc {
	return func(options.Options) (Score, bool) {
		calls.Add(1)
		return score, true
	}
}

func TestCache_StructurallyEqualOptionsHit(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	var calls atomic.Int64
	require.NoError(t, c.Register(Descriptor[string]{
		Name:        "impl",
		Supports:    countingSupports(ScoreGood, &calls),
		Materialize: staticImpl("impl-v1"),
	}))

	first, err := c.Selection(context.Background(), algOpts("anything"))
	require.NoError(t, err)
	callsAfterFirst := calls.Load()

	// A distinct but attribute-wise equal options value must be a cache
	// hit: same result, no second Supports invocation.
	second, err := c.Selection(context.Background(), algOpts("anything"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, calls.Load())
}

func TestCache_InvalidationOnRegister(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	require.NoError(t, c.Register(desc("good", constSupports(ScoreGood))))

	res, err := c.Selection(context.Background(), algOpts("x"))
	require.NoError(t, err)
	require.Equal(t, "good", res.Name)

	// Registering a stronger implementation must invalidate the cached
	// winner for every key, including the default.
	def, err := c.Default(context.Background())
	require.NoError(t, err)
	require.Equal(t, "good", def.Name)

	require.NoError(t, c.Register(desc("better", constSupports(ScoreOptimal))))

	res, err = c.Selection(context.Background(), algOpts("x"))
	require.NoError(t, err)
	assert.Equal(t, "better", res.Name)

	def, err = c.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "better", def.Name)
}

func TestCache_InvalidationOnRemove(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	require.NoError(t, c.Register(desc("winner", constSupports(ScoreOptimal))))
	require.NoError(t, c.Register(desc("runnerup", constSupports(ScoreGood))))

	res, err := c.Selection(context.Background(), algOpts("x"))
	require.NoError(t, err)
	require.Equal(t, "winner", res.Name)

	require.NoError(t, c.Remove("winner"))

	res, err = c.Selection(context.Background(), algOpts("x"))
	require.NoError(t, err)
	assert.Equal(t, "runnerup", res.Name)
}

func TestCache_FailedMaterializationIsRetried(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	var attempts atomic.Int64
	loadErr := errors.New("native library unavailable")
	require.NoError(t, c.Register(Descriptor[string]{
		Name:     "flaky",
		Supports: constSupports(ScoreOptimal),
		Materialize: func(context.Context) (string, error) {
			if attempts.Add(1) == 1 {
				return "", loadErr
			}
			return "flaky-impl", nil
		},
	}))

	// First call surfaces the failure to its caller.
	_, err := c.Select(context.Background(), algOpts("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, loadErr)

	// The failure must not be cached as the permanent answer: the next
	// call retries materialization and succeeds.
	impl, err := c.Select(context.Background(), algOpts("x"))
	require.NoError(t, err)
	assert.Equal(t, "flaky-impl", impl)
	assert.Equal(t, int64(2), attempts.Load())
}

func TestCache_ConcurrentMaterializationIsShared(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	var materializations atomic.Int64
	release := make(chan struct{})
	require.NoError(t, c.Register(Descriptor[string]{
		Name:     "slow",
		Supports: constSupports(ScoreOptimal),
		Materialize: func(context.Context) (string, error) {
			materializations.Add(1)
			<-release
			return "slow-impl", nil
		},
	}))

	const waiters = 8
	results := make([]string, waiters)
	errs := make([]error, waiters)
	var started, done sync.WaitGroup
	started.Add(waiters)
	done.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = c.Select(context.Background(), algOpts("x"))
		}(i)
	}

	// Let every goroutine reach the cache before the pending
	// materialization resolves.
	started.Wait()
	close(release)
	done.Wait()

	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "slow-impl", results[i])
	}
	assert.Equal(t, int64(1), materializations.Load(), "same-key misses must share one in-flight materialization")
}

func TestCache_MaterializationMemoizedAcrossKeys(t *testing.T) {
	t.Parallel()

	c := newStringCapability()
	var materializations atomic.Int64
	require.NoError(t, c.Register(Descriptor[string]{
		Name:     "shared",
		Supports: constSupports(ScoreOptimal),
		Materialize: func(context.Context) (string, error) {
			materializations.Add(1)
			return "shared-impl", nil
		},
	}))

	// Two different keys selecting the same winner reuse the materialized
	// implementation.
	_, err := c.Select(context.Background(), algOpts("x"))
	require.NoError(t, err)
	_, err = c.Select(context.Background(), algOpts("y"))
	require.NoError(t, err)
	_, err = c.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), materializations.Load())
}

func TestCache_DefaultKeyIsDistinct(t *testing.T) {
	t.Parallel()

	// The sentinel default key must not collide with any caller-supplied
	// options value, including the empty one.
	c := newStringCapability()
	seen := make(map[string]bool)
	var mu sync.Mutex
	require.NoError(t, c.Register(Descriptor[string]{
		Name: "probe",
		Supports: func(opts options.Options) (Score, bool) {
			mu.Lock()
			seen[opts.Canonical()] = true
			mu.Unlock()
			return ScoreOptimal, true
		},
		Materialize: staticImpl("probe-impl"),
	}))

	_, err := c.Select(context.Background(), options.None())
	require.NoError(t, err)
	_, err = c.Resolve(context.Background())
	require.NoError(t, err)

	// Both lookups computed: the empty options key and the default key are
	// cached independently, and the default selection scored against the
	// capability's default options value.
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, seen[options.None().Canonical()])
	assert.True(t, seen[algOpts("simple").Canonical()])
}
