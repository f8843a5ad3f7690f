package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names[T any](descs []Descriptor[T]) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Name
	}
	return out
}

func TestRegistry_RegisterAppendsInOrder(t *testing.T) {
	t.Parallel()

	r := newRegistry[string]()
	require.NoError(t, r.register(desc("a", constSupports(ScoreBaseline))))
	require.NoError(t, r.register(desc("b", constSupports(ScoreBaseline))))
	require.NoError(t, r.register(desc("c", constSupports(ScoreBaseline))))

	assert.Equal(t, []string{"a", "b", "c"}, names(r.list()))
}

func TestRegistry_RejectsInvalidDescriptor(t *testing.T) {
	t.Parallel()

	r := newRegistry[string]()

	err := r.register(Descriptor[string]{Supports: constSupports(0), Materialize: staticImpl("x")})
	assert.ErrorIs(t, err, ErrInvalidDescriptor, "empty name")

	err = r.register(Descriptor[string]{Name: "a", Materialize: staticImpl("x")})
	assert.ErrorIs(t, err, ErrInvalidDescriptor, "nil supports")

	err = r.register(Descriptor[string]{Name: "a", Supports: constSupports(0)})
	assert.ErrorIs(t, err, ErrInvalidDescriptor, "nil materialize")

	// A rejected registration leaves the registry untouched.
	assert.Empty(t, r.list())
}

// TestRegistry_ReplaceKeepsPosition pins the documented design choice:
// re-registering an existing name swaps the descriptor in place, so
// tie-break order reflects first registration, not most-recent write.
func TestRegistry_ReplaceKeepsPosition(t *testing.T) {
	t.Parallel()

	r := newRegistry[string]()
	require.NoError(t, r.register(desc("a", constSupports(ScoreBaseline))))
	require.NoError(t, r.register(desc("b", constSupports(ScoreBaseline))))

	replacement := Descriptor[string]{
		Name:        "a",
		Supports:    constSupports(ScoreGood),
		Materialize: staticImpl("a-v2"),
	}
	require.NoError(t, r.register(replacement))

	listed := r.list()
	require.Equal(t, []string{"a", "b"}, names(listed))

	score, ok := listed[0].Supports(algOpts("anything"))
	require.True(t, ok)
	assert.Equal(t, ScoreGood, score, "replacement descriptor should be live at the original position")
}

func TestRegistry_Remove(t *testing.T) {
	t.Parallel()

	r := newRegistry[string]()
	require.NoError(t, r.register(desc("a", constSupports(0))))
	require.NoError(t, r.register(desc("b", constSupports(0))))
	require.NoError(t, r.register(desc("c", constSupports(0))))

	require.NoError(t, r.remove("b"))
	assert.Equal(t, []string{"a", "c"}, names(r.list()))

	// Removal reindexes later descriptors so replacement still works.
	require.NoError(t, r.register(desc("c", constSupports(ScoreOptimal))))
	assert.Equal(t, []string{"a", "c"}, names(r.list()))

	err := r.remove("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_FallbackNameIsProtected(t *testing.T) {
	t.Parallel()

	c := newStringCapability()

	err := c.Register(desc(FallbackName, constSupports(ScoreOptimal)))
	assert.ErrorIs(t, err, ErrProtectedDescriptor)

	err = c.Remove(FallbackName)
	assert.ErrorIs(t, err, ErrProtectedDescriptor)

	assert.Equal(t, []string{FallbackName}, c.Implementations())
}

func TestRegistry_MutationSignalsInvalidation(t *testing.T) {
	t.Parallel()

	r := newRegistry[string]()
	calls := 0
	r.onMutate = func() { calls++ }

	require.NoError(t, r.register(desc("a", constSupports(0))))
	require.NoError(t, r.register(desc("a", constSupports(ScoreGood)))) // replacement counts too
	require.NoError(t, r.remove("a"))

	assert.Equal(t, 3, calls)
}
