package capability

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/capsel/internal/options"
)

// Test doubles shared by the package tests. The capability under test is
// parameterized with T=string: the "implementation" is just a label we can
// assert on.

func constSupports(score Score) SupportsFunc {
	return func(options.Options) (Score, bool) {
		return score, true
	}
}

func declineSupports() SupportsFunc {
	return func(options.Options) (Score, bool) {
		return 0, false
	}
}

func staticImpl(v string) MaterializeFunc[string] {
	return func(context.Context) (string, error) {
		return v, nil
	}
}

func desc(name string, supports SupportsFunc) Descriptor[string] {
	return Descriptor[string]{
		Name:        name,
		Supports:    supports,
		Materialize: staticImpl(name + "-impl"),
	}
}

func algOpts(alg string) options.Options {
	return options.MustNew(map[string]cty.Value{
		"algorithm": cty.StringVal(alg),
	})
}

func newStringCapability() *Capability[string] {
	return New[string]("test", staticImpl("fallback-impl"), algOpts("simple"))
}
