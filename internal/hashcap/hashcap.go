// Package hashcap defines the hashing capability: the call signature shared
// by every hash implementation, the capability façade construction with its
// built-in fallback, and the interface implementation modules use to
// self-register.
package hashcap

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/options"
)

// Func is the hashing capability's call signature: a 64-bit digest of the
// input bytes.
type Func func(data []byte) uint64

// CapabilityName names the hashing capability in logs and diagnostics.
const CapabilityName = "hash"

// Module is implemented by each hash implementation package. Modules
// register their descriptor on the capability façade; registration is the
// only coupling between an implementation and the rest of the system.
type Module interface {
	Register(c *capability.Capability[Func]) error
}

// defaultOptions is the fixed options value the no-argument invocation
// selects against.
var defaultOptions = options.MustNew(map[string]cty.Value{
	"algorithm": cty.StringVal("simple"),
})

// DefaultOptions returns the options value used for default selection.
func DefaultOptions() options.Options {
	return defaultOptions
}

// New constructs an empty hashing capability with only the built-in
// fallback registered. Callers register implementation modules on it; tests
// construct isolated instances with exactly the modules under test.
func New() *capability.Capability[Func] {
	return capability.New(CapabilityName, materializeFallback, defaultOptions)
}

func materializeFallback(ctx context.Context) (Func, error) {
	return fallbackSum, nil
}

// fallbackSum is the always-available baseline: a plain polynomial rolling
// hash. Slow and unremarkable, but portable and dependency-free.
func fallbackSum(data []byte) uint64 {
	var h uint64
	for _, b := range data {
		h = h*31 + uint64(b)
	}
	return h
}
