// Package fnv1a provides the FNV-1a 64-bit hash implementation backed by
// the standard library's hash/fnv.
package fnv1a

import (
	"context"
	"hash/fnv"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/internal/options"
)

// Module implements the hashcap.Module interface for this package.
type Module struct{}

// Register registers the fnv1a descriptor with the capability.
func (m Module) Register(c *capability.Capability[hashcap.Func]) error {
	return c.Register(capability.Descriptor[hashcap.Func]{
		Name:        "fnv1a",
		Supports:    supports,
		Materialize: materialize,
	})
}

// supports scores fnv1a as optimal when explicitly requested, declines the
// "simple" algorithm entirely, and otherwise offers itself as a measured,
// performant choice.
func supports(opts options.Options) (capability.Score, bool) {
	switch alg, _ := opts.StringAttr("algorithm"); alg {
	case "fnv1a":
		return capability.ScoreOptimal, true
	case "simple":
		return 0, false
	default:
		return capability.ScoreGood, true
	}
}

func materialize(ctx context.Context) (hashcap.Func, error) {
	return Sum, nil
}

// Sum computes the FNV-1a 64-bit digest of data.
func Sum(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
