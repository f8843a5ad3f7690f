// Package maphash provides a hash implementation backed by the standard
// library's hash/maphash. Its seed is generated per process, so digests are
// not stable across runs; it scores in the risky band unless the caller
// explicitly opts out of stability.
package maphash

import (
	"context"
	"hash/maphash"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/internal/options"
)

// seed is fixed for the lifetime of the process.
var seed = maphash.MakeSeed()

// Module implements the hashcap.Module interface for this package.
type Module struct{}

// Register registers the maphash descriptor with the capability.
func (m Module) Register(c *capability.Capability[hashcap.Func]) error {
	return c.Register(capability.Descriptor[hashcap.Func]{
		Name:        "maphash",
		Supports:    supports,
		Materialize: materialize,
	})
}

// supports offers maphash as a measured choice when the caller declared it
// does not need stable digests, as optimal when requested by name, and as a
// last resort when no algorithm preference exists. It declines any other
// named algorithm.
func supports(opts options.Options) (capability.Score, bool) {
	if stable, ok := opts.BoolAttr("stable"); ok && !stable {
		return capability.ScoreGood, true
	}
	if alg, ok := opts.StringAttr("algorithm"); ok {
		if alg == "maphash" {
			return capability.ScoreOptimal, true
		}
		return 0, false
	}
	return capability.ScoreRisky, true
}

func materialize(ctx context.Context) (hashcap.Func, error) {
	return Sum, nil
}

// Sum computes the process-seeded maphash digest of data.
func Sum(data []byte) uint64 {
	return maphash.Bytes(seed, data)
}
