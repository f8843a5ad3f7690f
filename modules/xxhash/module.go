// Package xxhash provides the xxHash (XXH64) implementation backed by
// github.com/cespare/xxhash.
package xxhash

import (
	"context"

	cespare "github.com/cespare/xxhash/v2"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/internal/options"
)

// Module implements the hashcap.Module interface for this package.
type Module struct{}

// Register registers the xxhash descriptor with the capability.
func (m Module) Register(c *capability.Capability[hashcap.Func]) error {
	return c.Register(capability.Descriptor[hashcap.Func]{
		Name:        "xxhash",
		Supports:    supports,
		Materialize: materialize,
	})
}

// supports scores xxhash as optimal when explicitly requested and declines
// when the caller asked for a different named algorithm or a width other
// than 64 bits. With no algorithm preference it offers itself as the fast
// choice.
func supports(opts options.Options) (capability.Score, bool) {
	if width, ok := opts.NumberAttr("width"); ok && width != 64 {
		return 0, false
	}
	if alg, ok := opts.StringAttr("algorithm"); ok {
		if alg == "xxhash" {
			return capability.ScoreOptimal, true
		}
		return 0, false
	}
	return capability.ScoreGood, true
}

func materialize(ctx context.Context) (hashcap.Func, error) {
	return Sum, nil
}

// Sum computes the XXH64 digest of data.
func Sum(data []byte) uint64 {
	return cespare.Sum64(data)
}
