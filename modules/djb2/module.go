// Package djb2 provides the DJB2 (XOR variant) hash implementation.
package djb2

import (
	"context"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/internal/options"
)

// Module implements the hashcap.Module interface for this package.
type Module struct{}

// Register registers the djb2 descriptor with the capability.
func (m Module) Register(c *capability.Capability[hashcap.Func]) error {
	return c.Register(capability.Descriptor[hashcap.Func]{
		Name:        "djb2",
		Supports:    supports,
		Materialize: materialize,
	})
}

// supports scores djb2 as optimal when explicitly requested and as a
// correct, unmeasured baseline for everything else.
func supports(opts options.Options) (capability.Score, bool) {
	if alg, ok := opts.StringAttr("algorithm"); ok && alg == "djb2" {
		return capability.ScoreOptimal, true
	}
	return capability.ScoreBaseline, true
}

func materialize(ctx context.Context) (hashcap.Func, error) {
	return Sum, nil
}

// Sum computes the DJB2 XOR-variant digest of data.
func Sum(data []byte) uint64 {
	var h uint64 = 5381
	for _, b := range data {
		h = ((h << 5) + h) ^ uint64(b)
	}
	return h
}
