package app

import (
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/modules/djb2"
	"github.com/vk/capsel/modules/fnv1a"
	"github.com/vk/capsel/modules/maphash"
	"github.com/vk/capsel/modules/xxhash"
)

// coreModules is the definitive list of hash implementations compiled into
// the capsel binary. Order matters: it is the tie-break order for equal
// scores.
var coreModules = []hashcap.Module{
	djb2.Module{},
	fnv1a.Module{},
	xxhash.Module{},
	maphash.Module{},
}
