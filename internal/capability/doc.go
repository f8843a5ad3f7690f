// Package capability implements runtime selection of the best available
// implementation of a capability.
//
// A Capability façade owns an ordered registry of implementation
// descriptors. Each descriptor self-describes its fitness for a given
// options value through a Supports function returning a score; the selector
// picks the highest-scoring descriptor (earliest registered wins ties) and
// materializes its implementation, possibly lazily and slowly. Selection
// results are memoized per canonical options key and invalidated whenever
// the registry changes.
//
// Every façade is constructed with a built-in fallback descriptor that
// supports any options value at a fixed low score, so selection always
// resolves to something usable. Collaborators extend a capability by
// calling Register on its façade; no other mutation path exists.
package capability
