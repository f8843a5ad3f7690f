package capability

import (
	"fmt"
	"log/slog"
	"sync"
)

// registry is an ordered collection of descriptors for one capability.
// Order is insertion order and matters only for tie-breaking: on equal top
// score the earliest-registered descriptor wins.
type registry[T any] struct {
	mu      sync.RWMutex
	ordered []Descriptor[T]
	index   map[string]int

	// onMutate is invoked after every successful mutation; the façade wires
	// it to the selection cache's invalidateAll.
	onMutate func()
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{index: make(map[string]int)}
}

// register inserts or replaces a descriptor by name. New names append to the
// end of the order. Replacing an existing name keeps the descriptor's
// original position, so tie-break order reflects first registration rather
// than most-recent write; this is a deliberate design choice, pinned by
// test. The reserved fallback name is rejected.
func (r *registry[T]) register(d Descriptor[T]) error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.Name == FallbackName {
		return fmt.Errorf("%w: %q", ErrProtectedDescriptor, d.Name)
	}
	r.put(d)
	return nil
}

// put performs the actual insert-or-replace. It bypasses the reserved-name
// check so the façade can seed the built-in fallback at construction.
func (r *registry[T]) put(d Descriptor[T]) {
	r.mu.Lock()
	if i, ok := r.index[d.Name]; ok {
		r.ordered[i] = d
	} else {
		r.index[d.Name] = len(r.ordered)
		r.ordered = append(r.ordered, d)
	}
	r.mu.Unlock()

	slog.Debug("Registered capability implementation.", "name", d.Name)
	if r.onMutate != nil {
		r.onMutate()
	}
}

// remove deletes a descriptor by name. The built-in fallback cannot be
// removed; doing so would break the guarantee that selection always
// resolves.
func (r *registry[T]) remove(name string) error {
	if name == FallbackName {
		return fmt.Errorf("%w: %q", ErrProtectedDescriptor, name)
	}

	r.mu.Lock()
	i, ok := r.index[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
	delete(r.index, name)
	for n, j := range r.index {
		if j > i {
			r.index[n] = j - 1
		}
	}
	r.mu.Unlock()

	slog.Debug("Removed capability implementation.", "name", name)
	if r.onMutate != nil {
		r.onMutate()
	}
	return nil
}

// list returns a snapshot of the descriptors in tie-break order.
func (r *registry[T]) list() []Descriptor[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor[T], len(r.ordered))
	copy(out, r.ordered)
	return out
}
