package entry

import "sync"

// Instance is whatever a running entry needs torn down later. Only the setup
// and teardown paths for an entry id may touch its slot.
type Registry[T any] struct {
	mu    sync.Mutex
	slots map[string]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{slots: map[string]T{}}
}

func (r *Registry[T]) Insert(entryID string, instance T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[entryID] = instance
}

func (r *Registry[T]) Get(entryID string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.slots[entryID]
	return v, ok
}

// Remove clears the slot and returns what was stored, if anything.
func (r *Registry[T]) Remove(entryID string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.slots[entryID]
	delete(r.slots, entryID)
	return v, ok
}

func (r *Registry[T]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.slots))
	for k := range r.slots {
		keys = append(keys, k)
	}
	return keys
}
