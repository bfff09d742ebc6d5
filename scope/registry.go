package scope

import (
	"sort"
	"sync"
)

// Registry is the per-build allocation table mapping component identities to
// scope IDs. It starts empty at build start and is discarded at build end;
// nothing is persisted. Lookups are read-mostly and safe for concurrent use,
// first allocation for a new identity is serialized so that concurrent
// compilation of the same component always observes one ID.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]ID)}
}

// Allocate returns the scope ID for the given identity, deriving and
// memoizing it on first use. Repeated calls with the same identity return
// the same ID.
func (r *Registry) Allocate(identity Identity) ID {
	key := identity.Key()

	r.mu.RLock()
	id, ok := r.ids[key]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// somebody may have been faster
	if id, ok = r.ids[key]; ok {
		return id
	}
	id = identity.id()
	r.ids[key] = id
	return id
}

// Len returns the number of allocated scopes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// Entry is a single allocation as seen by Snapshot.
type Entry struct {
	Key string
	ID  ID
}

// Snapshot returns all allocations sorted by key, for diagnostics output.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.ids))
	for k, id := range r.ids {
		entries = append(entries, Entry{Key: k, ID: id})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
