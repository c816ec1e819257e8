package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// Registry is a thread-safe catalog of requirements indexed by name.
// It uses sync.RWMutex for read-heavy lookup workloads.
type Registry[C any] struct {
	mu      sync.RWMutex
	entries map[string]reqkit.Requirement[C]
}

// New creates a new empty registry.
func New[C any]() *Registry[C] {
	return &Registry[C]{
		entries: make(map[string]reqkit.Requirement[C]),
	}
}

// Register adds or updates a requirement under its own name.
func (r *Registry[C]) Register(req reqkit.Requirement[C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[req.Name()] = req
}

// RegisterMany adds multiple requirements under their own names.
func (r *Registry[C]) RegisterMany(reqs ...reqkit.Requirement[C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range reqs {
		r.entries[req.Name()] = req
	}
}

// Lookup returns the requirement for a name and whether it exists.
func (r *Registry[C]) Lookup(name string) (reqkit.Requirement[C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.entries[name]
	return req, ok
}

// MustLookup returns the requirement for a name, panicking if not found.
func (r *Registry[C]) MustLookup(name string) reqkit.Requirement[C] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.entries[name]
	if !ok {
		panic(fmt.Sprintf("registry: requirement %q not found", name))
	}
	return req
}

// Has returns true if a requirement is registered under name.
func (r *Registry[C]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Remove deletes a requirement from the registry.
func (r *Registry[C]) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Names returns all registered names in sorted order.
func (r *Registry[C]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered requirements.
func (r *Registry[C]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// resolve looks up every name, reporting all missing ones at once.
func (r *Registry[C]) resolve(names []string) ([]reqkit.Requirement[C], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reqs := make([]reqkit.Requirement[C], 0, len(names))
	var missing []string
	for _, name := range names {
		req, ok := r.entries[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		reqs = append(reqs, req)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("registry: requirements not found: %v", missing)
	}
	return reqs, nil
}

// All builds a conjunction of the named requirements. Returns an error
// naming every missing requirement.
func (r *Registry[C]) All(names ...string) (reqkit.Requirement[C], error) {
	reqs, err := r.resolve(names)
	if err != nil {
		return reqkit.Requirement[C]{}, err
	}
	return reqkit.All(reqs...), nil
}

// Any builds a disjunction of the named requirements. Returns an error
// naming every missing requirement.
func (r *Registry[C]) Any(names ...string) (reqkit.Requirement[C], error) {
	reqs, err := r.resolve(names)
	if err != nil {
		return reqkit.Requirement[C]{}, err
	}
	return reqkit.Any(reqs...), nil
}
