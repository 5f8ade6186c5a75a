package tools

import (
	"sync"
)

// Registry holds the set of registered tools. All methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	// order remembers registration order for listing
	order []string
}

type entry struct {
	descriptor Descriptor
	handler    Handler
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register adds a tool under its descriptor name. Registering a name that
// already exists returns ErrDuplicateTool and leaves the existing binding
// untouched.
func (r *Registry) Register(d Descriptor, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[d.Name]; exists {
		return NewDuplicateToolError(d.Name)
	}
	r.entries[d.Name] = &entry{descriptor: d, handler: h}
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor and handler bound to name.
func (r *Registry) Lookup(name string) (Descriptor, Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Descriptor{}, nil, false
	}
	return e.descriptor, e.handler, true
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// List returns all registered descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		descriptors = append(descriptors, r.entries[name].descriptor)
	}
	return descriptors
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
