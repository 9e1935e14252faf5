package community

import "sync"

// Registry holds named providers. Names are not required to be unique:
// Get returns the earliest registration and Unregister removes every match.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewRegistry creates a registry holding the given providers in order
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register appends a provider. Nil providers are ignored.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Unregister removes all providers with the given name and returns how many were removed
func (r *Registry) Unregister(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.Name() != name {
			kept = append(kept, p)
		}
	}
	removed := len(r.providers) - len(kept)
	r.providers = kept
	return removed
}

// Get returns the first provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Names lists provider names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}
