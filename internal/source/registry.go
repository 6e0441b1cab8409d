package source

import (
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Registry holds the configured adapters in registration order. Listing
// order is stable so runs are comparable across invocations.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
	enabled map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
		enabled: make(map[string]bool),
	}
}

// Register adds a source, enabled by default. Re-registering a name is a
// configuration bug.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.sources[name]; exists {
		return eris.Errorf("source: %s already registered", name)
	}
	r.sources[name] = s
	r.order = append(r.order, name)
	r.enabled[name] = true
	zap.L().Debug("source registered", zap.String("source", name))
	return nil
}

// Get returns a source by name.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// SetEnabled toggles a source. Unknown names are ignored.
func (r *Registry) SetEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[name]; ok {
		r.enabled[name] = enabled
	}
}

// Enabled returns the enabled sources in registration order.
func (r *Registry) Enabled() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		if r.enabled[name] {
			out = append(out, r.sources[name])
		}
	}
	return out
}

// All returns every source in registration order, enabled or not.
func (r *Registry) All() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// IsEnabled reports whether the named source is registered and enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}
