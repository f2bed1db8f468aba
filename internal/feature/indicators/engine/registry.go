package engine

import (
	"fmt"
	"sync"
)

// Registry is a name-keyed catalog of configured indicators. It is built
// once at startup by whatever composes the pipeline and passed around
// explicitly; lookups after registration are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	indicators map[string]Indicator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{indicators: make(map[string]Indicator)}
}

// Register adds an indicator to the registry. Registering a second
// indicator under an already-used name fails; there is no silent overwrite.
func (r *Registry) Register(ind Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := ind.Name()
	if _, exists := r.indicators[name]; exists {
		return fmt.Errorf("indicator %q is already registered", name)
	}
	r.indicators[name] = ind
	return nil
}

// Get returns the indicator registered under name, if any.
func (r *Registry) Get(name string) (Indicator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ind, ok := r.indicators[name]
	return ind, ok
}

// Names returns all registered indicator names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}
	return names
}

// Clear removes all registered indicators.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.indicators = make(map[string]Indicator)
}
