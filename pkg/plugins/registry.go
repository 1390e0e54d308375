package plugins

import (
	"sort"
	"sync"

	"github.com/aretw0/lattice/pkg/ports"
)

// Registry manages the available plugin renderers.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]ports.PluginRenderer
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]ports.PluginRenderer),
	}
}

// NewDefaultRegistry returns a registry holding the built-in plugins.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextName, Text())
	r.Register(MarkdownName, Markdown())
	return r
}

// Register adds a renderer to the registry.
// If a renderer with the same name exists, it is overwritten.
func (r *Registry) Register(name string, renderer ports.PluginRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[name] = renderer
}

// Lookup implements ports.PluginResolver.
func (r *Registry) Lookup(name string) (ports.PluginRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
