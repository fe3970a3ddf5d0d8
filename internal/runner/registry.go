package runner

import (
	"sort"
	"sync"
)

// Loader builds the behaviors of one spec source. It may panic; the panic is
// reported as a discovery error for the source.
type Loader func() []*Class

// Registry collects loaders per spec source. Spec sources register into
// it at package initialization, replacing reflection-based discovery.
type Registry struct {
	mu      sync.Mutex
	loaders map[string][]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string][]Loader)}
}

// DefaultRegistry is the registry used by the behave package.
var DefaultRegistry = NewRegistry()

// Register adds a loader for source. Loaders of the same source run in
// registration order.
func (r *Registry) Register(source string, load Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[source] = append(r.loaders[source], load)
}

// Sources returns the registered source names sorted by name.
func (r *Registry) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) loadersFor(source string) []Loader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Loader(nil), r.loaders[source]...)
}

// Reset removes every registered loader.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = make(map[string][]Loader)
}
