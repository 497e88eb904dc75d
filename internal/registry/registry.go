// Package registry holds the process-wide named instances the pipeline
// looks up at runtime.
//
// The registry is explicitly constructed and passed down; nothing
// registers itself at import time. Population order at startup is
// providers, then binaries, then extractors, mirroring the dependency
// direction. Duplicate names overwrite silently (last registration wins),
// so callers own name uniqueness.
package registry

import (
	"sort"
	"sync"

	"github.com/warden-archive/warden/internal/binary"
	"github.com/warden-archive/warden/internal/binprovider"
	"github.com/warden-archive/warden/internal/extractor"
)

// Registry maps names to provider, binary, and extractor instances.
// Safe for concurrent reads; registration is expected at startup but is
// also safe at any time.
type Registry struct {
	mu         sync.RWMutex
	providers  map[string]binprovider.Provider
	binaries   map[string]*binary.Binary
	extractors map[string]extractor.Extractor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		providers:  make(map[string]binprovider.Provider),
		binaries:   make(map[string]*binary.Binary),
		extractors: make(map[string]extractor.Extractor),
	}
}

// RegisterProvider adds a provider under its own name, replacing any
// previous registration with that name.
func (r *Registry) RegisterProvider(p binprovider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Provider returns the named provider.
func (r *Registry) Provider(name string) (binprovider.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// ProviderNames returns all registered provider names, sorted.
func (r *Registry) ProviderNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.providers)
}

// RegisterBinary adds a binary under its own name, replacing any previous
// registration with that name.
func (r *Registry) RegisterBinary(b *binary.Binary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binaries[b.Name()] = b
}

// Binary returns the named binary.
func (r *Registry) Binary(name string) (*binary.Binary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.binaries[name]
	return b, ok
}

// BinaryNames returns all registered binary names, sorted.
func (r *Registry) BinaryNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.binaries)
}

// RegisterExtractor adds an extractor under its own name, replacing any
// previous registration with that name.
func (r *Registry) RegisterExtractor(e extractor.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Name()] = e
}

// Extractor returns the named extractor.
func (r *Registry) Extractor(name string) (extractor.Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[name]
	return e, ok
}

// ExtractorNames returns all registered extractor names, sorted.
func (r *Registry) ExtractorNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.extractors)
}

// Extractors returns all registered extractors in name order.
func (r *Registry) Extractors() []extractor.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := sortedKeys(r.extractors)
	out := make([]extractor.Extractor, len(names))
	for i, name := range names {
		out[i] = r.extractors[name]
	}
	return out
}

// Binaries returns all registered binaries in name order.
func (r *Registry) Binaries() []*binary.Binary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := sortedKeys(r.binaries)
	out := make([]*binary.Binary, len(names))
	for i, name := range names {
		out[i] = r.binaries[name]
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
