package backends

import (
	"sort"
	"sync"
)

// Symbols are the named values a registered module exports
type Symbols map[string]any

// registeredModules holds every module known to the resolver, keyed by identifier
var (
	registeredModules = make(map[string]Symbols)
	registryMu        sync.RWMutex
)

// RegisterModule registers a module under its identifier, replacing any previous one.
func RegisterModule(path string, symbols Symbols) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredModules[path] = symbols
}

// Register registers a module whose only export is the backend type t.
func Register(path string, t *Type) {
	if t.Module == "" {
		t.Module = path
	}
	RegisterModule(path, Symbols{EntrySymbol: t})
}

// Modules returns the sorted identifiers of all registered modules
func Modules() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	paths := make([]string, 0, len(registeredModules))
	for path := range registeredModules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// loadModule returns the exports of a registered module
func loadModule(path string) (Symbols, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	symbols, ok := registeredModules[path]
	return symbols, ok
}

// Create resolves name and creates a backend instance with optional configuration
func Create(name string, config any) (Backend, error) {
	t, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	return t.Create(config)
}
