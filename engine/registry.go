package engine

import (
	"fmt"
	"sync"
)

// Factory starts a new engine.
type Factory func() (Engine, error)

// Registry owns the engines started by the process, keyed by an ID such as
// the model path. An engine is created once and reused by later callers.
type Registry struct {
	mu      sync.Mutex
	engines map[string]Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Acquire returns the engine registered under id, starting it with factory
// if none exists yet.
func (r *Registry) Acquire(id string, factory Factory) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[id]; ok {
		return e, nil
	}
	e, err := factory()
	if err != nil {
		return nil, fmt.Errorf("start engine %q: %w", id, err)
	}
	r.engines[id] = e
	return e, nil
}

// Lookup returns the engine registered under id.
func (r *Registry) Lookup(id string) (Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[id]
	return e, ok
}

// Release closes and forgets the engine registered under id.
func (r *Registry) Release(id string) error {
	r.mu.Lock()
	e, ok := r.engines[id]
	delete(r.engines, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return e.Close()
}

// CloseAll closes every registered engine and empties the registry.
// The first close error is returned.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	engines := r.engines
	r.engines = make(map[string]Engine)
	r.mu.Unlock()

	var first error
	for id, e := range engines {
		if err := e.Close(); err != nil && first == nil {
			first = fmt.Errorf("close engine %q: %w", id, err)
		}
	}
	return first
}
