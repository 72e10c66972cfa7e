// Package handler maps behaviour keys to handler factories.
//
// Registration is last-wins: re-registering a key overwrites the prior
// binding. Resolution is two-phase: a key found in the registry resolves
// immediately; an unknown key either fails with an UnresolvedError or,
// when a module Loader is configured, resolves through the loader on a
// separate goroutine and completes the original bind step through an
// explicit continuation.
package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/options"
)

// Factory constructs a handler for an element with its parsed options.
// Construction errors from factories resolved synchronously propagate to
// the caller of the binding pass.
type Factory func(el *dom.Element, opts options.Values) error

// Loader resolves handler modules that were not registered up front.
// Implementations load the module named by key and return its default
// export as a Factory. Returning a nil Factory without error means the
// module could not provide a handler.
type Loader interface {
	Load(ctx context.Context, key string) (Factory, error)
}

// LoaderFunc is a function adapter for Loader.
type LoaderFunc func(ctx context.Context, key string) (Factory, error)

// Load implements the Loader interface.
func (f LoaderFunc) Load(ctx context.Context, key string) (Factory, error) {
	return f(ctx, key)
}

// Registry stores handler factories by key. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	loader    Loader
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoader configures deferred module loading for unknown keys.
func WithLoader(l Loader) Option {
	return func(r *Registry) {
		r.loader = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds a factory to a key, overwriting any prior binding.
func (r *Registry) Register(key string, f Factory) {
	r.mu.Lock()
	r.factories[key] = f
	r.mu.Unlock()
}

// Unregister removes the binding for a key.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	delete(r.factories, key)
	r.mu.Unlock()
}

// Has reports whether a factory is registered for the key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[key]
	return ok
}

// Keys returns all registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered keys.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// HasLoader reports whether deferred module loading is configured.
func (r *Registry) HasLoader() bool {
	return r.loader != nil
}

// Resolve returns the factory for a key. Unknown keys fail with an
// UnresolvedError; when a loader is configured the caller should fall
// back to ResolveDeferred.
func (r *Registry) Resolve(key string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnresolvedError{Key: key}
	}
	return f, nil
}

// ResolveDeferred resolves a key through the configured loader on a
// separate goroutine and invokes done with the outcome. A registration
// that lands while the load is in flight wins over the loaded value; a
// load that yields nothing fails with an UnresolvedError. Without a
// loader, done is invoked synchronously with an UnresolvedError.
func (r *Registry) ResolveDeferred(ctx context.Context, key string, done func(Factory, error)) {
	if r.loader == nil {
		done(nil, &UnresolvedError{Key: key})
		return
	}

	go func() {
		loaded, err := r.loader.Load(ctx, key)

		// Retry against the registry first: an explicit registration
		// fulfilled while loading takes precedence.
		if f, resolveErr := r.Resolve(key); resolveErr == nil {
			done(f, nil)
			return
		}

		if err != nil {
			done(nil, &UnresolvedError{Key: key, Err: err})
			return
		}
		if loaded == nil {
			done(nil, &UnresolvedError{Key: key})
			return
		}

		r.Register(key, loaded)
		done(loaded, nil)
	}()
}
