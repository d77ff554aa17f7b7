// Package registry holds the near-time callbacks that Call operations refer to.
//
// A Registry can be handed to an experiment with experiment.WithCallbacks so
// that calls to unregistered functions are rejected while the tree is built.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/qdsl/pkg/domain"
)

// Callback defines the signature of a near-time callback.
// It receives a context and the call arguments, and returns a result or error.
type Callback func(ctx context.Context, args map[string]any) (any, error)

// Registry manages the available callbacks. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	callbacks map[string]Callback
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		callbacks: make(map[string]Callback),
	}
}

// Register adds a callback to the registry.
// If a callback with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[name] = fn
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.callbacks[name]
	return ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks up a callback by name and executes it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.callbacks[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("callback %q: %w", name, domain.ErrUnknownCallback)
	}

	return fn(ctx, args)
}

// ExecuteCalls runs the callback of every Call in ops, in order, and returns
// their results. Other operation kinds are skipped. It stops at the first
// failure or when ctx is done.
func (r *Registry) ExecuteCalls(ctx context.Context, ops []domain.Operation) ([]any, error) {
	var results []any
	for _, op := range ops {
		call, ok := op.(domain.Call)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.Execute(ctx, call.FuncName, call.Args.Interface())
		if err != nil {
			return results, fmt.Errorf("executing call %q: %w", call.FuncName, err)
		}
		results = append(results, res)
	}
	return results, nil
}
