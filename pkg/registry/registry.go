package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// HandlerFunc defines the signature for a host-registered command handler.
// It receives the already-interpolated command and the container in play, and
// returns the node to append, or nil for a pure side effect.
type HandlerFunc func(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error)

// Registry manages host-registered command handlers. Built-in command kinds
// always dispatch first; the registry extends the vocabulary beyond them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a handler for a command kind.
// If a handler for the same kind exists, it is overwritten.
func (r *Registry) Register(kind string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// Lookup returns the handler for kind, if one is registered.
func (r *Registry) Lookup(kind string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[kind]
	return fn, ok
}

// Execute looks up a handler by kind and executes it.
// Returns an error if no handler is registered.
func (r *Registry) Execute(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error) {
	fn, ok := r.Lookup(cmd.Type)
	if !ok {
		return nil, fmt.Errorf("no handler for command type %q", cmd.Type)
	}
	return fn(ctx, cmd, container)
}

// Kinds returns the registered command kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	sort.Strings(kinds)
	return kinds
}
