package actions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAction is returned when an action name was never registered.
var ErrUnknownAction = errors.New("unknown action")

// Registry maps stable action names to their implementations.
//
// The mapping is populated at startup and only ever grows; registration is
// last-write-wins, so a later Register with the same name shadows the
// earlier one. The registry itself spawns no concurrency: Invoke runs the
// action inline on the caller's goroutine, and serializing invocations is
// the caller's responsibility.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// AddProvider registers every action of the given provider.
func (r *Registry) AddProvider(provider Provider) {
	provider.Register(r)
}

// Register adds an action under the given name, replacing any earlier
// registration with the same name.
func (r *Registry) Register(name string, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = action
}

// Invoke runs the named action with the given query and selected text.
// It returns ErrUnknownAction (wrapped with the name) if no action was
// registered under name. Any failure from the action itself is propagated
// unchanged.
func (r *Registry) Invoke(ctx context.Context, name, query, selection string) ([]string, error) {
	r.mu.RLock()
	action, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	return action.Invoke(ctx, query, selection)
}

// Has reports whether an action is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Names returns the names of all registered actions, sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.actions)
}
