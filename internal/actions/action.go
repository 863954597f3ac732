// Package actions provides the action framework for Scribe.
//
// An action is a named unit of behavior that takes the palette query and the
// currently selected text and produces one or more answer strings. Actions
// are registered once at startup and invoked by name through a Registry.
package actions

import (
	"context"
)

// Action is the uniform invocation contract for a registered action.
// It is implemented by ImmediateFunc and DeferredFunc; whether an action may
// suspend is explicit in which of the two it is built from, so callers never
// need runtime introspection.
type Action interface {
	// Invoke runs the action with the given query and selected text.
	Invoke(ctx context.Context, query, selection string) ([]string, error)
}

// ImmediateFunc adapts a plain synchronous function into an Action.
// Immediate actions must not block; they run inline on the caller's
// goroutine and ignore cancellation.
type ImmediateFunc func(query, selection string) (string, error)

// Invoke implements Action.
func (f ImmediateFunc) Invoke(_ context.Context, query, selection string) ([]string, error) {
	result, err := f(query, selection)
	if err != nil {
		return nil, err
	}
	return []string{result}, nil
}

// DeferredFunc adapts a blocking, cancellation-aware function into an
// Action. Deferred actions receive the caller's context and are expected to
// honor it while waiting on I/O.
type DeferredFunc func(ctx context.Context, query, selection string) ([]string, error)

// Invoke implements Action.
func (f DeferredFunc) Invoke(ctx context.Context, query, selection string) ([]string, error) {
	return f(ctx, query, selection)
}

// Provider registers a family of related actions with a registry.
type Provider interface {
	// Register adds all of the provider's actions to the registry.
	Register(r *Registry)
}
