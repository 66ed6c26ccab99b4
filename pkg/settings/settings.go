// Package settings is the key/value state provider behind actor preferences
// and shared configuration: per-actor values scoped to one identity, and a
// global scope shared by every conversation.
package settings

import "context"

// Provider stores string key/value state. Get-or-default persists the
// default on first read so later reads observe the same value.
type Provider interface {
	GetOrDefault(ctx context.Context, actorID, key, def string) (string, error)
	Set(ctx context.Context, actorID, key, value string) error
	GetOrDefaultGlobal(ctx context.Context, key, def string) (string, error)
	SetGlobal(ctx context.Context, key, value string) error
}

// Handle is a provider view bound to one actor identity.
type Handle struct {
	provider Provider
	actorID  string
}

// NewHandle binds a provider to an actor identity.
func NewHandle(provider Provider, actorID string) *Handle {
	return &Handle{provider: provider, actorID: actorID}
}

// GetOrDefault reads the actor-scoped value for key, persisting and
// returning def when absent.
func (h *Handle) GetOrDefault(ctx context.Context, key, def string) (string, error) {
	return h.provider.GetOrDefault(ctx, h.actorID, key, def)
}

// Set writes an actor-scoped value.
func (h *Handle) Set(ctx context.Context, key, value string) error {
	return h.provider.Set(ctx, h.actorID, key, value)
}

// GetOrDefaultGlobal reads a value from the shared scope.
func (h *Handle) GetOrDefaultGlobal(ctx context.Context, key, def string) (string, error) {
	return h.provider.GetOrDefaultGlobal(ctx, key, def)
}

// SetGlobal writes a value into the shared scope.
func (h *Handle) SetGlobal(ctx context.Context, key, value string) error {
	return h.provider.SetGlobal(ctx, key, value)
}
