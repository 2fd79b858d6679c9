// Package registry holds the process-wide explanation-provider state.
package registry

import (
	"fmt"
	"sync/atomic"

	"github.com/factlens/factlens/internal/model"
)

// ErrInvalidProvider is returned when a switch names an unknown provider.
// The registry state is left unchanged.
type ErrInvalidProvider struct {
	Provider string
}

func (e *ErrInvalidProvider) Error() string {
	return fmt.Sprintf("unknown provider: %s (supported: %s, %s)", e.Provider, model.ProviderOpenAI, model.ProviderOllama)
}

// Registry stores the active ProviderState behind an atomic pointer.
// Reads never block, and a switch is a single pointer swap: a concurrent
// reader sees either the old state or the new one, never a partial update.
type Registry struct {
	state atomic.Pointer[model.ProviderState]
}

// New creates a registry initialized to the given provider and reasoning flag.
func New(provider string, reasoning bool) (*Registry, error) {
	if !model.KnownProvider(provider) {
		return nil, &ErrInvalidProvider{Provider: provider}
	}
	r := &Registry{}
	r.state.Store(&model.ProviderState{Provider: provider, ReasoningEnabled: reasoning})
	return r, nil
}

// GetActive returns a snapshot of the current state. Requests call this
// exactly once, at pipeline start, and use the snapshot for their lifetime.
func (r *Registry) GetActive() model.ProviderState {
	return *r.state.Load()
}

// SwitchProvider atomically replaces the active provider, preserving the
// reasoning flag. Takes effect only for requests that snapshot afterwards.
func (r *Registry) SwitchProvider(id string) (model.ProviderState, error) {
	if !model.KnownProvider(id) {
		return r.GetActive(), &ErrInvalidProvider{Provider: id}
	}
	for {
		old := r.state.Load()
		next := &model.ProviderState{Provider: id, ReasoningEnabled: old.ReasoningEnabled}
		if r.state.CompareAndSwap(old, next) {
			return *next, nil
		}
	}
}

// SetReasoning atomically updates the reasoning flag, preserving the provider.
func (r *Registry) SetReasoning(enabled bool) model.ProviderState {
	for {
		old := r.state.Load()
		next := &model.ProviderState{Provider: old.Provider, ReasoningEnabled: enabled}
		if r.state.CompareAndSwap(old, next) {
			return *next
		}
	}
}
