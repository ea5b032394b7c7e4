// Package provider defines the structured data-provider interface for
// investor lookups and its Crunchbase, PitchBook and fixture variants.
package provider

import (
	"context"
	"sort"
	"sync"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// Provider looks up a firm by name and lists its portfolio and deals by the
// provider-issued id. Implementations normalize their wire format into the
// model types; an unknown firm is an empty FirmInfo, not an error.
type Provider interface {
	// Name returns the provider identifier used in config and cache keys.
	Name() string
	GetInfo(ctx context.Context, name string) (model.FirmInfo, error)
	GetPortfolio(ctx context.Context, id string) ([]model.PortfolioCompany, error)
	GetDeals(ctx context.Context, id string) ([]model.Deal, error)
}

// Registry manages available providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider, replacing any with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named providers in the given order, skipping names that
// are not registered.
func (r *Registry) Select(names []string) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		if p, ok := r.providers[name]; ok {
			out = append(out, p)
		}
	}
	return out
}
