// Package session holds the read-through memo cache that lives for a single
// enrichment run.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// Cache memoizes provider lookups for one session. Firm info is keyed by
// provider and firm name; portfolio and deals by provider and provider id.
// Entries are never evicted, so a Cache should be dropped when its run ends.
type Cache struct {
	ID string

	info      memo[model.FirmInfo]
	portfolio memo[[]model.PortfolioCompany]
	deals     memo[[]model.Deal]
}

// New creates an empty cache with a fresh session ID.
func New() *Cache {
	return &Cache{ID: uuid.NewString()}
}

// Info returns the cached firm info for (provider, name), calling load on a
// miss.
func (c *Cache) Info(ctx context.Context, provider, name string, load func(context.Context) (model.FirmInfo, error)) (model.FirmInfo, error) {
	return c.info.get(ctx, provider+"\x00"+name, load)
}

// Portfolio returns the cached portfolio for (provider, id).
func (c *Cache) Portfolio(ctx context.Context, provider, id string, load func(context.Context) ([]model.PortfolioCompany, error)) ([]model.PortfolioCompany, error) {
	return c.portfolio.get(ctx, provider+"\x00"+id, load)
}

// Deals returns the cached deal list for (provider, id).
func (c *Cache) Deals(ctx context.Context, provider, id string, load func(context.Context) ([]model.Deal, error)) ([]model.Deal, error) {
	return c.deals.get(ctx, provider+"\x00"+id, load)
}

// Stats reports lookups served from the cache and loads performed.
func (c *Cache) Stats() (hits, loads int64) {
	hits = c.info.hits.Load() + c.portfolio.hits.Load() + c.deals.hits.Load()
	loads = c.info.loads.Load() + c.portfolio.loads.Load() + c.deals.loads.Load()
	return hits, loads
}

// memo is an unbounded map filled at most once per key. Concurrent misses on
// the same key share one load. Failed loads are not stored.
type memo[T any] struct {
	mu     sync.RWMutex
	values map[string]T
	group  singleflight.Group

	hits  atomic.Int64
	loads atomic.Int64
}

func (m *memo[T]) get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.RLock()
		v, ok := m.values[key]
		m.mu.RUnlock()
		if ok {
			return v, nil
		}

		m.loads.Add(1)
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		if m.values == nil {
			m.values = make(map[string]T)
		}
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
