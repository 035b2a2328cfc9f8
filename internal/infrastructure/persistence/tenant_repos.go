package persistence

import (
	"context"
	"sync"

	"github.com/storepos/backend/internal/domain/store"
)

// TenantRepos bundles the repositories bound to one store's database
// handle. Repository instances are cached per store so lazy schema
// initialization runs once per process and store, not once per request.
type TenantRepos struct {
	Products *GormProductRepository
	Sales    *GormSaleRepository
	Supply   *GormSupplyRepository
}

// TenantReposProvider resolves a store ID to its repository bundle
// through the registry.
type TenantReposProvider struct {
	registry store.Registry

	mu    sync.Mutex
	cache map[uint64]*TenantRepos
}

// NewTenantReposProvider creates a provider over the given registry
func NewTenantReposProvider(registry store.Registry) *TenantReposProvider {
	return &TenantReposProvider{
		registry: registry,
		cache:    make(map[uint64]*TenantRepos),
	}
}

// For returns the repository bundle for a store, resolving (and if
// needed provisioning) the store's database first.
func (p *TenantReposProvider) For(ctx context.Context, storeID uint64) (*TenantRepos, error) {
	p.mu.Lock()
	if repos, ok := p.cache[storeID]; ok {
		p.mu.Unlock()
		return repos, nil
	}
	p.mu.Unlock()

	// Resolve outside the lock; provisioning can block on the engine.
	handle, err := p.registry.Resolve(ctx, storeID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if repos, ok := p.cache[storeID]; ok {
		return repos, nil
	}
	repos := &TenantRepos{
		Products: NewGormProductRepository(handle),
		Sales:    NewGormSaleRepository(handle),
		Supply:   NewGormSupplyRepository(handle),
	}
	p.cache[storeID] = repos
	return repos, nil
}
