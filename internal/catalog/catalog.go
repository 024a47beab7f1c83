// Package catalog is the read-only product view consumed by pricing, cart
// and reporting. Reads go through an optional cache; writes (stock
// mutations) bypass it and invalidate.
package catalog

import (
	"context"
	"log"
	"time"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/cache"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
)

type Accessor struct {
	repo  store.Repository
	cache cache.ProductCache
	ttl   time.Duration
}

func NewAccessor(repo store.Repository, productCache cache.ProductCache, ttl time.Duration) *Accessor {
	if productCache == nil {
		productCache = cache.NoopProductCache{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Accessor{repo: repo, cache: productCache, ttl: ttl}
}

// GetProduct prefers the cache and falls back to the repository. Cache
// failures are logged, never surfaced.
func (a *Accessor) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if cached, ok, err := a.cache.Get(ctx, id); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("[catalog] WARN: cache get failed for %s: %v", id, err)
	}

	product, err := a.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Set(ctx, product, a.ttl); err != nil {
		log.Printf("[catalog] WARN: cache set failed for %s: %v", id, err)
	}
	return product, nil
}

// GetProductByBarcode resolves base or unit barcodes. Barcode lookups are
// not cached; they always hit the repository.
func (a *Accessor) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return a.repo.GetProductByBarcode(ctx, barcode)
}

func (a *Accessor) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return a.repo.ListProducts(ctx)
}

// Invalidate drops the cached copy after a stock or catalog write.
func (a *Accessor) Invalidate(ctx context.Context, id string) {
	if err := a.cache.Invalidate(ctx, id); err != nil {
		log.Printf("[catalog] WARN: cache invalidate failed for %s: %v", id, err)
	}
}
