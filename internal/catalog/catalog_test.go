package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store/memory"
)

// countingCache is an in-process ProductCache that records traffic so tests
// can assert the cache-first read path.
type countingCache struct {
	entries     map[string]*domain.Product
	gets        int
	sets        int
	invalidates int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string]*domain.Product{}}
}

func (c *countingCache) Get(_ context.Context, id string) (*domain.Product, bool, error) {
	c.gets++
	p, ok := c.entries[id]
	return p, ok, nil
}

func (c *countingCache) Set(_ context.Context, product *domain.Product, _ time.Duration) error {
	c.sets++
	c.entries[product.ID] = product
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, id string) error {
	c.invalidates++
	delete(c.entries, id)
	return nil
}

func TestGetProductFillsCacheOnMiss(t *testing.T) {
	repo := memory.NewSeeded()
	cc := newCountingCache()
	accessor := NewAccessor(repo, cc, 30*time.Second)
	ctx := context.Background()

	product, err := accessor.GetProduct(ctx, "prod-skol-350")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Name != "Skol Lata 350ml" {
		t.Fatalf("unexpected product %s", product.Name)
	}
	if cc.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", cc.sets)
	}

	if _, err := accessor.GetProduct(ctx, "prod-skol-350"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if cc.sets != 1 {
		t.Fatalf("expected cache hit on second read, got %d fills", cc.sets)
	}
	if cc.gets != 2 {
		t.Fatalf("expected 2 cache lookups, got %d", cc.gets)
	}
}

func TestInvalidateDropsCachedCopy(t *testing.T) {
	repo := memory.NewSeeded()
	cc := newCountingCache()
	accessor := NewAccessor(repo, cc, 30*time.Second)
	ctx := context.Background()

	if _, err := accessor.GetProduct(ctx, "prod-coca-2l"); err != nil {
		t.Fatalf("get product: %v", err)
	}
	accessor.Invalidate(ctx, "prod-coca-2l")
	if cc.invalidates != 1 {
		t.Fatalf("expected one invalidation, got %d", cc.invalidates)
	}

	if _, err := accessor.GetProduct(ctx, "prod-coca-2l"); err != nil {
		t.Fatalf("re-read after invalidate: %v", err)
	}
	if cc.sets != 2 {
		t.Fatalf("expected cache refill after invalidate, got %d fills", cc.sets)
	}
}

func TestGetProductByBarcodeBypassesCache(t *testing.T) {
	repo := memory.NewSeeded()
	cc := newCountingCache()
	accessor := NewAccessor(repo, cc, 30*time.Second)

	product, err := accessor.GetProductByBarcode(context.Background(), "7891149100118")
	if err != nil {
		t.Fatalf("barcode lookup: %v", err)
	}
	if product.ID != "prod-skol-350" {
		t.Fatalf("expected unit barcode to resolve to prod-skol-350, got %s", product.ID)
	}
	if cc.gets != 0 || cc.sets != 0 {
		t.Fatalf("expected barcode lookup to skip the cache, got %d gets / %d sets", cc.gets, cc.sets)
	}
}

func TestNewAccessorDefaultsToNoopCache(t *testing.T) {
	repo := memory.NewSeeded()
	accessor := NewAccessor(repo, nil, 0)

	if _, err := accessor.GetProduct(context.Background(), "prod-skol-350"); err != nil {
		t.Fatalf("get product without cache: %v", err)
	}
}
