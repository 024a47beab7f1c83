package report

import (
	"context"
	"testing"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store/memory"
)

func ptr(v float64) *float64 { return &v }

func TestSummarizeAttributesTiers(t *testing.T) {
	reporter := NewReporter(nil)

	sales := []domain.Sale{
		{
			PriceType: domain.TierWholesale,
			Items: []domain.SaleItem{
				// Flagged wholesale line.
				{Quantity: 10, UnitPrice: 3.20, UnitCost: 2.40, Total: 32.00, IsWholesale: true},
				// Flagged cold line inside a wholesale sale still lands in
				// Mercearia.
				{Quantity: 2, UnitPrice: 4.00, UnitCost: 2.60, Total: 8.00, IsCold: true},
			},
		},
		{
			PriceType: domain.TierCold,
			Items: []domain.SaleItem{
				// Legacy line without flags inherits the sale's tier.
				{Quantity: 5, UnitPrice: 2.50, UnitCost: 0.95, Total: 12.50},
			},
		},
	}

	summary := reporter.Summarize(context.Background(), sales)

	if summary.Sales != 2 {
		t.Fatalf("expected 2 sales, got %d", summary.Sales)
	}
	if summary.Atacado.Revenue != 32.00 {
		t.Fatalf("expected atacado revenue 32.00, got %.2f", summary.Atacado.Revenue)
	}
	if summary.Atacado.Cost != 24.00 {
		t.Fatalf("expected atacado cost 24.00, got %.2f", summary.Atacado.Cost)
	}
	if summary.Atacado.Profit != 8.00 {
		t.Fatalf("expected atacado profit 8.00, got %.2f", summary.Atacado.Profit)
	}

	wantMerceariaRevenue := 8.00 + 12.50
	if summary.Mercearia.Revenue != wantMerceariaRevenue {
		t.Fatalf("expected mercearia revenue %.2f, got %.2f", wantMerceariaRevenue, summary.Mercearia.Revenue)
	}

	if summary.Total.Revenue != summary.Atacado.Revenue+summary.Mercearia.Revenue {
		t.Fatalf("total revenue must equal the sum of buckets")
	}
	if summary.Total.Profit != summary.Total.Revenue-summary.Total.Cost {
		t.Fatalf("total profit must be revenue minus cost")
	}
}

func TestSummarizeCostFallbackFromCatalog(t *testing.T) {
	repo := memory.New()
	created, err := repo.CreateProduct(context.Background(), domain.Product{
		Name:                    "Guarana Antartica Caixa",
		Price:                   54.00,
		WholesalePrice:          ptr(48.00),
		Cost:                    36.00,
		WholesaleUnitMultiplier: 12,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	reporter := NewReporter(repo)
	sales := []domain.Sale{
		{
			PriceType: domain.TierWholesale,
			Items: []domain.SaleItem{
				// Legacy line without a cost snapshot: cost is derived from
				// the catalog (36.00 per case, 12 base units deducted).
				{ProductID: created.ID, Quantity: 2, UnitPrice: 48.00, Total: 96.00, IsWholesale: true, StockDeductionPerUnit: 12},
			},
		},
	}

	summary := reporter.Summarize(context.Background(), sales)
	if summary.Atacado.Cost != 72.00 {
		t.Fatalf("expected fallback cost 72.00, got %.2f", summary.Atacado.Cost)
	}
	if summary.Atacado.Profit != 24.00 {
		t.Fatalf("expected profit 24.00, got %.2f", summary.Atacado.Profit)
	}
}

func TestSummarizeLegacyLinesDefaultToAtacado(t *testing.T) {
	repo := memory.New()
	created, err := repo.CreateProduct(context.Background(), domain.Product{
		Name:           "Skol Lata 350ml",
		Price:          4.50,
		WholesalePrice: ptr(3.20),
		ColdPrice:      ptr(4.00),
		Cost:           2.40,
		ColdCost:       2.60,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	reporter := NewReporter(repo)
	sales := []domain.Sale{
		{
			PriceType: domain.TierWholesale,
			Items: []domain.SaleItem{
				// No flags, no cost snapshot: the unit price matches the
				// wholesale snapshot within tolerance, so the line counts
				// as Atacado with the wholesale cost.
				{ProductID: created.ID, Quantity: 1, UnitPrice: 3.20, Total: 3.20, WholesalePrice: ptr(3.20)},
				// No flags and priced at the cold price, but the only
				// epsilon rule is the wholesale-snapshot match: a non-cold
				// line stays in Atacado, costed at the wholesale cost.
				{ProductID: created.ID, Quantity: 1, UnitPrice: 4.00, Total: 4.00, ColdPrice: ptr(4.00)},
			},
		},
	}

	summary := reporter.Summarize(context.Background(), sales)
	if summary.Mercearia.Revenue != 0 {
		t.Fatalf("expected no mercearia attribution, got %+v", summary.Mercearia)
	}
	if summary.Atacado.Revenue != 7.20 {
		t.Fatalf("expected atacado revenue 7.20, got %.2f", summary.Atacado.Revenue)
	}
	if summary.Atacado.Cost != 4.80 {
		t.Fatalf("expected wholesale cost 4.80 for both lines, got %.2f", summary.Atacado.Cost)
	}
}

func TestSummarizeLegacyColdSaleUsesColdCost(t *testing.T) {
	repo := memory.New()
	created, err := repo.CreateProduct(context.Background(), domain.Product{
		Name:           "Skol Lata 350ml",
		Price:          4.50,
		WholesalePrice: ptr(3.20),
		ColdPrice:      ptr(4.00),
		Cost:           2.40,
		ColdCost:       2.60,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	reporter := NewReporter(repo)
	sales := []domain.Sale{
		{
			PriceType: domain.TierCold,
			Items: []domain.SaleItem{
				// No flags: coldness is inferred from the sale's tier, so
				// the fallback cost comes from the cold cost.
				{ProductID: created.ID, Quantity: 1, UnitPrice: 4.00, Total: 4.00},
			},
		},
	}

	summary := reporter.Summarize(context.Background(), sales)
	if summary.Mercearia.Revenue != 4.00 || summary.Atacado.Revenue != 0 {
		t.Fatalf("expected line attributed to mercearia, got %+v", summary)
	}
	if summary.Mercearia.Cost != 2.60 {
		t.Fatalf("expected inferred cold cost 2.60, got %.2f", summary.Mercearia.Cost)
	}
}

func TestSummarizeMissingProductCostsZero(t *testing.T) {
	reporter := NewReporter(memory.New())
	sales := []domain.Sale{
		{Items: []domain.SaleItem{{ProductID: "prod-gone", Quantity: 3, UnitPrice: 5, Total: 15}}},
	}

	summary := reporter.Summarize(context.Background(), sales)
	if summary.Total.Cost != 0 {
		t.Fatalf("expected zero cost for missing product, got %.2f", summary.Total.Cost)
	}
	if summary.Total.Revenue != 15 {
		t.Fatalf("expected revenue 15, got %.2f", summary.Total.Revenue)
	}
}
