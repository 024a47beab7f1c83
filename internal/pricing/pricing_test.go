package pricing

import (
	"errors"
	"testing"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:             "prod-skol",
		Name:           "Skol Lata 350ml",
		Price:          4.50,
		WholesalePrice: ptr(3.20),
		ColdPrice:      ptr(4.00),
		Cost:           2.40,
		ColdCost:       2.60,
		Units: []domain.ProductUnit{
			{Name: "Fardo 12un", Price: 36.00, Multiplier: 12},
		},
	}
}

func TestResolveWholesaleTier(t *testing.T) {
	quote, err := Resolve(sampleProduct(), domain.TierWholesale, nil, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 3.20 {
		t.Fatalf("expected wholesale price 3.20, got %.2f", quote.UnitPrice)
	}
	if quote.UnitCost != 2.40 {
		t.Fatalf("expected cost 2.40, got %.2f", quote.UnitCost)
	}
	if quote.StockDeductionPerUnit != 1 {
		t.Fatalf("expected deduction 1, got %.2f", quote.StockDeductionPerUnit)
	}
}

func TestResolveColdTierUsesColdCost(t *testing.T) {
	quote, err := Resolve(sampleProduct(), domain.TierCold, nil, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 4.00 {
		t.Fatalf("expected cold price 4.00, got %.2f", quote.UnitPrice)
	}
	if quote.UnitCost != 2.60 {
		t.Fatalf("expected cold cost 2.60, got %.2f", quote.UnitCost)
	}
}

func TestResolveColdCostFallsBackToWholesaleCost(t *testing.T) {
	p := sampleProduct()
	p.ColdCost = 0
	quote, err := Resolve(p, domain.TierCold, nil, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitCost != 2.40 {
		t.Fatalf("expected fallback cost 2.40, got %.2f", quote.UnitCost)
	}
}

func TestResolveMissingTierPriceFails(t *testing.T) {
	p := sampleProduct()
	p.WholesalePrice = nil
	_, err := Resolve(p, domain.TierWholesale, nil, nil)
	if !errors.Is(err, ErrTierUnavailable) {
		t.Fatalf("expected ErrTierUnavailable, got %v", err)
	}
}

func TestResolveMissingTierPriceWithUnitSucceeds(t *testing.T) {
	p := sampleProduct()
	p.WholesalePrice = nil
	unit := &p.Units[0]
	quote, err := Resolve(p, domain.TierWholesale, unit, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 36.00 {
		t.Fatalf("expected unit price 36.00, got %.2f", quote.UnitPrice)
	}
	if quote.StockDeductionPerUnit != 12 {
		t.Fatalf("expected deduction 12, got %.2f", quote.StockDeductionPerUnit)
	}
	if quote.UnitCost != 2.40*12 {
		t.Fatalf("expected unit cost %.2f, got %.2f", 2.40*12, quote.UnitCost)
	}
}

func TestResolveMissingTierPriceWithCustomPriceSucceeds(t *testing.T) {
	p := sampleProduct()
	p.WholesalePrice = nil
	quote, err := Resolve(p, domain.TierWholesale, nil, ptr(3.00))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 3.00 {
		t.Fatalf("expected custom price 3.00, got %.2f", quote.UnitPrice)
	}
}

func TestResolveCustomPriceOverridesUnitPriceOnly(t *testing.T) {
	p := sampleProduct()
	unit := &p.Units[0]
	quote, err := Resolve(p, domain.TierWholesale, unit, ptr(34.00))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 34.00 {
		t.Fatalf("expected overridden price 34.00, got %.2f", quote.UnitPrice)
	}
	if quote.UnitCost != 2.40*12 {
		t.Fatalf("custom price must not change cost, got %.2f", quote.UnitCost)
	}
	if quote.StockDeductionPerUnit != 12 {
		t.Fatalf("custom price must not change deduction, got %.2f", quote.StockDeductionPerUnit)
	}
}

func TestResolveBundleCostNormalization(t *testing.T) {
	// Wholesale tier sold as a 12-unit case: the raw cost is per case, so
	// the per-base-unit cost is cost/12 and one sold case deducts 12.
	p := &domain.Product{
		Name:                    "Guarana Antartica Caixa",
		Price:                   54.00,
		WholesalePrice:          ptr(48.00),
		Cost:                    36.00,
		WholesaleUnitMultiplier: 12,
	}
	if got := BaseUnitCost(p, domain.TierWholesale); got != 3.00 {
		t.Fatalf("expected base unit cost 3.00, got %.2f", got)
	}

	quote, err := Resolve(p, domain.TierWholesale, nil, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.UnitPrice != 48.00 {
		t.Fatalf("expected price 48.00, got %.2f", quote.UnitPrice)
	}
	if quote.UnitCost != 36.00 {
		t.Fatalf("expected effective cost 36.00 for one case, got %.2f", quote.UnitCost)
	}
	if quote.StockDeductionPerUnit != 12 {
		t.Fatalf("expected deduction 12, got %.2f", quote.StockDeductionPerUnit)
	}
}

func TestResolveInvalidTier(t *testing.T) {
	if _, err := Resolve(sampleProduct(), domain.PriceTier("retail"), nil, nil); err == nil {
		t.Fatalf("expected error for invalid tier")
	}
}

func TestApproxEqual(t *testing.T) {
	if !ApproxEqual(3.20, 3.2049) {
		t.Fatalf("expected values within epsilon to match")
	}
	if ApproxEqual(3.20, 3.21) {
		t.Fatalf("expected values outside epsilon to differ")
	}
}
