// Package pricing resolves the effective unit price, unit cost and stock
// deduction for a product at a given price tier.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
)

// Epsilon is the money comparison tolerance: half a currency minor unit.
// Used when classifying historical lines whose tier flags are missing.
const Epsilon = 0.005

// ErrTierUnavailable means the requested tier has no price configured for
// the product and neither a unit nor a custom price was supplied.
var ErrTierUnavailable = errors.New("price tier unavailable")

// Quote is the result of resolving a product at a tier.
type Quote struct {
	UnitPrice             float64
	UnitCost              float64
	StockDeductionPerUnit float64
}

// ApproxEqual reports whether two currency amounts are equal within Epsilon.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// TierPrice returns the tier's explicit price, or nil when the product is not
// priced at that tier.
func TierPrice(p *domain.Product, tier domain.PriceTier) *float64 {
	if tier == domain.TierCold {
		return p.ColdPrice
	}
	return p.WholesalePrice
}

// CostMultiplier returns the bundle-size factor that normalizes the tier's
// raw cost to a cost per base stock unit. Zero multipliers count as 1.
func CostMultiplier(p *domain.Product, tier domain.PriceTier) float64 {
	m := p.WholesaleUnitMultiplier
	if tier == domain.TierCold {
		m = p.ColdUnitMultiplier
	}
	if m <= 0 {
		return 1
	}
	return m
}

// BaseUnitCost is the tier's cost per base stock unit. The cold tier falls
// back to the wholesale cost when no cold cost is configured.
func BaseUnitCost(p *domain.Product, tier domain.PriceTier) float64 {
	raw := p.Cost
	if tier == domain.TierCold && p.ColdCost > 0 {
		raw = p.ColdCost
	}
	return raw / CostMultiplier(p, tier)
}

// Resolve computes the quote for selling product p at the given tier.
// unit selects alternate packaging (its price is authoritative and not
// tier-dependent); a positive customPrice overrides the unit price
// unconditionally without touching the cost computation.
func Resolve(p *domain.Product, tier domain.PriceTier, unit *domain.ProductUnit, customPrice *float64) (Quote, error) {
	if p == nil {
		return Quote{}, fmt.Errorf("pricing: nil product")
	}
	if !tier.Valid() {
		return Quote{}, fmt.Errorf("pricing: invalid tier %q", tier)
	}

	hasCustom := customPrice != nil && *customPrice > 0
	tierPrice := TierPrice(p, tier)
	if tierPrice == nil && unit == nil && !hasCustom {
		return Quote{}, fmt.Errorf("%w: %s has no %s price", ErrTierUnavailable, p.Name, tier)
	}

	var quote Quote
	if unit != nil {
		quote = Quote{
			UnitPrice:             unit.Price,
			UnitCost:              BaseUnitCost(p, tier) * unit.Multiplier,
			StockDeductionPerUnit: unit.Multiplier,
		}
	} else {
		basePrice := p.Price
		if tierPrice != nil {
			basePrice = *tierPrice
		}
		// Selling one tier unit consumes CostMultiplier base stock units, so
		// its effective cost is the normalized base cost times that factor.
		mult := CostMultiplier(p, tier)
		quote = Quote{
			UnitPrice:             basePrice,
			UnitCost:              BaseUnitCost(p, tier) * mult,
			StockDeductionPerUnit: mult,
		}
	}

	if hasCustom {
		quote.UnitPrice = *customPrice
	}
	return quote, nil
}
