// Package report computes revenue, cost of goods sold and profit over
// finalized sales, attributed per price tier: Atacado (wholesale) and
// Mercearia (cold/retail counter).
package report

import (
	"context"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/pricing"
)

// Bucket aggregates money for one tier.
type Bucket struct {
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

func (b *Bucket) add(revenue, cost float64) {
	b.Revenue += revenue
	b.Cost += cost
	b.Profit += revenue - cost
}

// Summary is the tier-attributed profit report.
type Summary struct {
	Atacado   Bucket `json:"atacado"`
	Mercearia Bucket `json:"mercearia"`
	Total     Bucket `json:"total"`
	Sales     int    `json:"sales"`
}

// ProductSource resolves products for cost fallback on legacy sale lines
// that carry no unit cost snapshot.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type Reporter struct {
	products ProductSource
}

func NewReporter(products ProductSource) *Reporter {
	return &Reporter{products: products}
}

// Summarize attributes every sale line to a tier bucket.
//
// Cold lines always land in Mercearia, inferred from the line flag or the
// sale's price type. Everything else counts as Atacado: explicitly via the
// wholesale flag, via a wholesale-tier sale, via a tolerance match of the
// unit price against the wholesale price snapshot (records written before
// the flags existed), or by default.
func (r *Reporter) Summarize(ctx context.Context, sales []domain.Sale) Summary {
	var summary Summary
	summary.Sales = len(sales)

	for _, sale := range sales {
		saleCold := sale.PriceType == domain.TierCold
		for _, item := range sale.Items {
			revenue := item.Total
			cost := r.lineCost(ctx, item, saleCold)

			switch {
			case item.IsCold:
				summary.Mercearia.add(revenue, cost)
			case item.IsWholesale:
				summary.Atacado.add(revenue, cost)
			case saleCold:
				summary.Mercearia.add(revenue, cost)
			case item.WholesalePrice != nil && pricing.ApproxEqual(item.UnitPrice, *item.WholesalePrice):
				// Legacy line without flags priced at the wholesale tier.
				summary.Atacado.add(revenue, cost)
			default:
				summary.Atacado.add(revenue, cost)
			}
			summary.Total.add(revenue, cost)
		}
	}
	return summary
}

// lineCost returns the line's total cost: snapshot when present,
// catalog-derived otherwise.
func (r *Reporter) lineCost(ctx context.Context, item domain.SaleItem, saleCold bool) float64 {
	unitCost := item.UnitCost
	if unitCost <= 0 && r.products != nil {
		unitCost = r.fallbackUnitCost(ctx, item, saleCold)
	}
	return unitCost * item.Quantity
}

// fallbackUnitCost derives a unit cost from the current catalog record for
// sale lines persisted without one. The raw cost is normalized by the
// matching tier's multiplier to a per-base-unit cost, then scaled back up
// by what one sold unit actually deducts.
func (r *Reporter) fallbackUnitCost(ctx context.Context, item domain.SaleItem, saleCold bool) float64 {
	product, err := r.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return 0
	}

	tier := domain.TierWholesale
	if item.IsCold || (!item.IsWholesale && saleCold) {
		tier = domain.TierCold
	}

	base := pricing.BaseUnitCost(product, tier)
	if item.Unit != nil && item.Unit.Multiplier > 0 {
		return base * item.Unit.Multiplier
	}
	if per := item.StockDeductionPerUnit; per > 0 {
		return base * per
	}
	return base * pricing.CostMultiplier(product, tier)
}
