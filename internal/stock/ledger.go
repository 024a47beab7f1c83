// Package stock is the authoritative read/mutate layer over a product's two
// stock pools: wholesale (Stock/ReservedStock) and cold
// (ColdStock/ReservedColdStock). Reservations are soft holds that reduce
// availability without touching physical quantities.
package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
)

// ProductStore is the slice of the repository the ledger needs.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProductStock(ctx context.Context, id string, upd domain.StockUpdate) error
}

// InsufficientStockError reports the quantities the user needs to resolve
// the rejection. It unwraps to store.ErrInsufficientStock.
type InsufficientStockError struct {
	ProductName string
	Pool        domain.PriceTier
	Requested   float64
	Available   float64
	Reserved    float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s pool): requested %.2f, available %.2f, reserved %.2f",
		e.ProductName, e.Pool, e.Requested, e.Available, e.Reserved)
}

func (e *InsufficientStockError) Unwrap() error { return store.ErrInsufficientStock }

// Ledger mutates stock pools through partial product updates. When
// allowOversell is set, reserve and deduct skip the availability check
// (the allowSaleWithoutStock configuration).
type Ledger struct {
	products      ProductStore
	allowOversell bool
}

func NewLedger(products ProductStore, allowOversell bool) *Ledger {
	return &Ledger{products: products, allowOversell: allowOversell}
}

// PoolQuantities returns the physical and reserved counters of one pool.
func PoolQuantities(p *domain.Product, pool domain.PriceTier) (physical, reserved float64) {
	if pool == domain.TierCold {
		return p.ColdStock, p.ReservedColdStock
	}
	return p.Stock, p.ReservedStock
}

// Available is the pool's sellable quantity, clamped at zero. Raw
// subtraction may transiently be negative; decisions never see that.
func Available(p *domain.Product, pool domain.PriceTier) float64 {
	physical, reserved := PoolQuantities(p, pool)
	if avail := physical - reserved; avail > 0 {
		return avail
	}
	return 0
}

// CheckAvailable returns an InsufficientStockError when amount exceeds the
// pool's availability. Oversell mode never rejects.
func (l *Ledger) CheckAvailable(p *domain.Product, pool domain.PriceTier, amount float64) error {
	return l.checkCredited(p, pool, amount, 0)
}

// checkCredited is CheckAvailable with credit counted back into
// availability: quantity the caller itself holds reserved on the pool must
// not block the caller. Credit never exceeds the pool's reserved counter.
func (l *Ledger) checkCredited(p *domain.Product, pool domain.PriceTier, amount, credit float64) error {
	if l.allowOversell {
		return nil
	}
	physical, reserved := PoolQuantities(p, pool)
	if credit > reserved {
		credit = reserved
	}
	othersReserved := reserved - credit
	avail := physical - othersReserved
	if avail < 0 {
		avail = 0
	}
	if amount > avail {
		return &InsufficientStockError{
			ProductName: p.Name,
			Pool:        pool,
			Requested:   amount,
			Available:   avail,
			Reserved:    othersReserved,
		}
	}
	return nil
}

// Reserve places a soft hold of amount on the pool. Physical stock is
// untouched. Fails without mutating anything when availability is short.
func (l *Ledger) Reserve(ctx context.Context, productID string, pool domain.PriceTier, amount float64) error {
	if amount <= 0 {
		return nil
	}
	p, err := l.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := l.CheckAvailable(p, pool, amount); err != nil {
		return err
	}
	_, reserved := PoolQuantities(p, pool)
	return l.writeReserved(ctx, productID, pool, reserved+amount)
}

// Release removes a soft hold. The reserved counter is clamped at zero so a
// double release cannot drive it negative.
func (l *Ledger) Release(ctx context.Context, productID string, pool domain.PriceTier, amount float64) error {
	if amount <= 0 {
		return nil
	}
	p, err := l.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	_, reserved := PoolQuantities(p, pool)
	next := reserved - amount
	if next < 0 {
		next = 0
	}
	return l.writeReserved(ctx, productID, pool, next)
}

// Deduct removes physical stock from the pool, clamped at zero unless
// oversell is permitted (then the raw value is kept so the shortfall stays
// visible to restocking).
func (l *Ledger) Deduct(ctx context.Context, productID string, pool domain.PriceTier, amount float64) error {
	if amount <= 0 {
		return nil
	}
	p, err := l.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	physical, _ := PoolQuantities(p, pool)
	next := physical - amount
	if next < 0 && !l.allowOversell {
		next = 0
	}
	return l.writePhysical(ctx, productID, pool, next)
}

// Restore adds physical stock back to the pool (the inverse of Deduct, used
// when a sale is cancelled or a finalized line is removed).
func (l *Ledger) Restore(ctx context.Context, productID string, pool domain.PriceTier, amount float64) error {
	if amount <= 0 {
		return nil
	}
	p, err := l.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	physical, _ := PoolQuantities(p, pool)
	return l.writePhysical(ctx, productID, pool, physical+amount)
}

func (l *Ledger) writeReserved(ctx context.Context, productID string, pool domain.PriceTier, value float64) error {
	upd := domain.StockUpdate{}
	if pool == domain.TierCold {
		upd.ReservedColdStock = &value
	} else {
		upd.ReservedStock = &value
	}
	return l.products.UpdateProductStock(ctx, productID, upd)
}

func (l *Ledger) writePhysical(ctx context.Context, productID string, pool domain.PriceTier, value float64) error {
	upd := domain.StockUpdate{}
	if pool == domain.TierCold {
		upd.ColdStock = &value
	} else {
		upd.Stock = &value
	}
	return l.products.UpdateProductStock(ctx, productID, upd)
}

// DemandKey identifies one (product, pool) bucket of aggregated demand.
type DemandKey struct {
	ProductID string
	Pool      domain.PriceTier
}

// AggregateDemand sums stock deductions per (product, pool) across all
// items. Availability must be checked against these sums, not line by line:
// the same product can appear twice in one cart (loose unit plus case) and
// per-line checks under-detect overselling.
func AggregateDemand(items []domain.SaleItem) map[DemandKey]float64 {
	demand := make(map[DemandKey]float64, len(items))
	for _, item := range items {
		key := DemandKey{ProductID: item.ProductID, Pool: item.Pool()}
		demand[key] += item.Deduction()
	}
	return demand
}

// CheckDemand validates aggregated demand against every touched pool.
// Missing products are reported via store.ErrNotFound.
func (l *Ledger) CheckDemand(ctx context.Context, demand map[DemandKey]float64) error {
	return l.CheckDemandCredited(ctx, demand, nil)
}

// CheckDemandCredited validates aggregated demand while crediting the
// caller's own holds back into availability. Fulfilling a presale uses
// this with the presale's reserved amounts: that hold exists to guarantee
// the stock being deducted, so it must never block its own fulfillment.
func (l *Ledger) CheckDemandCredited(ctx context.Context, demand, credit map[DemandKey]float64) error {
	for key, amount := range demand {
		p, err := l.products.GetProduct(ctx, key.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("product %s: %w", key.ProductID, store.ErrNotFound)
			}
			return err
		}
		if err := l.checkCredited(p, key.Pool, amount, credit[key]); err != nil {
			return err
		}
	}
	return nil
}
