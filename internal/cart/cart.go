// Package cart owns the mutable line-item collection of one in-progress
// transaction. A cart belongs to exactly one terminal session and is never
// persisted until saved as a presale or finalized as a sale.
package cart

import (
	"fmt"
	"sync"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/pricing"
)

// AddOptions tweaks AddItem behavior.
type AddOptions struct {
	// CustomPrice overrides the resolved unit price (must be positive).
	CustomPrice *float64
	// ReplaceQuantity makes a merge replace the existing quantity instead
	// of summing it.
	ReplaceQuantity bool
}

// Cart is safe for concurrent use; every mutation keeps line totals
// consistent (Total = Quantity*UnitPrice - Discount).
type Cart struct {
	mu            sync.Mutex
	items         []domain.CartLine
	customerName  string
	notes         string
	priceType     domain.PriceTier
	discount      float64
	presaleID     string
	editingSaleID string
	defaultTier   domain.PriceTier
}

func New(defaultTier domain.PriceTier) *Cart {
	if !defaultTier.Valid() {
		defaultTier = domain.TierWholesale
	}
	return &Cart{priceType: defaultTier, defaultTier: defaultTier}
}

func lineID(productID string, unit *domain.ProductUnit, cold bool) string {
	unitName := "base"
	if unit != nil {
		unitName = unit.Name
	}
	return fmt.Sprintf("%s|%s|%t", productID, unitName, cold)
}

// AddItem resolves pricing for the cart's current tier and either merges
// into an existing line with the same (product, unit, tier) identity or
// appends a new line with tier snapshots. A TierUnavailable rejection leaves
// the cart untouched.
func (c *Cart) AddItem(p *domain.Product, quantity float64, unit *domain.ProductUnit, opts AddOptions) (*domain.CartLine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("cart: quantity must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tier := c.priceType
	quote, err := pricing.Resolve(p, tier, unit, opts.CustomPrice)
	if err != nil {
		return nil, err
	}

	isCold := tier == domain.TierCold
	id := lineID(p.ID, unit, isCold)

	for i := range c.items {
		if c.items[i].CartItemID != id {
			continue
		}
		line := &c.items[i]
		if opts.ReplaceQuantity {
			line.Quantity = quantity
		} else {
			line.Quantity += quantity
		}
		line.UnitPrice = quote.UnitPrice
		line.UnitCost = quote.UnitCost
		line.StockDeductionPerUnit = quote.StockDeductionPerUnit
		recalc(line)
		snapshot := *line
		return &snapshot, nil
	}

	line := domain.CartLine{
		CartItemID:            id,
		ProductID:             p.ID,
		ProductName:           p.Name,
		Quantity:              quantity,
		UnitPrice:             quote.UnitPrice,
		UnitCost:              quote.UnitCost,
		RetailPrice:           p.Price,
		WholesalePrice:        p.WholesalePrice,
		ColdPrice:             p.ColdPrice,
		WholesaleBaseCost:     pricing.BaseUnitCost(p, domain.TierWholesale),
		ColdBaseCost:          pricing.BaseUnitCost(p, domain.TierCold),
		Unit:                  unit,
		IsCold:                isCold,
		IsWholesale:           !isCold,
		StockDeductionPerUnit: quote.StockDeductionPerUnit,
	}
	recalc(&line)
	c.items = append(c.items, line)
	snapshot := line
	return &snapshot, nil
}

// RemoveItem drops the line unconditionally. The cart holds no stock
// authority; any compensating release is the caller's concern.
func (c *Cart) RemoveItem(cartItemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQuantity replaces the line quantity; zero or negative removes the
// line.
func (c *Cart) UpdateQuantity(cartItemID string, quantity float64) bool {
	if quantity <= 0 {
		return c.RemoveItem(cartItemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items[i].Quantity = quantity
			recalc(&c.items[i])
			return true
		}
	}
	return false
}

func (c *Cart) UpdateItemDiscount(cartItemID string, discount float64) bool {
	if discount < 0 {
		discount = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items[i].Discount = discount
			recalc(&c.items[i])
			return true
		}
	}
	return false
}

// SetPriceType re-prices the whole cart at once. Lines with alternate
// packaging keep their fixed unit price; every other line picks the tier's
// snapshot price (falling back to retail) and re-derives its cost from the
// tier's base cost and its existing multiplier.
func (c *Cart) SetPriceType(tier domain.PriceTier) error {
	if !tier.Valid() {
		return fmt.Errorf("cart: invalid price type %q", tier)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.priceType = tier
	isCold := tier == domain.TierCold
	for i := range c.items {
		line := &c.items[i]
		line.IsCold = isCold
		line.IsWholesale = !isCold
		line.CartItemID = lineID(line.ProductID, line.Unit, isCold)
		if line.Unit != nil {
			continue
		}
		snapshot := line.WholesalePrice
		baseCost := line.WholesaleBaseCost
		if isCold {
			snapshot = line.ColdPrice
			baseCost = line.ColdBaseCost
		}
		if snapshot != nil {
			line.UnitPrice = *snapshot
		} else {
			line.UnitPrice = line.RetailPrice
		}
		line.UnitCost = baseCost * line.StockDeductionPerUnit
		recalc(line)
	}
	return nil
}

// SetCartDiscount sets the cart-level discount applied on top of per-line
// discounts.
func (c *Cart) SetCartDiscount(discount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if discount < 0 {
		discount = 0
	}
	c.discount = discount
}

func (c *Cart) SetCustomer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerName = name
}

func (c *Cart) SetNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = notes
}

// AttachPresale links the cart to the presale it was loaded from so
// finalization can release the original reservations.
func (c *Cart) AttachPresale(presaleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presaleID = presaleID
}

// AttachSale links the cart to a finalized sale being edited.
func (c *Cart) AttachSale(saleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingSaleID = saleID
}

// LoadItems replaces the cart content wholesale (used when resuming a
// presale).
func (c *Cart) LoadItems(items []domain.CartLine, tier domain.PriceTier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]domain.CartLine, len(items))
	copy(c.items, items)
	if tier.Valid() {
		c.priceType = tier
	}
	for i := range c.items {
		recalc(&c.items[i])
	}
}

// Totals is pure and cheap enough to call on every render.
func (c *Cart) Totals() (subtotal, itemsDiscount, total float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

func (c *Cart) totalsLocked() (subtotal, itemsDiscount, total float64) {
	for _, line := range c.items {
		subtotal += line.Quantity * line.UnitPrice
		itemsDiscount += line.Discount
	}
	total = subtotal - itemsDiscount - c.discount
	if total < 0 {
		total = 0
	}
	return subtotal, itemsDiscount, total
}

// Clear resets every bit of state including customer, notes, linkage and
// tier; the next transaction starts from nothing.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.customerName = ""
	c.notes = ""
	c.discount = 0
	c.presaleID = ""
	c.editingSaleID = ""
	c.priceType = c.defaultTier
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) PriceType() domain.PriceTier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.priceType
}

func (c *Cart) PresaleID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presaleID
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.CartLine, len(c.items))
	copy(items, c.items)
	return items
}

// SaleItems converts the cart lines to persistable sale items.
func (c *Cart) SaleItems() []domain.SaleItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.SaleItem, 0, len(c.items))
	for _, line := range c.items {
		items = append(items, domain.SaleItem{
			ProductID:             line.ProductID,
			ProductName:           line.ProductName,
			Quantity:              line.Quantity,
			UnitPrice:             line.UnitPrice,
			UnitCost:              line.UnitCost,
			WholesalePrice:        line.WholesalePrice,
			ColdPrice:             line.ColdPrice,
			Unit:                  line.Unit,
			IsCold:                line.IsCold,
			IsWholesale:           line.IsWholesale,
			StockDeductionPerUnit: line.StockDeductionPerUnit,
			Discount:              line.Discount,
			Total:                 line.Total,
		})
	}
	return items
}

// State snapshots the cart for API consumers.
func (c *Cart) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal, itemsDiscount, total := c.totalsLocked()
	items := make([]domain.CartLine, len(c.items))
	copy(items, c.items)
	return domain.CartState{
		Items:         items,
		CustomerName:  c.customerName,
		Notes:         c.notes,
		PriceType:     c.priceType,
		Discount:      c.discount,
		Subtotal:      subtotal,
		ItemsDiscount: itemsDiscount,
		Total:         total,
		PresaleID:     c.presaleID,
		EditingSaleID: c.editingSaleID,
	}
}

func recalc(line *domain.CartLine) {
	line.Total = line.Quantity*line.UnitPrice - line.Discount
}
