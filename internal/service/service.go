// Package service coordinates the cart, the stock ledger and the
// repository across the presale/sale lifecycle:
//
//	draft cart -> reserved presale -> fulfilled sale
//	            \-> fulfilled sale (direct, no reservation)
//	reserved presale -> cancelled (release only)
//	fulfilled sale -> cancelled (restore + refund movement)
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/cart"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/catalog"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/pricing"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/stock"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const (
	counterSales    = "sales"
	counterPresales = "presales"
)

// CompensationResult reports how a compensating flow (cancel, restore,
// bulk release) went. PartialFailure means the primary operation completed
// but one or more stock writes were skipped or failed; Skipped lists them.
type CompensationResult struct {
	PartialFailure bool     `json:"partial_failure"`
	Skipped        []string `json:"skipped,omitempty"`
}

func (r *CompensationResult) skip(detail string) {
	r.PartialFailure = true
	r.Skipped = append(r.Skipped, detail)
	log.Printf("[service] WARN: compensation skipped: %s", detail)
}

// invalidatingStore routes ledger reads straight to the repository (stock
// decisions need fresh counters) and drops the catalog cache entry after
// every stock write.
type invalidatingStore struct {
	repo    store.Repository
	catalog *catalog.Accessor
}

func (s invalidatingStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s invalidatingStore) UpdateProductStock(ctx context.Context, id string, upd domain.StockUpdate) error {
	if err := s.repo.UpdateProductStock(ctx, id, upd); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx, id)
	return nil
}

type Service struct {
	repo        store.Repository
	catalog     *catalog.Accessor
	ledger      *stock.Ledger
	defaultTier domain.PriceTier

	cartsMu sync.Mutex
	carts   map[string]*cart.Cart
}

func New(repo store.Repository, accessor *catalog.Accessor, defaultTier domain.PriceTier, allowSaleWithoutStock bool) *Service {
	if !defaultTier.Valid() {
		defaultTier = domain.TierWholesale
	}
	return &Service{
		repo:        repo,
		catalog:     accessor,
		ledger:      stock.NewLedger(invalidatingStore{repo: repo, catalog: accessor}, allowSaleWithoutStock),
		defaultTier: defaultTier,
		carts:       make(map[string]*cart.Cart),
	}
}

// Cart returns the terminal's cart session, creating it on first use.
func (s *Service) Cart(terminalID string) *cart.Cart {
	terminalID = strings.TrimSpace(terminalID)
	if terminalID == "" {
		terminalID = "main-terminal"
	}

	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()
	c, ok := s.carts[terminalID]
	if !ok {
		c = cart.New(s.defaultTier)
		s.carts[terminalID] = c
	}
	return c
}

// --- catalog management -------------------------------------------------

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return s.catalog.GetProductByBarcode(ctx, barcode)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Price <= 0 || req.Cost < 0 || req.Stock < 0 || req.ColdStock < 0 {
		return domain.Product{}, store.ErrInvalidSale
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		Name:                    req.Name,
		Barcode:                 strings.TrimSpace(req.Barcode),
		Price:                   req.Price,
		WholesalePrice:          req.WholesalePrice,
		ColdPrice:               req.ColdPrice,
		Cost:                    req.Cost,
		ColdCost:                req.ColdCost,
		Stock:                   req.Stock,
		ColdStock:               req.ColdStock,
		WholesaleUnitMultiplier: req.WholesaleUnitMultiplier,
		ColdUnitMultiplier:      req.ColdUnitMultiplier,
		Units:                   req.Units,
	})
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.Name = name
	}
	if req.Barcode != nil {
		updated.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.Price = *req.Price
	}
	if req.WholesalePrice != nil {
		updated.WholesalePrice = req.WholesalePrice
	}
	if req.ColdPrice != nil {
		updated.ColdPrice = req.ColdPrice
	}
	if req.Cost != nil {
		updated.Cost = *req.Cost
	}
	if req.ColdCost != nil {
		updated.ColdCost = *req.ColdCost
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	s.catalog.Invalidate(ctx, saved.ID)
	return *saved, nil
}

// --- cart operations ----------------------------------------------------

func (s *Service) AddCartItem(ctx context.Context, terminalID string, req domain.AddItemRequest) (domain.CartState, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.CartState{}, err
	}
	if !product.Active {
		return domain.CartState{}, fmt.Errorf("%w: product %s is inactive", store.ErrInvalidSale, product.Name)
	}

	var unit *domain.ProductUnit
	if req.UnitName != "" {
		unit = product.UnitByName(req.UnitName)
		if unit == nil {
			return domain.CartState{}, fmt.Errorf("%w: unknown unit %q for %s", store.ErrInvalidSale, req.UnitName, product.Name)
		}
	}
	if req.CustomPrice != nil && *req.CustomPrice <= 0 {
		return domain.CartState{}, fmt.Errorf("%w: custom price must be positive", store.ErrInvalidSale)
	}

	c := s.Cart(terminalID)
	if _, err := c.AddItem(product, req.Quantity, unit, cart.AddOptions{
		CustomPrice:     req.CustomPrice,
		ReplaceQuantity: req.ReplaceQuantity,
	}); err != nil {
		return domain.CartState{}, err
	}
	return c.State(), nil
}

func (s *Service) RemoveCartItem(terminalID string, cartItemID string) (domain.CartState, error) {
	c := s.Cart(terminalID)
	if !c.RemoveItem(cartItemID) {
		return domain.CartState{}, store.ErrNotFound
	}
	return c.State(), nil
}

func (s *Service) UpdateCartQuantity(terminalID string, cartItemID string, quantity float64) (domain.CartState, error) {
	c := s.Cart(terminalID)
	if !c.UpdateQuantity(cartItemID, quantity) {
		return domain.CartState{}, store.ErrNotFound
	}
	return c.State(), nil
}

func (s *Service) UpdateCartItemDiscount(terminalID string, cartItemID string, discount float64) (domain.CartState, error) {
	c := s.Cart(terminalID)
	if !c.UpdateItemDiscount(cartItemID, discount) {
		return domain.CartState{}, store.ErrNotFound
	}
	return c.State(), nil
}

func (s *Service) SetCartPriceType(terminalID string, tier domain.PriceTier) (domain.CartState, error) {
	c := s.Cart(terminalID)
	if err := c.SetPriceType(tier); err != nil {
		return domain.CartState{}, err
	}
	return c.State(), nil
}

func (s *Service) ClearCart(terminalID string) domain.CartState {
	c := s.Cart(terminalID)
	c.Clear()
	return c.State()
}

func (s *Service) CartState(terminalID string) domain.CartState {
	return s.Cart(terminalID).State()
}

// LoadPresaleIntoCart resumes a pending presale into the terminal's cart so
// it can be edited and finalized. The original reservation stays in place
// until finalize or cancel.
func (s *Service) LoadPresaleIntoCart(ctx context.Context, terminalID string, presaleID string) (domain.CartState, error) {
	presale, err := s.repo.GetPresale(ctx, presaleID)
	if err != nil {
		return domain.CartState{}, err
	}
	if presale.Status != domain.PresaleStatusPending {
		return domain.CartState{}, fmt.Errorf("%w: presale %d is %s", store.ErrInvalidSale, presale.Number, presale.Status)
	}

	c := s.Cart(terminalID)
	c.Clear()
	lines := make([]domain.CartLine, 0, len(presale.Items))
	for _, item := range presale.Items {
		line := domain.CartLine{
			CartItemID:            fmt.Sprintf("%s|%s|%t", item.ProductID, unitNameOrBase(item.Unit), item.IsCold),
			ProductID:             item.ProductID,
			ProductName:           item.ProductName,
			Quantity:              item.Quantity,
			UnitPrice:             item.UnitPrice,
			UnitCost:              item.UnitCost,
			WholesalePrice:        item.WholesalePrice,
			ColdPrice:             item.ColdPrice,
			Unit:                  item.Unit,
			IsCold:                item.IsCold,
			IsWholesale:           item.IsWholesale,
			StockDeductionPerUnit: item.StockDeductionPerUnit,
			Discount:              item.Discount,
		}
		// Refresh snapshots from the live catalog when possible so a tier
		// switch in the resumed cart uses current prices and costs.
		if product, err := s.catalog.GetProduct(ctx, item.ProductID); err == nil {
			line.RetailPrice = product.Price
			line.WholesalePrice = product.WholesalePrice
			line.ColdPrice = product.ColdPrice
			line.WholesaleBaseCost = pricing.BaseUnitCost(product, domain.TierWholesale)
			line.ColdBaseCost = pricing.BaseUnitCost(product, domain.TierCold)
		} else {
			// Catalog record gone: re-price from the persisted line so a
			// tier switch falls back to its sold price, never to zero.
			line.RetailPrice = item.UnitPrice
			perUnit := item.StockDeductionPerUnit
			if perUnit <= 0 {
				perUnit = 1
			}
			line.WholesaleBaseCost = item.UnitCost / perUnit
			line.ColdBaseCost = item.UnitCost / perUnit
		}
		lines = append(lines, line)
	}
	c.LoadItems(lines, presale.PriceType)
	c.SetCustomer(presale.CustomerName)
	c.SetNotes(presale.Notes)
	c.AttachPresale(presale.ID)
	return c.State(), nil
}

// --- presale lifecycle --------------------------------------------------

// SavePresale turns the terminal's draft cart into a reserved presale.
// All items are validated against aggregated pool availability before any
// reservation is written; a write failure mid-apply rolls back the
// reservations already placed in this save.
func (s *Service) SavePresale(ctx context.Context, terminalID string) (*domain.Presale, error) {
	c := s.Cart(terminalID)
	if c.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidSale)
	}

	items := c.SaleItems()
	demand := stock.AggregateDemand(items)
	if err := s.ledger.CheckDemand(ctx, demand); err != nil {
		return nil, err
	}

	applied := make([]stock.DemandKey, 0, len(demand))
	for key, amount := range demand {
		if err := s.ledger.Reserve(ctx, key.ProductID, key.Pool, amount); err != nil {
			s.rollbackReservations(ctx, demand, applied)
			return nil, err
		}
		applied = append(applied, key)
	}

	number, err := s.repo.NextNumber(ctx, counterPresales)
	if err != nil {
		s.rollbackReservations(ctx, demand, applied)
		return nil, err
	}

	state := c.State()
	actor, _ := ActorFromContext(ctx)
	presale, err := s.repo.CreatePresale(ctx, domain.Presale{
		ID:           xid.New("presale"),
		Number:       number,
		CustomerName: state.CustomerName,
		Items:        items,
		Total:        state.Total,
		Status:       domain.PresaleStatusPending,
		Reserved:     true,
		PriceType:    state.PriceType,
		Notes:        state.Notes,
		CreatedBy:    actor.Username,
	})
	if err != nil {
		s.rollbackReservations(ctx, demand, applied)
		return nil, err
	}

	c.Clear()
	return presale, nil
}

func (s *Service) rollbackReservations(ctx context.Context, demand map[stock.DemandKey]float64, applied []stock.DemandKey) {
	for _, key := range applied {
		if err := s.ledger.Release(ctx, key.ProductID, key.Pool, demand[key]); err != nil {
			log.Printf("[service] WARN: failed to roll back reservation for %s (%s): %v", key.ProductID, key.Pool, err)
		}
	}
}

// CancelPresale releases the presale's reservations and marks it
// cancelled. Physical stock never moved, so nothing is restored. Missing
// products are skipped so the cancellation always completes.
func (s *Service) CancelPresale(ctx context.Context, presaleID string) (CompensationResult, error) {
	var result CompensationResult

	presale, err := s.repo.GetPresale(ctx, presaleID)
	if err != nil {
		return result, err
	}
	if presale.Status != domain.PresaleStatusPending {
		return result, fmt.Errorf("%w: presale %d is %s", store.ErrInvalidSale, presale.Number, presale.Status)
	}

	if presale.Reserved {
		for key, amount := range stock.AggregateDemand(presale.Items) {
			if err := s.ledger.Release(ctx, key.ProductID, key.Pool, amount); err != nil {
				result.skip(fmt.Sprintf("release %s (%s): %v", key.ProductID, key.Pool, err))
			}
		}
	}

	presale.Status = domain.PresaleStatusCancelled
	presale.Reserved = false
	if _, err := s.repo.UpdatePresale(ctx, *presale); err != nil {
		return result, err
	}
	return result, nil
}

// CancelAllPendingPresales bulk-cancels every pending reserved presale.
// Releases are aggregated per (product, pool) across all presales first so
// each product record is written once.
func (s *Service) CancelAllPendingPresales(ctx context.Context) (int, CompensationResult, error) {
	var result CompensationResult

	presales, err := s.repo.ListPresales(ctx, store.PresaleFilter{
		Status:       domain.PresaleStatusPending,
		ReservedOnly: true,
	})
	if err != nil {
		return 0, result, err
	}
	if len(presales) == 0 {
		return 0, result, nil
	}

	release := make(map[stock.DemandKey]float64)
	for _, presale := range presales {
		for key, amount := range stock.AggregateDemand(presale.Items) {
			release[key] += amount
		}
	}
	for key, amount := range release {
		if err := s.ledger.Release(ctx, key.ProductID, key.Pool, amount); err != nil {
			result.skip(fmt.Sprintf("release %s (%s): %v", key.ProductID, key.Pool, err))
		}
	}

	cancelled := 0
	for _, presale := range presales {
		presale.Status = domain.PresaleStatusCancelled
		presale.Reserved = false
		if _, err := s.repo.UpdatePresale(ctx, presale); err != nil {
			result.skip(fmt.Sprintf("mark presale %d cancelled: %v", presale.Number, err))
			continue
		}
		cancelled++
	}
	return cancelled, result, nil
}

func (s *Service) ListPresales(ctx context.Context, status string) ([]domain.Presale, error) {
	return s.repo.ListPresales(ctx, store.PresaleFilter{Status: status})
}

// --- sale lifecycle -----------------------------------------------------

// FinalizeSale converts the terminal's cart into a paid sale. Requires an
// open cash register and payments covering the total. Deduction always runs
// before reservation release so a late release failure can never leave
// stock counted as both sold and reserved.
func (s *Service) FinalizeSale(ctx context.Context, terminalID string, payments []domain.Payment) (*domain.Sale, error) {
	c := s.Cart(terminalID)
	if c.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidSale)
	}

	register, err := s.repo.GetOpenCashRegister(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrCashRegisterClosed
		}
		return nil, err
	}

	state := c.State()
	totalPaid := 0.0
	for _, payment := range payments {
		if payment.Amount <= 0 || !isSupportedPaymentMethod(payment.Method) {
			return nil, fmt.Errorf("%w: invalid payment %s %.2f", store.ErrInvalidSale, payment.Method, payment.Amount)
		}
		totalPaid += payment.Amount
	}
	if totalPaid+pricing.Epsilon < state.Total {
		return nil, fmt.Errorf("%w: paid %.2f of %.2f", store.ErrInvalidSale, totalPaid, state.Total)
	}

	items := c.SaleItems()
	demand := stock.AggregateDemand(items)

	// Converting a presale: its own reservation guarantees the stock being
	// sold, so it is credited back when checking availability. Without the
	// credit a large hold would block its own fulfillment.
	var presale *domain.Presale
	var credit map[stock.DemandKey]float64
	if state.PresaleID != "" {
		presale, err = s.repo.GetPresale(ctx, state.PresaleID)
		if err != nil {
			log.Printf("[service] WARN: presale %s fetch failed, finalizing without reservation credit: %v", state.PresaleID, err)
			presale = nil
		} else if presale.Reserved {
			credit = stock.AggregateDemand(presale.Items)
		}
	}
	if err := s.ledger.CheckDemandCredited(ctx, demand, credit); err != nil {
		return nil, err
	}

	applied := make([]stock.DemandKey, 0, len(demand))
	for key, amount := range demand {
		if err := s.ledger.Deduct(ctx, key.ProductID, key.Pool, amount); err != nil {
			s.rollbackDeductions(ctx, demand, applied)
			return nil, err
		}
		applied = append(applied, key)
	}

	number, err := s.repo.NextNumber(ctx, counterSales)
	if err != nil {
		s.rollbackDeductions(ctx, demand, applied)
		return nil, err
	}

	change := totalPaid - state.Total
	if change < 0 {
		change = 0
	}
	actor, _ := ActorFromContext(ctx)
	sale, err := s.repo.CreateSale(ctx, domain.Sale{
		ID:             xid.New("sale"),
		Number:         number,
		CustomerName:   state.CustomerName,
		Items:          items,
		Payments:       payments,
		Total:          state.Total,
		TotalPaid:      totalPaid,
		Change:         change,
		Discount:       state.Discount,
		PriceType:      state.PriceType,
		CashRegisterID: register.ID,
		PresaleID:      state.PresaleID,
		Status:         domain.SaleStatusPaid,
		CreatedBy:      actor.Username,
	})
	if err != nil {
		s.rollbackDeductions(ctx, demand, applied)
		return nil, err
	}

	// Release the presale's reservation only after the sale is persisted:
	// deduct already ran, and a failure above leaves the presale pending
	// with its hold intact so finalize can be retried.
	if presale != nil {
		if err := s.settlePresaleReservation(ctx, presale); err != nil {
			log.Printf("[service] WARN: presale %s reservation settle failed: %v", presale.ID, err)
		}
	}

	if change > 0 {
		if _, err := s.repo.AddCashMovement(ctx, domain.CashMovement{
			CashRegisterID: register.ID,
			SaleID:         sale.ID,
			Type:           domain.MovementChange,
			Amount:         change,
			Description:    fmt.Sprintf("Troco venda #%d", sale.Number),
			CreatedBy:      actor.Username,
		}); err != nil {
			log.Printf("[service] WARN: failed to record change movement for sale %d: %v", sale.Number, err)
		}
	}

	c.Clear()
	return sale, nil
}

func (s *Service) rollbackDeductions(ctx context.Context, demand map[stock.DemandKey]float64, applied []stock.DemandKey) {
	for _, key := range applied {
		if err := s.ledger.Restore(ctx, key.ProductID, key.Pool, demand[key]); err != nil {
			log.Printf("[service] WARN: failed to roll back deduction for %s (%s): %v", key.ProductID, key.Pool, err)
		}
	}
}

// settlePresaleReservation releases a converted presale's reservations and
// marks it completed.
func (s *Service) settlePresaleReservation(ctx context.Context, presale *domain.Presale) error {
	if presale.Reserved {
		for key, amount := range stock.AggregateDemand(presale.Items) {
			if err := s.ledger.Release(ctx, key.ProductID, key.Pool, amount); err != nil {
				log.Printf("[service] WARN: release %s (%s) failed: %v", key.ProductID, key.Pool, err)
			}
		}
	}
	presale.Status = domain.PresaleStatusCompleted
	presale.Reserved = false
	_, err := s.repo.UpdatePresale(ctx, *presale)
	return err
}

// CancelSale restores the sale's stock, records a refund movement and
// removes the sale's change movement. Stock-restore failures are reported
// but never block the cancellation.
func (s *Service) CancelSale(ctx context.Context, saleID string) (CompensationResult, error) {
	var result CompensationResult

	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return result, err
	}

	for key, amount := range stock.AggregateDemand(sale.Items) {
		if err := s.ledger.Restore(ctx, key.ProductID, key.Pool, amount); err != nil {
			result.skip(fmt.Sprintf("restore %s (%s): %v", key.ProductID, key.Pool, err))
		}
	}

	if sale.CashRegisterID != "" {
		actor, _ := ActorFromContext(ctx)
		if _, err := s.repo.AddCashMovement(ctx, domain.CashMovement{
			CashRegisterID: sale.CashRegisterID,
			SaleID:         sale.ID,
			Type:           domain.MovementRefund,
			Amount:         sale.Total,
			Description:    fmt.Sprintf("Estorno venda #%d", sale.Number),
			CreatedBy:      actor.Username,
		}); err != nil {
			result.skip(fmt.Sprintf("refund movement for sale %d: %v", sale.Number, err))
		}
		if err := s.repo.DeleteCashMovementsBySale(ctx, sale.ID); err != nil {
			result.skip(fmt.Sprintf("remove change movement for sale %d: %v", sale.Number, err))
		}
	}

	if err := s.repo.DeleteSale(ctx, sale.ID); err != nil {
		return result, err
	}
	return result, nil
}

// AddItemToSale appends a line to an already-finalized sale, deducting its
// stock immediately and marking the sale modified.
func (s *Service) AddItemToSale(ctx context.Context, saleID string, req domain.AddItemRequest) (*domain.Sale, error) {
	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", store.ErrInvalidSale)
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	var unit *domain.ProductUnit
	if req.UnitName != "" {
		unit = product.UnitByName(req.UnitName)
		if unit == nil {
			return nil, fmt.Errorf("%w: unknown unit %q for %s", store.ErrInvalidSale, req.UnitName, product.Name)
		}
	}

	tier := sale.PriceType
	if !tier.Valid() {
		tier = s.defaultTier
	}
	quote, err := pricing.Resolve(product, tier, unit, req.CustomPrice)
	if err != nil {
		return nil, err
	}

	item := domain.SaleItem{
		ProductID:             product.ID,
		ProductName:           product.Name,
		Quantity:              req.Quantity,
		UnitPrice:             quote.UnitPrice,
		UnitCost:              quote.UnitCost,
		WholesalePrice:        product.WholesalePrice,
		ColdPrice:             product.ColdPrice,
		Unit:                  unit,
		IsCold:                tier == domain.TierCold,
		IsWholesale:           tier == domain.TierWholesale,
		StockDeductionPerUnit: quote.StockDeductionPerUnit,
	}
	item.Total = item.Quantity * item.UnitPrice

	pool := item.Pool()
	if err := s.ledger.CheckDemand(ctx, map[stock.DemandKey]float64{
		{ProductID: item.ProductID, Pool: pool}: item.Deduction(),
	}); err != nil {
		return nil, err
	}
	if err := s.ledger.Deduct(ctx, item.ProductID, pool, item.Deduction()); err != nil {
		return nil, err
	}

	sale.Items = append(sale.Items, item)
	recomputeSaleTotals(sale)
	sale.Status = domain.SaleStatusModified
	return s.repo.UpdateSale(ctx, *sale)
}

// RemoveItemFromSale drops a line from a finalized sale and restores its
// stock immediately. A missing product is skipped (the line still goes
// away) and reported.
func (s *Service) RemoveItemFromSale(ctx context.Context, saleID string, itemIndex int) (*domain.Sale, CompensationResult, error) {
	var result CompensationResult

	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, result, err
	}
	if itemIndex < 0 || itemIndex >= len(sale.Items) {
		return nil, result, store.ErrNotFound
	}

	item := sale.Items[itemIndex]
	if err := s.ledger.Restore(ctx, item.ProductID, item.Pool(), item.Deduction()); err != nil {
		result.skip(fmt.Sprintf("restore %s (%s): %v", item.ProductID, item.Pool(), err))
	}

	sale.Items = append(sale.Items[:itemIndex], sale.Items[itemIndex+1:]...)
	recomputeSaleTotals(sale)
	sale.Status = domain.SaleStatusModified
	updated, err := s.repo.UpdateSale(ctx, *sale)
	return updated, result, err
}

func (s *Service) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListSales(ctx, limit)
}

// --- cash register ------------------------------------------------------

func (s *Service) OpenRegister(ctx context.Context, req domain.OpenRegisterRequest) (*domain.CashRegister, error) {
	if req.OpeningFloat < 0 {
		return nil, store.ErrInvalidSale
	}
	actor, _ := ActorFromContext(ctx)
	return s.repo.OpenCashRegister(ctx, domain.CashRegister{
		OpenedBy:     actor.Username,
		OpeningFloat: req.OpeningFloat,
	})
}

func (s *Service) CloseRegister(ctx context.Context, req domain.CloseRegisterRequest) (*domain.CashRegister, error) {
	register, err := s.repo.GetOpenCashRegister(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrCashRegisterClosed
		}
		return nil, err
	}
	return s.repo.CloseCashRegister(ctx, register.ID, req.ClosingCash)
}

func (s *Service) ActiveRegister(ctx context.Context) (*domain.CashRegister, error) {
	return s.repo.GetOpenCashRegister(ctx)
}

func (s *Service) AddRegisterMovement(ctx context.Context, req domain.RegisterMovementRequest) (*domain.CashMovement, error) {
	if req.Type != domain.MovementSupply && req.Type != domain.MovementBleed {
		return nil, fmt.Errorf("%w: movement type %q", store.ErrInvalidSale, req.Type)
	}
	if req.Amount <= 0 {
		return nil, store.ErrInvalidSale
	}

	register, err := s.repo.GetOpenCashRegister(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrCashRegisterClosed
		}
		return nil, err
	}

	actor, _ := ActorFromContext(ctx)
	return s.repo.AddCashMovement(ctx, domain.CashMovement{
		CashRegisterID: register.ID,
		Type:           req.Type,
		Amount:         req.Amount,
		Description:    strings.TrimSpace(req.Description),
		CreatedBy:      actor.Username,
	})
}

func (s *Service) ListRegisterMovements(ctx context.Context, cashRegisterID string) ([]domain.CashMovement, error) {
	return s.repo.ListCashMovements(ctx, cashRegisterID)
}

// --- helpers ------------------------------------------------------------

func recomputeSaleTotals(sale *domain.Sale) {
	total := 0.0
	for _, item := range sale.Items {
		total += item.Total
	}
	total -= sale.Discount
	if total < 0 {
		total = 0
	}
	sale.Total = total
	change := sale.TotalPaid - sale.Total
	if change < 0 {
		change = 0
	}
	sale.Change = change
	sale.UpdatedAt = time.Now().UTC()
}

func isSupportedPaymentMethod(method string) bool {
	switch method {
	case domain.PaymentMoney, domain.PaymentCard, domain.PaymentPix:
		return true
	}
	return false
}

func unitNameOrBase(unit *domain.ProductUnit) string {
	if unit != nil {
		return unit.Name
	}
	return "base"
}
