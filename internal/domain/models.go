package domain

import "time"

// PriceTier selects which of the two price/stock pools a cart or line uses.
type PriceTier string

const (
	TierWholesale PriceTier = "wholesale" // "Atacado"
	TierCold      PriceTier = "cold"      // "Mercearia"
)

func (t PriceTier) Valid() bool {
	return t == TierWholesale || t == TierCold
}

// ProductUnit is an alternate sellable packaging (e.g. a 12-bottle case) with
// its own barcode and a fixed, tier-independent price. Multiplier is how many
// base stock units one packaged unit consumes.
type ProductUnit struct {
	Name       string  `json:"name"`
	Barcode    string  `json:"barcode,omitempty"`
	Price      float64 `json:"price"`
	Multiplier float64 `json:"multiplier"`
}

// Product carries both price tiers and the two paired stock pools:
// wholesale (Stock/ReservedStock) and cold (ColdStock/ReservedColdStock).
// A nil WholesalePrice or ColdPrice means the product is not sellable at
// that tier without a unit or custom price.
type Product struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	Barcode                 string        `json:"barcode,omitempty"`
	Price                   float64       `json:"price"`
	WholesalePrice          *float64      `json:"wholesale_price,omitempty"`
	ColdPrice               *float64      `json:"cold_price,omitempty"`
	Cost                    float64       `json:"cost"`
	ColdCost                float64       `json:"cold_cost,omitempty"`
	Stock                   float64       `json:"stock"`
	ColdStock               float64       `json:"cold_stock"`
	ReservedStock           float64       `json:"reserved_stock"`
	ReservedColdStock       float64       `json:"reserved_cold_stock"`
	WholesaleUnitMultiplier float64       `json:"wholesale_unit_multiplier,omitempty"`
	ColdUnitMultiplier      float64       `json:"cold_unit_multiplier,omitempty"`
	Units                   []ProductUnit `json:"units,omitempty"`
	Active                  bool          `json:"active"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

// UnitByName returns the alternate packaging with the given name, or nil.
func (p *Product) UnitByName(name string) *ProductUnit {
	for i := range p.Units {
		if p.Units[i].Name == name {
			return &p.Units[i]
		}
	}
	return nil
}

// StockUpdate is a partial product update: only non-nil fields are written.
type StockUpdate struct {
	Stock             *float64
	ColdStock         *float64
	ReservedStock     *float64
	ReservedColdStock *float64
}

// CartLine is one line of an in-progress cart. Tier price snapshots are
// captured at add time so the whole cart can be re-priced when the tier
// changes without re-reading the catalog.
type CartLine struct {
	CartItemID            string       `json:"cart_item_id"`
	ProductID             string       `json:"product_id"`
	ProductName           string       `json:"product_name"`
	Quantity              float64      `json:"quantity"`
	UnitPrice             float64      `json:"unit_price"`
	UnitCost              float64      `json:"unit_cost"`
	RetailPrice           float64      `json:"retail_price"`
	WholesalePrice        *float64     `json:"wholesale_price,omitempty"`
	ColdPrice             *float64     `json:"cold_price,omitempty"`
	WholesaleBaseCost     float64      `json:"wholesale_base_cost"`
	ColdBaseCost          float64      `json:"cold_base_cost"`
	Unit                  *ProductUnit `json:"unit,omitempty"`
	IsCold                bool         `json:"is_cold"`
	IsWholesale           bool         `json:"is_wholesale"`
	StockDeductionPerUnit float64      `json:"stock_deduction_per_unit"`
	Discount              float64      `json:"discount"`
	Total                 float64      `json:"total"`
}

// SaleItem is a persisted transaction line. It must carry everything profit
// attribution needs at report time: price, cost, tier flags and snapshots.
type SaleItem struct {
	ProductID             string       `json:"product_id"`
	ProductName           string       `json:"product_name"`
	Quantity              float64      `json:"quantity"`
	UnitPrice             float64      `json:"unit_price"`
	UnitCost              float64      `json:"unit_cost"`
	WholesalePrice        *float64     `json:"wholesale_price,omitempty"`
	ColdPrice             *float64     `json:"cold_price,omitempty"`
	Unit                  *ProductUnit `json:"unit,omitempty"`
	IsCold                bool         `json:"is_cold"`
	IsWholesale           bool         `json:"is_wholesale"`
	StockDeductionPerUnit float64      `json:"stock_deduction_per_unit"`
	Discount              float64      `json:"discount"`
	Total                 float64      `json:"total"`
}

// Deduction returns how many base stock units this line consumes.
func (i SaleItem) Deduction() float64 {
	per := i.StockDeductionPerUnit
	if per <= 0 {
		per = 1
	}
	return per * i.Quantity
}

// Pool returns the stock pool this line draws from.
func (i SaleItem) Pool() PriceTier {
	if i.IsCold {
		return TierCold
	}
	return TierWholesale
}

const (
	PresaleStatusPending   = "pending"
	PresaleStatusCompleted = "completed"
	PresaleStatusCancelled = "cancelled"
)

// Presale is a saved, reserved-but-unpaid order. Reserved stays true while
// stock is held against it.
type Presale struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	CustomerName string     `json:"customer_name,omitempty"`
	Items        []SaleItem `json:"items"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	Reserved     bool       `json:"reserved"`
	PriceType    PriceTier  `json:"price_type"`
	Notes        string     `json:"notes,omitempty"`
	CreatedBy    string     `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	SaleStatusPaid     = "paid"
	SaleStatusModified = "modified"
)

const (
	PaymentMoney = "money"
	PaymentCard  = "card"
	PaymentPix   = "pix"
)

// Payment is one tender of a (possibly split) sale payment.
type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Sale is a finalized, paid transaction.
type Sale struct {
	ID             string     `json:"id"`
	Number         int        `json:"number"`
	CustomerName   string     `json:"customer_name,omitempty"`
	Items          []SaleItem `json:"items"`
	Payments       []Payment  `json:"payments"`
	Total          float64    `json:"total"`
	TotalPaid      float64    `json:"total_paid"`
	Change         float64    `json:"change"`
	Discount       float64    `json:"discount"`
	PriceType      PriceTier  `json:"price_type"`
	CashRegisterID string     `json:"cash_register_id,omitempty"`
	PresaleID      string     `json:"presale_id,omitempty"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const (
	RegisterStatusOpen   = "open"
	RegisterStatusClosed = "closed"
)

// CashRegister is a till session. Finalizing a sale requires an open one.
type CashRegister struct {
	ID           string     `json:"id"`
	OpenedBy     string     `json:"opened_by"`
	OpeningFloat float64    `json:"opening_float"`
	ClosingCash  float64    `json:"closing_cash,omitempty"`
	Status       string     `json:"status"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

const (
	MovementChange = "change"
	MovementRefund = "refund"
	MovementSupply = "supply"
	MovementBleed  = "bleed"
)

// CashMovement is a register-attached money movement (change given, refund,
// supply/"suprimento", bleed/"sangria").
type CashMovement struct {
	ID             string    `json:"id"`
	CashRegisterID string    `json:"cash_register_id"`
	SaleID         string    `json:"sale_id,omitempty"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	Description    string    `json:"description,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Actor is the authenticated user attached to a request context.
type Actor struct {
	Username string
	Role     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductCreateRequest struct {
	Name                    string        `json:"name"`
	Barcode                 string        `json:"barcode,omitempty"`
	Price                   float64       `json:"price"`
	WholesalePrice          *float64      `json:"wholesale_price,omitempty"`
	ColdPrice               *float64      `json:"cold_price,omitempty"`
	Cost                    float64       `json:"cost"`
	ColdCost                float64       `json:"cold_cost,omitempty"`
	Stock                   float64       `json:"stock"`
	ColdStock               float64       `json:"cold_stock"`
	WholesaleUnitMultiplier float64       `json:"wholesale_unit_multiplier,omitempty"`
	ColdUnitMultiplier      float64       `json:"cold_unit_multiplier,omitempty"`
	Units                   []ProductUnit `json:"units,omitempty"`
}

type ProductUpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	Barcode        *string  `json:"barcode,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	WholesalePrice *float64 `json:"wholesale_price,omitempty"`
	ColdPrice      *float64 `json:"cold_price,omitempty"`
	Cost           *float64 `json:"cost,omitempty"`
	ColdCost       *float64 `json:"cold_cost,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

type AddItemRequest struct {
	ProductID       string   `json:"product_id"`
	Quantity        float64  `json:"quantity"`
	UnitName        string   `json:"unit_name,omitempty"`
	CustomPrice     *float64 `json:"custom_price,omitempty"`
	ReplaceQuantity bool     `json:"replace_quantity,omitempty"`
}

type FinalizeSaleRequest struct {
	Payments []Payment `json:"payments"`
}

type OpenRegisterRequest struct {
	OpeningFloat float64 `json:"opening_float"`
}

type CloseRegisterRequest struct {
	ClosingCash float64 `json:"closing_cash"`
}

type RegisterMovementRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// CartState is the externally visible snapshot of one cart session.
type CartState struct {
	Items         []CartLine `json:"items"`
	CustomerName  string     `json:"customer_name,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	PriceType     PriceTier  `json:"price_type"`
	Discount      float64    `json:"discount"`
	Subtotal      float64    `json:"subtotal"`
	ItemsDiscount float64    `json:"items_discount"`
	Total         float64    `json:"total"`
	PresaleID     string     `json:"presale_id,omitempty"`
	EditingSaleID string     `json:"editing_sale_id,omitempty"`
}
