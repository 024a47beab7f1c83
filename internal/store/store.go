package store

import (
	"context"
	"errors"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidSale        = errors.New("invalid sale")
	ErrCashRegisterClosed = errors.New("cash register closed")
)

// PresaleFilter narrows ListPresales. Empty Status means any status;
// ReservedOnly keeps only presales still holding stock.
type PresaleFilter struct {
	Status       string
	ReservedOnly bool
}

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	// UpdateProductStock applies a partial update: only non-nil fields of
	// upd are written.
	UpdateProductStock(ctx context.Context, id string, upd domain.StockUpdate) error

	CreatePresale(ctx context.Context, presale domain.Presale) (*domain.Presale, error)
	GetPresale(ctx context.Context, id string) (*domain.Presale, error)
	UpdatePresale(ctx context.Context, presale domain.Presale) (*domain.Presale, error)
	ListPresales(ctx context.Context, filter PresaleFilter) ([]domain.Presale, error)

	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	UpdateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	ListSales(ctx context.Context, limit int) ([]domain.Sale, error)

	GetOpenCashRegister(ctx context.Context) (*domain.CashRegister, error)
	OpenCashRegister(ctx context.Context, register domain.CashRegister) (*domain.CashRegister, error)
	CloseCashRegister(ctx context.Context, id string, closingCash float64) (*domain.CashRegister, error)
	AddCashMovement(ctx context.Context, movement domain.CashMovement) (*domain.CashMovement, error)
	DeleteCashMovementsBySale(ctx context.Context, saleID string) error
	ListCashMovements(ctx context.Context, cashRegisterID string) ([]domain.CashMovement, error)

	// NextNumber increments and returns the named sequence. Implementations
	// must be atomic: concurrent callers never receive the same number.
	NextNumber(ctx context.Context, name string) (int, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
