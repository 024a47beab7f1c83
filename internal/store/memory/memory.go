// Package memory is the demo/offline repository. It mirrors the postgres
// store's behavior, including error mapping, so the service layer cannot
// tell them apart.
package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	presales        map[string]domain.Presale
	sales           map[string]domain.Sale
	registers       map[string]domain.CashRegister
	openRegisterID  string
	movements       map[string]domain.CashMovement
	counters        map[string]int
	usersByUsername map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		products:        make(map[string]domain.Product),
		presales:        make(map[string]domain.Presale),
		sales:           make(map[string]domain.Sale),
		registers:       make(map[string]domain.CashRegister),
		movements:       make(map[string]domain.CashMovement),
		counters:        make(map[string]int),
		usersByUsername: seedUsers(),
	}
}

func ptr(v float64) *float64 { return &v }

// NewSeeded builds a store pre-loaded with a small beverage catalog for
// demo mode.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()
	products := []domain.Product{
		{
			ID: "prod-skol-350", Name: "Skol Lata 350ml", Barcode: "7891149100101",
			Price: 4.50, WholesalePrice: ptr(3.20), ColdPrice: ptr(4.00),
			Cost: 2.40, ColdCost: 2.60,
			Stock: 240, ColdStock: 48,
			Units: []domain.ProductUnit{
				{Name: "Fardo 12un", Barcode: "7891149100118", Price: 36.00, Multiplier: 12},
			},
		},
		{
			ID: "prod-brahma-600", Name: "Brahma Garrafa 600ml", Barcode: "7891149200102",
			Price: 9.00, WholesalePrice: ptr(7.50), ColdPrice: ptr(8.50),
			Cost: 5.20, ColdCost: 5.60,
			Stock: 120, ColdStock: 36,
		},
		{
			ID: "prod-coca-2l", Name: "Coca-Cola 2L", Barcode: "7894900011517",
			Price: 10.00, WholesalePrice: ptr(8.50), ColdPrice: ptr(9.50),
			Cost: 6.00, ColdCost: 6.30,
			Stock: 80, ColdStock: 24,
		},
		{
			ID: "prod-agua-500", Name: "Agua Mineral 500ml", Barcode: "7896000000019",
			Price: 2.00, ColdPrice: ptr(2.50),
			Cost: 0.80, ColdCost: 0.95,
			Stock: 200, ColdStock: 60,
		},
		{
			ID: "prod-guarana-cx", Name: "Guarana Antartica Caixa", Barcode: "7891991000201",
			Price: 54.00, WholesalePrice: ptr(48.00),
			Cost: 36.00,
			Stock: 360,
			WholesaleUnitMultiplier: 12,
		},
		{
			ID: "prod-cachaca-51", Name: "Cachaca 51 965ml", Barcode: "7896050100035",
			Price: 14.00, WholesalePrice: ptr(12.00),
			Cost: 8.50,
			Stock: 60,
		},
	}
	for _, p := range products {
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		s.products[p.ID] = p
	}
	return s
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD; if
// unset, hardcoded dev defaults are used with a warning. The backend uses
// PostgreSQL accounts when DATABASE_URL is set.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) GetProductByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, store.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Barcode == barcode {
			copied := p
			return &copied, nil
		}
		for _, unit := range p.Units {
			if unit.Barcode == barcode {
				copied := p
				return &copied, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Price <= 0 {
		return nil, store.ErrInvalidSale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	product.Active = true
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = product
	copied := product
	return &copied, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[product.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	copied := product
	return &copied, nil
}

// DeleteProduct removes a product outright. Not part of store.Repository;
// exists so tests can simulate catalog records disappearing under old sales.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) UpdateProductStock(_ context.Context, id string, upd domain.StockUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.ColdStock != nil {
		p.ColdStock = *upd.ColdStock
	}
	if upd.ReservedStock != nil {
		p.ReservedStock = *upd.ReservedStock
	}
	if upd.ReservedColdStock != nil {
		p.ReservedColdStock = *upd.ReservedColdStock
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return nil
}

func (s *Store) CreatePresale(_ context.Context, presale domain.Presale) (*domain.Presale, error) {
	if len(presale.Items) == 0 {
		return nil, store.ErrInvalidSale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if presale.ID == "" {
		presale.ID = xid.New("presale")
	}
	now := time.Now().UTC()
	presale.CreatedAt = now
	presale.UpdatedAt = now
	s.presales[presale.ID] = presale
	copied := presale
	return &copied, nil
}

func (s *Store) GetPresale(_ context.Context, id string) (*domain.Presale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presales[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) UpdatePresale(_ context.Context, presale domain.Presale) (*domain.Presale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.presales[presale.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	presale.CreatedAt = existing.CreatedAt
	presale.UpdatedAt = time.Now().UTC()
	s.presales[presale.ID] = presale
	copied := presale
	return &copied, nil
}

func (s *Store) ListPresales(_ context.Context, filter store.PresaleFilter) ([]domain.Presale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	presales := make([]domain.Presale, 0, len(s.presales))
	for _, p := range s.presales {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ReservedOnly && !p.Reserved {
			continue
		}
		presales = append(presales, p)
	}
	sort.Slice(presales, func(i, j int) bool { return presales[i].Number < presales[j].Number })
	return presales, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if len(sale.Items) == 0 {
		return nil, store.ErrInvalidSale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	now := time.Now().UTC()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	s.sales[sale.ID] = sale
	copied := sale
	return &copied, nil
}

func (s *Store) GetSale(_ context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := sale
	return &copied, nil
}

func (s *Store) UpdateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sales[sale.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	sale.CreatedAt = existing.CreatedAt
	sale.UpdatedAt = time.Now().UTC()
	s.sales[sale.ID] = sale
	copied := sale
	return &copied, nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sales[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *Store) ListSales(_ context.Context, limit int) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sales := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Number > sales[j].Number })
	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}

func (s *Store) GetOpenCashRegister(_ context.Context) (*domain.CashRegister, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.openRegisterID == "" {
		return nil, store.ErrNotFound
	}
	register, ok := s.registers[s.openRegisterID]
	if !ok || register.Status != domain.RegisterStatusOpen {
		return nil, store.ErrNotFound
	}
	copied := register
	return &copied, nil
}

func (s *Store) OpenCashRegister(_ context.Context, register domain.CashRegister) (*domain.CashRegister, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openRegisterID != "" {
		if current, ok := s.registers[s.openRegisterID]; ok && current.Status == domain.RegisterStatusOpen {
			return nil, store.ErrInvalidSale
		}
	}
	if register.ID == "" {
		register.ID = xid.New("register")
	}
	register.Status = domain.RegisterStatusOpen
	register.OpenedAt = time.Now().UTC()
	s.registers[register.ID] = register
	s.openRegisterID = register.ID
	copied := register
	return &copied, nil
}

func (s *Store) CloseCashRegister(_ context.Context, id string, closingCash float64) (*domain.CashRegister, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	register, ok := s.registers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if register.Status != domain.RegisterStatusOpen {
		return nil, store.ErrCashRegisterClosed
	}
	now := time.Now().UTC()
	register.Status = domain.RegisterStatusClosed
	register.ClosingCash = closingCash
	register.ClosedAt = &now
	s.registers[id] = register
	if s.openRegisterID == id {
		s.openRegisterID = ""
	}
	copied := register
	return &copied, nil
}

func (s *Store) AddCashMovement(_ context.Context, movement domain.CashMovement) (*domain.CashMovement, error) {
	if movement.CashRegisterID == "" || movement.Amount < 0 {
		return nil, store.ErrInvalidSale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = xid.New("mov")
	}
	movement.CreatedAt = time.Now().UTC()
	s.movements[movement.ID] = movement
	copied := movement
	return &copied, nil
}

func (s *Store) DeleteCashMovementsBySale(_ context.Context, saleID string) error {
	if saleID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, movement := range s.movements {
		if movement.SaleID == saleID && movement.Type == domain.MovementChange {
			delete(s.movements, id)
		}
	}
	return nil
}

func (s *Store) ListCashMovements(_ context.Context, cashRegisterID string) ([]domain.CashMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movements := make([]domain.CashMovement, 0, 16)
	for _, movement := range s.movements {
		if movement.CashRegisterID == cashRegisterID {
			movements = append(movements, movement)
		}
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].CreatedAt.Before(movements[j].CreatedAt) })
	return movements, nil
}

func (s *Store) NextNumber(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidSale
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidSale
	}
	user.Username = username
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.usersByUsername[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}
