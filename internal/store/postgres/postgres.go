package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const productColumns = `
	id, name, barcode, price, wholesale_price, cold_price, cost, cold_cost,
	stock, cold_stock, reserved_stock, reserved_cold_stock,
	wholesale_unit_multiplier, cold_unit_multiplier, units, active,
	created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var wholesalePrice, coldPrice sql.NullFloat64
	var barcode sql.NullString
	var unitsRaw []byte
	err := row.Scan(
		&p.ID, &p.Name, &barcode, &p.Price, &wholesalePrice, &coldPrice,
		&p.Cost, &p.ColdCost, &p.Stock, &p.ColdStock, &p.ReservedStock,
		&p.ReservedColdStock, &p.WholesaleUnitMultiplier, &p.ColdUnitMultiplier,
		&unitsRaw, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode.Valid {
		p.Barcode = barcode.String
	}
	if wholesalePrice.Valid {
		v := wholesalePrice.Float64
		p.WholesalePrice = &v
	}
	if coldPrice.Valid {
		v := coldPrice.Float64
		p.ColdPrice = &v
	}
	if len(unitsRaw) > 0 {
		if err := json.Unmarshal(unitsRaw, &p.Units); err != nil {
			return nil, err
		}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE barcode = $1
			OR EXISTS (
				SELECT 1 FROM jsonb_array_elements(units) AS u
				WHERE u->>'barcode' = $1
			)
		LIMIT 1
	`, barcode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Price <= 0 {
		return nil, store.ErrInvalidSale
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	product.Active = true
	product.CreatedAt = now
	product.UpdatedAt = now

	unitsJSON, err := json.Marshal(product.Units)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, barcode, price, wholesale_price, cold_price, cost, cold_cost,
			stock, cold_stock, reserved_stock, reserved_cold_stock,
			wholesale_unit_multiplier, cold_unit_multiplier, units, active,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, product.ID, product.Name, nullIfEmpty(product.Barcode), product.Price,
		product.WholesalePrice, product.ColdPrice, product.Cost, product.ColdCost,
		product.Stock, product.ColdStock, product.ReservedStock, product.ReservedColdStock,
		product.WholesaleUnitMultiplier, product.ColdUnitMultiplier, unitsJSON,
		product.Active, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidSale
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.Price <= 0 {
		return nil, store.ErrInvalidSale
	}
	unitsJSON, err := json.Marshal(product.Units)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, barcode = $3, price = $4, wholesale_price = $5, cold_price = $6,
			cost = $7, cold_cost = $8, wholesale_unit_multiplier = $9,
			cold_unit_multiplier = $10, units = $11, active = $12, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, nullIfEmpty(product.Barcode), product.Price,
		product.WholesalePrice, product.ColdPrice, product.Cost, product.ColdCost,
		product.WholesaleUnitMultiplier, product.ColdUnitMultiplier, unitsJSON, product.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProductStock writes only the counters the update names. Runs in a
// serializable transaction so concurrent reserve/deduct cycles on the same
// product serialize instead of clobbering each other.
func (s *Store) UpdateProductStock(ctx context.Context, id string, upd domain.StockUpdate) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT true FROM products WHERE id = $1 FOR UPDATE
	`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = COALESCE($2, stock),
			cold_stock = COALESCE($3, cold_stock),
			reserved_stock = COALESCE($4, reserved_stock),
			reserved_cold_stock = COALESCE($5, reserved_cold_stock),
			updated_at = now()
		WHERE id = $1
	`, id, upd.Stock, upd.ColdStock, upd.ReservedStock, upd.ReservedColdStock)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) CreatePresale(ctx context.Context, presale domain.Presale) (*domain.Presale, error) {
	if presale.ID == "" {
		presale.ID = xid.New("presale")
	}
	if presale.CreatedAt.IsZero() {
		presale.CreatedAt = time.Now().UTC()
	}
	presale.UpdatedAt = presale.CreatedAt

	itemsJSON, err := json.Marshal(presale.Items)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presales (
			id, number, customer_name, items, total, status, reserved,
			price_type, notes, created_by, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, presale.ID, presale.Number, presale.CustomerName, itemsJSON, presale.Total,
		presale.Status, presale.Reserved, presale.PriceType, presale.Notes,
		presale.CreatedBy, presale.CreatedAt, presale.UpdatedAt)
	if err != nil {
		return nil, err
	}

	created := presale
	return &created, nil
}

func scanPresale(row interface{ Scan(...any) error }) (*domain.Presale, error) {
	var p domain.Presale
	var itemsRaw []byte
	err := row.Scan(
		&p.ID, &p.Number, &p.CustomerName, &itemsRaw, &p.Total, &p.Status,
		&p.Reserved, &p.PriceType, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &p.Items); err != nil {
			return nil, err
		}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

const presaleColumns = `
	id, number, customer_name, items, total, status, reserved,
	price_type, notes, created_by, created_at, updated_at
`

func (s *Store) GetPresale(ctx context.Context, id string) (*domain.Presale, error) {
	p, err := scanPresale(s.db.QueryRowContext(ctx, `
		SELECT `+presaleColumns+`
		FROM presales
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdatePresale(ctx context.Context, presale domain.Presale) (*domain.Presale, error) {
	itemsJSON, err := json.Marshal(presale.Items)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE presales
		SET customer_name = $2, items = $3, total = $4, status = $5,
			reserved = $6, price_type = $7, notes = $8, updated_at = now()
		WHERE id = $1
	`, presale.ID, presale.CustomerName, itemsJSON, presale.Total, presale.Status,
		presale.Reserved, presale.PriceType, presale.Notes)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetPresale(ctx, presale.ID)
}

func (s *Store) ListPresales(ctx context.Context, filter store.PresaleFilter) ([]domain.Presale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+presaleColumns+`
		FROM presales
		WHERE ($1 = '' OR status = $1)
			AND (NOT $2 OR reserved)
		ORDER BY number ASC
	`, filter.Status, filter.ReservedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presales := make([]domain.Presale, 0, 32)
	for rows.Next() {
		p, err := scanPresale(rows)
		if err != nil {
			return nil, err
		}
		presales = append(presales, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return presales, nil
}

const saleColumns = `
	id, number, customer_name, items, payments, total, total_paid, change,
	discount, price_type, cash_register_id, presale_id, status, created_by,
	created_at, updated_at
`

func scanSale(row interface{ Scan(...any) error }) (*domain.Sale, error) {
	var sale domain.Sale
	var itemsRaw, paymentsRaw []byte
	var cashRegisterID, presaleID sql.NullString
	err := row.Scan(
		&sale.ID, &sale.Number, &sale.CustomerName, &itemsRaw, &paymentsRaw,
		&sale.Total, &sale.TotalPaid, &sale.Change, &sale.Discount, &sale.PriceType,
		&cashRegisterID, &presaleID, &sale.Status, &sale.CreatedBy,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cashRegisterID.Valid {
		sale.CashRegisterID = cashRegisterID.String
	}
	if presaleID.Valid {
		sale.PresaleID = presaleID.String
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &sale.Items); err != nil {
			return nil, err
		}
	}
	if len(paymentsRaw) > 0 {
		if err := json.Unmarshal(paymentsRaw, &sale.Payments); err != nil {
			return nil, err
		}
	}
	sale.CreatedAt = sale.CreatedAt.UTC()
	sale.UpdatedAt = sale.UpdatedAt.UTC()
	return &sale, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if len(sale.Items) == 0 {
		return nil, store.ErrInvalidSale
	}
	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	sale.UpdatedAt = sale.CreatedAt

	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return nil, err
	}
	paymentsJSON, err := json.Marshal(sale.Payments)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sales (
			id, number, customer_name, items, payments, total, total_paid, change,
			discount, price_type, cash_register_id, presale_id, status, created_by,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, sale.ID, sale.Number, sale.CustomerName, itemsJSON, paymentsJSON, sale.Total,
		sale.TotalPaid, sale.Change, sale.Discount, sale.PriceType,
		nullIfEmpty(sale.CashRegisterID), nullIfEmpty(sale.PresaleID), sale.Status,
		sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt)
	if err != nil {
		return nil, err
	}

	created := sale
	return &created, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := scanSale(s.db.QueryRowContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *Store) UpdateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return nil, err
	}
	paymentsJSON, err := json.Marshal(sale.Payments)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET customer_name = $2, items = $3, payments = $4, total = $5,
			total_paid = $6, change = $7, discount = $8, status = $9, updated_at = now()
		WHERE id = $1
	`, sale.ID, sale.CustomerName, itemsJSON, paymentsJSON, sale.Total,
		sale.TotalPaid, sale.Change, sale.Discount, sale.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetSale(ctx, sale.ID)
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		ORDER BY number DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

const registerColumns = `
	id, opened_by, opening_float, closing_cash, status, opened_at, closed_at
`

func scanRegister(row interface{ Scan(...any) error }) (*domain.CashRegister, error) {
	var register domain.CashRegister
	var closedAt sql.NullTime
	err := row.Scan(
		&register.ID, &register.OpenedBy, &register.OpeningFloat,
		&register.ClosingCash, &register.Status, &register.OpenedAt, &closedAt,
	)
	if err != nil {
		return nil, err
	}
	register.OpenedAt = register.OpenedAt.UTC()
	if closedAt.Valid {
		at := closedAt.Time.UTC()
		register.ClosedAt = &at
	}
	return &register, nil
}

func (s *Store) GetOpenCashRegister(ctx context.Context) (*domain.CashRegister, error) {
	register, err := scanRegister(s.db.QueryRowContext(ctx, `
		SELECT `+registerColumns+`
		FROM cash_registers
		WHERE status = 'open'
		ORDER BY opened_at DESC
		LIMIT 1
	`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return register, nil
}

func (s *Store) OpenCashRegister(ctx context.Context, register domain.CashRegister) (*domain.CashRegister, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var open int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cash_registers WHERE status = 'open'
	`).Scan(&open); err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, store.ErrInvalidSale
	}

	if register.ID == "" {
		register.ID = xid.New("register")
	}
	register.Status = domain.RegisterStatusOpen
	if register.OpenedAt.IsZero() {
		register.OpenedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cash_registers (id, opened_by, opening_float, closing_cash, status, opened_at, closed_at)
		VALUES ($1,$2,$3,0,$4,$5,NULL)
	`, register.ID, register.OpenedBy, register.OpeningFloat, register.Status, register.OpenedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := register
	return &created, nil
}

func (s *Store) CloseCashRegister(ctx context.Context, id string, closingCash float64) (*domain.CashRegister, error) {
	register, err := scanRegister(s.db.QueryRowContext(ctx, `
		UPDATE cash_registers
		SET status = 'closed', closing_cash = $2, closed_at = now()
		WHERE id = $1 AND status = 'open'
		RETURNING `+registerColumns+`
	`, id, closingCash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return register, nil
}

func (s *Store) AddCashMovement(ctx context.Context, movement domain.CashMovement) (*domain.CashMovement, error) {
	if movement.ID == "" {
		movement.ID = xid.New("mov")
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cash_movements (id, cash_register_id, sale_id, type, amount, description, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, movement.ID, movement.CashRegisterID, nullIfEmpty(movement.SaleID), movement.Type,
		movement.Amount, movement.Description, movement.CreatedBy, movement.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := movement
	return &created, nil
}

func (s *Store) DeleteCashMovementsBySale(ctx context.Context, saleID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cash_movements WHERE sale_id = $1 AND type = 'change'
	`, saleID)
	return err
}

func (s *Store) ListCashMovements(ctx context.Context, cashRegisterID string) ([]domain.CashMovement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cash_register_id, COALESCE(sale_id,''), type, amount, description, created_by, created_at
		FROM cash_movements
		WHERE cash_register_id = $1
		ORDER BY created_at ASC
	`, cashRegisterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]domain.CashMovement, 0, 16)
	for rows.Next() {
		var movement domain.CashMovement
		if err := rows.Scan(&movement.ID, &movement.CashRegisterID, &movement.SaleID,
			&movement.Type, &movement.Amount, &movement.Description, &movement.CreatedBy,
			&movement.CreatedAt); err != nil {
			return nil, err
		}
		movement.CreatedAt = movement.CreatedAt.UTC()
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

func (s *Store) NextNumber(ctx context.Context, name string) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name)
		DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, name).Scan(&value)
	return value, err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return store.ErrInvalidSale
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
