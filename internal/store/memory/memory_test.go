package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/store"
)

func TestNextNumberIsSequentialPerCounter(t *testing.T) {
	s := New()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := s.NextNumber(ctx, "sales")
		if err != nil {
			t.Fatalf("next number: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	got, err := s.NextNumber(ctx, "presales")
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected independent counter to start at 1, got %d", got)
	}
}

func TestNextNumberConcurrentIssuesNoDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := s.NextNumber(ctx, "sales")
			if err != nil {
				t.Errorf("next number: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number %d issued", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d unique numbers, got %d", n, len(seen))
	}
}

func TestUpdateProductStockPartialUpdate(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	before, err := s.GetProduct(ctx, "prod-skol-350")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}

	newCold := 10.0
	if err := s.UpdateProductStock(ctx, "prod-skol-350", domain.StockUpdate{ColdStock: &newCold}); err != nil {
		t.Fatalf("update stock: %v", err)
	}

	after, err := s.GetProduct(ctx, "prod-skol-350")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.ColdStock != 10 {
		t.Fatalf("expected cold stock 10, got %.2f", after.ColdStock)
	}
	if after.Stock != before.Stock {
		t.Fatalf("expected ambient stock untouched, got %.2f", after.Stock)
	}
	if after.ReservedStock != before.ReservedStock {
		t.Fatalf("expected reserved stock untouched, got %.2f", after.ReservedStock)
	}
}

func TestListPresalesFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	line := []domain.SaleItem{{ProductID: "p1", ProductName: "Produto", Quantity: 1, UnitPrice: 5, Total: 5}}
	mk := func(number int, status string, reserved bool) {
		t.Helper()
		_, err := s.CreatePresale(ctx, domain.Presale{
			Number:   number,
			Items:    line,
			Total:    5,
			Status:   status,
			Reserved: reserved,
		})
		if err != nil {
			t.Fatalf("create presale: %v", err)
		}
	}
	mk(1, "pending", true)
	mk(2, "pending", false)
	mk(3, "cancelled", false)

	pending, err := s.ListPresales(ctx, store.PresaleFilter{Status: "pending"})
	if err != nil {
		t.Fatalf("list presales: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending presales, got %d", len(pending))
	}
	if pending[0].Number != 1 || pending[1].Number != 2 {
		t.Fatalf("expected presales sorted by number, got %d/%d", pending[0].Number, pending[1].Number)
	}

	reserved, err := s.ListPresales(ctx, store.PresaleFilter{Status: "pending", ReservedOnly: true})
	if err != nil {
		t.Fatalf("list presales: %v", err)
	}
	if len(reserved) != 1 || reserved[0].Number != 1 {
		t.Fatalf("expected only the reserved presale, got %d", len(reserved))
	}
}

func TestCreatePresaleRejectsEmptyItems(t *testing.T) {
	s := New()
	_, err := s.CreatePresale(context.Background(), domain.Presale{Status: "pending"})
	if !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale, got %v", err)
	}
}

func TestOpenCashRegisterRejectsSecondOpen(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.OpenCashRegister(ctx, domain.CashRegister{OpenedBy: "admin", OpeningFloat: 100})
	if err != nil {
		t.Fatalf("open register: %v", err)
	}

	if _, err := s.OpenCashRegister(ctx, domain.CashRegister{OpenedBy: "cashier", OpeningFloat: 50}); err == nil {
		t.Fatalf("expected second open to be rejected")
	}

	if _, err := s.CloseCashRegister(ctx, first.ID, 180); err != nil {
		t.Fatalf("close register: %v", err)
	}
	if _, err := s.GetOpenCashRegister(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no open register after close, got %v", err)
	}

	if _, err := s.OpenCashRegister(ctx, domain.CashRegister{OpenedBy: "admin", OpeningFloat: 100}); err != nil {
		t.Fatalf("expected reopen after close to succeed, got %v", err)
	}
}

func TestGetProductByBarcodeResolvesUnitBarcode(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	product, err := s.GetProductByBarcode(ctx, "7891149100118")
	if err != nil {
		t.Fatalf("barcode lookup: %v", err)
	}
	if product.ID != "prod-skol-350" {
		t.Fatalf("expected unit barcode to resolve to prod-skol-350, got %s", product.ID)
	}

	if _, err := s.GetProductByBarcode(ctx, "0000000000000"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown barcode, got %v", err)
	}
}

func TestDeleteCashMovementsBySaleRemovesOnlyChange(t *testing.T) {
	s := New()
	ctx := context.Background()

	register, err := s.OpenCashRegister(ctx, domain.CashRegister{OpenedBy: "admin", OpeningFloat: 100})
	if err != nil {
		t.Fatalf("open register: %v", err)
	}

	add := func(saleID, typ string) {
		t.Helper()
		_, err := s.AddCashMovement(ctx, domain.CashMovement{
			CashRegisterID: register.ID,
			SaleID:         saleID,
			Type:           typ,
			Amount:         5,
		})
		if err != nil {
			t.Fatalf("add movement: %v", err)
		}
	}
	add("sale-1", domain.MovementChange)
	add("sale-1", domain.MovementRefund)
	add("sale-2", domain.MovementChange)

	if err := s.DeleteCashMovementsBySale(ctx, "sale-1"); err != nil {
		t.Fatalf("delete movements: %v", err)
	}

	movements, err := s.ListCashMovements(ctx, register.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements to remain, got %d", len(movements))
	}
	for _, m := range movements {
		if m.SaleID == "sale-1" && m.Type == domain.MovementChange {
			t.Fatalf("expected change movement of sale-1 to be deleted")
		}
	}
}
