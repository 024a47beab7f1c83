package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
)

func TestStockAndCounterRoundTrip(t *testing.T) {
	databaseURL := os.Getenv("MRBEBIDAS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set MRBEBIDAS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prod-it-%d", stamp)
	unitBarcode := fmt.Sprintf("789%d", stamp%10_000_000_000)
	counter := fmt.Sprintf("it-counter-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM counters WHERE name = $1`, counter)
	})

	wholesale := 3.20
	created, err := s.CreateProduct(ctx, domain.Product{
		ID:             productID,
		Name:           "Cerveja Integracao 350ml",
		Price:          4.50,
		WholesalePrice: &wholesale,
		Cost:           2.40,
		Stock:          48,
		ColdStock:      12,
		Units: []domain.ProductUnit{
			{Name: "Fardo 12un", Barcode: unitBarcode, Price: 36.00, Multiplier: 12},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID != productID {
		t.Fatalf("unexpected product id %s", created.ID)
	}

	// Unit barcodes live inside the units JSONB column and must still resolve.
	byBarcode, err := s.GetProductByBarcode(ctx, unitBarcode)
	if err != nil {
		t.Fatalf("barcode lookup: %v", err)
	}
	if byBarcode.ID != productID {
		t.Fatalf("expected unit barcode to resolve to %s, got %s", productID, byBarcode.ID)
	}

	// Partial stock update must leave the other pool untouched.
	reserved := 20.0
	if err := s.UpdateProductStock(ctx, productID, domain.StockUpdate{ReservedStock: &reserved}); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	after, err := s.GetProduct(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.ReservedStock != 20 {
		t.Fatalf("expected reserved stock 20, got %.2f", after.ReservedStock)
	}
	if after.Stock != 48 || after.ColdStock != 12 {
		t.Fatalf("expected untouched pools 48/12, got %.2f/%.2f", after.Stock, after.ColdStock)
	}

	for want := 1; want <= 3; want++ {
		got, err := s.NextNumber(ctx, counter)
		if err != nil {
			t.Fatalf("next number: %v", err)
		}
		if got != want {
			t.Fatalf("expected counter value %d, got %d", want, got)
		}
	}
}
