package config

import (
	"testing"

	"github.com/rsetbrasil/mrbebidascumbuco-sub000/internal/domain"
)

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("MANAGER_PIN", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.ManagerPIN != "" {
		t.Fatalf("expected empty MANAGER_PIN when unset, got %q", cfg.ManagerPIN)
	}
}

func TestLoadDefaultPriceTypeFallsBackToWholesale(t *testing.T) {
	t.Setenv("DEFAULT_PRICE_TYPE", "varejo-gelado")

	cfg := Load()
	if cfg.DefaultPriceType != domain.TierWholesale {
		t.Fatalf("expected invalid DEFAULT_PRICE_TYPE to fall back to %s, got %s", domain.TierWholesale, cfg.DefaultPriceType)
	}
}

func TestLoadDefaultPriceTypeCold(t *testing.T) {
	t.Setenv("DEFAULT_PRICE_TYPE", string(domain.TierCold))

	cfg := Load()
	if cfg.DefaultPriceType != domain.TierCold {
		t.Fatalf("expected %s, got %s", domain.TierCold, cfg.DefaultPriceType)
	}
}

func TestLoadAllowSaleWithoutStock(t *testing.T) {
	t.Setenv("ALLOW_SALE_WITHOUT_STOCK", "")
	if cfg := Load(); cfg.AllowSaleWithoutStock {
		t.Fatalf("expected oversell to be disabled by default")
	}

	t.Setenv("ALLOW_SALE_WITHOUT_STOCK", "true")
	if cfg := Load(); !cfg.AllowSaleWithoutStock {
		t.Fatalf("expected ALLOW_SALE_WITHOUT_STOCK=true to enable oversell")
	}

	t.Setenv("ALLOW_SALE_WITHOUT_STOCK", "yes")
	if cfg := Load(); cfg.AllowSaleWithoutStock {
		t.Fatalf("expected non-\"true\" value to leave oversell disabled")
	}
}
