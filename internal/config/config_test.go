package config

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thomas/shisha-terminal-go/internal/money"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store != StoreFile || cfg.CartSlot != "cart" {
		t.Errorf("unexpected store defaults: %s %s", cfg.Store, cfg.CartSlot)
	}
	if cfg.ShippingCost != money.Units(100) || cfg.FreeShippingThreshold != money.Units(1600) {
		t.Errorf("unexpected pricing defaults: %s %s", cfg.ShippingCost, cfg.FreeShippingThreshold)
	}
	if !cfg.TaxRate.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("expected 5%% tax, got %s", cfg.TaxRate)
	}
	if !cfg.OpenMiniCartOnAdd || cfg.WaiveShipping {
		t.Error("unexpected UI/shipping policy defaults")
	}
	if cfg.CartTTL != 0 {
		t.Errorf("expected no TTL, got %s", cfg.CartTTL)
	}

	policy := cfg.Policy()
	if policy.WaiveShipping(money.Units(5000), policy.FreeShippingThreshold) {
		t.Error("default policy must keep charging shipping")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("CART_TTL_SECONDS", "3600")
	t.Setenv("SHIPPING_COST", "75.50")
	t.Setenv("WAIVE_SHIPPING_AT_THRESHOLD", "true")
	t.Setenv("OPEN_MINICART_ON_ADD", "false")
	t.Setenv("PROMO_CODES", "summer=0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store != StoreRedis {
		t.Errorf("expected redis store, got %s", cfg.Store)
	}
	if cfg.CartTTL.Hours() != 1 {
		t.Errorf("expected 1h TTL, got %s", cfg.CartTTL)
	}
	if cfg.ShippingCost != 7550 {
		t.Errorf("expected R75.50 shipping, got %s", cfg.ShippingCost)
	}
	if cfg.OpenMiniCartOnAdd {
		t.Error("expected mini-cart flag off")
	}
	if !cfg.Policy().WaiveShipping(money.Units(1600), money.Units(1600)) {
		t.Error("expected shipping waived at threshold")
	}

	promos, err := cfg.Promos()
	if err != nil {
		t.Fatalf("Promos failed: %v", err)
	}
	if _, ok := promos.Lookup("SHISHA10"); !ok {
		t.Error("expected built-in code to remain")
	}
	if rate, ok := promos.Lookup("Summer"); !ok || !rate.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("expected SUMMER at 0.2, got %s %v", rate, ok)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SSH_AUTH_MODE", "open"},
		{"CART_STORE", "s3"},
		{"CATALOG_SOURCE", "ftp"},
		{"CART_TTL_SECONDS", "soon"},
		{"CART_TTL_SECONDS", "-1"},
		{"SHIPPING_COST", "free"},
		{"FREE_SHIPPING_THRESHOLD", "-10"},
		{"TAX_RATE", "-0.1"},
		{"OPEN_MINICART_ON_ADD", "maybe"},
		{"PROMO_CODES", "BROKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestPromosRejectsOutOfRangeRate(t *testing.T) {
	t.Setenv("PROMO_CODES", "FREE=2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cfg.Promos(); err == nil {
		t.Error("expected error for rate above 1")
	}
}
