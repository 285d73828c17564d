package promo

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultLookup(t *testing.T) {
	v := Default()

	tests := []struct {
		code   string
		wantOK bool
	}{
		{"SHISHA10", true},
		{"shisha10", true},
		{"  ShIsHa10\t", true},
		{"bogus", false},
		{"", false},
		{"SHISHA 10", false},
	}

	for _, tt := range tests {
		rate, ok := v.Lookup(tt.code)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
		}
		if ok && !rate.Equal(decimal.RequireFromString("0.1")) {
			t.Errorf("Lookup(%q) rate = %s, want 0.1", tt.code, rate)
		}
		if !ok && !rate.IsZero() {
			t.Errorf("Lookup(%q) rate = %s, want 0", tt.code, rate)
		}
	}
}

func TestNewStaticRejectsBadRates(t *testing.T) {
	_, err := NewStatic(map[string]decimal.Decimal{"HALF": decimal.RequireFromString("1.5")})
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}

	_, err = NewStatic(map[string]decimal.Decimal{"NEG": decimal.RequireFromString("-0.1")})
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

func TestNewStaticNormalizesCodes(t *testing.T) {
	v, err := NewStatic(map[string]decimal.Decimal{" summer ": decimal.RequireFromString("0.15")})
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}
	if _, ok := v.Lookup("SUMMER"); !ok {
		t.Error("expected SUMMER to be known")
	}
}

func TestParseCodes(t *testing.T) {
	rates, err := ParseCodes("summer=0.15, VIP=0.2,")
	if err != nil {
		t.Fatalf("ParseCodes failed: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(rates))
	}
	if !rates["SUMMER"].Equal(decimal.RequireFromString("0.15")) {
		t.Errorf("unexpected SUMMER rate %s", rates["SUMMER"])
	}

	if _, err := ParseCodes("NORATE"); err == nil {
		t.Error("expected error for entry without rate")
	}
	if _, err := ParseCodes("X=abc"); err == nil {
		t.Error("expected error for non-numeric rate")
	}

	empty, err := ParseCodes("")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty table, got %v, %v", empty, err)
	}
}
