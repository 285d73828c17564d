// Package promo resolves promo codes into discount rates.
package promo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCode is the single code the storefront ships with.
const DefaultCode = "SHISHA10"

// ErrInvalidRate is returned when a discount rate falls outside [0, 1].
var ErrInvalidRate = errors.New("promo rate must be between 0 and 1")

// Validator maps a submitted code to a discount rate.
// Implementations must treat unknown codes as (0, false).
type Validator interface {
	Lookup(code string) (decimal.Decimal, bool)
}

// Normalize trims whitespace and upper-cases a submitted code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Static is a fixed table of codes.
type Static struct {
	rates map[string]decimal.Decimal
}

// NewStatic builds a Static validator. Codes are normalized.
func NewStatic(rates map[string]decimal.Decimal) (*Static, error) {
	s := &Static{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("code %s: %w", code, ErrInvalidRate)
		}
		if c := Normalize(code); c != "" {
			s.rates[c] = rate
		}
	}
	return s, nil
}

// Default returns a validator that only knows SHISHA10 at 10%.
func Default() *Static {
	return &Static{rates: map[string]decimal.Decimal{
		DefaultCode: decimal.NewFromFloat(0.10),
	}}
}

// Lookup returns the rate for code after normalizing it.
func (s *Static) Lookup(code string) (decimal.Decimal, bool) {
	rate, ok := s.rates[Normalize(code)]
	if !ok {
		return decimal.Zero, false
	}
	return rate, true
}

// Len returns the number of known codes.
func (s *Static) Len() int {
	return len(s.rates)
}

// ParseCodes parses a list such as "SUMMER=0.15,VIP=0.2" into a rate table.
// Empty input yields an empty table.
func ParseCodes(s string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, rawRate, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid promo entry %q: expected CODE=RATE", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rawRate))
		if err != nil {
			return nil, fmt.Errorf("invalid promo rate for %s: %w", code, err)
		}
		rates[Normalize(code)] = rate
	}
	return rates, nil
}
