// Package money represents prices as integer minor units (cents) so that
// repeated additions never drift the way binary floats do.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency prefix used for display.
const Symbol = "R"

// Amount is a monetary value in minor units (1/100 of the currency).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// MaxAmount is the largest representable amount. Arithmetic saturates here.
const MaxAmount Amount = math.MaxInt64

// ErrOutOfRange is returned for values that do not fit in an Amount.
var ErrOutOfRange = errors.New("amount out of range")

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Parse converts a numeric string such as "149.99" into an Amount.
// Values with more than two decimals are rounded half away from zero.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	cents := d.Round(2).Shift(2)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return Zero, fmt.Errorf("parsing amount %q: %w", s, ErrOutOfRange)
	}
	return Amount(cents.IntPart()), nil
}

// MustParse is like Parse but panics on invalid input. Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal rounds d to cents and converts it to an Amount, saturating at
// the int64 range.
func FromDecimal(d decimal.Decimal) Amount {
	cents := d.Round(2).Shift(2)
	switch {
	case cents.GreaterThan(maxCents):
		return MaxAmount
	case cents.LessThan(minCents):
		return math.MinInt64
	}
	return Amount(cents.IntPart())
}

// Units returns an Amount of whole currency units.
func Units(n int64) Amount {
	return Amount(n * 100)
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Times multiplies a non-negative amount by a quantity, saturating at MaxAmount.
func (a Amount) Times(qty int) Amount {
	if a <= 0 || qty <= 0 {
		return Zero
	}
	if a > MaxAmount/Amount(qty) {
		return MaxAmount
	}
	return a * Amount(qty)
}

// Plus adds b to a, saturating at the int64 range.
func (a Amount) Plus(b Amount) Amount {
	switch {
	case b > 0 && a > MaxAmount-b:
		return MaxAmount
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// ApplyRate returns a*rate rounded to cents.
func (a Amount) ApplyRate(rate decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(rate))
}

// Ratio returns a/b as a float for display purposes such as progress bars.
func (a Amount) Ratio(b Amount) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// String returns the formatted amount, e.g. "R149.99".
func (a Amount) String() string {
	return Format(a)
}

// Format renders the amount with two decimals, e.g. "R667.00".
func Format(a Amount) string {
	return Symbol + a.Decimal().StringFixed(2)
}

// FormatWhole drops the decimals when the amount is whole, e.g. "R100".
func FormatWhole(a Amount) string {
	if a%100 == 0 {
		return fmt.Sprintf("%s%d", Symbol, int64(a)/100)
	}
	return Format(a)
}

// MarshalJSON encodes the amount as a bare JSON number in major units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Zero
		return nil
	}
	parsed, err := Parse(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
