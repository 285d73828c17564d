package cart

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/thomas/shisha-terminal-go/internal/money"
)

// Pricing defaults.
var (
	DefaultShippingCost          = money.Units(100)
	DefaultFreeShippingThreshold = money.Units(1600)
	DefaultTaxRate               = decimal.NewFromFloat(0.05)
)

// ShippingWaiver decides whether shipping is charged for a subtotal.
type ShippingWaiver func(subtotal, threshold money.Amount) bool

// NeverWaive always charges shipping, even past the free-shipping threshold.
func NeverWaive(subtotal, threshold money.Amount) bool {
	return false
}

// WaiveAtThreshold drops shipping once the subtotal reaches the threshold.
func WaiveAtThreshold(subtotal, threshold money.Amount) bool {
	return subtotal >= threshold
}

// Policy holds the pricing constants used by Calculate.
type Policy struct {
	ShippingCost          money.Amount
	FreeShippingThreshold money.Amount
	TaxRate               decimal.Decimal
	WaiveShipping         ShippingWaiver
}

// DefaultPolicy returns flat R100 shipping, a R1600 free-shipping threshold and
// 5% tax. Shipping is always charged.
func DefaultPolicy() Policy {
	return Policy{
		ShippingCost:          DefaultShippingCost,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		TaxRate:               DefaultTaxRate,
		WaiveShipping:         NeverWaive,
	}
}

// Totals is derived from the cart on every render and never stored.
type Totals struct {
	Subtotal money.Amount
	Discount money.Amount
	// Taxable is the subtotal after discount.
	Taxable  money.Amount
	Tax      money.Amount
	Shipping money.Amount
	Total    money.Amount

	// ProgressPercent is the free-shipping progress in [0, 100].
	ProgressPercent float64
	Remaining       money.Amount
	FreeShipping    bool
}

// FreeShippingMessage is the text shown next to the progress bar.
func (t Totals) FreeShippingMessage() string {
	if t.FreeShipping {
		return "Free shipping!"
	}
	return money.FormatWhole(t.Remaining) + " to free shipping"
}

// Calculate derives totals from lines, a promo rate and a pricing policy.
func Calculate(lines []LineItem, rate decimal.Decimal, policy Policy) Totals {
	var subtotal money.Amount
	for _, line := range lines {
		subtotal = subtotal.Plus(line.LineTotal())
	}

	discount := subtotal.ApplyRate(rate)
	taxable := subtotal - discount
	tax := taxable.ApplyRate(policy.TaxRate)

	threshold := policy.FreeShippingThreshold
	shipping := policy.ShippingCost
	if policy.WaiveShipping != nil && policy.WaiveShipping(subtotal, threshold) {
		shipping = money.Zero
	}

	progress := 100.0
	if threshold > 0 {
		progress = math.Min(subtotal.Ratio(threshold)*100, 100)
	}

	return Totals{
		Subtotal:        subtotal,
		Discount:        discount,
		Taxable:         taxable,
		Tax:             tax,
		Shipping:        shipping,
		Total:           taxable.Plus(tax).Plus(shipping),
		ProgressPercent: progress,
		Remaining:       money.Max(threshold-subtotal, money.Zero),
		FreeShipping:    subtotal >= threshold,
	}
}
