// Package cart implements the cart ledger: an ordered list of line items kept
// in sync with a persisted slot, with derived totals and promo handling.
package cart

import (
	"github.com/thomas/shisha-terminal-go/internal/money"
)

// DefaultFlavor is used when an item is added without a flavor.
const DefaultFlavor = "Default"

// LineItem is one cart entry. Its identity is the (ID, Flavor) pair.
type LineItem struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Flavor string       `json:"flavor"`
	Price  money.Amount `json:"price"`
	Img    string       `json:"img"`
	Qty    int          `json:"qty"`
}

// Key identifies a line within a cart.
type Key struct {
	ID     string
	Flavor string
}

// Key returns the identity of the line.
func (i LineItem) Key() Key {
	return Key{ID: i.ID, Flavor: i.Flavor}
}

// LineTotal returns price * qty.
func (i LineItem) LineTotal() money.Amount {
	return i.Price.Times(i.Qty)
}

// normalize applies the add-time defaults: flavor "Default", qty at least 1,
// non-negative price.
func (i LineItem) normalize() LineItem {
	if i.Flavor == "" {
		i.Flavor = DefaultFlavor
	}
	if i.Qty < 1 {
		i.Qty = 1
	}
	if i.Qty > MaxQuantity {
		i.Qty = MaxQuantity
	}
	if i.Price < 0 {
		i.Price = money.Zero
	}
	return i
}

// LineView is what a render target receives per line.
type LineView struct {
	ID        string
	Name      string
	Flavor    string
	Img       string
	Price     money.Amount
	Qty       int
	LineTotal money.Amount
}

func viewOf(i LineItem) LineView {
	return LineView{
		ID:        i.ID,
		Name:      i.Name,
		Flavor:    i.Flavor,
		Img:       i.Img,
		Price:     i.Price,
		Qty:       i.Qty,
		LineTotal: i.LineTotal(),
	}
}
