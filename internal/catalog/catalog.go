// Package catalog lists the products that can be added to the cart.
package catalog

import (
	"context"
	"fmt"

	"github.com/thomas/shisha-terminal-go/internal/cart"
	"github.com/thomas/shisha-terminal-go/internal/money"
)

// Product is one entry of the storefront. Price is kept as the raw numeric
// string the product control carries and is parsed when the item is added.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Img         string   `json:"img"`
	Flavors     []string `json:"flavors,omitempty"`
}

// Source provides the product list.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

// HasFlavors reports whether the product needs a flavor choice before adding.
func (p *Product) HasFlavors() bool {
	return len(p.Flavors) > 0
}

// DisplayPrice formats the price, falling back to the raw string.
func (p *Product) DisplayPrice() string {
	a, err := money.Parse(p.Price)
	if err != nil {
		return p.Price
	}
	return money.Format(a)
}

// NewLineItem builds the add-to-cart payload for p: quantity 1, flavor
// defaulting to "Default". An unparseable price yields a zero price and an error.
func NewLineItem(p Product, flavor string) (cart.LineItem, error) {
	if flavor == "" {
		flavor = cart.DefaultFlavor
	}
	item := cart.LineItem{
		ID:     p.ID,
		Name:   p.Name,
		Flavor: flavor,
		Img:    p.Img,
		Qty:    1,
	}

	price, err := money.Parse(p.Price)
	if err != nil {
		return item, fmt.Errorf("product %s: %w", p.ID, err)
	}
	item.Price = price
	return item, nil
}
