package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed products.json
var productsJSON []byte

// Static serves a fixed product list.
type Static struct {
	products []Product
}

// Embedded returns the catalog bundled with the binary.
func Embedded() (*Static, error) {
	return FromJSON(productsJSON)
}

// FromJSON parses a JSON array of products.
func FromJSON(data []byte) (*Static, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &Static{products: products}, nil
}

// NewStatic wraps an in-memory product list.
func NewStatic(products []Product) *Static {
	return &Static{products: products}
}

// Products returns a copy of the product list.
func (s *Static) Products(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
