// Package main implements a mock WooCommerce product API that serves the
// embedded catalog, for running the storefront with CATALOG_SOURCE=woo.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/thomas/shisha-terminal-go/internal/catalog"
	"github.com/thomas/shisha-terminal-go/internal/config"
	"github.com/thomas/shisha-terminal-go/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger", "err", err)
	}

	embedded, err := catalog.Embedded()
	if err != nil {
		logger.Fatal("Failed to load catalog", "err", err)
	}
	products, err := wooProducts(embedded)
	if err != nil {
		logger.Fatal("Failed to convert catalog", "err", err)
	}

	mux := http.NewServeMux()
	mux.Handle(catalog.ProductsEndpoint, productsHandler(products))

	logger.Info("Mock shop listening", "addr", cfg.MockShopAddr, "products", len(products))
	if err := http.ListenAndServe(cfg.MockShopAddr, mux); err != nil {
		logger.Fatal("Server error", "err", err)
	}
}

func wooProducts(src *catalog.Static) ([]catalog.WooProduct, error) {
	list, err := src.Products(context.Background())
	if err != nil {
		return nil, err
	}
	out := make([]catalog.WooProduct, len(list))
	for i, p := range list {
		out[i] = catalog.ToWoo(p, i+1)
	}
	return out, nil
}

// productsHandler serves GET ProductsEndpoint with page, per_page and search.
func productsHandler(products []catalog.WooProduct) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()

		// Parse pagination
		page, _ := strconv.Atoi(query.Get("page"))
		if page < 1 {
			page = 1
		}
		perPage, _ := strconv.Atoi(query.Get("per_page"))
		if perPage < 1 {
			perPage = 10
		}

		filtered := filterProducts(products, query.Get("search"))
		total := len(filtered)

		start := (page - 1) * perPage
		end := start + perPage
		if start >= len(filtered) {
			filtered = []catalog.WooProduct{}
		} else {
			if end > len(filtered) {
				end = len(filtered)
			}
			filtered = filtered[start:end]
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-WP-Total", strconv.Itoa(total))
		w.Header().Set("X-WP-TotalPages", strconv.Itoa((total+perPage-1)/perPage))

		json.NewEncoder(w).Encode(filtered)
	}
}

func filterProducts(products []catalog.WooProduct, search string) []catalog.WooProduct {
	if search == "" {
		return products
	}
	search = strings.ToLower(search)

	result := []catalog.WooProduct{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), search) {
			result = append(result, p)
		}
	}
	return result
}
