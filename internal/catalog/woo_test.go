package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestWooProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ProductsEndpoint {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("status") != "publish" {
			t.Errorf("expected status=publish, got %s", r.URL.Query().Get("status"))
		}

		products := []WooProduct{
			{
				ID:               101,
				Name:             "Al Fakher",
				Type:             "variable",
				ShortDescription: "<p>Smooth &amp; classic</p>",
				Price:            "150.00",
				Images:           []WooImage{{Src: "https://shop.test/af.png"}},
				Attributes: []WooAttribute{
					{Name: "Size", Options: []string{"250g"}},
					{Name: "flavor", Variation: true, Options: []string{"Mint", "Grape"}},
				},
			},
			{ID: 201, Name: "Coals", Type: "simple", RegularPrice: "89.99", SalePrice: "79.99"},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}))
	defer server.Close()

	src := NewWoo(server.URL)
	products, err := src.Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	af := products[0]
	if af.ID != "101" || af.Price != "150.00" || af.Img != "https://shop.test/af.png" {
		t.Errorf("unexpected product: %+v", af)
	}
	if af.Description != "Smooth & classic" {
		t.Errorf("expected stripped description, got %q", af.Description)
	}
	if len(af.Flavors) != 2 || af.Flavors[0] != "Mint" {
		t.Errorf("expected flavors from Flavor attribute, got %v", af.Flavors)
	}

	if products[1].Price != "79.99" {
		t.Errorf("expected sale price, got %s", products[1].Price)
	}
	if products[1].HasFlavors() {
		t.Error("simple product should have no flavors")
	}
}

func TestWooPagination(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)

		var batch []WooProduct
		if page == "1" {
			batch = []WooProduct{{ID: 1, Price: "1"}, {ID: 2, Price: "2"}}
		} else {
			batch = []WooProduct{{ID: 3, Price: "3"}}
		}
		json.NewEncoder(w).Encode(batch)
	}))
	defer server.Close()

	products, err := NewWoo(server.URL, WithPerPage(2)).Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(products) != 3 {
		t.Errorf("expected 3 products across pages, got %d", len(products))
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 page requests, got %v", pages)
	}
}

func TestWooCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("consumer_key") != "ck_test" || q.Get("consumer_secret") != "cs_test" {
			t.Errorf("credentials not sent: %v", q)
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	_, err := NewWoo(server.URL, WithCredentials("ck_test", "cs_test")).Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
}

func TestWooErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if _, err := NewWoo(server.URL).Products(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestToWooRoundTrip(t *testing.T) {
	src, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded failed: %v", err)
	}
	products, _ := src.Products(context.Background())

	for i, p := range products {
		wp := ToWoo(p, i+1)
		back := wp.Product()

		if back.ID != p.ID && back.ID != strconv.Itoa(i+1) {
			t.Errorf("unexpected id %s for %s", back.ID, p.ID)
		}
		if back.Name != p.Name || back.Price != p.Price || back.Img != p.Img {
			t.Errorf("product changed through woo shape: %+v -> %+v", p, back)
		}
		if len(back.Flavors) != len(p.Flavors) {
			t.Errorf("flavors lost for %s", p.ID)
		}
	}
}
