package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FlavorAttribute is the WooCommerce attribute whose options become flavors.
const FlavorAttribute = "Flavor"

// ProductsEndpoint is the WooCommerce REST path for listing products.
const ProductsEndpoint = "/wp-json/wc/v3/products"

// WooProduct is the subset of a WooCommerce product the storefront reads.
type WooProduct struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Type             string         `json:"type"` // "simple" or "variable"
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	Price            string         `json:"price"`
	RegularPrice     string         `json:"regular_price"`
	SalePrice        string         `json:"sale_price"`
	Images           []WooImage     `json:"images"`
	Attributes       []WooAttribute `json:"attributes"`
}

// WooImage is a product image.
type WooImage struct {
	Src string `json:"src"`
}

// WooAttribute is a product attribute such as "Flavor".
type WooAttribute struct {
	Name      string   `json:"name"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// DisplayPrice returns the sale price if set, else price, else regular price.
func (p *WooProduct) DisplayPrice() string {
	if p.SalePrice != "" {
		return p.SalePrice
	}
	if p.Price != "" {
		return p.Price
	}
	return p.RegularPrice
}

// Flavors returns the options of the Flavor attribute, if any.
func (p *WooProduct) Flavors() []string {
	for _, attr := range p.Attributes {
		if strings.EqualFold(attr.Name, FlavorAttribute) {
			return attr.Options
		}
	}
	return nil
}

// Product converts the WooCommerce representation into a catalog Product.
func (p *WooProduct) Product() Product {
	desc := p.ShortDescription
	if desc == "" {
		desc = p.Description
	}
	var img string
	if len(p.Images) > 0 {
		img = p.Images[0].Src
	}
	return Product{
		ID:          strconv.Itoa(p.ID),
		Name:        p.Name,
		Description: StripHTML(desc),
		Price:       p.DisplayPrice(),
		Img:         img,
		Flavors:     p.Flavors(),
	}
}

// ToWoo converts a catalog Product into the WooCommerce shape. Non-numeric
// IDs fall back to fallbackID.
func ToWoo(p Product, fallbackID int) WooProduct {
	id, err := strconv.Atoi(p.ID)
	if err != nil {
		id = fallbackID
	}
	wp := WooProduct{
		ID:           id,
		Name:         p.Name,
		Type:         "simple",
		Description:  p.Description,
		Price:        p.Price,
		RegularPrice: p.Price,
	}
	if p.Img != "" {
		wp.Images = []WooImage{{Src: p.Img}}
	}
	if p.HasFlavors() {
		wp.Type = "variable"
		wp.Attributes = []WooAttribute{{Name: FlavorAttribute, Variation: true, Options: p.Flavors}}
	}
	return wp
}

// Woo reads the catalog from a WooCommerce REST API.
type Woo struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	perPage        int
	httpClient     *http.Client
}

// WooOption is a functional option for configuring the client.
type WooOption func(*Woo)

// WithCredentials sets the WooCommerce API credentials.
func WithCredentials(key, secret string) WooOption {
	return func(w *Woo) {
		w.consumerKey = key
		w.consumerSecret = secret
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) WooOption {
	return func(w *Woo) {
		w.httpClient = hc
	}
}

// WithPerPage sets the page size used when listing products.
func WithPerPage(n int) WooOption {
	return func(w *Woo) {
		w.perPage = n
	}
}

// NewWoo creates a WooCommerce catalog source.
func NewWoo(baseURL string, opts ...WooOption) *Woo {
	w := &Woo{
		baseURL: strings.TrimRight(baseURL, "/"),
		perPage: 100,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.perPage < 1 {
		w.perPage = 100
	}
	return w
}

// Products fetches published products, following pages until a short page.
func (w *Woo) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(w.perPage))
		query.Set("status", "publish")

		var batch []WooProduct
		if err := w.doRequest(ctx, ProductsEndpoint, query, &batch); err != nil {
			return nil, err
		}
		for i := range batch {
			products = append(products, batch[i].Product())
		}
		if len(batch) < w.perPage {
			return products, nil
		}
	}
}

// doRequest performs an HTTP GET request to the WooCommerce API.
func (w *Woo) doRequest(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	if w.consumerKey != "" && w.consumerSecret != "" {
		query.Set("consumer_key", w.consumerKey)
		query.Set("consumer_secret", w.consumerSecret)
	}

	reqURL := w.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
