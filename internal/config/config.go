// Package config handles environment variable parsing and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomas/shisha-terminal-go/internal/cart"
	"github.com/thomas/shisha-terminal-go/internal/money"
	"github.com/thomas/shisha-terminal-go/internal/promo"
)

// AuthMode represents the SSH authentication mode.
type AuthMode string

const (
	AuthModeAllowlist AuthMode = "allowlist"
	AuthModePublic    AuthMode = "public"
)

// StoreKind selects the cart persistence backend.
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreRedis  StoreKind = "redis"
	StoreMemory StoreKind = "memory"
)

// CatalogKind selects where products come from.
type CatalogKind string

const (
	CatalogEmbedded CatalogKind = "embedded"
	CatalogWoo      CatalogKind = "woo"
)

// Config holds all application configuration.
type Config struct {
	// SSH server settings
	SSHAddr        string
	SSHHostKeyPath string
	SSHAuthMode    AuthMode
	AllowlistPath  string

	// Cart persistence
	Store    StoreKind
	CartDir  string
	CartSlot string
	CartTTL  time.Duration
	RedisURL string

	// Pricing
	ShippingCost          money.Amount
	FreeShippingThreshold money.Amount
	TaxRate               decimal.Decimal
	WaiveShipping         bool
	PromoCodes            map[string]decimal.Decimal

	// UI policy
	OpenMiniCartOnAdd bool

	// Catalog
	Catalog           CatalogKind
	WooBaseURL        string
	WooConsumerKey    string
	WooConsumerSecret string
	MockShopAddr      string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		SSHAddr:           getEnv("SSH_ADDR", ":23234"),
		SSHHostKeyPath:    getEnv("SSH_HOSTKEY_PATH", "./.ssh_host_ed25519_key"),
		SSHAuthMode:       AuthMode(getEnv("SSH_AUTH_MODE", "allowlist")),
		AllowlistPath:     getEnv("SSH_ALLOWLIST_PATH", "./allowlist_authorized_keys"),
		Store:             StoreKind(getEnv("CART_STORE", "file")),
		CartDir:           getEnv("CART_DIR", "./carts"),
		CartSlot:          getEnv("CART_SLOT", "cart"),
		RedisURL:          getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		Catalog:           CatalogKind(getEnv("CATALOG_SOURCE", "embedded")),
		WooBaseURL:        getEnv("WOO_BASE_URL", "http://127.0.0.1:18080"),
		WooConsumerKey:    os.Getenv("WOO_CONSUMER_KEY"),
		WooConsumerSecret: os.Getenv("WOO_CONSUMER_SECRET"),
		MockShopAddr:      getEnv("MOCKSHOP_ADDR", ":18080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           os.Getenv("LOG_FILE"),
	}

	ttlSeconds, err := strconv.Atoi(getEnv("CART_TTL_SECONDS", "0"))
	if err != nil || ttlSeconds < 0 {
		return nil, errors.New("CART_TTL_SECONDS must be a non-negative integer")
	}
	cfg.CartTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.ShippingCost, err = parseAmount("SHIPPING_COST", "100"); err != nil {
		return nil, err
	}
	if cfg.FreeShippingThreshold, err = parseAmount("FREE_SHIPPING_THRESHOLD", "1600"); err != nil {
		return nil, err
	}

	cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "0.05"))
	if err != nil || cfg.TaxRate.IsNegative() {
		return nil, errors.New("TAX_RATE must be a non-negative decimal")
	}

	if cfg.WaiveShipping, err = parseBool("WAIVE_SHIPPING_AT_THRESHOLD", "false"); err != nil {
		return nil, err
	}
	if cfg.OpenMiniCartOnAdd, err = parseBool("OPEN_MINICART_ON_ADD", "true"); err != nil {
		return nil, err
	}

	if cfg.PromoCodes, err = promo.ParseCodes(os.Getenv("PROMO_CODES")); err != nil {
		return nil, fmt.Errorf("PROMO_CODES: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SSHAuthMode != AuthModeAllowlist && c.SSHAuthMode != AuthModePublic {
		return errors.New("SSH_AUTH_MODE must be 'allowlist' or 'public'")
	}
	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return errors.New("CART_STORE must be 'file', 'redis' or 'memory'")
	}
	switch c.Catalog {
	case CatalogEmbedded, CatalogWoo:
	default:
		return errors.New("CATALOG_SOURCE must be 'embedded' or 'woo'")
	}
	if strings.TrimSpace(c.CartSlot) == "" {
		return errors.New("CART_SLOT must not be empty")
	}
	return nil
}

// Policy returns the pricing policy described by the configuration.
func (c *Config) Policy() cart.Policy {
	p := cart.Policy{
		ShippingCost:          c.ShippingCost,
		FreeShippingThreshold: c.FreeShippingThreshold,
		TaxRate:               c.TaxRate,
		WaiveShipping:         cart.NeverWaive,
	}
	if c.WaiveShipping {
		p.WaiveShipping = cart.WaiveAtThreshold
	}
	return p
}

// Promos returns the promo validator: SHISHA10 plus any PROMO_CODES entries.
func (c *Config) Promos() (*promo.Static, error) {
	rates := map[string]decimal.Decimal{
		promo.DefaultCode: decimal.NewFromFloat(0.10),
	}
	for code, rate := range c.PromoCodes {
		rates[code] = rate
	}
	return promo.NewStatic(rates)
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseAmount(key, defaultValue string) (money.Amount, error) {
	a, err := money.Parse(getEnv(key, defaultValue))
	if err != nil || a < 0 {
		return 0, fmt.Errorf("%s must be a non-negative amount", key)
	}
	return a, nil
}

func parseBool(key, defaultValue string) (bool, error) {
	b, err := strconv.ParseBool(getEnv(key, defaultValue))
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return b, nil
}
