package config

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas/shisha-terminal-go/internal/catalog"
	"github.com/thomas/shisha-terminal-go/internal/store"
)

// OpenStore builds the persistence backend named by CART_STORE. Backends
// holding connections also implement io.Closer. A memory store with a TTL
// drops expired carts until ctx is done.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store {
	case StoreRedis:
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := store.DialRedis(dialCtx, c.RedisURL, c.CartTTL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return r, nil
	case StoreMemory:
		mem := store.NewMemory(c.CartTTL)
		if c.CartTTL > 0 {
			go mem.RunCleanup(ctx, c.CartTTL)
		}
		return mem, nil
	default:
		f, err := store.NewFile(c.CartDir)
		if err != nil {
			return nil, fmt.Errorf("opening cart dir: %w", err)
		}
		return f, nil
	}
}

// OpenCatalog builds the product source named by CATALOG_SOURCE.
func (c *Config) OpenCatalog() (catalog.Source, error) {
	if c.Catalog == CatalogWoo {
		var opts []catalog.WooOption
		if c.WooConsumerKey != "" && c.WooConsumerSecret != "" {
			opts = append(opts, catalog.WithCredentials(c.WooConsumerKey, c.WooConsumerSecret))
		}
		return catalog.NewWoo(c.WooBaseURL, opts...), nil
	}

	embedded, err := catalog.Embedded()
	if err != nil {
		return nil, fmt.Errorf("loading embedded catalog: %w", err)
	}
	return embedded, nil
}
