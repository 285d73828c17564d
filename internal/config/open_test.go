package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/thomas/shisha-terminal-go/internal/catalog"
	"github.com/thomas/shisha-terminal-go/internal/store"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		cfg := &Config{Store: StoreFile, CartDir: t.TempDir()}
		s, err := cfg.OpenStore(ctx)
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		if _, ok := s.(*store.File); !ok {
			t.Errorf("expected *store.File, got %T", s)
		}
	})

	t.Run("memory", func(t *testing.T) {
		cfg := &Config{Store: StoreMemory}
		s, err := cfg.OpenStore(ctx)
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		if _, ok := s.(*store.Memory); !ok {
			t.Errorf("expected *store.Memory, got %T", s)
		}
	})

	t.Run("memory with ttl", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		cfg := &Config{Store: StoreMemory, CartTTL: time.Minute}
		s, err := cfg.OpenStore(ctx)
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		if _, ok := s.(*store.Memory); !ok {
			t.Errorf("expected *store.Memory, got %T", s)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &Config{Store: StoreRedis, RedisURL: "redis://" + mr.Addr()}
		s, err := cfg.OpenStore(ctx)
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		r, ok := s.(*store.Redis)
		if !ok {
			t.Fatalf("expected *store.Redis, got %T", s)
		}
		r.Close()
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := &Config{Store: StoreRedis, RedisURL: "redis://" + addr}
		if _, err := cfg.OpenStore(ctx); err == nil {
			t.Error("expected error for unreachable redis")
		}
	})
}

func TestOpenCatalog(t *testing.T) {
	cfg := &Config{Catalog: CatalogEmbedded}
	src, err := cfg.OpenCatalog()
	if err != nil {
		t.Fatalf("OpenCatalog failed: %v", err)
	}
	if _, ok := src.(*catalog.Static); !ok {
		t.Errorf("expected *catalog.Static, got %T", src)
	}

	cfg = &Config{Catalog: CatalogWoo, WooBaseURL: "http://127.0.0.1:18080", WooConsumerKey: "ck", WooConsumerSecret: "cs"}
	src, err = cfg.OpenCatalog()
	if err != nil {
		t.Fatalf("OpenCatalog failed: %v", err)
	}
	if _, ok := src.(*catalog.Woo); !ok {
		t.Errorf("expected *catalog.Woo, got %T", src)
	}
}
