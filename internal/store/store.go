// Package store provides key-value backends for persisted carts.
package store

import (
	"context"
	"errors"

	"github.com/thomas/shisha-terminal-go/internal/cart"
)

// ErrNotFound is returned when a key holds no data.
var ErrNotFound = errors.New("key not found")

// Store is a byte-oriented key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// KeySlot binds one key of a Store as a cart.Slot.
type KeySlot struct {
	store Store
	key   string
}

// Slot returns a cart.Slot backed by key in s.
func Slot(s Store, key string) *KeySlot {
	return &KeySlot{store: s, key: key}
}

// Key returns the bound key.
func (k *KeySlot) Key() string {
	return k.key
}

// Load reads the slot. A missing key is reported as cart.ErrSlotEmpty.
func (k *KeySlot) Load(ctx context.Context) ([]byte, error) {
	data, err := k.store.Get(ctx, k.key)
	if errors.Is(err, ErrNotFound) {
		return nil, cart.ErrSlotEmpty
	}
	return data, err
}

// Save overwrites the slot. Last writer wins.
func (k *KeySlot) Save(ctx context.Context, data []byte) error {
	return k.store.Set(ctx, k.key, data)
}
