package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	if err := m.Set(ctx, "cart", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err := m.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	buf := []byte("abc")
	m.Set(ctx, "k", buf)
	buf[0] = 'z'

	data, _ := m.Get(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("stored data changed with caller buffer: %s", data)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	now := time.Now()
	m.nowFunc = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"))
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("expected key before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired key to be missing, got %v", err)
	}

	if m.Len() != 1 {
		t.Errorf("expected expired entry until cleanup, got %d", m.Len())
	}
	m.Cleanup()
	if m.Len() != 0 {
		t.Errorf("expected 0 entries after cleanup, got %d", m.Len())
	}
}

func TestMemoryRunCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemory(time.Minute)
	m.Set(ctx, "k", []byte("v"))

	later := time.Now().Add(2 * time.Minute)
	m.nowFunc = func() time.Time { return later }

	done := make(chan struct{})
	go func() {
		m.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Len() != 0 {
		t.Errorf("expected background cleanup to drop the expired entry, got %d", m.Len())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("expected RunCleanup to return after cancel")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.Set(ctx, "k", []byte("v"))

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			m.Set(ctx, key, []byte("x"))
			m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if m.Len() != 26 {
		t.Errorf("expected 26 keys, got %d", m.Len())
	}
}
