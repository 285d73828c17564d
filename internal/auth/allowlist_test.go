package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func newKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	key, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("wrapping key: %v", err)
	}
	return key
}

func TestLoadAllowlist(t *testing.T) {
	allowed := newKey(t)
	other := newKey(t)

	content := "# comment\n\n" +
		strings.TrimSpace(string(ssh.MarshalAuthorizedKey(allowed))) + " user@host\n" +
		"not-a-key\n"
	path := filepath.Join(t.TempDir(), "authorized_keys")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing allowlist: %v", err)
	}

	list, err := LoadAllowlist(path)
	if err != nil {
		t.Fatalf("LoadAllowlist failed: %v", err)
	}

	if list.Len() != 1 {
		t.Errorf("expected 1 key, got %d", list.Len())
	}
	if len(list.Skipped) != 1 || list.Skipped[0] != 4 {
		t.Errorf("expected line 4 skipped, got %v", list.Skipped)
	}
	if !list.Allows(allowed) {
		t.Error("expected allowed key to pass")
	}
	if list.Allows(other) {
		t.Error("expected unknown key to be rejected")
	}
	if list.Allows(nil) {
		t.Error("expected nil key to be rejected")
	}
}

func TestLoadAllowlistMissing(t *testing.T) {
	_, err := LoadAllowlist(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrAllowlistNotFound) {
		t.Errorf("expected ErrAllowlistNotFound, got %v", err)
	}
}

func TestCreateEmptyAllowlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_keys")
	if err := CreateEmptyAllowlist(path); err != nil {
		t.Fatalf("CreateEmptyAllowlist failed: %v", err)
	}

	list, err := LoadAllowlist(path)
	if err != nil {
		t.Fatalf("LoadAllowlist failed: %v", err)
	}
	if list.Len() != 0 || len(list.Skipped) != 0 {
		t.Errorf("expected empty allowlist, got %d keys, skipped %v", list.Len(), list.Skipped)
	}
}

func TestSlotKey(t *testing.T) {
	key := newKey(t)

	first := SlotKey(key, "cart")
	if first != SlotKey(key, "cart") {
		t.Error("expected stable slot key for the same public key")
	}
	if !strings.HasPrefix(first, "user-") || strings.Contains(first, "SHA256:") {
		t.Errorf("unexpected slot key %q", first)
	}
	if first == SlotKey(newKey(t), "cart") {
		t.Error("expected distinct slot keys for distinct public keys")
	}
	if got := SlotKey(nil, "cart"); got != "cart" {
		t.Errorf("expected fallback, got %q", got)
	}
}
