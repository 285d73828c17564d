// Package auth handles SSH public key authentication and maps keys to
// per-user cart slots.
package auth

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ErrAllowlistNotFound is returned when the allowlist file doesn't exist.
var ErrAllowlistNotFound = errors.New("allowlist file not found")

// Allowlist is a set of authorized public keys.
type Allowlist struct {
	keys []ssh.PublicKey
	// Lines that could not be parsed, by line number.
	Skipped []int
}

// LoadAllowlist reads an OpenSSH authorized_keys format file. Empty lines and
// comments are ignored; unparseable lines are recorded in Skipped.
func LoadAllowlist(path string) (*Allowlist, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAllowlistNotFound
		}
		return nil, err
	}
	defer file.Close()

	list := &Allowlist{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pubKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			list.Skipped = append(list.Skipped, lineNum)
			continue
		}
		list.keys = append(list.keys, pubKey)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Len returns the number of authorized keys.
func (a *Allowlist) Len() int {
	return len(a.keys)
}

// Allows reports whether key is in the allowlist.
func (a *Allowlist) Allows(key ssh.PublicKey) bool {
	if key == nil {
		return false
	}
	keyBytes := key.Marshal()
	for _, allowed := range a.keys {
		if bytes.Equal(keyBytes, allowed.Marshal()) {
			return true
		}
	}
	return false
}

// CreateEmptyAllowlist creates an empty allowlist file with a helpful comment.
func CreateEmptyAllowlist(path string) error {
	content := `# SSH Public Key Allowlist
# Add one public key per line in OpenSSH authorized_keys format.
# Example:
# ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIExample... user@host
`
	return os.WriteFile(path, []byte(content), 0644)
}

// SlotKey names the persisted cart slot of the user holding key, so the same
// key finds the same cart across sessions. Sessions without a key share
// fallback.
func SlotKey(key ssh.PublicKey, fallback string) string {
	if key == nil {
		return fallback
	}
	return "user-" + strings.TrimPrefix(ssh.FingerprintSHA256(key), "SHA256:")
}
