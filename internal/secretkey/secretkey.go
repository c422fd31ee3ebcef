// Package secretkey provisions the server-side secret the admin page
// discloses.
//
// The file is meant to look like something that genuinely should never
// reach a browser: an OpenSSH private key. If the configured path already
// exists (e.g. an operator planted their own key material for a class), it
// is left untouched; otherwise a fresh ed25519 key is generated and written
// there so the disclosure flow always has real-looking contents to leak.
package secretkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

// EnsureFile makes sure a private key exists at path, creating parent
// directories as needed. Returns whether a new key was generated.
func EnsureFile(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("secretkey: checking %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("secretkey: creating directory for %s: %w", path, err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return false, fmt.Errorf("secretkey: generating key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, "vulnworld admin key")
	if err != nil {
		return false, fmt.Errorf("secretkey: marshaling key: %w", err)
	}

	// 0600 like a real id_rsa — the filesystem permission is honest even
	// though the admin page gives the contents away.
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return false, fmt.Errorf("secretkey: writing %s: %w", path, err)
	}

	return true, nil
}
