// Package keystore maintains a folder of named ed25519 private keys and
// provides name resolution for the accounts they control.
package keystore

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// KeyExt is the file extension used for private key files.
const KeyExt = ".ed25519"

// Keystore maintains a map of named private keys loaded from disk.
type Keystore struct {
	keys map[string]ed25519.PrivateKey
	mu   sync.RWMutex
}

// Load walks the specified folder and constructs a keystore from the
// private key files it finds.
func Load(root string) (*Keystore, error) {
	ks := Keystore{
		keys: make(map[string]ed25519.PrivateKey),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != KeyExt {
			return nil
		}

		key, err := ReadKeyFile(fileName)
		if err != nil {
			return err
		}

		ks.keys[strings.TrimSuffix(path.Base(fileName), KeyExt)] = key

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ks, nil
}

// PrivateKey returns the private key stored under the specified name.
func (ks *Keystore) PrivateKey(name string) (ed25519.PrivateKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	key, exists := ks.keys[name]
	if !exists {
		return nil, fmt.Errorf("key %q does not exist", name)
	}

	return key, nil
}

// PublicKeys returns a copy of the map of names and the public keys
// they control.
func (ks *Keystore) PublicKeys() map[string]ed25519.PublicKey {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	cpy := make(map[string]ed25519.PublicKey, len(ks.keys))
	for name, key := range ks.keys {
		cpy[name] = key.Public().(ed25519.PublicKey)
	}

	return cpy
}

// =============================================================================

// ReadKeyFile reads a hex encoded ed25519 seed from the specified file and
// reconstructs the private key.
func ReadKeyFile(fileName string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding key file: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key file %s: expected %d byte seed, got %d", fileName, ed25519.SeedSize, len(seed))
	}

	return ed25519.NewKeyFromSeed(seed), nil
}

// WriteKeyFile writes the hex encoded seed of the specified private key to
// the named file.
func WriteKeyFile(fileName string, key ed25519.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return fmt.Errorf("creating key folder: %w", err)
	}

	data := hex.EncodeToString(key.Seed())
	if err := os.WriteFile(fileName, []byte(data), 0600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}

	return nil
}
