// Package signature provides the content hashing and signing support used
// across the blockchain.
package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2s"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. The hash is a blake2s digest
// over the JSON marshaling of the value, lowercase hex encoded. Any change
// to any field of the value changes the resulting hash.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := blake2s.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Sign produces a signature over the specified content hash. The hex string
// itself is the signed message so a verifier only ever needs the hash.
func Sign(privateKey ed25519.PrivateKey, hash string) []byte {
	return ed25519.Sign(privateKey, []byte(hash))
}

// Verify reports whether the signature over the specified content hash
// checks out against the provided 32 byte verification key.
func Verify(publicKey []byte, hash string, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), []byte(hash), sig)
}
