package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// AccountID uniquely identifies an account on the ledger. The id is an
// opaque string chosen when the account is created.
type AccountID string

// Set of account kinds.
const (
	AccountUser     AccountKind = "user"
	AccountContract AccountKind = "contract"
)

// AccountKind classifies an account as user or contract owned.
type AccountKind string

// PublicKey is the 32 byte verification key stored with an account. The
// signing oracle holds the matching private key; the ledger only verifies.
type PublicKey [ed25519.PublicKeySize]byte

// ToPublicKey converts a raw key into the account form and validates the
// length.
func ToPublicKey(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("invalid public key length %d", len(b))
	}

	copy(pk[:], b)
	return pk, nil
}

// MarshalText implements encoding.TextMarshaler to keep keys lowercase hex
// on the wire.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(pk[:])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}

	k, err := ToPublicKey(b)
	if err != nil {
		return err
	}

	*pk = k
	return nil
}

// Account represents information stored on the ledger for an individual
// account. Account is a value type so snapshot copies never share state.
type Account struct {
	Kind      AccountKind `json:"kind"`
	Balance   uint256.Int `json:"balance"`
	PublicKey PublicKey   `json:"public_key"`
}

// newAccount constructs a zero balance account of the specified kind.
func newAccount(kind AccountKind, publicKey PublicKey) Account {
	return Account{
		Kind:      kind,
		PublicKey: publicKey,
	}
}
