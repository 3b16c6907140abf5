package ledger

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/ravenlabs/blockchain/foundation/blockchain/signature"
)

// Set of payload kinds.
const (
	KindCreateAccount = "create_account"
	KindMint          = "mint"
	KindTransfer      = "transfer"
)

// Payload is the closed set of operations a transaction can carry. The
// execution switch is exhaustive over these three kinds.
type Payload interface {
	Kind() string
}

// CreateAccount registers a new account with its verification key.
type CreateAccount struct {
	AccountID AccountID `json:"account_id"`
	PublicKey PublicKey `json:"public_key"`
}

// Kind implements the Payload interface.
func (CreateAccount) Kind() string { return KindCreateAccount }

// MintInitialSupply credits the bootstrap supply to an account. Only valid
// inside the genesis block.
type MintInitialSupply struct {
	To     AccountID    `json:"to"`
	Amount *uint256.Int `json:"amount"`
}

// Kind implements the Payload interface.
func (MintInitialSupply) Kind() string { return KindMint }

// Transfer moves funds from the transaction's sender to a receiver.
type Transfer struct {
	To     AccountID    `json:"to"`
	Amount *uint256.Int `json:"amount"`
}

// Kind implements the Payload interface.
func (Transfer) Kind() string { return KindTransfer }

// =============================================================================

// Tx is a single operation against the ledger. A transaction is immutable
// after construction except for attaching the signature.
type Tx struct {
	Nonce     uint64    `json:"nonce"`
	TimeStamp uint64    `json:"timestamp"`
	FromID    AccountID `json:"from,omitempty"`
	Payload   Payload   `json:"payload"`
	Signature []byte    `json:"signature,omitempty"`
}

// NewTx constructs a transaction for the payload. FromID may be empty for
// payloads that carry no sender.
func NewTx(payload Payload, fromID AccountID) Tx {
	return Tx{
		TimeStamp: uint64(time.Now().UTC().Unix()),
		FromID:    fromID,
		Payload:   payload,
	}
}

// Hash returns the content hash of the transaction. The hash covers the
// nonce, timestamp, sender and payload; the signature is over this hash and
// therefore never part of it.
func (tx Tx) Hash() string {
	return signature.Hash(struct {
		Nonce     uint64    `json:"nonce"`
		TimeStamp uint64    `json:"timestamp"`
		FromID    AccountID `json:"from"`
		Kind      string    `json:"kind"`
		Payload   Payload   `json:"payload"`
	}{
		Nonce:     tx.Nonce,
		TimeStamp: tx.TimeStamp,
		FromID:    tx.FromID,
		Kind:      tx.Payload.Kind(),
		Payload:   tx.Payload,
	})
}

// Sign attaches a signature over the transaction's content hash produced
// with the specified private key.
func (tx *Tx) Sign(privateKey ed25519.PrivateKey) {
	tx.Signature = signature.Sign(privateKey, tx.Hash())
}

// VerifySignature reports whether the attached signature checks out against
// the specified verification key.
func (tx Tx) VerifySignature(publicKey PublicKey) bool {
	if tx.Signature == nil {
		return false
	}

	return signature.Verify(publicKey[:], tx.Hash(), tx.Signature)
}

// =============================================================================

// Execute applies the transaction to the ledger. The transition is
// all-or-nothing: on any error the ledger is untouched. isGenesis must be
// true exactly when the executing block would be the chain's first.
func (tx Tx) Execute(l *Ledger, isGenesis bool) error {
	switch p := tx.Payload.(type) {
	case CreateAccount:
		return l.CreateAccount(p.AccountID, AccountUser, p.PublicKey)

	case MintInitialSupply:
		return tx.executeMint(l, p, isGenesis)

	case Transfer:
		return tx.executeTransfer(l, p)

	default:
		return fmt.Errorf("unknown payload type %T", tx.Payload)
	}
}

func (tx Tx) executeMint(l *Ledger, p MintInitialSupply, isGenesis bool) error {
	if !isGenesis {
		return ErrNotGenesisMint
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	account, exists := l.accounts[p.To]
	if !exists {
		return ErrUnknownAccount
	}

	if err := credit(&account, amountOrZero(p.Amount)); err != nil {
		return err
	}

	l.accounts[p.To] = account
	return nil
}

func (tx Tx) executeTransfer(l *Ledger, p Transfer) error {
	if tx.FromID == "" {
		return ErrInvalidSenderID
	}
	if tx.FromID == p.To {
		return ErrSelfTransfer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sender, exists := l.accounts[tx.FromID]
	if !exists {
		return ErrUnknownSender
	}
	receiver, exists := l.accounts[p.To]
	if !exists {
		return ErrUnknownReceiver
	}

	amount := amountOrZero(p.Amount)

	// The balance check runs before signature verification. See the
	// package comment before reordering.
	if sender.Balance.Lt(amount) {
		return ErrInsufficientFunds
	}

	if !tx.VerifySignature(sender.PublicKey) {
		return ErrInvalidSignature
	}

	if err := credit(&receiver, amount); err != nil {
		return err
	}
	sender.Balance.Sub(&sender.Balance, amount)

	l.accounts[tx.FromID] = sender
	l.accounts[p.To] = receiver
	return nil
}

// amountOrZero guards payloads decoded without an amount.
func amountOrZero(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}

	return amount
}
