// Package block implements the block type whose self-hash is recomputed on
// every mutation, along with the proof-of-work mining loop.
package block

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2s"

	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
	"github.com/ravenlabs/blockchain/foundation/blockchain/signature"
	"github.com/ravenlabs/blockchain/foundation/blockchain/target"
)

// Block is a group of transactions gated by a proof-of-work nonce. The
// self-hash is a derived field: it is recomputed after every mutation and
// can never be set from the outside, so it is never observed stale.
type Block struct {
	nonce     uint64
	timeStamp uint64
	prevHash  string
	hash      string
	trans     []ledger.Tx
}

// New constructs a block linked to the previous block's hash. The genesis
// block is built with an empty prevHash.
func New(prevHash string) *Block {
	b := Block{
		timeStamp: uint64(time.Now().UTC().Unix()),
		prevHash:  prevHash,
	}
	b.updateHash()

	return &b
}

// SetNonce updates the proof-of-work nonce and refreshes the self-hash.
func (b *Block) SetNonce(nonce uint64) {
	b.nonce = nonce
	b.updateHash()
}

// AddTransaction appends a transaction and refreshes the self-hash.
func (b *Block) AddTransaction(tx ledger.Tx) {
	b.trans = append(b.trans, tx)
	b.updateHash()
}

// Nonce returns the current proof-of-work nonce.
func (b *Block) Nonce() uint64 {
	return b.nonce
}

// TimeStamp returns the block construction time in unix seconds.
func (b *Block) TimeStamp() uint64 {
	return b.timeStamp
}

// PrevHash returns the hash of the previous block, empty for genesis.
func (b *Block) PrevHash() string {
	return b.prevHash
}

// Hash returns the stored self-hash.
func (b *Block) Hash() string {
	return b.hash
}

// Transactions returns the block's transaction list. The slice shares the
// block's backing storage; Verify detects any mutation made through it.
func (b *Block) Transactions() []ledger.Tx {
	return b.trans
}

// Verify recomputes the hash from the block's current contents and reports
// whether it still matches the stored self-hash. A false result means the
// block was tampered with after its last sanctioned mutation.
func (b *Block) Verify() bool {
	return b.hash == b.compute()
}

// Mine increments the nonce until the block hash's compact value falls
// below the target. The iteration count is unbounded so the context is
// checked on every attempt; callers run this out-of-band from ledger
// operations.
func (b *Block) Mine(ctx context.Context, t target.Bits) error {
	for !target.Solved(b.hash, t) {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.SetNonce(b.nonce + 1)
	}

	return nil
}

// updateHash stores a freshly computed self-hash. Every mutating method
// must end with this call.
func (b *Block) updateHash() {
	b.hash = b.compute()
}

// compute derives the hash over the previous hash and nonce, folded with
// the content hash of every transaction in order.
func (b *Block) compute() string {
	h, err := blake2s.New256(nil)
	if err != nil {
		return signature.ZeroHash
	}

	header := struct {
		PrevHash string `json:"prev_hash"`
		Nonce    uint64 `json:"nonce"`
	}{
		PrevHash: b.prevHash,
		Nonce:    b.nonce,
	}
	h.Write([]byte(signature.Hash(header)))

	for _, tx := range b.trans {
		h.Write([]byte(tx.Hash()))
	}

	return hex.EncodeToString(h.Sum(nil))
}
