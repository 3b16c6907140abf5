package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/target"
)

// Set of structural and consensus errors for block admission and audit.
var (
	ErrInvalidHash        = errors.New("block has an invalid hash")
	ErrEmptyBlock         = errors.New("block has no transactions")
	ErrMissingPrevHash    = errors.New("block doesn't have a prev hash")
	ErrUnexpectedPrevHash = errors.New("genesis block shouldn't have a prev hash")
	ErrHashMismatch       = errors.New("block prev hash doesn't match the previous block's hash")
	ErrHashAboveTarget    = errors.New("block hash is not below the current target")
)

// AppendBlock validates the block, executes its transactions against the
// ledger and, when the proof-of-work gate passes, commits it to the chain.
// The block's ledger effects are all-or-nothing: any failure restores the
// ledger byte for byte.
func (s *State) AppendBlock(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !b.Verify() {
		return ErrInvalidHash
	}
	if len(b.Transactions()) == 0 {
		return ErrEmptyBlock
	}

	isGenesis := s.chain.Length() == 0

	backup := s.ledger.CopyAccounts()
	for _, tx := range b.Transactions() {
		if err := tx.Execute(s.ledger, isGenesis); err != nil {
			s.ledger.Restore(backup)
			return fmt.Errorf("executing transaction: %w", err)
		}
	}

	// The gate runs against the freshly retargeted value, not the one
	// mining originally aimed at. Retargeting happens on every non-genesis
	// block, not on an epoch boundary.
	if !isGenesis {
		s.difficulty = target.Difficulty(s.lastBlockTime-s.firstBlockTime, s.genesis.ExpectedSpan)
		s.currentTarget = target.Retarget(s.currentTarget, s.difficulty)

		if !target.Solved(b.Hash(), s.currentTarget) {
			s.ledger.Restore(backup)
			return ErrHashAboveTarget
		}
	}

	now := uint64(time.Now().UTC().Unix())
	if isGenesis {
		s.firstBlockTime = now
	}
	s.lastBlockTime = now

	s.chain.Append(b)
	s.evHandler("state: AppendBlock: blk[%d]: hash[%s] txs[%d] target[%s]", s.chain.Length(), b.Hash(), len(b.Transactions()), s.currentTarget)

	return nil
}

// Validate traverses the chain and audits every block: the self-hash must
// match a fresh recompute and the prev hash linkage must hold. The first
// violation is returned with the offending block's 1-based position.
func (s *State) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prevHash string
	for i, b := range s.chain.Blocks() {
		pos := i + 1

		if !b.Verify() {
			return fmt.Errorf("block %d: %w", pos, ErrInvalidHash)
		}

		switch {
		case pos == 1:
			if b.PrevHash() != "" {
				return fmt.Errorf("block %d: %w", pos, ErrUnexpectedPrevHash)
			}
		default:
			if b.PrevHash() == "" {
				return fmt.Errorf("block %d: %w", pos, ErrMissingPrevHash)
			}
			if b.PrevHash() != prevHash {
				return fmt.Errorf("block %d: %w", pos, ErrHashMismatch)
			}
		}

		prevHash = b.Hash()
	}

	return nil
}

// LastBlockHash returns the head block's hash, or empty when the chain has
// no blocks yet.
func (s *State) LastBlockHash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	head := s.chain.Head()
	if head == nil {
		return ""
	}

	return head.Hash()
}
