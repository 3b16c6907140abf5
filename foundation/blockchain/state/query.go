package state

import (
	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/genesis"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
	"github.com/ravenlabs/blockchain/foundation/blockchain/target"
)

// QueryAccount looks up a single account on the ledger.
func (s *State) QueryAccount(id ledger.AccountID) (ledger.Account, bool) {
	return s.ledger.Query(id)
}

// QueryAccounts returns a snapshot of every account on the ledger.
func (s *State) QueryAccounts() map[ledger.AccountID]ledger.Account {
	return s.ledger.CopyAccounts()
}

// QueryBlocks returns the chain's blocks in order, oldest first.
func (s *State) QueryBlocks() []*block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Blocks()
}

// ChainLength returns the number of accepted blocks.
func (s *State) ChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Length()
}

// Genesis returns the chain parameters the node was started with.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// CurrentTarget returns the proof-of-work target new blocks are measured
// against.
func (s *State) CurrentTarget() target.Bits {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentTarget
}

// CurrentDifficulty returns the retarget multiplier applied on the last
// admission.
func (s *State) CurrentDifficulty() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty
}
