// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/ravenlabs/blockchain/foundation/blockchain/chain"
	"github.com/ravenlabs/blockchain/foundation/blockchain/genesis"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
	"github.com/ravenlabs/blockchain/foundation/blockchain/mempool"
	"github.com/ravenlabs/blockchain/foundation/blockchain/target"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the blockchain
// node.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the blockchain: the chain of accepted blocks, the account
// ledger, the proof-of-work target and the pool of pending transactions.
// Exactly one AppendBlock may execute at a time.
type State struct {
	mu sync.RWMutex

	genesis        genesis.Genesis
	chain          *chain.Chain
	ledger         *ledger.Ledger
	mempool        *mempool.Mempool
	currentTarget  target.Bits
	difficulty     float64
	firstBlockTime uint64
	lastBlockTime  uint64

	evHandler EventHandler

	// Worker is assigned by the worker package when it starts up.
	Worker Worker
}

// New constructs a new blockchain state for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	startingTarget := target.MaxTarget
	if cfg.Genesis.StartingTarget != "" {
		bits, err := target.Parse(cfg.Genesis.StartingTarget)
		if err != nil {
			return nil, err
		}
		startingTarget = bits
	}

	state := State{
		genesis:       cfg.Genesis,
		chain:         chain.New(),
		ledger:        ledger.New(),
		mempool:       mempool.New(),
		currentTarget: startingTarget,
		difficulty:    1,
		evHandler:     ev,
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
