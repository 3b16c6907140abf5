package state

import (
	"context"
	"errors"

	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

// ErrNoTransactions is returned when a block is requested to be mined and
// there are no pending transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// SubmitTransaction accepts a transaction into the mempool and signals the
// worker that there is something to mine.
func (s *State) SubmitTransaction(tx ledger.Tx) error {
	if tx.Payload == nil {
		return errors.New("transaction has no payload")
	}

	n := s.mempool.Upsert(tx)
	s.evHandler("state: SubmitTransaction: tx[%s] pending[%d]", tx.Hash(), n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// MineNewBlock drains pending transactions into a fresh block, performs
// the proof-of-work against the current target and submits the result
// through AppendBlock. Mining runs out-of-band from ledger operations;
// cancelling the context stops the nonce search.
func (s *State) MineNewBlock(ctx context.Context) (*block.Block, error) {
	txs := s.mempool.PickBest(int(transPerBlock(s)))
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	b := block.New(s.LastBlockHash())
	for _, tx := range txs {
		b.AddTransaction(tx)
	}

	s.evHandler("state: MineNewBlock: MINING: txs[%d] target[%s]", len(txs), s.CurrentTarget())

	if err := b.Mine(ctx, s.CurrentTarget()); err != nil {
		return nil, err
	}

	if err := s.AppendBlock(b); err != nil {
		return nil, err
	}

	for _, tx := range txs {
		s.mempool.Delete(tx)
	}

	return b, nil
}

// QueryMempoolLength returns the current number of pending transactions.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryMempool returns a copy of the pending transactions, oldest first.
func (s *State) QueryMempool() []ledger.Tx {
	return s.mempool.PickBest(-1)
}

// transPerBlock caps how many transactions a mined block may carry.
func transPerBlock(s *State) uint16 {
	if s.genesis.TransPerBlock == 0 {
		return 16
	}

	return s.genesis.TransPerBlock
}
