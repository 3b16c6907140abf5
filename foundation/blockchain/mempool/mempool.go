// Package mempool maintains the pool of transactions waiting to be mined
// into a block.
package mempool

import (
	"sort"
	"sync"

	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

// Mempool represents a cache of transactions organized by content hash.
// Transactions carry no tips on this chain so selection is oldest first.
type Mempool struct {
	mu   sync.RWMutex
	pool map[string]ledger.Tx
}

// New constructs a new mempool for pending transactions.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]ledger.Tx),
	}
}

// Count returns the current number of pending transactions.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the pool and returns the new
// pool size.
func (mp *Mempool) Upsert(tx ledger.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.Hash()] = tx
	return len(mp.pool)
}

// Delete removes a transaction from the pool.
func (mp *Mempool) Delete(tx ledger.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.Hash())
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]ledger.Tx)
}

// PickBest returns up to howMany transactions, oldest timestamp first with
// the nonce and hash breaking ties for a deterministic order. Pass a
// negative number to take everything.
func (mp *Mempool) PickBest(howMany int) []ledger.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]ledger.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].TimeStamp != txs[j].TimeStamp {
			return txs[i].TimeStamp < txs[j].TimeStamp
		}
		if txs[i].Nonce != txs[j].Nonce {
			return txs[i].Nonce < txs[j].Nonce
		}
		return txs[i].Hash() < txs[j].Hash()
	})

	if howMany >= 0 && len(txs) > howMany {
		txs = txs[:howMany]
	}

	return txs
}
