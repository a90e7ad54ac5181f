// Package mempool maintains a miner's private pool of unconfirmed
// transactions.
package mempool

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool/selector"
)

// Mempool represents a cache of transactions keyed by transaction id. A
// mempool belongs to exactly one miner and is only touched from the
// simulation loop, so it carries no locking.
type Mempool struct {
	pool     map[database.TxID]database.Tx
	selectFn selector.Func
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[database.TxID]database.Tx),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	return len(mp.pool)
}

// Insert adds a transaction to the mempool. A transaction whose id is already
// in the pool is ignored, which makes repeated delivery a no-op. It reports
// whether the pool changed.
func (mp *Mempool) Insert(tx database.Tx) bool {
	if _, exists := mp.pool[tx.ID]; exists {
		return false
	}

	mp.pool[tx.ID] = tx
	return true
}

// DeleteSet removes every transaction of the set from the mempool.
func (mp *Mempool) DeleteSet(trans database.TxSet) {
	for id := range trans {
		delete(mp.pool, id)
	}
}

// PickBest uses the configured select strategy to return the next set
// of transactions for the next block. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []database.Tx {

	// Group the transactions by owner.
	m := make(map[database.OwnerID][]database.Tx)
	for _, tx := range mp.pool {
		m[tx.OwnerID] = append(m[tx.OwnerID], tx)
	}

	return mp.selectFn(m, howMany)
}

// Take picks the best howMany transactions, removes them from the pool and
// returns them as a set ready to be placed in a block.
func (mp *Mempool) Take(howMany int) database.TxSet {
	trans := database.NewTxSet(mp.PickBest(howMany)...)
	mp.DeleteSet(trans)

	return trans
}
