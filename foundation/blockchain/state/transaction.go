package state

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Fee ranges in satoshis.
const (
	normalFeeMax  = 10_000_000
	highFeeMin    = 2_500_000_000
	highFeeSpread = 5_000_000_000
	highFeeChance = .1
)

// newTx mints the transaction broadcast this tick. Ids follow the tick so
// they never collide and id order is broadcast order.
func (s *State) newTx() database.Tx {
	var fee uint64
	switch {
	case s.genesis.HighTxFees && s.rng.Float64() < highFeeChance:
		fee = highFeeMin + uint64(s.rng.Float64()*highFeeSpread)
	default:
		fee = uint64(s.rng.Int63n(normalFeeMax))
	}

	var owner database.OwnerID
	if len(s.txOwners) > 0 {
		owner = s.txOwners[s.rng.Intn(len(s.txOwners))]
	}

	return database.Tx{
		ID:      database.TxID(s.tick + 1),
		Fee:     fee,
		OwnerID: owner,
	}
}
