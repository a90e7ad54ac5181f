package database

import (
	"encoding/binary"
	"fmt"
	"sort"

	"lukechampine.com/blake3"
)

// TxID is the identity of a transaction. Two transactions with the same id
// are the same transaction no matter what their other fields hold.
type TxID int64

// Tx is an abstract transaction broadcast to the network once per tick.
type Tx struct {
	ID      TxID    `json:"id"`
	Fee     uint64  `json:"fee"`   // Satoshis paid to the miner who confirms it.
	OwnerID OwnerID `json:"owner"` // Sender of the transaction.
}

// Hash implements the merkle Hashable interface. Only the id is hashed.
func (tx Tx) Hash() ([]byte, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(tx.ID))

	sum := blake3.Sum256(buf[:])
	return sum[:], nil
}

// Equals implements the merkle Hashable interface.
func (tx Tx) Equals(other Tx) bool {
	return tx.ID == other.ID
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%d:%d", tx.ID, tx.Fee)
}

// =============================================================================

// TxSet is a set of transactions keyed by transaction id. The zero value is
// not usable, construct one with NewTxSet.
type TxSet map[TxID]Tx

// NewTxSet constructs a set holding the specified transactions.
func NewTxSet(txs ...Tx) TxSet {
	s := make(TxSet, len(txs))
	for _, tx := range txs {
		s.Add(tx)
	}

	return s
}

// Add inserts the transaction if its id is not already present. It reports
// whether the set changed.
func (s TxSet) Add(tx Tx) bool {
	if _, exists := s[tx.ID]; exists {
		return false
	}

	s[tx.ID] = tx
	return true
}

// Remove deletes the transaction with the specified id.
func (s TxSet) Remove(id TxID) {
	delete(s, id)
}

// Contains reports whether a transaction with the specified id is present.
func (s TxSet) Contains(id TxID) bool {
	_, exists := s[id]
	return exists
}

// Len returns the number of transactions in the set.
func (s TxSet) Len() int {
	return len(s)
}

// Values returns the transactions in ascending id order.
func (s TxSet) Values() []Tx {
	txs := make([]Tx, 0, len(s))
	for _, tx := range s {
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].ID < txs[j].ID
	})

	return txs
}

// Fees returns the sum of the fees of every transaction in the set.
func (s TxSet) Fees() uint64 {
	var total uint64
	for _, tx := range s {
		total += tx.Fee
	}

	return total
}
