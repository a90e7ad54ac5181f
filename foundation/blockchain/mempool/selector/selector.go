// Package selector provides different transaction selecting algorithms.
package selector

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyTip = "tip"
	StrategyFee = "fee"
	StrategyID  = "id"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyTip: tipSelect,
	StrategyFee: feeSelect,
	StrategyID:  idSelect,
}

// Func defines a function that takes a mempool of transactions grouped by
// owner and selects howMany of them in an order based on the functions
// strategy. Receiving -1 for howMany must return all the transactions in the
// strategies ordering. Selector functions must be deterministic: the same
// input always produces the same output.
type Func func(transactions map[database.OwnerID][]database.Tx, howMany int) []database.Tx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// Strategies returns the names of the registered strategies.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// =============================================================================

// owners returns the keys of the map in a stable order so map iteration
// never leaks randomness into a simulation run.
func owners(m map[database.OwnerID][]database.Tx) []database.OwnerID {
	keys := make([]database.OwnerID, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	return keys
}

// flatten collects every transaction of the map.
func flatten(m map[database.OwnerID][]database.Tx) []database.Tx {
	var txs []database.Tx
	for _, key := range owners(m) {
		txs = append(txs, m[key]...)
	}

	return txs
}

// limit truncates the list to howMany transactions, -1 keeps them all.
func limit(txs []database.Tx, howMany int) []database.Tx {
	if howMany < 0 || howMany >= len(txs) {
		return txs
	}

	return txs[:howMany]
}

// =============================================================================

// byID provides sorting support by the transaction id value.
type byID []database.Tx

// Len returns the number of transactions in the list.
func (bi byID) Len() int {
	return len(bi)
}

// Less helps to sort the list by id in ascending order.
func (bi byID) Less(i, j int) bool {
	return bi[i].ID < bi[j].ID
}

// Swap moves transactions in the order of the id value.
func (bi byID) Swap(i, j int) {
	bi[i], bi[j] = bi[j], bi[i]
}

// =============================================================================

// byFee provides sorting support by the transaction fee value.
type byFee []database.Tx

// Len returns the number of transactions in the list.
func (bf byFee) Len() int {
	return len(bf)
}

// Less helps to sort the list by fee in decending order to pick the
// transactions that provide the best reward. Equal fees fall back to the id.
func (bf byFee) Less(i, j int) bool {
	if bf[i].Fee == bf[j].Fee {
		return bf[i].ID < bf[j].ID
	}
	return bf[i].Fee > bf[j].Fee
}

// Swap moves transactions in the order of the fee value.
func (bf byFee) Swap(i, j int) {
	bf[i], bf[j] = bf[j], bf[i]
}
