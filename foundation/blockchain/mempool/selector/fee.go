package selector

import (
	"sort"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// feeSelect returns the transactions with the highest fees first regardless
// of who sent them.
var feeSelect = func(m map[database.OwnerID][]database.Tx, howMany int) []database.Tx {
	txs := flatten(m)
	sort.Sort(byFee(txs))

	return limit(txs, howMany)
}

// idSelect returns the transactions in the order they were broadcast.
var idSelect = func(m map[database.OwnerID][]database.Tx, howMany int) []database.Tx {
	txs := flatten(m)
	sort.Sort(byID(txs))

	return limit(txs, howMany)
}
