package selector

import (
	"sort"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// tipSelect returns transactions with the best fee while giving every owner
// a fair share of the block: it takes one transaction per owner per round.
var tipSelect = func(m map[database.OwnerID][]database.Tx, howMany int) []database.Tx {
	keys := owners(m)

	/*
		A: {ID: 9, Fee: 250}, {ID: 4, Fee: 150}
		B: {ID: 7, Fee: 200}, {ID: 2, Fee: 75}
		C: {ID: 8, Fee: 75},  {ID: 1, Fee: 100}
	*/

	// Sort the transactions per owner by id, the oldest broadcast first
	// since ids grow with every tick.
	queues := make([][]database.Tx, len(keys))
	for i, key := range keys {
		q := append([]database.Tx(nil), m[key]...)
		sort.Sort(byID(q))
		queues[i] = q
	}

	/*
		A: {ID: 4, Fee: 150}, {ID: 9, Fee: 250}
		B: {ID: 2, Fee: 75},  {ID: 7, Fee: 200}
		C: {ID: 1, Fee: 100}, {ID: 8, Fee: 75}
	*/

	// Pick the first transaction in the slice for each owner. Each iteration
	// represents a new row of selections. Keep doing that until all the
	// transactions have been selected.
	var rows [][]database.Tx
	for {
		var row []database.Tx
		for i := range queues {
			if len(queues[i]) > 0 {
				row = append(row, queues[i][0])
				queues[i] = queues[i][1:]
			}
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}

	/*
		0: A: {ID: 4, Fee: 150}, B: {ID: 2, Fee: 75}, C: {ID: 1, Fee: 100}
		1: A: {ID: 9, Fee: 250}, B: {ID: 7, Fee: 200}, C: {ID: 8, Fee: 75}
	*/

	// Sort each row by fee unless we will take all transactions from that row
	// anyway. Keep pulling transactions from each row until the amount is
	// fulfilled or there are no more transactions.
	final := []database.Tx{}
	if howMany < 0 {
		howMany = len(flatten(m))
	}

done:
	for _, row := range rows {
		need := howMany - len(final)
		if len(row) > need {
			sort.Sort(byFee(row))
			final = append(final, row[:need]...)
			break done
		}
		final = append(final, row...)
	}

	/*
		howMany = 4
		0: A: {ID: 4, Fee: 150}
		1: B: {ID: 2, Fee: 75}
		2: C: {ID: 1, Fee: 100}
		3: A: {ID: 9, Fee: 250}
	*/

	return final
}
