package mempool_test

import (
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
		best []database.TxID
	}

	owner := database.OwnerID{1}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{ID: 2, OwnerID: owner, Fee: 10},
				{ID: 3, OwnerID: owner, Fee: 50},
				{ID: 4, OwnerID: owner, Fee: 100},
				{ID: 1, OwnerID: owner, Fee: 10},
			},
			best: []database.TxID{4, 3, 1, 2},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp, err := mempool.NewWithStrategy(selector.StrategyFee)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct the mempool: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct the mempool.", success, testID)

					for _, tx := range tst.txs {
						if !mp.Insert(tx) {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add new transaction: %s", failed, testID, tx)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add new transactions.", success, testID)

					for i, tx := range mp.PickBest(-1) {
						if tx.ID != tst.best[i] {
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, tx.ID)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.best[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the right fee order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right fee order.", success, testID)

					mp.DeleteSet(database.NewTxSet(tst.txs[1]))
					if mp.Count() != len(tst.txs)-1 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					taken := mp.Take(2)
					if taken.Len() != 2 || mp.Count() != len(tst.txs)-3 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to take transactions out of the pool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to take transactions out of the pool.", success, testID)

					rest := mp.Take(-1)
					if rest.Len() != len(tst.txs)-3 || mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to empty the mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to empty the mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestIdempotentInsert(t *testing.T) {
	t.Log("Given the need to hear the same transaction more than once.")
	{
		t.Logf("\tTest 0:\tWhen the same id is delivered twice with different fees.")
		{
			once, err := mempool.NewWithStrategy(selector.StrategyTip)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the mempool: %v", failed, err)
			}
			twice, err := mempool.NewWithStrategy(selector.StrategyTip)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the mempool: %v", failed, err)
			}

			tx := database.Tx{ID: 42, Fee: 10}
			dup := database.Tx{ID: 42, Fee: 9999}

			once.Insert(tx)
			twice.Insert(tx)
			if twice.Insert(dup) {
				t.Fatalf("\t%s\tTest 0:\tShould report the second delivery as a no-op.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the second delivery as a no-op.", success)

			a, b := once.PickBest(-1), twice.PickBest(-1)
			if len(a) != len(b) || a[0] != b[0] {
				t.Fatalf("\t%s\tTest 0:\tShould leave the pool as a single delivery would.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the pool as a single delivery would.", success)

			twice.DeleteSet(database.NewTxSet(database.Tx{ID: 42, Fee: 1}))
			if twice.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould remove by id regardless of fee.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove by id regardless of fee.", success)
		}
	}
}
