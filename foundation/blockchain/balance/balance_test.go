package balance_test

import (
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/balance"
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestApplyBlock(t *testing.T) {
	type table struct {
		name    string
		reward  uint64
		credits []int
		fees    []uint64
		final   []uint64
	}

	tt := []table{
		{
			name:    "basic",
			reward:  100,
			credits: []int{0, 2, 0},
			fees:    []uint64{5, 7, 0},
			final:   []uint64{205, 0, 107},
		},
		{
			name:    "no reward",
			reward:  0,
			credits: []int{1},
			fees:    []uint64{42},
			final:   []uint64{0, 42, 0},
		},
	}

	t.Log("Given the need to credit miners for their blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of blocks.", testID)
			{
				f := func(t *testing.T) {
					sheet := balance.NewSheet(tst.reward, 3)
					genesis := database.NewGenesis()

					for i, miner := range tst.credits {
						block, err := database.NewBlock(database.OwnerID{1}, genesis, database.NewTxSet(database.Tx{ID: database.TxID(i), Fee: tst.fees[i]}), "")
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to build a block: %v", failed, testID, err)
						}
						if err := sheet.ApplyBlock(miner, block); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to apply the block: %v", failed, testID, err)
						}
					}

					values := sheet.Values()
					var total uint64
					for i := range values {
						if values[i] != tst.final[i] {
							t.Fatalf("\t%s\tTest %d:\tShould have %d for miner %d, got %d.", failed, testID, tst.final[i], i, values[i])
						}
						total += values[i]
					}
					t.Logf("\t%s\tTest %d:\tShould have the correct balances.", success, testID)

					want := tst.reward * uint64(len(tst.credits))
					for i := range tst.credits {
						want += tst.fees[i]
					}
					if total != want {
						t.Fatalf("\t%s\tTest %d:\tShould pay out the rewards and fees exactly, got %d, want %d.", failed, testID, total, want)
					}
					t.Logf("\t%s\tTest %d:\tShould pay out the rewards and fees exactly.", success, testID)

					if err := sheet.ApplyBlock(3, genesis); err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject a miner outside the roster.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject a miner outside the roster.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
