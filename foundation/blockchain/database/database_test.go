package database_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestBlockHeight(t *testing.T) {
	t.Log("Given the need to build a chain of blocks.")
	{
		t.Logf("\tTest 0:\tWhen extending the genesis block.")
		{
			genesis := database.NewGenesis()
			if genesis.Height != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have a genesis height of 1, got %d.", failed, genesis.Height)
			}
			t.Logf("\t%s\tTest 0:\tShould have a genesis height of 1.", success)

			if !genesis.OwnerID.IsGenesis() || !genesis.IsGenesis() {
				t.Fatalf("\t%s\tTest 0:\tShould have the genesis sentinel owner.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have the genesis sentinel owner.", success)

			owner, err := database.NewOwnerID(rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mint an owner id: %v", failed, err)
			}

			parent := genesis
			for i := 0; i < 15; i++ {
				b, err := database.NewBlock(owner, parent, nil, "")
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to construct a block: %v", failed, err)
				}
				if b.Height != parent.Height+1 {
					t.Fatalf("\t%s\tTest 0:\tShould have height %d, got %d.", failed, parent.Height+1, b.Height)
				}
				parent = b
			}
			t.Logf("\t%s\tTest 0:\tShould have every child one higher than its parent.", success)

			if a := parent.Ancestor(5); a.Height != parent.Height-5 {
				t.Fatalf("\t%s\tTest 0:\tShould walk back 5 blocks, got height %d.", failed, a.Height)
			}
			if a := parent.Ancestor(100); a != genesis {
				t.Fatalf("\t%s\tTest 0:\tShould stop the walk at genesis.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to walk back to ancestors.", success)
		}

		t.Logf("\tTest 1:\tWhen constructing a block without a parent.")
		{
			if _, err := database.NewBlock(database.OwnerID{}, nil, nil, ""); !errors.Is(err, database.ErrNoParent) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrNoParent, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrNoParent.", success)
		}
	}
}

func TestTxIdentity(t *testing.T) {
	t.Log("Given the need to identify transactions by id alone.")
	{
		t.Logf("\tTest 0:\tWhen two transactions share an id but not a fee.")
		{
			a := database.Tx{ID: 7, Fee: 10}
			b := database.Tx{ID: 7, Fee: 99}

			s := database.NewTxSet(a)
			if s.Add(b) {
				t.Fatalf("\t%s\tTest 0:\tShould not add a second transaction with the same id.", failed)
			}
			if s.Len() != 1 || s[7].Fee != 10 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the first copy.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould treat both as one transaction.", success)

			s.Remove(b.ID)
			if s.Contains(a.ID) {
				t.Fatalf("\t%s\tTest 0:\tShould remove by id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove by id.", success)

			ha, _ := a.Hash()
			hb, _ := b.Hash()
			if string(ha) != string(hb) || !a.Equals(b) {
				t.Fatalf("\t%s\tTest 0:\tShould hash and compare by id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash and compare by id.", success)
		}

		t.Logf("\tTest 1:\tWhen ordering and summing a set.")
		{
			s := database.NewTxSet(database.Tx{ID: 3, Fee: 1}, database.Tx{ID: 1, Fee: 2}, database.Tx{ID: 2, Fee: 3})
			vals := s.Values()
			for i := range vals {
				if vals[i].ID != database.TxID(i+1) {
					t.Fatalf("\t%s\tTest 1:\tShould return values in id order.", failed)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould return values in id order.", success)

			if s.Fees() != 6 {
				t.Fatalf("\t%s\tTest 1:\tShould sum fees to 6, got %d.", failed, s.Fees())
			}
			t.Logf("\t%s\tTest 1:\tShould sum the fees.", success)
		}
	}
}

func TestBlockHash(t *testing.T) {
	t.Log("Given the need for a diagnostic block hash.")
	{
		t.Logf("\tTest 0:\tWhen two distinct blocks carry the same transactions.")
		{
			genesis := database.NewGenesis()
			if genesis.Hash() != database.ZeroHash {
				t.Fatalf("\t%s\tTest 0:\tShould hash an empty block to the zero hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash an empty block to the zero hash.", success)

			txs := []database.Tx{{ID: 1, Fee: 5}, {ID: 2, Fee: 6}, {ID: 3, Fee: 7}}
			b1, _ := database.NewBlock(database.OwnerID{1}, genesis, database.NewTxSet(txs...), "")
			b2, _ := database.NewBlock(database.OwnerID{2}, genesis, database.NewTxSet(txs[2], txs[0], txs[1]), "")

			if b1.Hash() != b2.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould hash equal transaction sets equally.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash equal transaction sets equally.", success)

			if b1 == b2 {
				t.Fatalf("\t%s\tTest 0:\tShould still be different blocks.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould still be different blocks.", success)
		}
	}
}
