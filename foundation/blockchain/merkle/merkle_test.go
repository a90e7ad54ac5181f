package merkle_test

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/merkle"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type data string

func (d data) Hash() ([]byte, error) {
	h := sha256.Sum256([]byte(d))
	return h[:], nil
}

func (d data) Equals(other data) bool {
	return d == other
}

func TestTree(t *testing.T) {
	type table struct {
		name   string
		values []data
	}

	tt := []table{
		{name: "one", values: []data{"a"}},
		{name: "two", values: []data{"a", "b"}},
		{name: "odd", values: []data{"a", "b", "c"}},
		{name: "five", values: []data{"a", "b", "c", "d", "e"}},
	}

	t.Log("Given the need to build merkle trees over transaction data.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %d values.", testID, len(tst.values))
			{
				f := func(t *testing.T) {
					tree, err := merkle.NewTree(tst.values)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to build the tree: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to build the tree.", success, testID)

					again, err := merkle.NewTree(tst.values)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to build the tree twice: %v", failed, testID, err)
					}
					if tree.RootHex() != again.RootHex() {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, again.RootHex())
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tree.RootHex())
						t.Fatalf("\t%s\tTest %d:\tShould get the same root for the same values.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same root for the same values.", success, testID)

					if got := tree.Values(); len(got) != len(tst.values) {
						t.Fatalf("\t%s\tTest %d:\tShould get back %d values, got %d.", failed, testID, len(tst.values), len(got))
					}
					t.Logf("\t%s\tTest %d:\tShould get back the values without padding.", success, testID)

					for _, v := range tst.values {
						proof, order, err := tree.Proof(v)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to produce a proof for %q: %v", failed, testID, v, err)
						}
						if err := tree.VerifyProof(v, proof, order); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to verify the proof for %q: %v", failed, testID, v, err)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to prove every value.", success, testID)

					if _, _, err := tree.Proof("zz"); err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould not produce a proof for unknown data.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not produce a proof for unknown data.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestHashStrategy(t *testing.T) {
	values := []data{"a", "b", "c"}

	t.Log("Given the need to swap the hash strategy.")
	{
		t.Logf("\tTest 0:\tWhen building with sha256 instead of blake3.")
		{
			b3, err := merkle.NewTree(values)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build the blake3 tree: %v", failed, err)
			}

			s256, err := merkle.NewTree(values, merkle.WithHashStrategy[data](sha256.New))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build the sha256 tree: %v", failed, err)
			}

			if bytes.Equal(b3.MerkleRoot, s256.MerkleRoot) {
				t.Fatalf("\t%s\tTest 0:\tShould get different roots for different strategies.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get different roots for different strategies.", success)

			la, _ := data("a").Hash()
			lb, _ := data("b").Hash()
			lc, _ := data("c").Hash()
			ab := sha256.Sum256(append(append([]byte{}, la...), lb...))
			cc := sha256.Sum256(append(append([]byte{}, lc...), lc...))
			root := sha256.Sum256(append(append([]byte{}, ab[:]...), cc[:]...))
			if !bytes.Equal(root[:], s256.MerkleRoot) {
				t.Fatalf("\t%s\tTest 0:\tShould pair an odd leaf with itself.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould pair an odd leaf with itself.", success)
		}

		t.Logf("\tTest 1:\tWhen building with no values.")
		{
			if _, err := merkle.NewTree([]data{}); !errors.Is(err, merkle.ErrNoContent) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrNoContent, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrNoContent.", success)
		}
	}
}
