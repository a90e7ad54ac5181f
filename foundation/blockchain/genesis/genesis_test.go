package genesis_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestDefault(t *testing.T) {
	t.Log("Given the need to run the reference scenario.")
	{
		t.Logf("\tTest 0:\tWhen building the default scenario.")
		{
			g := genesis.Default()

			if len(g.Miners) != 9 {
				t.Fatalf("\t%s\tTest 0:\tShould have nine miners, got %d.", failed, len(g.Miners))
			}
			t.Logf("\t%s\tTest 0:\tShould have nine miners.", success)

			if err := g.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be valid: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be valid.", success)

			if g.Fingerprint() != genesis.Default().Fingerprint() {
				t.Fatalf("\t%s\tTest 0:\tShould have a stable fingerprint.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a stable fingerprint.", success)

			g.Seed++
			if g.Fingerprint() == genesis.Default().Fingerprint() {
				t.Fatalf("\t%s\tTest 0:\tShould change the fingerprint with the seed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould change the fingerprint with the seed.", success)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Log("Given the need to read scenarios from JSON.")
	{
		t.Logf("\tTest 0:\tWhen reading a partial scenario.")
		{
			doc := `{"seed": 7, "ticks": 500, "block_arrivals": [10, 20, 30],
				"miners": [{"name": "solo", "strategy": "oldest", "hash_power": 1, "latency": 3}]}`

			g, err := genesis.Decode(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the scenario: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the scenario.", success)

			if g.Seed != 7 || g.Ticks != 500 || len(g.Miners) != 1 || g.BlockReward != genesis.DefaultBlockReward {
				t.Fatalf("\t%s\tTest 0:\tShould keep the given values and default the rest: %+v", failed, g)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the given values and default the rest.", success)
		}

		t.Logf("\tTest 1:\tWhen reading an unknown field.")
		{
			if _, err := genesis.Decode(strings.NewReader(`{"difficulty": 6}`)); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the scenario.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the scenario.", success)
		}

		t.Logf("\tTest 2:\tWhen reading a miner in the legacy settings encoding.")
		{
			legacy := `{"ticks": 500, "miners": [{"name": "solo", "strategy": "oldest", "hash_power": 1, "settings": 3}]}`
			plain := `{"ticks": 500, "miners": [{"name": "solo", "strategy": "oldest", "hash_power": 1, "changing_address": true, "revealing": true}]}`

			g, err := genesis.Decode(strings.NewReader(legacy))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould decode the scenario: %v", failed, err)
			}

			m := g.Miners[0]
			if !m.ChangingAddress || !m.Revealing || m.Settings != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould turn settings 3 into both flags: %+v", failed, m)
			}
			t.Logf("\t%s\tTest 2:\tShould turn settings 3 into both flags.", success)

			p, err := genesis.Decode(strings.NewReader(plain))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould decode the scenario: %v", failed, err)
			}
			if p.Fingerprint() != g.Fingerprint() {
				t.Fatalf("\t%s\tTest 2:\tShould fingerprint both encodings the same.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould fingerprint both encodings the same.", success)
		}
	}
}

func TestValidate(t *testing.T) {
	type table struct {
		name string
		edit func(g *genesis.Genesis)
		err  error
	}

	tt := []table{
		{"hash power", func(g *genesis.Genesis) { g.Miners[0].HashPower = .5 }, genesis.ErrHashPower},
		{"arrivals", func(g *genesis.Genesis) { g.BlockArrivals = []uint64{5, 9, 9} }, genesis.ErrArrivals},
		{"cut off age", func(g *genesis.Genesis) { g.CutOffAge = 0 }, genesis.ErrCutOffAge},
	}

	t.Log("Given the need to reject inconsistent scenarios.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the %s are wrong.", testID, tst.name)
				{
					g := genesis.Default()
					tst.edit(&g)

					if err := g.Validate(); !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould fail with %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould fail with %v.", success, testID, tst.err)
				}
			}
			t.Run(tst.name, f)
		}

		t.Logf("\tTest %d:\tWhen a strategy is unknown.", len(tt))
		{
			g := genesis.Default()
			g.Miners[3].Strategy = "greedy"
			if err := g.Validate(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the scenario.", failed, len(tt))
			}
			t.Logf("\t%s\tTest %d:\tShould reject the scenario.", success, len(tt))
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Log("Given the need to build scenarios programmatically.")
	{
		t.Logf("\tTest 0:\tWhen decoding settings integers.")
		{
			tt := []struct {
				v         int
				changing  bool
				revealing bool
			}{
				{0, false, false},
				{1, true, false},
				{2, false, true},
				{3, true, true},
			}

			for _, tst := range tt {
				changing, revealing := genesis.Settings(tst.v)
				if changing != tst.changing || revealing != tst.revealing {
					t.Fatalf("\t%s\tTest 0:\tShould decode %d.", failed, tst.v)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould decode every settings value.", success)
		}

		t.Logf("\tTest 1:\tWhen generating an arrival schedule.")
		{
			a := genesis.Arrivals(rand.New(rand.NewSource(3)), 10_000, 50)
			b := genesis.Arrivals(rand.New(rand.NewSource(3)), 10_000, 50)

			if len(a) == 0 || len(a) != len(b) {
				t.Fatalf("\t%s\tTest 1:\tShould produce the same schedule for the same seed.", failed)
			}
			for i := range a {
				if a[i] != b[i] || a[i] >= 10_000 || (i > 0 && a[i] <= a[i-1]) {
					t.Fatalf("\t%s\tTest 1:\tShould be strictly increasing and inside the horizon at %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould be deterministic, strictly increasing and inside the horizon.", success)
		}
	}
}
