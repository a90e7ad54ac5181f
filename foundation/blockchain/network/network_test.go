package network_test

import (
	"testing"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/network"
	"github.com/ardanlabs/minesim/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// fixed always returns the same draw and counts how often it was asked.
type fixed struct {
	v     float64
	draws int
}

func (f *fixed) Float64() float64 {
	f.draws++
	return f.v
}

func chain(n int) []*database.Block {
	blocks := make([]*database.Block, 0, n)
	parent := database.NewGenesis()
	for i := 0; i < n; i++ {
		b, _ := database.NewBlock(database.OwnerID{1}, parent, nil, "")
		blocks = append(blocks, b)
		parent = b
	}
	return blocks
}

func TestDelay(t *testing.T) {
	type table struct {
		name string
		from float64
		to   float64
		r    float64
		exp  uint64
	}

	tt := []table{
		{name: "zero", from: 3, to: 4, r: 0, exp: 0},
		{name: "half away from zero", from: 3, to: 4, r: 0.5, exp: 4},
		{name: "round up", from: 3, to: 4, r: 0.8, exp: 6},
		{name: "max", from: 10, to: 10, r: 1.49, exp: 30},
	}

	t.Log("Given the need to compute the propagation delay.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen latencies are %v and %v with R %v.", testID, tst.from, tst.to, tst.r)
			{
				got := network.Delay(peer.New(0, tst.from), peer.New(1, tst.to), tst.r)
				if got != tst.exp {
					t.Fatalf("\t%s\tTest %d:\tShould get a delay of %d, got %d.", failed, testID, tst.exp, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get a delay of %d.", success, testID, tst.exp)
			}
		}
	}
}

func TestBroadcast(t *testing.T) {
	t.Log("Given the need to propagate published blocks.")
	{
		t.Logf("\tTest 0:\tWhen publishing two blocks at once to two peers.")
		{
			rng := fixed{v: 0.5}
			net := network.New(peer.NewPeerSet([]float64{2, 4, 6}), &rng)

			blocks := chain(2)
			deliveries, err := net.Broadcast(0, blocks, 100)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to broadcast: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to broadcast.", success)

			if rng.draws != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould draw R once per publish event, drew %d.", failed, rng.draws)
			}
			t.Logf("\t%s\tTest 0:\tShould draw R once per publish event.", success)

			if len(deliveries) != 4 || net.Pending() != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould schedule four deliveries, got %d.", failed, len(deliveries))
			}
			t.Logf("\t%s\tTest 0:\tShould schedule four deliveries.", success)

			// R = .75: peer 1 gets (2+4)*.75 = 4.5 -> 5, peer 2 gets (2+6)*.75 = 6.
			exp := map[int]uint64{1: 105, 2: 106}
			for to, first := range exp {
				if got := net.Due(to, first); len(got) != 1 || got[0] != blocks[0] {
					t.Fatalf("\t%s\tTest 0:\tShould deliver the first block to %d at %d.", failed, to, first)
				}
				if got := net.Due(to, first+1); len(got) != 1 || got[0] != blocks[1] {
					t.Fatalf("\t%s\tTest 0:\tShould deliver the second block to %d one tick later.", failed, to)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould deliver the second block exactly one tick after the first.", success)

			if net.Pending() != 0 || len(net.Due(0, 105)) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould not deliver to the publisher or deliver twice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not deliver to the publisher or deliver twice.", success)
		}

		t.Logf("\tTest 1:\tWhen two publish events land on the same tick.")
		{
			rng := fixed{v: 0}
			net := network.New(peer.NewPeerSet([]float64{1, 1, 1}), &rng)

			a := chain(1)
			b := chain(1)
			net.Broadcast(0, a, 7)
			net.Broadcast(2, b, 7)

			got := net.Due(1, 7)
			if len(got) != 2 || got[0] != a[0] || got[1] != b[0] {
				t.Fatalf("\t%s\tTest 1:\tShould deliver both blocks in scheduling order.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould deliver both blocks in scheduling order.", success)
		}

		t.Logf("\tTest 2:\tWhen there is nothing to publish.")
		{
			rng := fixed{v: 0.3}
			net := network.New(peer.NewPeerSet([]float64{1, 1}), &rng)

			if d, err := net.Broadcast(0, nil, 1); err != nil || d != nil || rng.draws != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould not draw or schedule anything.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not draw or schedule anything.", success)

			if _, err := net.Broadcast(5, chain(1), 1); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject an unknown publisher.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an unknown publisher.", success)
		}
	}
}
