// Package network models the propagation of published blocks between miners.
// Every publish event draws a single random multiplier that scales the
// latency between the publisher and each receiver, and the blocks of one
// event arrive one tick apart in the order they were published.
package network

import (
	"math"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/peer"
)

// MaxMultiplier is the exclusive upper bound of the propagation multiplier.
const MaxMultiplier = 1.5

// Rand represents the source of randomness the model draws from. A
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Delivery describes one block becoming visible to one miner.
type Delivery struct {
	To    int
	Tick  uint64
	Block *database.Block
}

// Network holds the delivery schedule for every destination miner.
type Network struct {
	peers    *peer.PeerSet
	rng      Rand
	schedule []map[uint64][]*database.Block
	pending  int
}

// New constructs a network for the specified roster.
func New(peers *peer.PeerSet, rng Rand) *Network {
	schedule := make([]map[uint64][]*database.Block, peers.Len())
	for i := range schedule {
		schedule[i] = make(map[uint64][]*database.Block)
	}

	return &Network{
		peers:    peers,
		rng:      rng,
		schedule: schedule,
	}
}

// Delay returns the number of ticks a block takes to travel between two
// peers for the specified multiplier.
func Delay(from peer.Peer, to peer.Peer, r float64) uint64 {
	d := math.Round((from.Latency + to.Latency) * r)
	if d < 0 {
		return 0
	}

	return uint64(d)
}

// Broadcast schedules the blocks published by a miner at the specified tick
// for delivery to every other miner. Nothing is drawn when there is nothing
// to publish.
func (n *Network) Broadcast(from int, blocks []*database.Block, now uint64) ([]Delivery, error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	sender, err := n.peers.Get(from)
	if err != nil {
		return nil, err
	}

	r := n.rng.Float64() * MaxMultiplier

	var deliveries []Delivery
	for _, to := range n.peers.Copy(from) {
		delay := Delay(sender, to, r)
		for dt, block := range blocks {
			tick := now + delay + uint64(dt)
			n.schedule[to.Index][tick] = append(n.schedule[to.Index][tick], block)
			n.pending++

			deliveries = append(deliveries, Delivery{To: to.Index, Tick: tick, Block: block})
		}
	}

	return deliveries, nil
}

// Due removes and returns the blocks scheduled to reach the destination at
// the specified tick, in the order they were scheduled.
func (n *Network) Due(to int, tick uint64) []*database.Block {
	if to < 0 || to >= len(n.schedule) {
		return nil
	}

	blocks, exists := n.schedule[to][tick]
	if !exists {
		return nil
	}

	delete(n.schedule[to], tick)
	n.pending -= len(blocks)

	return blocks
}

// Pending returns the number of deliveries still scheduled.
func (n *Network) Pending() int {
	return n.pending
}
