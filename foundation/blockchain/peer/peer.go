// Package peer maintains the roster of miners participating in a simulated
// network and the latency each one adds to block propagation.
package peer

import "fmt"

// Peer represents a miner's endpoint on the network.
type Peer struct {
	Index   int     `json:"index"`
	Latency float64 `json:"latency"`
}

// New contructs a new peer value.
func New(index int, latency float64) Peer {
	return Peer{
		Index:   index,
		Latency: latency,
	}
}

// Match validates if the specified index matches this peer.
func (p Peer) Match(index int) bool {
	return p.Index == index
}

// =============================================================================

// PeerSet represents the ordered roster of peers. The position of a peer in
// the set is its index.
type PeerSet struct {
	set []Peer
}

// NewPeerSet constructs a peer set from the latency of every miner, in
// roster order.
func NewPeerSet(latencies []float64) *PeerSet {
	ps := PeerSet{
		set: make([]Peer, len(latencies)),
	}

	for i, lat := range latencies {
		ps.set[i] = New(i, lat)
	}

	return &ps
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	return len(ps.set)
}

// Get returns the peer at the specified index.
func (ps *PeerSet) Get(index int) (Peer, error) {
	if index < 0 || index >= len(ps.set) {
		return Peer{}, fmt.Errorf("peer %d does not exist", index)
	}

	return ps.set[index], nil
}

// Copy returns the peers in roster order except the one with the specified
// index.
func (ps *PeerSet) Copy(index int) []Peer {
	peers := make([]Peer, 0, len(ps.set))
	for _, peer := range ps.set {
		if !peer.Match(index) {
			peers = append(peers, peer)
		}
	}

	return peers
}
