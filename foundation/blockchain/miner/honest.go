package miner

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// honest mines on the highest block it knows and publishes every block as
// soon as it is found. The filtering strategies are honest miners with an
// admission policy on the mempool.
type honest struct {
	*node
	newest bool
}

func newHonest(cfg Config, message string, newest bool, admit func(database.Tx) bool) (*honest, error) {
	n, err := newNode(cfg, message)
	if err != nil {
		return nil, err
	}
	n.admit = admit

	return &honest{node: n, newest: newest}, nil
}

func newNewest(cfg Config) (Miner, error) {
	return newHonest(cfg, "Picking Newest Max Height Block", true, nil)
}

func newOldest(cfg Config) (Miner, error) {
	return newHonest(cfg, "Picking Oldest Max Height Block", false, nil)
}

func newStudent(cfg Config) (Miner, error) {
	return newHonest(cfg, "Student Miner", false, nil)
}

func newFeeCutoff(cfg Config) (Miner, error) {
	cutoff := cfg.FeeCutoff
	admit := func(tx database.Tx) bool {
		return tx.Fee <= cutoff
	}

	return newHonest(cfg, "Preventing High Transaction Fees", false, admit)
}

func newFeatherFork(cfg Config) (Miner, error) {
	blacklist := make(map[database.OwnerID]bool, len(cfg.Blacklist))
	for id, banned := range cfg.Blacklist {
		if banned {
			blacklist[id] = true
		}
	}

	admit := func(tx database.Tx) bool {
		return !blacklist[tx.OwnerID]
	}

	return newHonest(cfg, "Feather Forking Blacklisted Owners", false, admit)
}

// HearTransaction implements the Miner interface.
func (h *honest) HearTransaction(tx database.Tx) {
	h.hearTransaction(tx)
}

// HearBlock implements the Miner interface. A strictly higher block always
// becomes the head. The newest variant also moves to a block at the same
// height heard later.
func (h *honest) HearBlock(block *database.Block) {
	h.confirm(block)

	switch {
	case block.Height > h.head.Height:
		h.head = block
	case h.newest && block.Height == h.head.Height:
		h.head = block
	}
}

// FindBlock implements the Miner interface.
func (h *honest) FindBlock() *database.Block {
	block := h.mint(h.head)
	if block == nil {
		return nil
	}

	h.head = block
	h.unpublished = append(h.unpublished, block)

	return block
}

// PublishBlock implements the Miner interface.
func (h *honest) PublishBlock() []*database.Block {
	return h.publish()
}
