package miner

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool/selector"
)

// node holds the bookkeeping every strategy needs: the private head, the
// mempool and the owner identity. Each miner owns its node, nothing is
// shared between miners.
type node struct {
	cfg         Config
	message     string
	owner       database.OwnerID
	head        *database.Block
	mempool     *mempool.Mempool
	known       map[*database.Block]struct{}
	admit       func(tx database.Tx) bool
	unpublished []*database.Block
}

func newNode(cfg Config, message string) (*node, error) {
	if cfg.Genesis == nil {
		return nil, ErrNoGenesis
	}
	if cfg.Minter == nil {
		return nil, ErrNoMinter
	}
	if cfg.Selector == "" {
		cfg.Selector = selector.StrategyTip
	}

	mp, err := mempool.NewWithStrategy(cfg.Selector)
	if err != nil {
		return nil, err
	}

	n := node{
		cfg:     cfg,
		message: message,
		owner:   cfg.Minter(),
		head:    cfg.Genesis,
		mempool: mp,
		known:   map[*database.Block]struct{}{cfg.Genesis: {}},
	}

	return &n, nil
}

// hearTransaction admits the transaction into the mempool unless the
// strategy filters it out.
func (n *node) hearTransaction(tx database.Tx) {
	if n.admit != nil && !n.admit(tx) {
		return
	}

	n.mempool.Insert(tx)
}

// confirm drops the transactions of the block, and of every ancestor the
// node has not processed yet, from the mempool. The known set stays closed
// under ancestry, so a child heard before its parent still clears the
// parent's transactions.
func (n *node) confirm(block *database.Block) {
	for b := block; b != nil; b = b.Parent {
		if _, exists := n.known[b]; exists {
			return
		}
		n.known[b] = struct{}{}
		n.mempool.DeleteSet(b.Trans)
	}
}

// mint builds a block on the parent holding the transactions the selector
// picks from the mempool, up to the block limit.
func (n *node) mint(parent *database.Block) *database.Block {
	if n.cfg.ChangingAddress {
		n.owner = n.cfg.Minter()
	}

	var message string
	if n.cfg.Revealing {
		message = n.message
	}

	howMany := -1
	if n.cfg.MaxBlockTxs > 0 {
		howMany = n.cfg.MaxBlockTxs
	}

	block, err := database.NewBlock(n.owner, parent, n.mempool.Take(howMany), message)
	if err != nil {
		return nil
	}
	n.known[block] = struct{}{}

	return block
}

// publish hands over the queued blocks and clears the queue.
func (n *node) publish() []*database.Block {
	blocks := n.unpublished
	n.unpublished = nil

	return blocks
}
