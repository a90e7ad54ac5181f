// Package balance maintains the revenue miners earn on the winning chain.
package balance

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Sheet represents the revenue of every miner in the roster, indexed by the
// miner's position in the roster.
type Sheet struct {
	reward uint64
	sheet  []uint64
	blocks []uint64
	mu     sync.RWMutex
}

// NewSheet constructs a balance sheet for the specified number of miners
// paying the specified reward per block.
func NewSheet(blockReward uint64, miners int) *Sheet {
	return &Sheet{
		reward: blockReward,
		sheet:  make([]uint64, miners),
		blocks: make([]uint64, miners),
	}
}

// ApplyBlock credits the miner with the block reward plus the fees of every
// transaction the block confirms.
func (bs *Sheet) ApplyBlock(miner int, block *database.Block) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if miner < 0 || miner >= len(bs.sheet) {
		return fmt.Errorf("miner[%d] is not on the sheet", miner)
	}

	bs.sheet[miner] += bs.reward + block.Fees()
	bs.blocks[miner]++

	return nil
}

// Values returns a copy of the revenue per miner.
func (bs *Sheet) Values() []uint64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return append([]uint64(nil), bs.sheet...)
}

// Blocks returns a copy of the number of blocks credited per miner.
func (bs *Sheet) Blocks() []uint64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return append([]uint64(nil), bs.blocks...)
}
