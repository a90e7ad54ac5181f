// Package consensus tracks the authoritative view of the block tree: the best
// block by height, the checkpoint block a fixed number of blocks behind it,
// and the transactions that are still unspent since that checkpoint. It
// validates every newly found block against that view.
package consensus

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// DefaultCutOffAge is the number of blocks the checkpoint trails the best
// block by.
const DefaultCutOffAge = 10

// Set of errors returned when a block breaks the consensus rules.
var (
	ErrBadHeight   = errors.New("block height is not one above its parent")
	ErrTooDeep     = errors.New("block is not a descendant of the checkpoint within the cut off age")
	ErrDoubleSpend = errors.New("block confirms a transaction that is spent or unknown")
)

// Tracker maintains the consensus state of a single simulation run.
type Tracker struct {
	cutOffAge  int
	genesis    *database.Block
	maxHeight  *database.Block
	checkpoint *database.Block
	unspent    database.TxSet
}

// New constructs a tracker rooted at the genesis block. A cut off age below
// one takes DefaultCutOffAge; scenarios reject such values before they get
// here.
func New(genesis *database.Block, cutOffAge int) *Tracker {
	if cutOffAge <= 0 {
		cutOffAge = DefaultCutOffAge
	}

	t := Tracker{
		cutOffAge: cutOffAge,
		genesis:   genesis,
		maxHeight: genesis,
		unspent:   database.NewTxSet(),
	}
	t.updateCheckpoint()

	return &t
}

// MaxHeightBlock returns the best known block.
func (t *Tracker) MaxHeightBlock() *database.Block {
	return t.maxHeight
}

// Checkpoint returns the current checkpoint block.
func (t *Tracker) Checkpoint() *database.Block {
	return t.checkpoint
}

// UnspentCount returns the number of transactions unspent since the
// checkpoint.
func (t *Tracker) UnspentCount() int {
	return t.unspent.Len()
}

// AddUnspent records a transaction that was broadcast to the network.
func (t *Tracker) AddUnspent(tx database.Tx) {
	t.unspent.Add(tx)
}

// Validate runs the consensus checks against a newly found block, the cheap
// structural checks first. It never changes the tracker's state.
func (t *Tracker) Validate(block *database.Block) error {
	if err := verifyHeight(block); err != nil {
		return err
	}

	if err := t.verifyDescendance(block); err != nil {
		return err
	}

	if err := t.verifyNoDoubleSpend(block); err != nil {
		return err
	}

	return nil
}

// Accept applies a validated block: it becomes the best block if it is
// strictly higher than the current one, so the first block seen at a height
// keeps that height. The checkpoint is then recomputed from the best block.
func (t *Tracker) Accept(block *database.Block) {
	if block.Height > t.maxHeight.Height {
		t.maxHeight = block
	}

	t.updateCheckpoint()
}

// =============================================================================

// verifyHeight makes sure the block sits exactly one above its parent. Fork
// choice trusts the height, so a forged one must never reach Accept.
func verifyHeight(block *database.Block) error {
	if block.Parent == nil {
		return fmt.Errorf("%w: block has no parent", ErrBadHeight)
	}

	if block.Height != block.Parent.Height+1 {
		return fmt.Errorf("%w: height %d, parent height %d", ErrBadHeight, block.Height, block.Parent.Height)
	}

	return nil
}

// verifyDescendance walks up to the cut off age blocks starting at the
// block's parent looking for the checkpoint.
func (t *Tracker) verifyDescendance(block *database.Block) error {
	b := block.Parent
	for i := 0; i < t.cutOffAge; i++ {
		if b == nil {
			break
		}
		if b == t.checkpoint {
			return nil
		}
		b = b.Parent
	}

	return fmt.Errorf("%w: parent height %d, checkpoint height %d", ErrTooDeep, parentHeight(block), t.checkpoint.Height)
}

// verifyNoDoubleSpend makes sure every transaction of the block is unspent
// since the checkpoint and not confirmed by any block strictly between the
// block and the checkpoint. The ancestry check must have passed already.
func (t *Tracker) verifyNoDoubleSpend(block *database.Block) error {
	confirmed := database.NewTxSet()
	for b := block.Parent; b != nil && b != t.checkpoint; b = b.Parent {
		for id, tx := range b.Trans {
			confirmed[id] = tx
		}
	}

	for id := range block.Trans {
		if !t.unspent.Contains(id) || confirmed.Contains(id) {
			return fmt.Errorf("%w: tx[%d]", ErrDoubleSpend, id)
		}
	}

	return nil
}

// updateCheckpoint walks the cut off age back from the best block and drops
// the transactions the new checkpoint confirms from the unspent set.
func (t *Tracker) updateCheckpoint() {
	t.checkpoint = t.maxHeight.Ancestor(t.cutOffAge)

	for id := range t.checkpoint.Trans {
		t.unspent.Remove(id)
	}
}

func parentHeight(block *database.Block) uint64 {
	if block.Parent == nil {
		return 0
	}
	return block.Parent.Height
}
