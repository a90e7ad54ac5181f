package database

import (
	"fmt"

	"github.com/ardanlabs/minesim/foundation/blockchain/merkle"
)

// Block represents a group of transactions batched together on top of a
// parent block. Blocks are immutable once constructed and form a tree rooted
// at the genesis block. Two blocks are the same block only if they are the
// same pointer.
type Block struct {
	OwnerID OwnerID `json:"owner"`
	Parent  *Block  `json:"-"`
	Trans   TxSet   `json:"-"`
	Message string  `json:"message,omitempty"` // Diagnostic only, never consulted by consensus.
	Height  uint64  `json:"height"`
}

// NewGenesis constructs the genesis block. It is the only block without a
// parent and it has a height of 1.
func NewGenesis() *Block {
	return &Block{
		OwnerID: GenesisOwnerID,
		Trans:   NewTxSet(),
		Height:  1,
	}
}

// NewBlock constructs a block on top of the specified parent. The block takes
// ownership of the transaction set.
func NewBlock(ownerID OwnerID, parent *Block, trans TxSet, message string) (*Block, error) {
	if parent == nil {
		return nil, ErrNoParent
	}

	if trans == nil {
		trans = NewTxSet()
	}

	b := Block{
		OwnerID: ownerID,
		Parent:  parent,
		Trans:   trans,
		Message: message,
		Height:  parent.Height + 1,
	}

	return &b, nil
}

// IsGenesis reports whether this is the genesis block.
func (b *Block) IsGenesis() bool {
	return b.Parent == nil
}

// Fees returns the sum of the fees of the transactions in the block.
func (b *Block) Fees() uint64 {
	return b.Trans.Fees()
}

// Ancestor walks n parent links back from this block. It stops at the
// genesis block if the chain is shorter than n.
func (b *Block) Ancestor(n int) *Block {
	a := b
	for i := 0; i < n && a.Parent != nil; i++ {
		a = a.Parent
	}

	return a
}

// Hash returns a diagnostic hash of the block: the merkle root of the
// transaction set in id order. Blocks with equal transaction sets share a
// hash, so the hash must never be used to tell blocks apart.
func (b *Block) Hash() string {
	if b.Trans.Len() == 0 {
		return ZeroHash
	}

	tree, err := merkle.NewTree(b.Trans.Values())
	if err != nil {
		return ZeroHash
	}

	return tree.RootHex()
}

// String implements the fmt.Stringer interface for logging.
func (b *Block) String() string {
	return fmt.Sprintf("blk[%d]:owner[%s]:txs[%d]", b.Height, b.OwnerID, b.Trans.Len())
}
