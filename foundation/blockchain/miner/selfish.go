package miner

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// selfish withholds the blocks it finds on a private branch and releases
// them only to answer the public chain.
type selfish struct {
	*node
	public  *database.Block
	private []*database.Block
}

func newSelfish(cfg Config) (Miner, error) {
	n, err := newNode(cfg, "Withholding Blocks")
	if err != nil {
		return nil, err
	}

	return &selfish{node: n, public: cfg.Genesis}, nil
}

// HearTransaction implements the Miner interface.
func (s *selfish) HearTransaction(tx database.Tx) {
	s.hearTransaction(tx)
}

// HearBlock implements the Miner interface. Only a block higher than the
// public chain is answered:
//
//	lead < 0   the private branch lost, adopt the rival block
//	lead 0, 1  release the whole private branch
//	lead >= 2  release the private blocks up to the rival's height
func (s *selfish) HearBlock(block *database.Block) {
	s.confirm(block)

	if block.Height <= s.public.Height {
		return
	}
	s.public = block

	lead := int64(s.head.Height) - int64(block.Height)

	switch {
	case lead < 0:
		s.head = block
		s.private = nil

	case lead <= 1:
		s.unpublished = append(s.unpublished, s.private...)
		s.private = nil

	default:
		var i int
		for i < len(s.private) && s.private[i].Height <= block.Height {
			i++
		}
		s.unpublished = append(s.unpublished, s.private[:i]...)
		s.private = s.private[i:]
	}
}

// FindBlock implements the Miner interface. The block joins the private
// branch.
func (s *selfish) FindBlock() *database.Block {
	block := s.mint(s.head)
	if block == nil {
		return nil
	}

	s.head = block
	s.private = append(s.private, block)

	return block
}

// PublishBlock implements the Miner interface.
func (s *selfish) PublishBlock() []*database.Block {
	return s.publish()
}
