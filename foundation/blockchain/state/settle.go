package state

import (
	"fmt"

	"github.com/ardanlabs/minesim/foundation/blockchain/balance"
)

// Result represents the outcome of a run. Slices are in roster order.
type Result struct {
	Seed          int64    `json:"seed"`
	Ticks         uint64   `json:"ticks"`
	Height        uint64   `json:"height"`
	Head          string   `json:"head"`
	Names         []string `json:"names"`
	Revenue       []uint64 `json:"revenue"`
	BlocksFound   []uint64 `json:"blocks_found"`
	BlocksOnChain []uint64 `json:"blocks_on_chain"`
}

// settle walks the winning chain from the best block down to genesis and
// credits each block's creator with the reward and the block's fees.
func (s *State) settle() (Result, error) {
	sheet := balance.NewSheet(s.genesis.BlockReward, len(s.miners))

	head := s.tracker.MaxHeightBlock()
	for b := head; !b.IsGenesis(); b = b.Parent {
		index, exists := s.creator[b]
		if !exists {
			return Result{}, fmt.Errorf("settle: %s has no creator", b)
		}

		if err := sheet.ApplyBlock(index, b); err != nil {
			return Result{}, fmt.Errorf("settle: %w", err)
		}
	}

	names := make([]string, len(s.genesis.Miners))
	for i, m := range s.genesis.Miners {
		names[i] = m.Name
	}

	result := Result{
		Seed:          s.genesis.Seed,
		Ticks:         s.genesis.Ticks,
		Height:        head.Height,
		Head:          head.Hash(),
		Names:         names,
		Revenue:       sheet.Values(),
		BlocksFound:   append([]uint64(nil), s.found...),
		BlocksOnChain: sheet.Blocks(),
	}

	return result, nil
}
