package state

import (
	"io"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Head returns the best block the run has accepted.
func Head(s *State) *database.Block {
	return s.tracker.MaxHeightBlock()
}

// SetIDSource replaces the reader owner ids are minted from.
func SetIDSource(s *State, r io.Reader) {
	s.idSource = r
}
