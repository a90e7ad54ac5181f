package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Set of errors for the protocol violations the loop detects itself. The
// consensus package provides the rest.
var (
	ErrOutOfOrder     = errors.New("published blocks are out of order")
	ErrForeignOwner   = errors.New("block owner id was not minted for the miner")
	ErrDuplicateBlock = errors.New("block was already accepted")
	ErrUnknownParent  = errors.New("block parent was never proposed")
)

// ViolationError is returned when a miner breaks the protocol. The run halts
// at the first violation.
type ViolationError struct {
	Tick     uint64
	Miner    int
	Strategy string
	Block    *database.Block
	Err      error
}

// Error implements the error interface.
func (ve *ViolationError) Error() string {
	if ve.Block == nil {
		return fmt.Sprintf("tick[%d] miner[%d] strategy[%s]: %s", ve.Tick, ve.Miner, ve.Strategy, ve.Err)
	}
	return fmt.Sprintf("tick[%d] miner[%d] strategy[%s] %s: %s", ve.Tick, ve.Miner, ve.Strategy, ve.Block, ve.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (ve *ViolationError) Unwrap() error {
	return ve.Err
}

// IsViolation checks if an error of type ViolationError exists.
func IsViolation(err error) bool {
	var ve *ViolationError
	return errors.As(err, &ve)
}

// violation builds the error for the miner at the specified index.
func (s *State) violation(index int, block *database.Block, err error) error {
	ve := ViolationError{
		Tick:     s.tick,
		Miner:    index,
		Strategy: s.genesis.Miners[index].Strategy,
		Block:    block,
		Err:      err,
	}

	s.evHandler("state: violation: %s", ve.Error())
	return &ve
}
