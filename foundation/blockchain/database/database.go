// Package database provides the value types the simulation is built on:
// transactions, sets of transactions, blocks and owner identities.
package database

import (
	"errors"
	"io"

	"github.com/google/uuid"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrNoParent is returned when a non-genesis block is constructed without
// a parent block.
var ErrNoParent = errors.New("block has no parent")

// =============================================================================

// OwnerID represents a pseudonymous identity a miner or a transaction sender
// uses on the network.
type OwnerID uuid.UUID

// GenesisOwnerID is the sentinel identity that owns the genesis block.
var GenesisOwnerID = OwnerID(uuid.Nil)

// NewOwnerID constructs a new owner id using the specified source of
// randomness. Passing a seeded reader keeps a simulation run reproducible.
func NewOwnerID(r io.Reader) (OwnerID, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return OwnerID{}, err
	}

	return OwnerID(id), nil
}

// String implements the fmt.Stringer interface.
func (o OwnerID) String() string {
	return uuid.UUID(o).String()
}

// IsGenesis reports whether this is the genesis sentinel identity.
func (o OwnerID) IsGenesis() bool {
	return o == GenesisOwnerID
}

// MarshalText implements the encoding.TextMarshaler interface.
func (o OwnerID) MarshalText() ([]byte, error) {
	return uuid.UUID(o).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (o *OwnerID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(o).UnmarshalText(data)
}
