// Package miner defines the contract every mining strategy implements and
// provides the registry of the strategies shipped with the simulator.
package miner

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// List of the shipped strategies.
const (
	StrategyNewest      = "newest"
	StrategyOldest      = "oldest"
	StrategySelfish     = "selfish"
	StrategyFeatherFork = "featherfork"
	StrategyFeeCutoff   = "feecutoff"
	StrategyStudent     = "student"
)

// Set of errors returned when constructing a miner.
var (
	ErrNoGenesis = errors.New("miner requires a genesis block")
	ErrNoMinter  = errors.New("miner requires an id minter")
)

// Miner is the behaviour the simulation loop drives. Each method is called
// from the single simulation goroutine.
type Miner interface {

	// HearTransaction receives a transaction broadcast to the network. Hearing
	// the same transaction id again must be a no-op.
	HearTransaction(tx database.Tx)

	// HearBlock receives a block published by another miner.
	HearBlock(block *database.Block)

	// FindBlock is called when the miner wins a block arrival. It returns the
	// block to propose or nil to forfeit the win.
	FindBlock() *database.Block

	// PublishBlock returns the found blocks the miner wants to release now,
	// parents before children.
	PublishBlock() []*database.Block
}

// IDMinter hands out a new owner id registered to the miner that calls it.
// A block may only carry an owner id its miner received from its minter.
type IDMinter func() database.OwnerID

// Config represents the settings a strategy is constructed with.
type Config struct {
	Genesis         *database.Block
	Minter          IDMinter
	ChangingAddress bool                      // Mint a new owner id for every block found.
	Revealing       bool                      // Stamp found blocks with the strategy message.
	FeeCutoff       uint64                    // Used by feecutoff.
	Blacklist       map[database.OwnerID]bool // Used by featherfork.
	Selector        string                    // Mempool select strategy, tip by default.
	MaxBlockTxs     int                       // Transactions per block, zero for no limit.
}

// Factory constructs a miner for the specified configuration.
type Factory func(cfg Config) (Miner, error)

// =============================================================================

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		StrategyNewest:      newNewest,
		StrategyOldest:      newOldest,
		StrategySelfish:     newSelfish,
		StrategyFeatherFork: newFeatherFork,
		StrategyFeeCutoff:   newFeeCutoff,
		StrategyStudent:     newStudent,
	}
)

// Register adds a strategy under the specified name so scenarios can refer
// to it. Names must be unique.
func Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("strategy %q has no factory", name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		return fmt.Errorf("strategy %q already registered", name)
	}

	factories[name] = factory
	return nil
}

// Retrieve returns the factory registered under the specified name.
func Retrieve(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	factory, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", name)
	}
	return factory, nil
}

// Strategies returns the names of the registered strategies.
func Strategies() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// New constructs a miner using the strategy registered under the name.
func New(name string, cfg Config) (Miner, error) {
	factory, err := Retrieve(name)
	if err != nil {
		return nil, err
	}

	m, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", name, err)
	}

	return m, nil
}
