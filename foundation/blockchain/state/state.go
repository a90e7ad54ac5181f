// Package state is the core API for the simulator: it owns the context of
// one run, drives the miners tick by tick and enforces the consensus rules on
// every block they find.
package state

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/ardanlabs/minesim/foundation/blockchain/consensus"
	"github.com/ardanlabs/minesim/foundation/blockchain/database"
	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
	"github.com/ardanlabs/minesim/foundation/blockchain/miner"
	"github.com/ardanlabs/minesim/foundation/blockchain/network"
	"github.com/ardanlabs/minesim/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events occur in the
// processing of a run.
type EventHandler func(v string, args ...any)

// ErrAlreadyRun is returned when Run is called a second time. A State holds
// the context of exactly one run.
var ErrAlreadyRun = errors.New("simulation has already run")

// =============================================================================

// Config represents the configuration required to start a simulation run.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the context of one simulation run. Nothing in it is shared
// with other runs, so independent States can run concurrently.
type State struct {
	genesis   genesis.Genesis
	evHandler EventHandler
	rng       *rand.Rand
	idSource  io.Reader
	mintErr   error

	genesisBlock *database.Block
	miners       []miner.Miner
	hashPower    []float64
	fallback     int

	owners  []map[database.OwnerID]struct{}
	pending []map[*database.Block]struct{}
	creator map[*database.Block]int
	found   []uint64

	tracker  *consensus.Tracker
	network  *network.Network
	txOwners []database.OwnerID
	arrivals []uint64

	tick        uint64
	nextArrival int
	ran         bool
}

// New constructs the context of a simulation run from the scenario. Every
// random draw of the run, including the ones made here, comes from a single
// source seeded by the scenario.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	g := cfg.Genesis
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}

	rng := rand.New(rand.NewSource(g.Seed))
	genesisBlock := database.NewGenesis()

	latencies := make([]float64, len(g.Miners))
	hashPower := make([]float64, len(g.Miners))
	for i, m := range g.Miners {
		latencies[i] = m.Latency
		hashPower[i] = m.HashPower
	}

	s := State{
		genesis:      g,
		evHandler:    ev,
		rng:          rng,
		idSource:     rng,
		genesisBlock: genesisBlock,
		hashPower:    hashPower,
		fallback:     fallbackWinner(hashPower),
		owners:       make([]map[database.OwnerID]struct{}, len(g.Miners)),
		pending:      make([]map[*database.Block]struct{}, len(g.Miners)),
		creator:      make(map[*database.Block]int),
		found:        make([]uint64, len(g.Miners)),
		tracker:      consensus.New(genesisBlock, g.CutOffAge),
		network:      network.New(peer.NewPeerSet(latencies), rng),
	}

	for i := range g.Miners {
		s.owners[i] = make(map[database.OwnerID]struct{})
		s.pending[i] = make(map[*database.Block]struct{})
	}

	// The pool of owners that send transactions.
	for i := 0; i < g.TxOwners; i++ {
		id, err := database.NewOwnerID(rng)
		if err != nil {
			return nil, fmt.Errorf("minting tx owner: %w", err)
		}
		s.txOwners = append(s.txOwners, id)
	}

	s.arrivals = g.BlockArrivals
	if len(s.arrivals) == 0 {
		s.arrivals = genesis.Arrivals(rng, g.Ticks, g.ArrivalMean)
	}

	for i, m := range g.Miners {
		mcfg := miner.Config{
			Genesis:         genesisBlock,
			Minter:          s.minter(i),
			ChangingAddress: m.ChangingAddress,
			Revealing:       m.Revealing,
			FeeCutoff:       m.FeeCutoff,
			Selector:        m.Selector,
			MaxBlockTxs:     g.MaxBlockTxs,
		}

		switch m.Strategy {
		case miner.StrategyFeeCutoff:
			if mcfg.FeeCutoff == 0 {
				mcfg.FeeCutoff = s.randomCutoff()
			}
		case miner.StrategyFeatherFork:
			mcfg.Blacklist = s.randomBlacklist()
		}

		mnr, err := miner.New(m.Strategy, mcfg)
		if err != nil {
			return nil, fmt.Errorf("miner[%d] %s: %w", i, m.Name, err)
		}
		s.miners = append(s.miners, mnr)
	}

	return &s, nil
}

// minter returns the id minter for the miner at the specified index. Every
// id it hands out is registered to that miner. The minter has no error
// return, so a failure is kept on the state and ends the run at the next
// arrival.
func (s *State) minter(index int) miner.IDMinter {
	return func() database.OwnerID {
		id, err := database.NewOwnerID(s.idSource)
		if err != nil {
			s.evHandler("state: minter: miner[%d]: ERROR: %s", index, err)
			if s.mintErr == nil {
				s.mintErr = fmt.Errorf("minting owner id for miner[%d]: %w", index, err)
			}
			return database.GenesisOwnerID
		}

		s.owners[index][id] = struct{}{}
		return id
	}
}

// randomCutoff draws a fee cutoff in the configured range.
func (s *State) randomCutoff() uint64 {
	lo, hi := s.genesis.FeeCutoffMin, s.genesis.FeeCutoffMax
	return lo + uint64(s.rng.Float64()*float64(hi-lo))
}

// randomBlacklist blacklists each transaction owner with the configured
// chance.
func (s *State) randomBlacklist() map[database.OwnerID]bool {
	blacklist := make(map[database.OwnerID]bool)
	for _, id := range s.txOwners {
		if s.rng.Float64() < s.genesis.BlacklistChance {
			blacklist[id] = true
		}
	}

	return blacklist
}

// fallbackWinner returns the last miner with hash power, which wins when
// rounding leaves a residue after the cumulative sampling.
func fallbackWinner(hashPower []float64) int {
	for i := len(hashPower) - 1; i >= 0; i-- {
		if hashPower[i] > 0 {
			return i
		}
	}
	return len(hashPower) - 1
}
