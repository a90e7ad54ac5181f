package state

import (
	"context"

	"github.com/ardanlabs/minesim/foundation/blockchain/database"
)

// Run drives the simulation for the configured number of ticks and settles
// the revenue of the winning chain. It returns a *ViolationError if a miner
// breaks the protocol and the context's error if it is cancelled.
func (s *State) Run(ctx context.Context) (Result, error) {
	if s.ran {
		return Result{}, ErrAlreadyRun
	}
	s.ran = true

	s.evHandler("state: Run: started: seed[%d] ticks[%d] miners[%d] arrivals[%d]", s.genesis.Seed, s.genesis.Ticks, len(s.miners), len(s.arrivals))

	for s.tick = 0; s.tick < s.genesis.Ticks; s.tick++ {
		if err := ctx.Err(); err != nil {
			s.evHandler("state: Run: cancelled: tick[%d]", s.tick)
			return Result{}, err
		}

		if err := s.step(); err != nil {
			return Result{}, err
		}
	}

	result, err := s.settle()
	if err != nil {
		return Result{}, err
	}

	s.evHandler("state: Run: completed: height[%d] head[%s]", result.Height, result.Head)

	return result, nil
}

// step processes a single tick.
func (s *State) step() error {
	tx := s.newTx()
	s.tracker.AddUnspent(tx)
	for _, m := range s.miners {
		m.HearTransaction(tx)
	}

	for i := range s.miners {
		if err := s.publish(i); err != nil {
			return err
		}
	}

	if s.nextArrival < len(s.arrivals) && s.arrivals[s.nextArrival] == s.tick {
		s.nextArrival++
		if err := s.arrive(); err != nil {
			return err
		}
	}

	s.deliver()

	return nil
}

// arrive hands the block arrival to a miner picked by hash power and checks
// the block it proposes.
func (s *State) arrive() error {
	i := s.pickWinner()

	block := s.miners[i].FindBlock()
	if s.mintErr != nil {
		return s.mintErr
	}

	if block == nil {
		s.evHandler("state: arrive: tick[%d]: miner[%d]: forfeited", s.tick, i)
		return nil
	}

	if _, exists := s.owners[i][block.OwnerID]; !exists {
		return s.violation(i, block, ErrForeignOwner)
	}

	if _, exists := s.creator[block]; exists {
		return s.violation(i, block, ErrDuplicateBlock)
	}

	if block.Parent != nil && block.Parent != s.genesisBlock {
		if _, exists := s.creator[block.Parent]; !exists {
			return s.violation(i, block, ErrUnknownParent)
		}
	}

	if err := s.tracker.Validate(block); err != nil {
		return s.violation(i, block, err)
	}

	s.creator[block] = i
	s.found[i]++
	s.tracker.Accept(block)
	s.pending[i][block] = struct{}{}

	s.evHandler("state: arrive: tick[%d]: miner[%d]: found %s: hash[%s]", s.tick, i, block, block.Hash())

	return s.publish(i)
}

// pickWinner samples the cumulative hash power distribution with one draw.
func (s *State) pickWinner() int {
	r := s.rng.Float64()
	for i, hp := range s.hashPower {
		if r < hp {
			return i
		}
		r -= hp
	}

	return s.fallback
}

// publish collects the blocks the miner releases and hands the ones still
// pending to the network. Blocks that are no longer pending were published
// already and are ignored.
func (s *State) publish(index int) error {
	var blocks []*database.Block
	for _, block := range s.miners[index].PublishBlock() {
		if _, exists := s.pending[index][block]; !exists {
			continue
		}

		if _, exists := s.pending[index][block.Parent]; exists {
			return s.violation(index, block, ErrOutOfOrder)
		}

		delete(s.pending[index], block)
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil
	}

	deliveries, err := s.network.Broadcast(index, blocks, s.tick)
	if err != nil {
		return err
	}

	s.evHandler("state: publish: tick[%d]: miner[%d]: blocks[%d] deliveries[%d]", s.tick, index, len(blocks), len(deliveries))

	return nil
}

// deliver hands every block due this tick to its destination.
func (s *State) deliver() {
	for i, m := range s.miners {
		for _, block := range s.network.Due(i, s.tick) {
			m.HearBlock(block)
		}
	}
}
