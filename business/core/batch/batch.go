// Package batch runs a scenario over a range of seeds and summarises the
// revenue each miner earned.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	"golang.org/x/sync/errgroup"
)

// Config represents the settings of a batch.
type Config struct {
	Genesis   genesis.Genesis
	Runs      int
	Workers   int                                 // Zero uses one worker per CPU.
	EvHandler func(seed int64) state.EventHandler // Optional per-run event handler.
	Progress  func(seed int64, err error)         // Optional, called as each run finishes.
}

// Violation records a run that halted on a protocol violation.
type Violation struct {
	Seed int64  `json:"seed"`
	Err  string `json:"error"`
}

// Report represents the outcome of a batch.
type Report struct {
	Runs       int            `json:"runs"`
	Completed  int            `json:"completed"`
	Miners     []Summary      `json:"miners"`
	Violations []Violation    `json:"violations,omitempty"`
	Results    []state.Result `json:"-"`
}

// Run executes the scenario once per seed, starting at the scenario's seed.
// Runs share nothing, so they execute concurrently on the configured number
// of workers. A run that ends in a protocol violation is reported and left
// out of the statistics; any other error stops the batch.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Runs <= 0 {
		return Report{}, errors.New("batch requires at least one run")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return Report{}, fmt.Errorf("validating scenario: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*state.Result, cfg.Runs)
	violations := make([]*Violation, cfg.Runs)

	var mu sync.Mutex
	progress := func(seed int64, err error) {
		if cfg.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		cfg.Progress(seed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Runs; i++ {
		if gctx.Err() != nil {
			break
		}

		i := i
		gen := cfg.Genesis
		gen.Seed = cfg.Genesis.Seed + int64(i)

		g.Go(func() error {
			res, err := runOne(gctx, gen, cfg.EvHandler)
			progress(gen.Seed, err)

			switch {
			case err == nil:
				results[i] = &res

			case state.IsViolation(err):
				violations[i] = &Violation{Seed: gen.Seed, Err: err.Error()}

			default:
				return fmt.Errorf("seed[%d]: %w", gen.Seed, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{
		Runs: cfg.Runs,
	}

	for i := range results {
		if results[i] != nil {
			report.Results = append(report.Results, *results[i])
		}
		if violations[i] != nil {
			report.Violations = append(report.Violations, *violations[i])
		}
	}
	report.Completed = len(report.Results)
	report.Miners = summarise(cfg.Genesis, report.Results)

	return report, nil
}

func runOne(ctx context.Context, g genesis.Genesis, evHandler func(int64) state.EventHandler) (state.Result, error) {
	var ev state.EventHandler
	if evHandler != nil {
		ev = evHandler(g.Seed)
	}

	st, err := state.New(state.Config{
		Genesis:   g,
		EvHandler: ev,
	})
	if err != nil {
		return state.Result{}, err
	}

	return st.Run(ctx)
}
