// Package simgrp maintains the group of handlers for running simulations.
package simgrp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/minesim/business/core/batch"
	"github.com/ardanlabs/minesim/business/sys/metrics"
	"github.com/ardanlabs/minesim/business/sys/validate"
	v1 "github.com/ardanlabs/minesim/business/web/v1"
	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
	"github.com/ardanlabs/minesim/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/minesim/foundation/blockchain/miner"
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	"github.com/ardanlabs/minesim/foundation/events"
	"github.com/ardanlabs/minesim/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of simulation endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Evts    *events.Events
	Cache   *Cache
	Limits  Limits
	WS      websocket.Upgrader
}

// Run executes the scenario in the request body and returns the settled
// revenue. Results are cached by the scenario's fingerprint.
func (h Handlers) Run(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	g, err := genesis.Decode(r.Body)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.check(g); err != nil {
		return err
	}

	id := g.Fingerprint()
	if res, exists := h.Cache.Get(id); exists {
		h.Metrics.CacheHits.Inc()
		return web.Respond(ctx, w, runResponse{ID: id, Cached: true, Result: res}, http.StatusOK)
	}

	h.Log.Infow("run", "traceid", v.TraceID, "id", id, "seed", g.Seed, "ticks", g.Ticks, "miners", len(g.Miners))

	st, err := state.New(state.Config{
		Genesis:   g,
		EvHandler: h.evHandler(v.TraceID, id),
	})
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := st.Run(ctx)
	h.Metrics.ObserveRun(time.Since(start), err)

	if err != nil {
		return runError(err)
	}

	h.Cache.Add(id, res)

	return web.Respond(ctx, w, runResponse{ID: id, Result: res}, http.StatusOK)
}

// Batch executes the scenario in the request body over a range of seeds and
// returns the revenue statistics per miner.
func (h Handlers) Batch(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req batchRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	if req.Runs > h.Limits.MaxRuns {
		return v1.NewRequestError(fmt.Errorf("runs %d exceeds the limit of %d", req.Runs, h.Limits.MaxRuns), http.StatusBadRequest)
	}

	var scenario io.Reader = bytes.NewReader(req.Scenario)
	if len(req.Scenario) == 0 {
		scenario = bytes.NewReader([]byte("{}"))
	}

	g, err := genesis.Decode(scenario)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.check(g); err != nil {
		return err
	}

	id := g.Fingerprint()
	h.Log.Infow("batch", "traceid", v.TraceID, "id", id, "runs", req.Runs)

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	report, err := batch.Run(ctx, batch.Config{
		Genesis: g,
		Runs:    req.Runs,
		Workers: h.Limits.Workers,
		EvHandler: func(seed int64) state.EventHandler {
			return h.evHandler(v.TraceID, fmt.Sprintf("%s/%d", id, seed))
		},
		Progress: func(seed int64, err error) {
			h.Metrics.CountRun(err)
		},
	})
	if err != nil {
		return runError(err)
	}

	return web.Respond(ctx, w, batchResponse{ID: id, Report: report}, http.StatusOK)
}

// QueryRun returns the cached result of a previous run.
func (h Handlers) QueryRun(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	res, exists := h.Cache.Get(id)
	if !exists {
		return v1.NewRequestError(fmt.Errorf("run %q not found", id), http.StatusNotFound)
	}

	return web.Respond(ctx, w, runResponse{ID: id, Cached: true, Result: res}, http.StatusOK)
}

// Default returns the reference scenario.
func (h Handlers) Default(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, genesis.Default(), http.StatusOK)
}

// Strategies returns the names of the registered miner and mempool
// selection strategies.
func (h Handlers) Strategies(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := strategies{
		Miners:    miner.Strategies(),
		Selectors: selector.Strategies(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide run events to a client. The run
// query parameter limits the stream to a single run.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID, r.URL.Query().Get("run"))
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(e); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

// check runs the field validation and the scenario rules and enforces the
// service limits.
func (h Handlers) check(g genesis.Genesis) error {
	if err := validate.Check(g); err != nil {
		return err
	}

	if err := g.Validate(); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if h.Limits.MaxTicks > 0 && g.Ticks > h.Limits.MaxTicks {
		return v1.NewRequestError(fmt.Errorf("ticks %d exceeds the limit of %d", g.Ticks, h.Limits.MaxTicks), http.StatusBadRequest)
	}

	return nil
}

// evHandler logs the run's trace events and sends them to the websocket
// subscribers.
func (h Handlers) evHandler(traceID string, run string) state.EventHandler {
	send := h.Evts.Handler(run)

	return func(v string, args ...any) {
		h.Log.Debugw(fmt.Sprintf(v, args...), "traceid", traceID, "run", run)
		send(v, args...)
	}
}

func (h Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Limits.RunTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.Limits.RunTimeout)
}

// runError maps the error of a run to the response the client receives.
func runError(err error) error {
	switch {
	case state.IsViolation(err):
		return v1.NewRequestError(err, http.StatusUnprocessableEntity)

	case errors.Is(err, context.DeadlineExceeded):
		return v1.NewRequestError(errors.New("run exceeded the time limit"), http.StatusServiceUnavailable)

	default:
		return fmt.Errorf("running scenario: %w", err)
	}
}
