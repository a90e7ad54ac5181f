// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/minesim/app/services/node/handlers/v1/simgrp"
	"github.com/ardanlabs/minesim/business/sys/metrics"
	"github.com/ardanlabs/minesim/foundation/events"
	"github.com/ardanlabs/minesim/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Evts    *events.Events
	Cache   *simgrp.Cache
	Limits  simgrp.Limits
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	sgh := simgrp.Handlers{
		Log:     cfg.Log,
		Metrics: cfg.Metrics,
		Evts:    cfg.Evts,
		Cache:   cfg.Cache,
		Limits:  cfg.Limits,
		WS:      websocket.Upgrader{},
	}

	app.Handle(http.MethodGet, version, "/events", sgh.Events)
	app.Handle(http.MethodGet, version, "/sim/default", sgh.Default)
	app.Handle(http.MethodGet, version, "/sim/strategies", sgh.Strategies)
	app.Handle(http.MethodGet, version, "/sim/runs/:id", sgh.QueryRun)
	app.Handle(http.MethodPost, version, "/sim/run", sgh.Run)
	app.Handle(http.MethodPost, version, "/sim/batch", sgh.Batch)
}
