package simgrp

import (
	"encoding/json"
	"time"

	"github.com/ardanlabs/minesim/business/core/batch"
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
)

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxTicks   uint64
	MaxRuns    int
	Workers    int
	RunTimeout time.Duration
}

type runResponse struct {
	ID     string       `json:"id"`
	Cached bool         `json:"cached"`
	Result state.Result `json:"result"`
}

type batchRequest struct {
	Scenario json.RawMessage `json:"scenario"`
	Runs     int             `json:"runs" validate:"required,gte=1"`
}

type batchResponse struct {
	ID     string       `json:"id"`
	Report batch.Report `json:"report"`
}

type strategies struct {
	Miners    []string `json:"miners"`
	Selectors []string `json:"selectors"`
}
