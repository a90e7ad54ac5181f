package simgrp

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps the results of recent runs keyed by the fingerprint of their
// scenario. A run is deterministic for its scenario, so a cached result is
// as good as running it again.
type Cache struct {
	lru *lru.Cache[string, state.Result]
}

// NewCache constructs a cache holding up to size results.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, state.Result](size)
	if err != nil {
		return nil, err
	}

	return &Cache{lru: c}, nil
}

// Get returns the result of the run with the specified id.
func (c *Cache) Get(id string) (state.Result, bool) {
	return c.lru.Get(id)
}

// Add stores the result of a run.
func (c *Cache) Add(id string, res state.Result) {
	c.lru.Add(id, res)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.lru.Len()
}
