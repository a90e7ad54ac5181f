// Package genesis maintains the scenario a simulation run starts from: the
// roster of miners, the block arrival schedule and the economic settings.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/ardanlabs/minesim/foundation/blockchain/miner"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"lukechampine.com/blake3"
)

// Defaults used when a scenario leaves a setting out.
const (
	DefaultTicks           = 20_000
	DefaultBlockReward     = 2_500_000_000
	DefaultCutOffAge       = 10
	DefaultTxOwners        = 100
	DefaultBlacklistChance = .33
	DefaultFeeCutoffMin    = 100_000_000
	DefaultFeeCutoffMax    = 5_000_000_000
	DefaultArrivalMean     = 100
)

// Genesis represents the scenario of one simulation run.
type Genesis struct {
	Seed            int64    `json:"seed"`
	Ticks           uint64   `json:"ticks" validate:"required"`    // Number of ticks the run lasts.
	BlockReward     uint64   `json:"block_reward"`                 // Satoshis paid for each block on the winning chain.
	CutOffAge       int      `json:"cut_off_age" validate:"gte=1"` // How far the checkpoint trails the best block.
	HighTxFees      bool     `json:"high_tx_fees"`                 // Occasionally broadcast very high fee transactions.
	TxOwners        int      `json:"tx_owners" validate:"gte=1"`   // Size of the transaction sender pool.
	BlacklistChance float64  `json:"blacklist_chance" validate:"gte=0,lte=1"`
	FeeCutoffMin    uint64   `json:"fee_cutoff_min"`
	FeeCutoffMax    uint64   `json:"fee_cutoff_max" validate:"gtefield=FeeCutoffMin"`
	ArrivalMean     float64  `json:"arrival_mean" validate:"gte=0"`            // Mean ticks between blocks when no schedule is given.
	MaxBlockTxs     int      `json:"max_block_txs,omitempty" validate:"gte=0"` // Transactions a block may hold, zero for no limit.
	BlockArrivals   []uint64 `json:"block_arrivals,omitempty"`
	Miners          []Miner  `json:"miners" validate:"required,min=1,dive"`
}

// Miner represents one entry of the roster. The index in the roster is the
// miner's identity in the results.
type Miner struct {
	Name            string  `json:"name" validate:"required"`
	Strategy        string  `json:"strategy" validate:"required"`
	HashPower       float64 `json:"hash_power" validate:"gte=0,lte=1"`
	Latency         float64 `json:"latency" validate:"gte=0"`
	ChangingAddress bool    `json:"changing_address,omitempty"`
	Revealing       bool    `json:"revealing,omitempty"`
	FeeCutoff       uint64  `json:"fee_cutoff,omitempty"`                      // Zero draws a random cutoff.
	Selector        string  `json:"selector,omitempty"`                        // Picks the transactions that fit in a block.
	Settings        int     `json:"settings,omitempty" validate:"gte=0,lte=3"` // Legacy encoding of the two flags above.
}

// Default returns the reference scenario: two fee cutoff miners, two feather
// forkers, two selfish miners, a newest and an oldest honest miner and the
// student slot.
func Default() Genesis {
	roster := []struct {
		strategy  string
		hashPower float64
		latency   float64
	}{
		{miner.StrategyFeeCutoff, .1, 10},
		{miner.StrategyFeeCutoff, .1, 12},
		{miner.StrategyFeatherFork, .1, 8},
		{miner.StrategyFeatherFork, .1, 14},
		{miner.StrategySelfish, .15, 5},
		{miner.StrategySelfish, .1, 9},
		{miner.StrategyNewest, .1, 11},
		{miner.StrategyOldest, .1, 7},
		{miner.StrategyStudent, .15, 6},
	}

	g := Genesis{
		Seed:            1,
		Ticks:           DefaultTicks,
		BlockReward:     DefaultBlockReward,
		CutOffAge:       DefaultCutOffAge,
		TxOwners:        DefaultTxOwners,
		BlacklistChance: DefaultBlacklistChance,
		FeeCutoffMin:    DefaultFeeCutoffMin,
		FeeCutoffMax:    DefaultFeeCutoffMax,
		ArrivalMean:     DefaultArrivalMean,
	}

	for i, m := range roster {
		g.Miners = append(g.Miners, Miner{
			Name:      fmt.Sprintf("%s-%d", m.strategy, i),
			Strategy:  m.strategy,
			HashPower: m.hashPower,
			Latency:   m.latency,
		})
	}

	return g
}

// Load opens and consumes the scenario file.
func Load(path string) (Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return Genesis{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a scenario from JSON. Settings left out take the values of
// the reference scenario, an empty roster takes the reference roster.
func Decode(r io.Reader) (Genesis, error) {
	genesis := Default()
	genesis.Miners = nil

	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding scenario: %w", err)
	}

	if len(genesis.Miners) == 0 {
		genesis.Miners = Default().Miners
	}

	// Fold the legacy settings into the flags so equivalent scenarios share
	// a fingerprint.
	for i := range genesis.Miners {
		m := &genesis.Miners[i]
		changing, revealing := Settings(m.Settings)
		m.ChangingAddress = m.ChangingAddress || changing
		m.Revealing = m.Revealing || revealing
		m.Settings = 0
	}

	return genesis, nil
}

// Settings decodes the settings integer of the legacy scenario format: bit
// zero selects a changing address, a value of two or more selects revealing.
func Settings(v int) (changingAddress bool, revealing bool) {
	return v%2 == 1, v >= 2
}

// Arrivals generates a block arrival schedule over the ticks with
// exponentially distributed gaps of the specified mean. Gaps are at least
// one tick so the schedule is strictly increasing.
func Arrivals(rng *rand.Rand, ticks uint64, mean float64) []uint64 {
	if mean <= 0 {
		mean = DefaultArrivalMean
	}

	var arrivals []uint64
	var tick uint64
	for {
		gap := uint64(math.Max(1, math.Round(rng.ExpFloat64()*mean)))
		tick += gap
		if tick >= ticks {
			return arrivals
		}
		arrivals = append(arrivals, tick)
	}
}

// Fingerprint returns the blake3 hash of the scenario's JSON encoding. Two
// scenarios with the same fingerprint produce the same run.
func (g Genesis) Fingerprint() string {
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}

	sum := blake3.Sum256(data)
	return hexutil.Encode(sum[:])
}

// =============================================================================

// Set of errors returned by Validate.
var (
	ErrHashPower = errors.New("hash power does not sum to one")
	ErrArrivals  = errors.New("block arrivals are not strictly increasing")
	ErrCutOffAge = errors.New("cut off age must be at least one")
)

// Validate checks the rules the state depends on: the hash power of the
// roster sums to one, the arrival schedule is strictly increasing, every
// strategy is registered and the cut off age is positive.
func (g Genesis) Validate() error {
	if len(g.Miners) == 0 {
		return errors.New("scenario has no miners")
	}

	var total float64
	for i, m := range g.Miners {
		if m.HashPower < 0 {
			return fmt.Errorf("miner[%d]: negative hash power", i)
		}
		total += m.HashPower

		if _, err := miner.Retrieve(m.Strategy); err != nil {
			return fmt.Errorf("miner[%d]: %w", i, err)
		}
	}

	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("%w: %v", ErrHashPower, total)
	}

	for i := 1; i < len(g.BlockArrivals); i++ {
		if g.BlockArrivals[i] <= g.BlockArrivals[i-1] {
			return fmt.Errorf("%w: index %d", ErrArrivals, i)
		}
	}

	if g.CutOffAge < 1 {
		return fmt.Errorf("%w: %d", ErrCutOffAge, g.CutOffAge)
	}

	if g.MaxBlockTxs < 0 {
		return fmt.Errorf("max block txs is negative: %d", g.MaxBlockTxs)
	}

	if g.FeeCutoffMax < g.FeeCutoffMin {
		return errors.New("fee cutoff max is below fee cutoff min")
	}

	return nil
}
