package batch

import (
	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	"github.com/montanaflynn/stats"
)

// Summary represents the revenue statistics of one miner across the
// completed runs of a batch. Revenue figures are in satoshis.
type Summary struct {
	Name      string  `json:"name"`
	Strategy  string  `json:"strategy"`
	HashPower float64 `json:"hash_power"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	P90       float64 `json:"p90"`
	Share     float64 `json:"share"` // Mean fraction of the total revenue of a run.
}

// Advantage returns how much the miner's revenue share exceeds its share of
// the hash power. Honest mining is incentive compatible when no strategy has
// a positive advantage.
func (s Summary) Advantage() float64 {
	return s.Share - s.HashPower
}

// summarise computes the statistics for every miner of the roster.
func summarise(g genesis.Genesis, results []state.Result) []Summary {
	summaries := make([]Summary, len(g.Miners))

	for i, m := range g.Miners {
		revenue := make(stats.Float64Data, 0, len(results))
		share := make(stats.Float64Data, 0, len(results))

		for _, res := range results {
			revenue = append(revenue, float64(res.Revenue[i]))

			var total uint64
			for _, v := range res.Revenue {
				total += v
			}
			if total > 0 {
				share = append(share, float64(res.Revenue[i])/float64(total))
			}
		}

		s := Summary{
			Name:      m.Name,
			Strategy:  m.Strategy,
			HashPower: m.HashPower,
		}

		// Every stats function fails only on empty input, which leaves the
		// zero value in place.
		s.Mean, _ = revenue.Mean()
		s.StdDev, _ = revenue.StandardDeviation()
		s.Median, _ = revenue.Median()
		s.Min, _ = revenue.Min()
		s.Max, _ = revenue.Max()
		s.P90, _ = revenue.Percentile(90)
		s.Share, _ = share.Mean()

		summaries[i] = s
	}

	return summaries
}
