package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario once and print the revenue of every miner.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("trace", false, "Log every event of the run.")
	runCmd.Flags().Bool("json", false, "Print the result as json.")
}

func runRun(cmd *cobra.Command, args []string) error {
	g, err := loadScenario()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	var ev state.EventHandler
	if viper.GetBool("trace") {
		ev = func(v string, args ...any) {
			log.Infow(fmt.Sprintf(v, args...), "seed", g.Seed)
		}
	}

	st, err := state.New(state.Config{
		Genesis:   g,
		EvHandler: ev,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := st.Run(ctx)
	if err != nil {
		return err
	}
	log.Infow("run", "seed", g.Seed, "ticks", g.Ticks, "height", res.Height, "duration", time.Since(start).String())

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer w.Flush()

	fmt.Fprintln(w, "MINER\tSTRATEGY\tPOWER\tFOUND\tON CHAIN\tREVENUE BTC\t")
	for i, m := range g.Miners {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%d\t%s\t\n", res.Names[i], m.Strategy, m.HashPower, res.BlocksFound[i], res.BlocksOnChain[i], btc(float64(res.Revenue[i])))
	}

	return nil
}
