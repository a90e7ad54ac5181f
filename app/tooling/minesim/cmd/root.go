// Package cmd contains the minesim command line tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ardanlabs/minesim/business/sys/validate"
	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
	"github.com/ardanlabs/minesim/foundation/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// satoshis per bitcoin, for display.
const satoshis = 1e8

var rootCmd = &cobra.Command{
	Use:   "minesim",
	Short: "Simulates a network of miners competing for block rewards and fees.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("MINESIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringP("scenario", "s", "", "Path to a scenario file, the reference scenario when empty.")
	rootCmd.PersistentFlags().Int64("seed", 0, "Overrides the seed of the scenario.")
	rootCmd.PersistentFlags().Uint64P("ticks", "t", 0, "Overrides the number of ticks of the scenario.")
	rootCmd.PersistentFlags().Bool("high-fees", false, "Occasionally broadcast very high fee transactions.")
	rootCmd.PersistentFlags().Int("max-block-txs", 0, "Overrides the transactions a block may hold, zero for no limit.")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario loads the configured scenario and applies the overrides from
// the flags and the environment.
func loadScenario() (genesis.Genesis, error) {
	g := genesis.Default()

	if path := viper.GetString("scenario"); path != "" {
		var err error
		if g, err = genesis.Load(path); err != nil {
			return genesis.Genesis{}, err
		}
	}

	if viper.IsSet("seed") {
		g.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("ticks") {
		g.Ticks = viper.GetUint64("ticks")
	}
	if viper.IsSet("high-fees") {
		g.HighTxFees = viper.GetBool("high-fees")
	}
	if viper.IsSet("max-block-txs") {
		g.MaxBlockTxs = viper.GetInt("max-block-txs")
	}

	if err := validate.Check(g); err != nil {
		return genesis.Genesis{}, fmt.Errorf("checking scenario: %w", err)
	}
	if err := g.Validate(); err != nil {
		return genesis.Genesis{}, fmt.Errorf("validating scenario: %w", err)
	}

	return g, nil
}

// newLogger writes to stderr so tables on stdout stay clean.
func newLogger() (*zap.SugaredLogger, error) {
	return logger.New("MINESIM", "stderr")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func btc(sat float64) string {
	return fmt.Sprintf("%.8f", sat/satoshis)
}
