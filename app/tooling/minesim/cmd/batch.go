package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ardanlabs/minesim/business/core/batch"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the scenario over consecutive seeds and summarise the revenue.",
	RunE:  batchRun,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("runs", "r", 100, "Number of runs, one seed each.")
	batchCmd.Flags().IntP("workers", "w", 0, "Runs executed concurrently, every cpu when zero.")
	batchCmd.Flags().Bool("json", false, "Print the report as json.")
}

func batchRun(cmd *cobra.Command, args []string) error {
	g, err := loadScenario()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	runs := viper.GetInt("runs")

	bar := progressbar.NewOptions(
		runs,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Simulating..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if err := bar.RenderBlank(); err != nil {
		return fmt.Errorf("failed to render progress bar: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := batch.Run(ctx, batch.Config{
		Genesis: g,
		Runs:    runs,
		Workers: viper.GetInt("workers"),
		Progress: func(seed int64, err error) {
			if err != nil {
				log.Warnw("batch", "seed", seed, "ERROR", err)
			}
			bar.Add(1)
		},
	})
	if err != nil {
		return err
	}
	bar.Finish()

	log.Infow("batch", "runs", report.Runs, "completed", report.Completed, "violations", len(report.Violations))

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer w.Flush()

	fmt.Fprintln(w, "MINER\tSTRATEGY\tPOWER\tMEAN BTC\tSTDDEV\tMEDIAN\tP90\tSHARE\tADVANTAGE\t")
	for _, s := range report.Miners {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\t%s\t%.4f\t%+.4f\t\n",
			s.Name, s.Strategy, s.HashPower, btc(s.Mean), btc(s.StdDev), btc(s.Median), btc(s.P90), s.Share, s.Advantage())
	}

	return nil
}
