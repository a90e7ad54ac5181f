package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Print the scenario with the overrides applied, as json.",
	RunE:  scenarioRun,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.Flags().Bool("fingerprint", false, "Print only the fingerprint of the scenario.")
}

func scenarioRun(cmd *cobra.Command, args []string) error {
	g, err := loadScenario()
	if err != nil {
		return err
	}

	if viper.GetBool("fingerprint") {
		fmt.Println(g.Fingerprint())
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
