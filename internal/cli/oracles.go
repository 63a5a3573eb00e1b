package cli

import (
	"github.com/spf13/cobra"
	"github.com/tabular-agents/forge/forge"
	"github.com/tabular-agents/forge/observability"
)

var oraclesConfigFile string

var oraclesCmd = &cobra.Command{
	Use:   "oracles",
	Short: "List the configured oracles",
	Args:  cobra.NoArgs,
	RunE:  runOracles,
}

func init() {
	oraclesCmd.Flags().StringVar(&oraclesConfigFile, "config", "", "Path to forge config JSON file")
	rootCmd.AddCommand(oraclesCmd)
}

func runOracles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(oraclesConfigFile)
	if err != nil {
		return err
	}

	f, err := forge.New(cfg, forge.WithObserver(observability.NoOpObserver{}))
	if err != nil {
		return err
	}

	for _, name := range f.Registry().List() {
		cmd.Println(name)
	}
	return nil
}
