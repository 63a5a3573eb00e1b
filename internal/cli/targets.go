package cli

import (
	"github.com/spf13/cobra"
	"github.com/tabular-agents/forge/fixture"
)

var targetsConfigFile string

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List targets under the fixture root",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsConfigFile, "config", "", "Path to forge config JSON file")
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(targetsConfigFile)
	if err != nil {
		return err
	}

	targets, err := fixture.NewFileProvider(cfg.FixtureRoot).List()
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		cmd.Println("no targets found")
		return nil
	}
	for _, t := range targets {
		cmd.Println(t)
	}
	return nil
}
