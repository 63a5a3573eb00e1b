// Package cli implements the forge command surface. The loop itself neither
// prints nor persists anything; everything user-facing lives here.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Generate data-extraction parsers with an LLM-driven correction loop",
	Long: `Forge generates a parser for a target document format by asking a code
oracle for candidates, validating each one against a ground-truth fixture,
and feeding structured failure evidence back until a candidate passes or
the attempt budget runs out.`,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("forge version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
