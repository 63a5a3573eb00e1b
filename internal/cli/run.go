package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tabular-agents/forge/forge"
	"github.com/tabular-agents/forge/observability"
)

var runFlags struct {
	configFile  string
	oracleName  string
	maxAttempts int
	out         string
	verbose     bool
}

var runCmd = &cobra.Command{
	Use:   "run --target <id>",
	Short: "Run one generation session for a target",
	Long: `Runs the generate/validate/correct loop for a single target and prints the
outcome. With --out, the successful parser is written to the given path.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var runTarget string

func init() {
	runCmd.Flags().StringVar(&runTarget, "target", "", "Target ID under the fixture root (required)")
	runCmd.Flags().StringVar(&runFlags.configFile, "config", "", "Path to forge config JSON file")
	runCmd.Flags().StringVar(&runFlags.oracleName, "oracle", "", "Named oracle from the config's oracles section")
	runCmd.Flags().IntVar(&runFlags.maxAttempts, "max-attempts", 0, "Attempt budget (overrides config)")
	runCmd.Flags().StringVar(&runFlags.out, "out", "", "Write the successful parser to this path")
	runCmd.Flags().BoolVar(&runFlags.verbose, "verbose", false, "Enable verbose logging to stderr")
	runCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runFlags.configFile)
	if err != nil {
		return err
	}
	if runFlags.oracleName != "" {
		cfg.OracleName = runFlags.oracleName
	}
	if runFlags.maxAttempts > 0 {
		cfg.MaxAttempts = runFlags.maxAttempts
	}
	if key := os.Getenv("FORGE_API_KEY"); key != "" && cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = key
	}

	level := slog.LevelInfo
	if runFlags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	f, err := forge.New(cfg, forge.WithObserver(observability.NewSlogObserver(logger)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := f.Run(ctx, runTarget)
	printSummary(cmd, result)

	switch {
	case err == nil:
		if runFlags.out != "" {
			if werr := os.WriteFile(runFlags.out, []byte(result.Candidate), 0o644); werr != nil {
				return fmt.Errorf("write parser: %w", werr)
			}
			cmd.Printf("parser written to %s\n", runFlags.out)
		}
		return nil
	case errors.Is(err, forge.ErrAttemptsExhausted):
		return fmt.Errorf("no working parser after %d attempts", result.Attempts)
	default:
		return err
	}
}

func printSummary(cmd *cobra.Command, result *forge.Result) {
	if result == nil {
		return
	}
	cmd.Printf("target:   %s\n", result.TargetID)
	cmd.Printf("status:   %s\n", result.Status)
	cmd.Printf("attempts: %d\n", result.Attempts)
	if result.Category != "" {
		cmd.Printf("failure:  %s\n", result.Category)
	}
	if result.Verdict != nil && result.Verdict.Delta != nil {
		cmd.Printf("delta:    %s\n", result.Verdict.Delta.Describe(3))
	}
}

func loadConfig(path string) (*forge.Config, error) {
	if path == "" {
		cfg := forge.DefaultConfig()
		return &cfg, nil
	}
	return forge.LoadConfig(path)
}
