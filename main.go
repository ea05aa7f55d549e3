// Command orchard runs the orchard foraging and aging simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/orchard/config"
	"github.com/pthm-cable/orchard/game"
	"github.com/pthm-cable/orchard/logging"
)

// Exit codes.
const (
	exitOK = iota
	exitError
	exitInvalidConfig
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalid):
		return exitInvalidConfig
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orchard",
		Short: "Blobs foraging apples on a grid, aging under a genetic clock",
		Long: `orchard simulates blobs that wander a grid of apple trees, eat to stay
alive, breed with nearby partners and die of starvation or of genes that
switch on with age. Each year produces one statistics record.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config YAML merged over the defaults")
	rootCmd.PersistentFlags().Int64("seed", 0, "RNG seed (0 = run.seed, then time-based)")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for stats, config snapshot and results")
	rootCmd.PersistentFlags().Bool("log-stats", false, "Log every year's statistics")
	rootCmd.PersistentFlags().Int("years", -1, "Years to run (-1 = run.years_to_run)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error; empty = log.level)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, text; empty = log.format)")

	rootCmd.AddCommand(
		newRunCmd(),
		newViewCmd(),
		newServeCmd(),
		newDefaultsCmd(),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if years, _ := cmd.Flags().GetInt("years"); years >= 0 {
		cfg.Run.YearsToRun = years
	}
	if logStats, _ := cmd.Flags().GetBool("log-stats"); logStats {
		cfg.Telemetry.LogStats = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.Log.Level
	}
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = cfg.Log.Format
	}
	logger := logging.NewLogger(level, format, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// worldOptions reads the per-run flags into game.Options.
func worldOptions(cmd *cobra.Command, logger *slog.Logger) game.Options {
	seed, _ := cmd.Flags().GetInt64("seed")
	dir, _ := cmd.Flags().GetString("output-dir")
	return game.Options{
		Seed:      seed,
		Logger:    logger,
		OutputDir: dir,
	}
}

func printSummary(cmd *cobra.Command, sum game.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s (seed %d): %d years, population %d, births %d, deaths %d\n",
		sum.RunID, sum.Seed, sum.Years, sum.FinalPopulation, sum.TotalBirths, sum.TotalDeaths)
	for _, g := range sum.Genes {
		fmt.Fprintf(out, "  gene %2d: %5.1f%% -> %5.1f%%\n", g.Gene, g.InitialShare, g.FinalShare)
	}
}
