package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/orchard/game"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless and write statistics",
		Long: `Run steps the world for run.years_to_run years without a window.

With --output-dir (or telemetry.output_dir) the run writes stats.csv,
perf.csv, genes.csv, death_probability.csv and a config snapshot, plus
stats.arrow and results.db when telemetry.arrow / telemetry.sqlite are set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			w, err := game.NewWorldWithOptions(cfg, worldOptions(cmd, logger))
			if err != nil {
				return err
			}

			sum, runErr := w.Run(cmd.Context())
			closeErr := w.Close()
			printSummary(cmd, sum)
			return errors.Join(runErr, closeErr)
		},
	}
}
