package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/orchard/game"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch the simulation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if yps, _ := cmd.Flags().GetFloat64("years-per-second"); yps > 0 {
				cfg.Screen.YearsPerSecond = yps
			}
			w, err := game.NewWorldWithOptions(cfg, worldOptions(cmd, logger))
			if err != nil {
				return err
			}

			sum, runErr := game.NewViewer(w).Run(cmd.Context())
			closeErr := w.Close()
			printSummary(cmd, sum)
			return errors.Join(runErr, closeErr)
		},
	}
	cmd.Flags().Float64("years-per-second", 0, "Initial playback speed (0 = screen.years_per_second)")
	return cmd
}
