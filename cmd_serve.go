package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/orchard/game"
	"github.com/pthm-cable/orchard/stream"
	"github.com/pthm-cable/orchard/telemetry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and stream yearly statistics over a websocket",
		Long: `Serve runs the world and broadcasts each year's statistics as JSON to
clients connected at ws://<addr>/ws. A client first receives a config
message, then every year recorded so far. The server keeps running after
the last year until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Stream.Addr
			}
			yps, _ := cmd.Flags().GetFloat64("years-per-second")

			var hub *stream.Hub
			opts := worldOptions(cmd, logger)
			opts.StatsCallback = func(s telemetry.YearStats) { hub.PublishYear(s) }
			w, err := game.NewWorldWithOptions(cfg, opts)
			if err != nil {
				return err
			}
			defer w.Close()

			cfgYAML, err := w.Config().Marshal()
			if err != nil {
				return err
			}
			hub = stream.NewHub(stream.Hello{
				RunID:      w.RunID().String(),
				Seed:       w.Seed(),
				GridSize:   cfg.World.GridSize,
				YearsToRun: cfg.Run.YearsToRun,
				ConfigYAML: string(cfgYAML),
			}, logger)

			ln, err := stream.Listen(addr)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			served := make(chan error, 1)
			go func() { served <- stream.Serve(ctx, ln, hub) }()
			logger.Info("streaming", "url", "ws://"+ln.Addr().String()+"/ws")

			sum, runErr := runPaced(ctx, w, yps)
			hub.PublishSummary(sum)
			printSummary(cmd, sum)

			if runErr == nil {
				<-ctx.Done()
			}
			cancel()
			return errors.Join(runErr, <-served)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (empty = stream.addr)")
	cmd.Flags().Float64("years-per-second", 2, "Stepping rate (0 = as fast as possible)")
	return cmd
}

// runPaced steps w at most yearsPerSecond years per second.
func runPaced(ctx context.Context, w *game.World, yearsPerSecond float64) (game.Summary, error) {
	if yearsPerSecond <= 0 {
		return w.Run(ctx)
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / yearsPerSecond))
	defer ticker.Stop()
	for !w.Done() {
		select {
		case <-ctx.Done():
			sum, err := w.Finish(context.WithoutCancel(ctx))
			return sum, errors.Join(ctx.Err(), err)
		case <-ticker.C:
			w.Advance()
		}
	}
	return w.Finish(ctx)
}
