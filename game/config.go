package game

import (
	"log/slog"

	"github.com/pthm-cable/orchard/telemetry"
)

// Options configures the ambient side of a world: seeding, logging and
// where statistics go. The simulation parameters live in config.Config.
type Options struct {
	// Seed overrides run.seed when non-zero. Both zero means time-based.
	Seed int64

	Logger *slog.Logger

	// LogStats logs every year's record and the perf summary.
	LogStats bool

	// OutputDir overrides telemetry.output_dir when non-empty.
	OutputDir string

	// StatsCallback is called with each year's record after it is written.
	StatsCallback func(telemetry.YearStats)
}

// perfWindow is the number of years averaged per perf.csv row.
const perfWindow = 10
