package game

import (
	"context"
	"path/filepath"

	"github.com/pthm-cable/orchard/telemetry"
)

// bookmarkHistory is the number of years the bookmark detector looks back over.
const bookmarkHistory = 20

// flushTelemetry hands one year's record to every configured sink.
// Sink failures are logged and never stop the simulation.
func (w *World) flushTelemetry(stats telemetry.YearStats) {
	if w.logStats {
		stats.LogStats(w.logger)
	}

	if w.outputManager != nil {
		if err := w.outputManager.WriteStats(stats); err != nil {
			w.logger.Error("failed to write stats", "year", stats.Year, "error", err)
		}
		if (stats.Year+1)%perfWindow == 0 {
			perfStats := w.perf.Stats()
			if err := w.outputManager.WritePerf(perfStats); err != nil {
				w.logger.Error("failed to write perf", "year", stats.Year, "error", err)
			}
			if w.logStats {
				perfStats.LogStats(w.logger)
			}
		}
	}

	if w.results != nil {
		if err := w.results.InsertYear(context.Background(), w.runID, stats); err != nil {
			w.logger.Error("failed to store year", "year", stats.Year, "error", err)
		}
	}

	for _, mark := range w.bookmarks.Check(stats) {
		mark.LogBookmark(w.logger)
		w.lastMark = &mark
		w.saveSnapshot(mark)
	}

	if w.statsCallback != nil {
		w.statsCallback(stats)
	}
}

func (w *World) saveSnapshot(mark telemetry.Bookmark) {
	if !w.cfg.Telemetry.Snapshots || w.outputManager == nil {
		return
	}
	path, err := telemetry.SaveSnapshot(w.Snapshot(&mark), filepath.Join(w.outputManager.Dir(), telemetry.SnapshotDir))
	if err != nil {
		w.logger.Error("failed to save snapshot", "year", mark.Year, "error", err)
		return
	}
	w.logger.Debug("snapshot saved", "path", path)
}
