// Package game owns the world: the grid, the population and the yearly cycle.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/orchard/components"
	"github.com/pthm-cable/orchard/config"
	"github.com/pthm-cable/orchard/store"
	"github.com/pthm-cable/orchard/systems"
	"github.com/pthm-cable/orchard/telemetry"
)

// World holds the complete simulation state.
type World struct {
	cfg    *config.Config
	rules  *systems.Rules
	rng    *rand.Rand
	logger *slog.Logger

	grid *systems.Grid
	pop  []*components.Blob // order is significant for reproduction

	year        int // next year Advance will step
	totalBirths int
	nextID      uint64

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	lastMark  *telemetry.Bookmark

	// Run identity and outputs; all optional
	runID         uuid.UUID
	seed          int64
	logStats      bool
	statsCallback func(telemetry.YearStats)
	outputManager *telemetry.OutputManager
	results       *store.SQLiteStore

	initialGenes []int
	initialTotal int
	finished     bool
}

// NewWorld validates cfg and builds a world driven by rng.
// No files are written; see NewWorldWithOptions for a full run.
func NewWorld(cfg *config.Config, rng *rand.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	w := &World{
		cfg:       cfg,
		rules:     systems.NewRules(cfg),
		rng:       rng,
		logger:    slog.Default(),
		grid:      systems.NewGrid(cfg.World.GridSize),
		pop:       make([]*components.Blob, 0, cfg.World.NumBlobs),
		collector: telemetry.NewCollector(),
		perf:      telemetry.NewPerfCollector(perfWindow),
		bookmarks: telemetry.NewBookmarkDetector(bookmarkHistory),
		runID:     uuid.New(),
	}
	w.spawnInitialPopulation()

	w.initialGenes = w.GeneDistribution()
	w.initialTotal = len(w.pop)
	return w, nil
}

// NewWorldWithOptions builds a world seeded from cfg/opts and opens the
// configured outputs (CSV, Arrow, SQLite) under the output directory.
func NewWorldWithOptions(cfg *config.Config, opts Options) (*World, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Run.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w, err := NewWorld(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	w.seed = seed
	w.logStats = opts.LogStats || cfg.Telemetry.LogStats
	w.statsCallback = opts.StatsCallback
	if opts.Logger != nil {
		w.logger = opts.Logger
	}
	w.logger = w.logger.With("run_id", w.runID.String())

	dir := opts.OutputDir
	if dir == "" {
		dir = w.cfg.Telemetry.OutputDir
	}
	if err := w.openOutputs(dir); err != nil {
		w.Close()
		return nil, err
	}

	w.logger.Info("world created",
		"seed", seed,
		"grid_size", w.cfg.World.GridSize,
		"trees", w.grid.TreeCount(),
		"blobs", len(w.pop),
		"reproduction", w.cfg.Reproduction.Enabled,
		"output_dir", dir,
	)
	return w, nil
}

func (w *World) openOutputs(dir string) error {
	om, err := telemetry.NewOutputManager(dir, w.cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("opening outputs: %w", err)
	}
	w.outputManager = om
	if om == nil {
		return nil
	}
	if err := om.WriteConfig(w.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	if !w.cfg.Telemetry.SQLite {
		return nil
	}
	ctx := context.Background()
	results, err := store.Open(ctx, filepath.Join(om.Dir(), store.DefaultFile))
	if err != nil {
		return err
	}
	w.results = results

	cfgYAML, err := w.cfg.Marshal()
	if err != nil {
		return err
	}
	if err := results.BeginRun(ctx, store.Run{
		ID:         w.runID,
		Seed:       w.seed,
		ConfigYAML: string(cfgYAML),
		StartedAt:  time.Now(),
	}); err != nil {
		return err
	}
	return results.InsertGenes(ctx, w.runID, store.PhaseInitial, w.initialGenes, w.initialTotal)
}

// Step advances the world through one year.
//
// Phases run strictly in order: apple growth, each blob's step over the
// population as it stood at the start of the year, replacement of the
// population by the survivors, the reproduction pass, integration of the
// newborns, and the statistics record.
func (w *World) Step(year int) {
	w.perf.StartYear(year, len(w.pop))

	w.perf.StartPhase(telemetry.PhaseGrowth)
	w.grid.GrowApples(w.rules.AppleGrowProbability, w.rng)

	w.perf.StartPhase(telemetry.PhaseResolution)
	alive := make([]*components.Blob, 0, len(w.pop))
	var starved, agedOut []*components.Blob
	for _, b := range w.pop {
		switch systems.Step(b, w.grid, w.rules, w.rng) {
		case components.Starved:
			starved = append(starved, b)
		case components.AgedOut:
			agedOut = append(agedOut, b)
		default:
			alive = append(alive, b)
		}
	}

	w.perf.StartPhase(telemetry.PhaseReplacement)
	w.pop = alive

	w.perf.StartPhase(telemetry.PhaseReproduction)
	born := 0
	if w.cfg.Reproduction.Enabled {
		pairings := systems.PairingPass(w.pop, year, w.rules, w.rng)
		for _, p := range pairings {
			p.Child.ID = w.nextBlobID()
			w.pop = append(w.pop, p.Child)
		}
		born = len(pairings)
		w.totalBirths += born
	}

	w.perf.StartPhase(telemetry.PhaseStatistics)
	stats := w.collector.Record(telemetry.YearInput{
		Year:             year,
		Population:       w.pop,
		Starved:          starved,
		AgedOut:          agedOut,
		Born:             born,
		CumulativeBirths: w.totalBirths,
	})
	w.perf.EndYear()

	w.year = year + 1
	w.flushTelemetry(stats)
}

// Advance steps the next year in sequence.
func (w *World) Advance() {
	w.Step(w.year)
}

// Year returns the year Advance will step next.
func (w *World) Year() int {
	return w.year
}

// Stats returns a copy of the statistics log, one record per stepped year.
func (w *World) Stats() []telemetry.YearStats {
	return w.collector.Records()
}

// LastStats returns the most recent record, if any.
func (w *World) LastStats() (telemetry.YearStats, bool) {
	return w.collector.Last()
}

// GeneDistribution counts, per gene, the blobs that carry it switched on.
func (w *World) GeneDistribution() []int {
	return telemetry.CountGenes(w.pop, w.cfg.Genetics.NumGenes)
}

// InitialGeneDistribution returns the gene counts at world creation and the
// population size they were counted over.
func (w *World) InitialGeneDistribution() ([]int, int) {
	return append([]int(nil), w.initialGenes...), w.initialTotal
}

// Population returns a copy of the live blobs in population order.
func (w *World) Population() []components.Blob {
	out := make([]components.Blob, len(w.pop))
	for i, b := range w.pop {
		out[i] = *b
	}
	return out
}

// PopulationSize returns the number of live blobs.
func (w *World) PopulationSize() int {
	return len(w.pop)
}

// TotalBirths returns the cumulative number of births.
func (w *World) TotalBirths() int {
	return w.totalBirths
}

// Grid exposes the grid for read-only use by the viewer.
func (w *World) Grid() *systems.Grid {
	return w.grid
}

// Config returns the world's configuration. Callers must not modify it.
func (w *World) Config() *config.Config {
	return w.cfg
}

// RunID returns the identifier recorded with every output of this world.
func (w *World) RunID() uuid.UUID {
	return w.runID
}

// Seed returns the seed the world was built from, or 0 when the caller
// supplied its own generator.
func (w *World) Seed() int64 {
	return w.seed
}

// Perf returns the timing summary over the recent years.
func (w *World) Perf() telemetry.PerfStats {
	return w.perf.Stats()
}

// RecordFrame feeds frame timing from the viewer into the perf collector.
func (w *World) RecordFrame() {
	w.perf.RecordFrame()
}

// LastBookmark returns the most recent notable event, if any.
func (w *World) LastBookmark() (telemetry.Bookmark, bool) {
	if w.lastMark == nil {
		return telemetry.Bookmark{}, false
	}
	return *w.lastMark, true
}

// Snapshot captures the population as it stands now.
func (w *World) Snapshot(mark *telemetry.Bookmark) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RunID:    w.runID.String(),
		Seed:     w.seed,
		Year:     w.year - 1,
		GridSize: w.grid.Size(),
		Trees:    w.grid.TreeCount(),
		Apples:   w.grid.AppleCount(),
		Blobs:    make([]telemetry.BlobState, len(w.pop)),
		Bookmark: mark,
	}
	for i, b := range w.pop {
		s.Blobs[i] = telemetry.NewBlobState(b)
	}
	return s
}

// Blobs returns the live population in order. The viewer reads it between
// years; callers must not modify the slice or the blobs.
func (w *World) Blobs() []*components.Blob {
	return w.pop
}

// Done reports whether run.years_to_run years have been stepped.
func (w *World) Done() bool {
	return w.year >= w.cfg.Run.YearsToRun
}
