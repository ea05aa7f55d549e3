package game

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/orchard/components"
	"github.com/pthm-cable/orchard/config"
	"github.com/pthm-cable/orchard/store"
	"github.com/pthm-cable/orchard/telemetry"
)

// smallConfig returns a world small enough to step many years in a test.
func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.World.GridSize = 20
	cfg.World.NumTrees = 150
	cfg.World.NumBlobs = 30
	cfg.World.AppleGrowProbability = 0.3
	cfg.Reproduction.MinAge = 3
	cfg.Reproduction.Cooldown = 2
	cfg.Run.YearsToRun = 40
	cfg.Telemetry.OutputDir = ""
	return cfg
}

func newTestWorld(t *testing.T, cfg *config.Config, seed int64) *World {
	t.Helper()
	w, err := NewWorld(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Genetics.AgingThresholds = []int{0, 10}

	_, err := NewWorld(cfg, rand.New(rand.NewSource(1)))
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewWorld error = %v, want ErrInvalid", err)
	}
}

func TestNewWorldInitialState(t *testing.T) {
	cfg := smallConfig()
	w := newTestWorld(t, cfg, 1)

	if got := w.PopulationSize(); got != cfg.World.NumBlobs {
		t.Errorf("population = %d, want %d", got, cfg.World.NumBlobs)
	}
	if w.Grid().TreeCount() == 0 || w.Grid().TreeCount() > cfg.World.NumTrees {
		t.Errorf("tree count = %d, want in (0, %d]", w.Grid().TreeCount(), cfg.World.NumTrees)
	}
	for _, b := range w.Population() {
		if b.Age != 0 || b.Energy != cfg.Energy.InitialEnergy {
			t.Errorf("blob %d: age %d energy %d", b.ID, b.Age, b.Energy)
		}
		if b.HasReproduced() {
			t.Errorf("blob %d starts with a reproduction year", b.ID)
		}
	}
	if w.Year() != 0 || len(w.Stats()) != 0 {
		t.Errorf("fresh world: year %d, %d records", w.Year(), len(w.Stats()))
	}
}

func TestNewWorldDoesNotAliasConfig(t *testing.T) {
	cfg := smallConfig()
	w := newTestWorld(t, cfg, 1)
	cfg.Genetics.AgingThresholds[1] = 1000
	if w.Config().Genetics.AgingThresholds[1] == 1000 {
		t.Error("world shares the caller's config")
	}
}

// A lone blob with one unit of energy and no food starves in year 0.
func TestScenarioStarvation(t *testing.T) {
	cfg := smallConfig()
	cfg.World.NumTrees = 0
	cfg.World.NumBlobs = 1
	cfg.Reproduction.Enabled = false
	cfg.Energy.InitialEnergy = 1
	cfg.Energy.EnergyLossPerStep = 1

	w := newTestWorld(t, cfg, 3)
	w.Step(0)

	if w.PopulationSize() != 0 {
		t.Fatalf("population = %d, want 0", w.PopulationSize())
	}
	stats := w.Stats()
	if len(stats) != 1 {
		t.Fatalf("records = %d, want 1", len(stats))
	}
	got := stats[0]
	if got.Year != 0 || got.AliveCount != 0 || got.DeadFromStarvation != 1 ||
		got.DeadFromOldAge != 0 || got.CumulativeDeaths != 1 {
		t.Errorf("year 0 record = %+v", got)
	}
	if got.AvgAgeAlive != 0 || got.AvgAgeDeadStarvation != 1 {
		t.Errorf("averages = %v / %v, want 0 / 1", got.AvgAgeAlive, got.AvgAgeDeadStarvation)
	}
	if !reflect.DeepEqual(got.DeathAges, telemetry.Ages{1}) {
		t.Errorf("death ages = %v, want [1]", got.DeathAges)
	}
}

// Two mature, co-located blobs produce exactly one child.
func TestScenarioPairReproduces(t *testing.T) {
	cfg := smallConfig()
	cfg.World.GridSize = 10
	cfg.World.NumTrees = 0
	cfg.World.NumBlobs = 2
	cfg.Energy.InitialEnergy = 1000
	cfg.Reproduction.MinAge = 5
	cfg.Reproduction.MaxDistance = 2

	w := newTestWorld(t, cfg, 5)
	for _, b := range w.pop {
		b.X, b.Y = 5, 5
		b.Age = 20
		b.Chromosome = components.NewChromosome(cfg.Genetics.NumGenes) // no lethal genes
	}

	w.Step(0)

	if w.PopulationSize() != 3 {
		t.Fatalf("population = %d, want 3", w.PopulationSize())
	}
	stats := w.Stats()[0]
	if stats.BornThisYear != 1 || stats.CumulativeBirths != 1 {
		t.Errorf("born %d cumulative %d, want 1 and 1", stats.BornThisYear, stats.CumulativeBirths)
	}
	pop := w.Population()
	for _, parent := range pop[:2] {
		if parent.LastReproductionYear != 0 {
			t.Errorf("parent %d last reproduction = %d, want 0", parent.ID, parent.LastReproductionYear)
		}
	}
	child := pop[2]
	if child.Age != 0 || child.Energy != cfg.Reproduction.BirthEnergy {
		t.Errorf("child age %d energy %d", child.Age, child.Energy)
	}
	if child.X != pop[0].X || child.Y != pop[0].Y {
		t.Errorf("child at (%d,%d), want first parent's (%d,%d)", child.X, child.Y, pop[0].X, pop[0].Y)
	}
	if child.ID <= pop[1].ID {
		t.Errorf("child id %d not after parents", child.ID)
	}
	if stats.AliveOriginal != 2 || stats.AliveNewborns != 1 {
		t.Errorf("original %d newborns %d, want 2 and 1", stats.AliveOriginal, stats.AliveNewborns)
	}
}

func TestReproductionDisabled(t *testing.T) {
	cfg := smallConfig()
	cfg.Reproduction.Enabled = false
	cfg.Reproduction.MinAge = 0
	w := newTestWorld(t, cfg, 9)
	for i := 0; i < 10; i++ {
		w.Advance()
	}
	if w.TotalBirths() != 0 {
		t.Errorf("births = %d with reproduction disabled", w.TotalBirths())
	}
}

func TestDeterminism(t *testing.T) {
	run := func() []telemetry.YearStats {
		w := newTestWorld(t, smallConfig(), 1234)
		for i := 0; i < 30; i++ {
			w.Advance()
		}
		return w.Stats()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seed and config produced different statistics")
	}
}

func TestDeterministicCSV(t *testing.T) {
	write := func(dir string) []byte {
		cfg := smallConfig()
		cfg.Run.YearsToRun = 25
		w, err := NewWorldWithOptions(cfg, Options{Seed: 77, OutputDir: dir})
		if err != nil {
			t.Fatalf("NewWorldWithOptions: %v", err)
		}
		if _, err := w.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, telemetry.StatsFile))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a := write(t.TempDir())
	b := write(t.TempDir())
	if string(a) != string(b) {
		t.Error("stats.csv differs between identical runs")
	}
}

// TestYearInvariants checks the bookkeeping that must hold after every year.
func TestYearInvariants(t *testing.T) {
	cfg := smallConfig()
	w := newTestWorld(t, cfg, 42)

	ages := make(map[uint64]int)
	for _, b := range w.Population() {
		ages[b.ID] = b.Age
	}

	runningDeaths := 0
	prevCumulative := 0
	for year := 0; year < cfg.Run.YearsToRun; year++ {
		w.Step(year)
		stats := w.Stats()[year]
		pop := w.Population()

		if stats.AliveCount != len(pop) {
			t.Fatalf("year %d: alive_count %d, population %d", year, stats.AliveCount, len(pop))
		}
		if stats.AliveOriginal+stats.AliveNewborns != stats.AliveCount {
			t.Errorf("year %d: original %d + newborns %d != alive %d",
				year, stats.AliveOriginal, stats.AliveNewborns, stats.AliveCount)
		}

		runningDeaths += stats.DeadFromStarvation + stats.DeadFromOldAge
		if stats.CumulativeDeaths != runningDeaths || stats.CumulativeDeaths < prevCumulative {
			t.Errorf("year %d: cumulative deaths %d, running sum %d, previous %d",
				year, stats.CumulativeDeaths, runningDeaths, prevCumulative)
		}
		prevCumulative = stats.CumulativeDeaths
		if len(stats.DeathAges) != stats.Deaths() {
			t.Errorf("year %d: %d death ages for %d deaths", year, len(stats.DeathAges), stats.Deaths())
		}

		next := make(map[uint64]int, len(pop))
		for _, b := range pop {
			if b.X < 0 || b.X >= cfg.World.GridSize || b.Y < 0 || b.Y >= cfg.World.GridSize {
				t.Fatalf("year %d: blob %d out of bounds at (%d,%d)", year, b.ID, b.X, b.Y)
			}
			if b.Chromosome.Len() != cfg.Genetics.NumGenes {
				t.Fatalf("year %d: blob %d chromosome length %d", year, b.ID, b.Chromosome.Len())
			}
			if prev, ok := ages[b.ID]; ok {
				if b.Age != prev+1 {
					t.Fatalf("year %d: blob %d aged %d -> %d", year, b.ID, prev, b.Age)
				}
			} else if b.Age != 0 {
				t.Fatalf("year %d: newborn %d has age %d", year, b.ID, b.Age)
			}
			next[b.ID] = b.Age
		}
		ages = next

		want := make([]int, cfg.Genetics.NumGenes)
		for _, b := range pop {
			for k := range want {
				if b.Chromosome.Gene(k) {
					want[k]++
				}
			}
		}
		if got := w.GeneDistribution(); !reflect.DeepEqual(got, want) {
			t.Fatalf("year %d: gene distribution %v, want %v", year, got, want)
		}
	}
}

func TestStatsReturnsCopy(t *testing.T) {
	w := newTestWorld(t, smallConfig(), 2)
	w.Advance()
	s := w.Stats()
	s[0].AliveCount = -1
	if w.Stats()[0].AliveCount == -1 {
		t.Error("Stats() exposes the internal log")
	}
}

func TestStatsDeathAgesAreCopied(t *testing.T) {
	cfg := smallConfig()
	cfg.World.NumTrees = 0
	cfg.Energy.InitialEnergy = 1
	cfg.Reproduction.Enabled = false
	w := newTestWorld(t, cfg, 2)
	w.Advance()

	s := w.Stats()
	if len(s[0].DeathAges) == 0 {
		t.Fatal("expected deaths in year 0")
	}
	s[0].DeathAges[0] = 99
	if w.Stats()[0].DeathAges[0] == 99 {
		t.Error("Stats() shares death_ages with the internal log")
	}
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.Run.YearsToRun = 12
	cfg.Telemetry.CSV = true
	cfg.Telemetry.Arrow = true
	cfg.Telemetry.SQLite = true

	var seen []int
	w, err := NewWorldWithOptions(cfg, Options{
		Seed:          11,
		OutputDir:     dir,
		StatsCallback: func(s telemetry.YearStats) { seen = append(seen, s.Year) },
	})
	if err != nil {
		t.Fatalf("NewWorldWithOptions: %v", err)
	}
	sum, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	runID := w.RunID()
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if sum.Years != 12 || len(seen) != 12 || seen[11] != 11 {
		t.Errorf("summary years %d, callback years %v", sum.Years, seen)
	}
	if len(sum.Genes) != cfg.Genetics.NumGenes {
		t.Errorf("gene report rows = %d", len(sum.Genes))
	}

	for _, name := range []string{
		telemetry.StatsFile, telemetry.PerfFile, telemetry.GenesFile,
		telemetry.DeathProbabilityFile, telemetry.ArrowFile, telemetry.ConfigFile,
		store.DefaultFile,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	fromArrow, err := telemetry.ReadArrowStats(filepath.Join(dir, telemetry.ArrowFile))
	if err != nil {
		t.Fatalf("ReadArrowStats: %v", err)
	}
	if len(fromArrow) != 12 {
		t.Errorf("arrow rows = %d, want 12", len(fromArrow))
	}

	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(dir, store.DefaultFile))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	years, err := db.Years(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(years, fromArrow) {
		t.Error("sqlite and arrow outputs disagree")
	}
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if run.Seed != 11 || run.FinishedAt.IsZero() {
		t.Errorf("stored run = %+v", run)
	}
	final, err := db.Genes(ctx, runID, store.PhaseFinal)
	if err != nil {
		t.Fatal(err)
	}
	if len(final) != cfg.Genetics.NumGenes {
		t.Errorf("final gene rows = %d", len(final))
	}
}

func TestRunCancelled(t *testing.T) {
	w := newTestWorld(t, smallConfig(), 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := w.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if sum.Years != 0 {
		t.Errorf("years = %d after cancelled run", sum.Years)
	}
}

// Extinction is bookmarked and snapshotted when snapshots are enabled.
func TestExtinctionSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	cfg.World.NumTrees = 0
	cfg.World.NumBlobs = 3
	cfg.Reproduction.Enabled = false
	cfg.Energy.InitialEnergy = 1
	cfg.Telemetry.Snapshots = true

	w, err := NewWorldWithOptions(cfg, Options{Seed: 5, OutputDir: dir})
	if err != nil {
		t.Fatalf("NewWorldWithOptions: %v", err)
	}
	defer w.Close()
	w.Advance()

	mark, ok := w.LastBookmark()
	if !ok || mark.Type != telemetry.BookmarkExtinction || mark.Year != 0 {
		t.Fatalf("last bookmark = %+v, %v", mark, ok)
	}

	snap, err := telemetry.LoadSnapshot(filepath.Join(dir, telemetry.SnapshotDir, "snapshot_0_extinction.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Year != 0 || snap.Seed != 5 || len(snap.Blobs) != 0 || snap.RunID != w.RunID().String() {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSnapshotCapturesPopulation(t *testing.T) {
	w := newTestWorld(t, smallConfig(), 8)
	w.Advance()
	snap := w.Snapshot(nil)
	if len(snap.Blobs) != w.PopulationSize() || snap.Trees != w.Grid().TreeCount() {
		t.Errorf("snapshot blobs %d trees %d", len(snap.Blobs), snap.Trees)
	}
	for i, b := range w.Blobs() {
		if snap.Blobs[i].ID != b.ID || snap.Blobs[i].Genes != b.Chromosome.String() {
			t.Errorf("blob %d mismatch", i)
		}
	}
}
