package telemetry

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/orchard/config"
)

func sampleStats() []YearStats {
	return []YearStats{
		{Year: 0, AliveCount: 3, AliveOriginal: 3, DeadFromStarvation: 1, CumulativeDeaths: 1,
			AvgAgeAlive: 1, AvgAgeDeadStarvation: 1, DeathAges: Ages{1}},
		{Year: 1, AliveCount: 4, AliveOriginal: 3, AliveNewborns: 1, CumulativeDeaths: 1,
			BornThisYear: 1, CumulativeBirths: 1, AvgAgeAlive: 1.5, DeathAges: Ages{}},
	}
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", config.TelemetryConfig{CSV: true})
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil manager is a no-op
	if err := om.WriteStats(YearStats{}); err != nil {
		t.Errorf("nil WriteStats: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerStatsCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, config.TelemetryConfig{CSV: true})
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	for _, s := range sampleStats() {
		if err := om.WriteStats(s); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, StatsFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "year,alive_count,alive_original") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "death_ages") {
		t.Errorf("header should end with death_ages: %q", lines[0])
	}

	got, err := ReadStatsCSV(filepath.Join(dir, StatsFile))
	if err != nil {
		t.Fatalf("ReadStatsCSV: %v", err)
	}
	if !reflect.DeepEqual(got, sampleStats()) {
		t.Errorf("read back\n%+v\nwant\n%+v", got, sampleStats())
	}
}

func TestOutputManagerArrow(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, config.TelemetryConfig{Arrow: true})
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	for _, s := range sampleStats() {
		if err := om.WriteStats(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, StatsFile)); !os.IsNotExist(err) {
		t.Error("stats.csv should not be written when csv is off")
	}

	got, err := ReadArrowStats(filepath.Join(dir, ArrowFile))
	if err != nil {
		t.Fatalf("ReadArrowStats: %v", err)
	}
	if !reflect.DeepEqual(got, sampleStats()) {
		t.Errorf("arrow read back\n%+v\nwant\n%+v", got, sampleStats())
	}
}

func TestOutputManagerSummaryFiles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, config.TelemetryConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.WriteGenes(CompareGenes([]int{1, 2}, 2, []int{0, 1}, 1)); err != nil {
		t.Fatalf("WriteGenes: %v", err)
	}
	if err := om.WriteDeathProbability(DeathProbability([]int{1, 1, 2})); err != nil {
		t.Fatalf("WriteDeathProbability: %v", err)
	}

	genes, err := os.ReadFile(filepath.Join(dir, GenesFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(genes), "gene,initial_count,initial_share,final_count,final_share") {
		t.Errorf("unexpected genes.csv header: %q", genes)
	}
	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DeathProbabilityFile)); err != nil {
		t.Errorf("death probability file missing: %v", err)
	}
}
