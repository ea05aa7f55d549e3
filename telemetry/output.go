package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/orchard/config"
)

// Output file names inside a run's output directory.
const (
	StatsFile            = "stats.csv"
	PerfFile             = "perf.csv"
	GenesFile            = "genes.csv"
	DeathProbabilityFile = "death_probability.csv"
	ArrowFile            = "stats.arrow"
	ConfigFile           = "config.yaml"
)

// OutputManager handles structured run output.
type OutputManager struct {
	dir       string
	statsFile *os.File
	perfFile  *os.File
	arrow     *ArrowWriter

	statsHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates the output directory and opens the streaming files.
// Returns nil if dir is empty (output disabled). A nil manager ignores all calls.
func NewOutputManager(dir string, tc config.TelemetryConfig) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	if tc.CSV {
		f, err := os.Create(filepath.Join(dir, StatsFile))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", StatsFile, err)
		}
		om.statsFile = f

		f, err = os.Create(filepath.Join(dir, PerfFile))
		if err != nil {
			om.statsFile.Close()
			return nil, fmt.Errorf("creating %s: %w", PerfFile, err)
		}
		om.perfFile = f
	}

	if tc.Arrow {
		w, err := NewArrowWriter(filepath.Join(dir, ArrowFile))
		if err != nil {
			om.closeFiles()
			return nil, err
		}
		om.arrow = w
	}

	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteStats appends one year to stats.csv and the Arrow batch.
func (om *OutputManager) WriteStats(s YearStats) error {
	if om == nil {
		return nil
	}
	if om.arrow != nil {
		om.arrow.Append(s)
	}
	if om.statsFile == nil {
		return nil
	}
	if err := writeRows(om.statsFile, []YearStats{s}, &om.statsHeaderWritten); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WritePerf appends a timing summary to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	if om == nil || om.perfFile == nil {
		return nil
	}
	if err := writeRows(om.perfFile, []PerfRow{stats.Row()}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteGenes writes the initial/final gene comparison to genes.csv.
func (om *OutputManager) WriteGenes(rows []GeneReport) error {
	if om == nil {
		return nil
	}
	return writeWhole(filepath.Join(om.dir, GenesFile), &rows)
}

// WriteDeathProbability writes the death distribution by age.
func (om *OutputManager) WriteDeathProbability(rows []AgeProbability) error {
	if om == nil {
		return nil
	}
	return writeWhole(filepath.Join(om.dir, DeathProbabilityFile), &rows)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes the Arrow batch and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if om.arrow != nil {
		if err := om.arrow.Close(); err != nil {
			firstErr = err
		}
		om.arrow = nil
	}
	if err := om.closeFiles(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (om *OutputManager) closeFiles() error {
	var firstErr error
	for _, f := range []*os.File{om.statsFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	om.statsFile, om.perfFile = nil, nil
	return firstErr
}

// writeRows marshals rows, with headers only on the first call.
func writeRows(f *os.File, rows any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

func writeWhole(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// ReadStatsCSV loads a stats.csv file.
func ReadStatsCSV(path string) ([]YearStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []YearStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}
