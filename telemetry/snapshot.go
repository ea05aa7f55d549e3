package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/orchard/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// SnapshotDir is the subdirectory of the output directory snapshots go to.
const SnapshotDir = "snapshots"

// Snapshot records the population at the end of one year.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`

	Year     int `json:"year"`
	GridSize int `json:"grid_size"`
	Trees    int `json:"trees"`
	Apples   int `json:"apples"`

	Blobs []BlobState `json:"blobs"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BlobState holds one blob's complete state.
type BlobState struct {
	ID                   uint64 `json:"id"`
	X                    int    `json:"x"`
	Y                    int    `json:"y"`
	Age                  int    `json:"age"`
	Energy               int    `json:"energy"`
	LastReproductionYear *int   `json:"last_reproduction_year,omitempty"` // nil = never
	Genes                string `json:"genes"`
}

// NewBlobState captures b.
func NewBlobState(b *components.Blob) BlobState {
	s := BlobState{
		ID:     b.ID,
		X:      b.X,
		Y:      b.Y,
		Age:    b.Age,
		Energy: b.Energy,
		Genes:  b.Chromosome.String(),
	}
	if b.HasReproduced() {
		year := b.LastReproductionYear
		s.LastReproductionYear = &year
	}
	return s
}

// SaveSnapshot writes a snapshot under dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Year)
	if snapshot.Bookmark != nil {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Year, snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
