// Package store persists simulation runs in a SQLite results database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pthm-cable/orchard/telemetry"
)

// DefaultFile is the results database name inside an output directory.
const DefaultFile = "results.db"

// Gene distribution phases.
const (
	PhaseInitial = "initial"
	PhaseFinal   = "final"
)

// Run describes one simulation run.
type Run struct {
	ID         uuid.UUID
	Seed       int64
	ConfigYAML string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Years      int
}

// SQLiteStore writes run results to a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// BeginRun inserts the run row.
func (s *SQLiteStore) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, config_yaml, started_at) VALUES (?, ?, ?, ?)`,
		run.ID.String(), run.Seed, run.ConfigYAML, run.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// InsertYear stores one year record and its death ages in a transaction.
func (s *SQLiteStore) InsertYear(ctx context.Context, runID uuid.UUID, ys telemetry.YearStats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := runID.String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO years (
			run_id, year, alive_count, alive_original, alive_newborns,
			dead_from_starvation, dead_from_old_age, cumulative_deaths,
			born_this_year, cumulative_births,
			avg_age_alive, avg_age_dead_starvation, avg_age_dead_old_age
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ys.Year, ys.AliveCount, ys.AliveOriginal, ys.AliveNewborns,
		ys.DeadFromStarvation, ys.DeadFromOldAge, ys.CumulativeDeaths,
		ys.BornThisYear, ys.CumulativeBirths,
		ys.AvgAgeAlive, ys.AvgAgeDeadStarvation, ys.AvgAgeDeadOldAge,
	); err != nil {
		return fmt.Errorf("failed to insert year %d: %w", ys.Year, err)
	}

	if len(ys.DeathAges) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO death_ages (run_id, year, seq, age) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare death ages: %w", err)
		}
		defer stmt.Close()
		for i, age := range ys.DeathAges {
			if _, err := stmt.ExecContext(ctx, id, ys.Year, i, age); err != nil {
				return fmt.Errorf("failed to insert death age: %w", err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET years = years + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return tx.Commit()
}

// InsertGenes stores a gene distribution snapshot for phase.
func (s *SQLiteStore) InsertGenes(ctx context.Context, runID uuid.UUID, phase string, counts []int, total int) error {
	shares := telemetry.GeneShares(counts, total)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for gene, count := range counts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO gene_distribution (run_id, phase, gene, count, share) VALUES (?, ?, ?, ?, ?)`,
			runID.String(), phase, gene, count, shares[gene]); err != nil {
			return fmt.Errorf("failed to insert gene %d: %w", gene, err)
		}
	}
	return tx.Commit()
}

// FinishRun stamps the run's finish time.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano), runID.String())
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun loads a run row.
func (s *SQLiteStore) GetRun(ctx context.Context, runID uuid.UUID) (Run, error) {
	var (
		run         Run
		id, started string
		finished    sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seed, config_yaml, started_at, finished_at, years FROM runs WHERE id = ?`,
		runID.String()).Scan(&id, &run.Seed, &run.ConfigYAML, &started, &finished, &run.Years)
	if err != nil {
		return Run{}, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("invalid started_at %q: %w", started, err)
	}
	if finished.Valid {
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return Run{}, fmt.Errorf("invalid finished_at %q: %w", finished.String, err)
		}
	}
	return run, nil
}

// Years loads the yearly records of a run in year order.
func (s *SQLiteStore) Years(ctx context.Context, runID uuid.UUID) ([]telemetry.YearStats, error) {
	id := runID.String()
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, alive_count, alive_original, alive_newborns,
			dead_from_starvation, dead_from_old_age, cumulative_deaths,
			born_this_year, cumulative_births,
			avg_age_alive, avg_age_dead_starvation, avg_age_dead_old_age
		FROM years WHERE run_id = ? ORDER BY year`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	defer rows.Close()

	var out []telemetry.YearStats
	index := make(map[int]int)
	for rows.Next() {
		var ys telemetry.YearStats
		if err := rows.Scan(&ys.Year, &ys.AliveCount, &ys.AliveOriginal, &ys.AliveNewborns,
			&ys.DeadFromStarvation, &ys.DeadFromOldAge, &ys.CumulativeDeaths,
			&ys.BornThisYear, &ys.CumulativeBirths,
			&ys.AvgAgeAlive, &ys.AvgAgeDeadStarvation, &ys.AvgAgeDeadOldAge); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		ys.DeathAges = telemetry.Ages{}
		index[ys.Year] = len(out)
		out = append(out, ys)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ageRows, err := s.db.QueryContext(ctx,
		`SELECT year, age FROM death_ages WHERE run_id = ? ORDER BY year, seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query death ages: %w", err)
	}
	defer ageRows.Close()
	for ageRows.Next() {
		var year, age int
		if err := ageRows.Scan(&year, &age); err != nil {
			return nil, fmt.Errorf("failed to scan death age: %w", err)
		}
		if i, ok := index[year]; ok {
			out[i].DeathAges = append(out[i].DeathAges, age)
		}
	}
	return out, ageRows.Err()
}

// Genes loads the gene counts stored for phase, indexed by gene.
func (s *SQLiteStore) Genes(ctx context.Context, runID uuid.UUID, phase string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT count FROM gene_distribution WHERE run_id = ? AND phase = ? ORDER BY gene`,
		runID.String(), phase)
	if err != nil {
		return nil, fmt.Errorf("failed to query genes: %w", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan gene: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
