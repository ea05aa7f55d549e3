package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    seed        INTEGER NOT NULL,
    config_yaml TEXT NOT NULL,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    years       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS years (
    run_id                  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    year                    INTEGER NOT NULL,
    alive_count             INTEGER NOT NULL,
    alive_original          INTEGER NOT NULL,
    alive_newborns          INTEGER NOT NULL,
    dead_from_starvation    INTEGER NOT NULL,
    dead_from_old_age       INTEGER NOT NULL,
    cumulative_deaths       INTEGER NOT NULL,
    born_this_year          INTEGER NOT NULL,
    cumulative_births       INTEGER NOT NULL,
    avg_age_alive           REAL NOT NULL,
    avg_age_dead_starvation REAL NOT NULL,
    avg_age_dead_old_age    REAL NOT NULL,
    PRIMARY KEY (run_id, year)
);

CREATE TABLE IF NOT EXISTS death_ages (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    year   INTEGER NOT NULL,
    seq    INTEGER NOT NULL,
    age    INTEGER NOT NULL,
    PRIMARY KEY (run_id, year, seq)
);

CREATE TABLE IF NOT EXISTS gene_distribution (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    phase  TEXT NOT NULL CHECK (phase IN ('initial', 'final')),
    gene   INTEGER NOT NULL,
    count  INTEGER NOT NULL,
    share  REAL NOT NULL,
    PRIMARY KEY (run_id, phase, gene)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates the tables on a fresh database and checks the version
// of an existing one.
func InitSchema(ctx context.Context, db *sql.DB) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, SchemaVersion)
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}
