// Package archive keeps a local history of generated leaderboards in
// sqlite, one row per run plus one per contributing source. Purely
// additive; the JSON artifacts remain the canonical output.
package archive

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/msnews/leaderboard-comb/app/leaderboard"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Archive struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive database and applies any
// pending migrations.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// RecordRun stores one generated leaderboard and its per-source
// contributions, returning the run id.
func (a *Archive) RecordRun(c *leaderboard.Combined) (int64, error) {
	tx, err := a.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (generated_at, row_count, source_count)
		VALUES (?, ?, ?)
	`, c.GeneratedAt, len(c.Rows), len(c.Sources))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	perSource := make(map[string]int, len(c.Sources))
	for _, r := range c.Rows {
		perSource[r.Source]++
	}

	for _, meta := range c.Sources {
		_, err := tx.Exec(`
			INSERT INTO run_sources (run_id, source, competition_id, results_url, fetched_at, row_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, meta.Source, meta.CompetitionID, meta.ResultsURL, meta.FetchedAt, perSource[meta.Source])
		if err != nil {
			return 0, fmt.Errorf("failed to insert run source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunCount returns the number of recorded runs.
func (a *Archive) RunCount() (int, error) {
	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
