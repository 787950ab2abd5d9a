package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the runs tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			ran_at          TEXT NOT NULL,
			command         TEXT NOT NULL,
			version         TEXT NOT NULL,
			input_path      TEXT NOT NULL,
			output_path     TEXT NOT NULL,
			input_lines     INTEGER NOT NULL,
			output_lines    INTEGER NOT NULL,
			dead_labels     INTEGER NOT NULL,
			separators      INTEGER NOT NULL,
			identifiers     INTEGER NOT NULL,
			keep_overrides  INTEGER NOT NULL,
			mixed_labels    BOOLEAN NOT NULL,
			output_checksum TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS run_kinds (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL REFERENCES runs(id),
			kind        TEXT NOT NULL,
			emitted     INTEGER NOT NULL,
			discarded   INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path)`,
		`CREATE INDEX IF NOT EXISTS idx_run_kinds_run ON run_kinds(run_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
