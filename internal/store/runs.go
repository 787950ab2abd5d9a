package store

import (
	"database/sql"
	"time"
)

const runColumns = `id, ran_at, command, version, input_path, output_path,
	input_lines, output_lines, dead_labels, separators, identifiers,
	keep_overrides, mixed_labels, output_checksum`

// InsertRun records a run and its per-kind breakdown in one transaction,
// returning the new run ID. RanAt defaults to now.
func (db *DB) InsertRun(r *Run, kinds []KindCount) (int64, error) {
	if r.RanAt.IsZero() {
		r.RanAt = time.Now().UTC()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs
		(ran_at, command, version, input_path, output_path, input_lines, output_lines,
		 dead_labels, separators, identifiers, keep_overrides, mixed_labels, output_checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RanAt.Format(time.RFC3339), r.Command, r.Version, r.InputPath, r.OutputPath,
		r.InputLines, r.OutputLines, r.DeadLabels, r.Separators, r.Identifiers,
		r.KeepOverrides, r.MixedLabels, r.OutputChecksum,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, k := range kinds {
		if _, err := tx.Exec(
			"INSERT INTO run_kinds (run_id, kind, emitted, discarded) VALUES (?, ?, ?, ?)",
			id, k.Kind, k.Emitted, k.Discarded,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return scanRun(row)
}

// LatestRunFor returns the most recent run for inputPath, or nil if none exist.
func (db *DB) LatestRunFor(inputPath string) (*Run, error) {
	row := db.conn.QueryRow(
		"SELECT "+runColumns+" FROM runs WHERE input_path = ? ORDER BY id DESC LIMIT 1",
		inputPath,
	)
	return scanRun(row)
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query("SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetKindCounts returns the per-kind breakdown of a run, in insertion order.
func (db *DB) GetKindCounts(runID int64) ([]KindCount, error) {
	rows, err := db.conn.Query(
		"SELECT id, run_id, kind, emitted, discarded FROM run_kinds WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []KindCount
	for rows.Next() {
		var k KindCount
		if err := rows.Scan(&k.ID, &k.RunID, &k.Kind, &k.Emitted, &k.Discarded); err != nil {
			return nil, err
		}
		counts = append(counts, k)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var ranAt string
	err := row.Scan(
		&r.ID, &ranAt, &r.Command, &r.Version, &r.InputPath, &r.OutputPath,
		&r.InputLines, &r.OutputLines, &r.DeadLabels, &r.Separators, &r.Identifiers,
		&r.KeepOverrides, &r.MixedLabels, &r.OutputChecksum,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.RanAt, _ = time.Parse(time.RFC3339, ranAt)
	return &r, nil
}
