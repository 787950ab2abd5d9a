// Package store provides SQLite access for the optional stripasm run history.
package store

import "time"

// Run is one recorded normalization of an input file.
type Run struct {
	ID             int64     `json:"id"`
	RanAt          time.Time `json:"ran_at"`
	Command        string    `json:"command"`
	Version        string    `json:"version"`
	InputPath      string    `json:"input_path"`
	OutputPath     string    `json:"output_path"`
	InputLines     int       `json:"input_lines"`
	OutputLines    int       `json:"output_lines"`
	DeadLabels     int       `json:"dead_labels"`
	Separators     int       `json:"separators"`
	Identifiers    int       `json:"identifiers"`
	KeepOverrides  int       `json:"keep_overrides"`
	MixedLabels    bool      `json:"mixed_labels"`
	OutputChecksum string    `json:"output_checksum"`
}

// KindCount is the per-kind line breakdown of a run.
type KindCount struct {
	ID        int64  `json:"id"`
	RunID     int64  `json:"run_id"`
	Kind      string `json:"kind"`
	Emitted   int    `json:"emitted"`
	Discarded int    `json:"discarded"`
}
