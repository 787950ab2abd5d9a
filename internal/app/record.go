package app

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/stripasm/internal/asm"
	"github.com/blackwell-systems/stripasm/internal/config"
	"github.com/blackwell-systems/stripasm/internal/store"
)

// openHistory opens the run history database named by cfg.
func openHistory(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return db, nil
}

// recordRun stores one normalization and reports whether the output changed
// since the previous run over the same input.
func recordRun(db *store.DB, command, input, outPath string, res *asm.Result) error {
	absIn, err := filepath.Abs(input)
	if err != nil {
		absIn = input
	}
	absOut, err := filepath.Abs(outPath)
	if err != nil {
		absOut = outPath
	}

	prev, err := db.LatestRunFor(absIn)
	if err != nil {
		return err
	}

	s := res.Stats
	run := &store.Run{
		Command:        command,
		Version:        appVersion,
		InputPath:      absIn,
		OutputPath:     absOut,
		InputLines:     s.InputLines,
		OutputLines:    s.OutputLines,
		DeadLabels:     s.DeadLabels,
		Separators:     s.Separators,
		Identifiers:    s.Identifiers,
		KeepOverrides:  s.KeepOverrides,
		MixedLabels:    res.Labels.Mixed,
		OutputChecksum: checksum(res.Text),
	}
	if _, err := db.InsertRun(run, kindCounts(s)); err != nil {
		return err
	}

	if prev != nil && prev.OutputChecksum != run.OutputChecksum {
		log.Warn("normalized output changed since last run", "input", input,
			"previous_run", prev.ID, "lines", fmt.Sprintf("%d -> %d", prev.OutputLines, run.OutputLines))
	}
	return nil
}

// kindCounts flattens per-kind statistics into history rows.
func kindCounts(s asm.Stats) []store.KindCount {
	var counts []store.KindCount
	for _, k := range asm.AllKinds {
		e, d := s.Emitted[k], s.Discarded[k]
		if e == 0 && d == 0 {
			continue
		}
		counts = append(counts, store.KindCount{Kind: k.String(), Emitted: e, Discarded: d})
	}
	return counts
}
