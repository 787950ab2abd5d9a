package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/stripasm/internal/output"
	"github.com/blackwell-systems/stripasm/internal/store"
)

var (
	historyLimit int
	historyRunID int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded normalization runs",
	Long: `History lists runs recorded with --record (or history.enabled in the config
file), newest first. The Δ column compares output lines with the previous run
over the same input. Use --run to show one run's per-kind breakdown.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of runs to show (default from config)")
	historyCmd.Flags().Int64Var(&historyRunID, "run", 0, "Show details for a single run ID")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	path := cfg.DBPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if flagJSON {
			fmt.Fprintln(w, "[]")
			return nil
		}
		fmt.Fprintln(w, output.StyleMuted.Render("No runs recorded. Use --record to start a history."))
		return nil
	}

	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if historyRunID != 0 {
		return showRun(w, db, historyRunID)
	}

	limit := historyLimit
	if limit == 0 {
		limit = cfg.Output.HistoryLimit
	}
	runs, err := db.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if flagJSON {
		if runs == nil {
			runs = []store.Run{}
		}
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render("No runs recorded. Use --record to start a history."))
		return nil
	}

	deltas := outputDeltas(runs)
	tbl := output.NewTable("ID", "When", "Command", "Input", "Lines", "Δ", "Dead")
	for i, r := range runs {
		trend := output.StyleMuted.Render("new")
		if d, ok := deltas[i]; ok {
			trend = output.TrendArrow(d)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", r.ID),
			formatRelativeTime(r.RanAt),
			r.Command,
			filepath.Base(r.InputPath),
			fmt.Sprintf("%d/%d", r.OutputLines, r.InputLines),
			trend,
			fmt.Sprintf("%d", r.DeadLabels),
		)
	}
	fmt.Fprintln(w, output.Section("Run history"))
	fmt.Fprintln(w)
	tbl.Fprint(w)
	return nil
}

// outputDeltas maps each run's index to the change in output lines since the
// next older listed run over the same input. Runs with no older peer are absent.
func outputDeltas(runs []store.Run) map[int]int {
	deltas := make(map[int]int)
	for i, r := range runs {
		for j := i + 1; j < len(runs); j++ {
			if runs[j].InputPath == r.InputPath {
				deltas[i] = r.OutputLines - runs[j].OutputLines
				break
			}
		}
	}
	return deltas
}

// runDetailJSON is the --run --json document.
type runDetailJSON struct {
	store.Run
	Kinds []store.KindCount `json:"kinds"`
}

func showRun(w io.Writer, db *store.DB, id int64) error {
	run, err := db.GetRun(id)
	if err != nil {
		return fmt.Errorf("loading run %d: %w", id, err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}
	kinds, err := db.GetKindCounts(id)
	if err != nil {
		return fmt.Errorf("loading run %d: %w", id, err)
	}

	if flagJSON {
		if kinds == nil {
			kinds = []store.KindCount{}
		}
		return writeJSON(w, runDetailJSON{Run: *run, Kinds: kinds})
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Run %d", run.ID)))
	fmt.Fprintln(w)
	row := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	row("When:", run.RanAt.Local().Format(time.DateTime))
	row("Command:", run.Command)
	row("Version:", run.Version)
	row("Input:", run.InputPath)
	row("Output:", run.OutputPath)
	row("Lines:", fmt.Sprintf("%d of %d kept", run.OutputLines, run.InputLines))
	row("Dead labels:", fmt.Sprintf("%d", run.DeadLabels))
	row("Identifiers:", fmt.Sprintf("%d", run.Identifiers))
	row("Checksum:", run.OutputChecksum[:min(12, len(run.OutputChecksum))])
	if run.MixedLabels {
		fmt.Fprintf(w, " %s\n", output.StyleWarning.Render("Mixed .L/L label declarations"))
	}

	if len(kinds) > 0 {
		tbl := output.NewTable("Kind", "Emitted", "Discarded")
		for _, k := range kinds {
			tbl.AddRow(k.Kind, fmt.Sprintf("%d", k.Emitted), fmt.Sprintf("%d", k.Discarded))
		}
		fmt.Fprintln(w)
		tbl.Fprint(w)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatRelativeTime renders t as a coarse age such as "3h ago".
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
