package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/stripasm/internal/asm"
	"github.com/blackwell-systems/stripasm/internal/output"
	"github.com/blackwell-systems/stripasm/internal/store"
)

var (
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input>...",
	Short: "Normalize many assembly files concurrently",
	Long: `Batch normalizes each input into --out-dir, keeping the input's base name.
Files are processed concurrently by up to --workers goroutines (default from
config). A failure in one file cancels the remaining work.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Directory to write normalized files to (required)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Number of concurrent workers (default from config)")
	_ = batchCmd.MarkFlagRequired("out-dir")
	rootCmd.AddCommand(batchCmd)
}

// batchResult is one normalized file.
type batchResult struct {
	Input  string          `json:"input"`
	Output string          `json:"output"`
	Stats  asm.Stats       `json:"stats"`
	Labels asm.LabelReport `json:"labels"`

	res *asm.Result
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}

	seen := make(map[string]string, len(args))
	for _, in := range args {
		if !isRegularFile(in) {
			return fmt.Errorf("input file '%s' does not exist", in)
		}
		base := filepath.Base(in)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("inputs %s and %s would both write %s", prev, in, base)
		}
		seen[base] = in
	}

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", batchOutDir, err)
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}

	results, err := normalizeAll(cmd.Context(), args, batchOutDir, opts, workers)
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := recordBatch(db, results); err != nil {
			return fmt.Errorf("recording runs: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, results)
	}

	tbl := output.NewTable("Input", "Lines", "Kept", "Dead", "Labels")
	var totalIn, totalOut int
	for _, r := range results {
		labels := output.StyleMuted.Render("ok")
		if r.Labels.Mixed {
			labels = output.StyleWarning.Render("mixed")
		}
		tbl.AddRow(
			r.Input,
			fmt.Sprintf("%d", r.Stats.InputLines),
			output.KeepBar(r.Stats.InputLines-r.Stats.TotalDiscarded(), r.Stats.InputLines, 10),
			fmt.Sprintf("%d", r.Stats.DeadLabels),
			labels,
		)
		totalIn += r.Stats.InputLines
		totalOut += r.Stats.OutputLines
	}
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Normalized %d files into %s", len(results), batchOutDir)))
	fmt.Fprintln(w)
	tbl.Fprint(w)
	fmt.Fprintf(w, "\n %s %s\n", output.StyleLabel.Render("Total lines:"),
		output.StyleValue.Render(fmt.Sprintf("%d -> %d", totalIn, totalOut)))
	return nil
}

// normalizeAll processes inputs with at most workers goroutines. Results keep
// the order of inputs.
func normalizeAll(ctx context.Context, inputs []string, outDir string, opts asm.Options, workers int) ([]batchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]batchResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := normalizeFile(in, opts)
			if err != nil {
				return err
			}
			out := filepath.Join(outDir, filepath.Base(in))
			if err := writeDocument(out, res.Text); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			results[i] = batchResult{Input: in, Output: out, Stats: res.Stats, Labels: res.Labels, res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("batch complete", "files", len(inputs), "workers", workers)
	return results, nil
}

func recordBatch(db *store.DB, results []batchResult) error {
	for _, r := range results {
		if err := recordRun(db, "batch", r.Input, r.Output, r.res); err != nil {
			return err
		}
	}
	return nil
}
