package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/stripasm/internal/asm"
	"github.com/blackwell-systems/stripasm/internal/output"
)

func runStrip(cmd *cobra.Command, args []string) error {
	input, outPath := args[0], args[1]
	if len(args) > 2 {
		log.Debug("ignoring extra arguments", "args", args[2:])
	}

	if !isRegularFile(input) {
		fmt.Fprintf(cmd.OutOrStdout(), "ERROR: input file '%s' does not exist\n", input)
		return errReported
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}

	res, err := normalizeFile(input, opts)
	if err != nil {
		return err
	}
	if err := writeDocument(outPath, res.Text); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if cfg.History.Enabled {
		db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := recordRun(db, "strip", input, outPath, res); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
	}

	if flagSummary {
		if flagJSON {
			return renderResultJSON(cmd.OutOrStdout(), input, res)
		}
		renderSummary(cmd.OutOrStdout(), input, res, cfg.Output.Width)
	}
	return nil
}

// resultJSON is the --summary --json document for one file.
type resultJSON struct {
	Input  string          `json:"input"`
	Stats  asm.Stats       `json:"stats"`
	Labels asm.LabelReport `json:"labels"`
}

func renderResultJSON(w io.Writer, input string, res *asm.Result) error {
	return writeJSON(w, resultJSON{Input: input, Stats: res.Stats, Labels: res.Labels})
}

func renderSummary(w io.Writer, input string, res *asm.Result, width int) {
	s := res.Stats

	fmt.Fprintln(w, output.Section("Normalized "+input))
	fmt.Fprintln(w)
	row := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	row("Input lines:", fmt.Sprintf("%d", s.InputLines))
	row("Output lines:", fmt.Sprintf("%d", s.OutputLines))
	row("Dead labels:", fmt.Sprintf("%d", s.DeadLabels))
	row("Separators:", fmt.Sprintf("%d", s.Separators))
	row("Identifiers:", fmt.Sprintf("%d", s.Identifiers))
	if s.KeepOverrides > 0 {
		row("Keep overrides:", fmt.Sprintf("%d", s.KeepOverrides))
	}
	if res.Labels.Mixed {
		fmt.Fprintf(w, " %s\n", output.StyleWarning.Render("Mixed .L/L label declarations; sampled "+res.Labels.Sampled))
	}

	barWidth := width / 4
	fmt.Fprintf(w, "\n %s\n", output.KeepBar(s.InputLines-s.TotalDiscarded(), s.InputLines, barWidth))

	tbl := output.NewTable("Kind", "Emitted", "Discarded")
	for _, k := range asm.AllKinds {
		e, d := s.Emitted[k], s.Discarded[k]
		if e == 0 && d == 0 {
			continue
		}
		tbl.AddRow(k.String(), fmt.Sprintf("%d", e), fmt.Sprintf("%d", d))
	}
	if tbl.Len() > 0 {
		fmt.Fprintln(w)
		tbl.Fprint(w)
	}
}
