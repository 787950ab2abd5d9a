package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/stripasm/internal/output"
)

var diffExitCode bool

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Normalize two assembly files and diff the results",
	Long: `Diff normalizes both files with the configured rules and prints a unified
diff of the normalized text. Use --exit-code to exit 1 when they differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 if the files differ")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if !isRegularFile(path) {
			return fmt.Errorf("input file '%s' does not exist", path)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}

	a, err := normalizeFile(args[0], opts)
	if err != nil {
		return err
	}
	b, err := normalizeFile(args[1], opts)
	if err != nil {
		return err
	}

	diff, err := output.UnifiedDiff(a.Text, b.Text, args[0], args[1], cfg.Output.DiffContext)
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}

	w := cmd.OutOrStdout()
	if diff == "" {
		fmt.Fprintln(w, output.StyleSuccess.Render("Equivalent after normalization."))
		return nil
	}
	fmt.Fprint(w, output.ColorDiff(diff))
	if diffExitCode {
		return errReported
	}
	return nil
}
