// Package app contains the Cobra command tree for stripasm.
package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blackwell-systems/stripasm/internal/config"
	"github.com/blackwell-systems/stripasm/internal/logger"
	"github.com/blackwell-systems/stripasm/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor      bool
	flagJSON         bool
	flagVerbose      bool
	flagConfig       string
	flagStrict       bool
	flagNoSeparators bool
	flagRecord       bool
	flagSummary      bool
)

// errReported marks a failure whose message has already been shown, so
// Execute exits non-zero without printing it again.
var errReported = errors.New("already reported")

var rootCmd = &cobra.Command{
	Use:   "stripasm <input> <output>",
	Short: "Normalize compiler assembly output for diffing",
	Long: `stripasm rewrites the assembly a compiler emitted into a canonical form:
directives, comments and unreferenced local labels are removed, local labels
are normalized to the .L form and Mach-O name decoration is stripped, so two
compilations of the same source can be compared with an ordinary diff.

Extra arguments and unknown flags are ignored.`,
	Args:               cobra.MinimumNArgs(2),
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(flagVerbose, flagNoColor)
		output.AutoColor(flagNoColor)
	},
	RunE: runStrip,
}

// Execute is the entry point called from main.
func Execute() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// run executes the command tree with args.
func run(args []string) error {
	rootCmd.SetArgs(dropUnknownFlags(rootCmd, args))
	return rootCmd.Execute()
}

// dropUnknownFlags removes flags root does not define when args select the
// root command itself. pflag would otherwise bind the next argument to an
// unknown "--flag" as its value and lose an input path. Subcommand
// invocations are returned unchanged.
func dropUnknownFlags(root *cobra.Command, args []string) []string {
	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()
	lookup := func(name string, short bool) *pflag.Flag {
		for _, fs := range []*pflag.FlagSet{root.PersistentFlags(), root.Flags()} {
			var f *pflag.Flag
			if short {
				f = fs.ShorthandLookup(name)
			} else {
				f = fs.Lookup(name)
			}
			if f != nil {
				return f
			}
		}
		return nil
	}

	kept := make([]string, 0, len(args))
	positional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			kept = append(kept, args[i:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			if !positional && isSubcommand(root, arg) {
				return args
			}
			positional = true
			kept = append(kept, arg)
			continue
		}

		name, hasValue := strings.TrimLeft(arg, "-"), false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, hasValue = name[:eq], true
		}
		short := !strings.HasPrefix(arg, "--")
		if short && len(name) != 1 {
			continue
		}
		f := lookup(name, short)
		if f == nil {
			continue
		}
		kept = append(kept, arg)
		if !hasValue && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			kept = append(kept, args[i])
		}
	}
	return kept
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/stripasm/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail on documents that mix .L and L label declarations")
	rootCmd.PersistentFlags().BoolVar(&flagNoSeparators, "no-separators", false, "Do not insert blank lines between functions")
	rootCmd.PersistentFlags().BoolVar(&flagRecord, "record", false, "Record runs in the history database")
	rootCmd.PersistentFlags().BoolVar(&flagSummary, "summary", false, "Print normalization statistics")
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagStrict {
		cfg.Strict = true
	}
	if flagNoSeparators {
		cfg.Separators = false
	}
	if flagRecord {
		cfg.History.Enabled = true
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}
	log.Debug("config loaded", "strict", cfg.Strict, "separators", cfg.Separators,
		"rules", len(cfg.Rules), "history", cfg.History.Enabled)
	return cfg, nil
}
