// Package logger configures the process-wide charmbracelet logger.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Init installs the default logger on stderr. Only warnings and errors are
// shown unless verbose is set.
func Init(verbose, noColor bool) {
	InitWriter(os.Stderr, verbose, noColor || !isTerminal(os.Stderr))
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, verbose, noColor bool) {
	log.SetDefault(log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "stripasm",
	}))

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
