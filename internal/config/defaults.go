// Package config provides configuration loading and defaults for stripasm.
package config

// DefaultConfigDir is the default location for stripasm configuration.
const DefaultConfigDir = "~/.config/stripasm"

// DefaultDBName is the filename for the run history database.
const DefaultDBName = "stripasm.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultStripAnnotations are removed from every line before classification.
var DefaultStripAnnotations = []string{"@GOTPCREL"}

// DefaultSeparators controls blank lines between function bodies.
const DefaultSeparators = true

// DefaultWorkers is the batch command's concurrency.
const DefaultWorkers = 4

// DefaultHistory keeps run history off; nothing is persisted unless asked.
var DefaultHistory = History{
	Enabled: false,
	DBPath:  "",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color:        true,
	Width:        80,
	DiffContext:  3,
	HistoryLimit: 20,
}
