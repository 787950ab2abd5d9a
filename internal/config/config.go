package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/stripasm/internal/asm"
)

// Config is the top-level stripasm configuration.
type Config struct {
	StripAnnotations []string     `mapstructure:"strip_annotations"`
	Separators       bool         `mapstructure:"separators"`
	Strict           bool         `mapstructure:"strict"`
	Workers          int          `mapstructure:"workers"`
	Rules            []RuleConfig `mapstructure:"rules"`
	History          History      `mapstructure:"history"`
	Output           Output       `mapstructure:"output"`
}

// RuleConfig is a user-defined line rule appended after the built-in table.
//
//	rules:
//	  - name: keep-section
//	    pattern: '\s+\.section'
//	    action: keep
//	    kind: directive
type RuleConfig struct {
	Name    string `mapstructure:"name"`
	Pattern string `mapstructure:"pattern"`
	Action  string `mapstructure:"action"`
	Kind    string `mapstructure:"kind"`
}

// History controls the optional SQLite run history.
type History struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// Output defines output preferences.
type Output struct {
	Color        bool `mapstructure:"color"`
	Width        int  `mapstructure:"width"`
	DiffContext  int  `mapstructure:"diff_context"`
	HistoryLimit int  `mapstructure:"history_limit"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("strip_annotations", DefaultStripAnnotations)
	v.SetDefault("separators", DefaultSeparators)
	v.SetDefault("strict", false)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("history.enabled", DefaultHistory.Enabled)
	v.SetDefault("history.db_path", DefaultHistory.DBPath)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("output.diff_context", DefaultOutput.DiffContext)
	v.SetDefault("output.history_limit", DefaultOutput.HistoryLimit)

	if cfgFile == "" {
		cfgFile = DefaultConfigPath()
	}
	v.SetConfigFile(expandPath(cfgFile))

	// A missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	cfg.History.DBPath = expandPath(cfg.History.DBPath)

	return &cfg, nil
}

// RuleSet builds the classification table: the built-in rules followed by
// every configured rule, with the configured annotations.
func (c *Config) RuleSet() (*asm.RuleSet, error) {
	rs := asm.DefaultRules()
	rs.Annotations = append([]string(nil), c.StripAnnotations...)

	for i, rc := range c.Rules {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i+1)
		}
		if rc.Pattern == "" {
			return nil, fmt.Errorf("rule %q: empty pattern", name)
		}
		action, err := asm.ParseAction(rc.Action)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		kind, ok := asm.ParseKind(rc.Kind)
		if !ok {
			return nil, fmt.Errorf("rule %q: unknown kind %q", name, rc.Kind)
		}
		r, err := asm.NewRule(name, rc.Pattern, action, kind)
		if err != nil {
			return nil, err
		}
		rs.Add(r)
	}
	return rs, nil
}

// Options returns pipeline options built from the config.
func (c *Config) Options() (asm.Options, error) {
	rs, err := c.RuleSet()
	if err != nil {
		return asm.Options{}, err
	}
	return asm.Options{
		Rules:      rs,
		Separators: c.Separators,
		Strict:     c.Strict,
	}, nil
}

// DBPath returns the full path to the history database.
func (c *Config) DBPath() string {
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// DefaultConfigPath is the config file read when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultConfigFile)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
