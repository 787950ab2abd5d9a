package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/stripasm/internal/asm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultStripAnnotations, cfg.StripAnnotations)
	assert.True(t, cfg.Separators)
	assert.False(t, cfg.Strict)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, DefaultOutput.DiffContext, cfg.Output.DiffContext)
	assert.Empty(t, cfg.Rules)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
strip_annotations: ["@GOTPCREL", "@PLT"]
separators: false
strict: true
workers: 0
history:
  enabled: true
  db_path: /tmp/stripasm-test.db
rules:
  - name: keep-section
    pattern: '\s+\.section'
    action: keep
    kind: directive
  - pattern: '\s*nop'
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"@GOTPCREL", "@PLT"}, cfg.StripAnnotations)
	assert.False(t, cfg.Separators)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 1, cfg.Workers, "workers is clamped to 1")
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/stripasm-test.db", cfg.DBPath())
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "keep", cfg.Rules[0].Action)
}

func TestConfig_RuleSet(t *testing.T) {
	cfg := &Config{
		StripAnnotations: []string{"@PLT"},
		Rules: []RuleConfig{
			{Name: "keep-section", Pattern: `\s+\.section`, Action: "keep", Kind: "directive"},
			{Pattern: `\s*nop`},
		},
	}

	rs, err := cfg.RuleSet()
	require.NoError(t, err)

	base := len(asm.DefaultRules().Rules)
	require.Len(t, rs.Rules, base+2)
	assert.Equal(t, "keep-section", rs.Rules[base].Name)
	assert.Equal(t, asm.Keep, rs.Rules[base].Action)
	assert.Equal(t, "rule-2", rs.Rules[base+1].Name)
	assert.Equal(t, asm.Discard, rs.Rules[base+1].Action)
	assert.Equal(t, []string{"@PLT"}, rs.Annotations)

	c := rs.Classify("\t.section\t__TEXT")
	assert.True(t, c.Emit)
	assert.False(t, rs.Classify("\tnop").Emit)
}

func TestConfig_RuleSetErrors(t *testing.T) {
	tests := []struct {
		name string
		rule RuleConfig
		want string
	}{
		{"empty pattern", RuleConfig{Name: "x"}, "empty pattern"},
		{"bad action", RuleConfig{Name: "x", Pattern: "a", Action: "maybe"}, "unknown rule action"},
		{"bad kind", RuleConfig{Name: "x", Pattern: "a", Kind: "opcode"}, "unknown kind"},
		{"bad pattern", RuleConfig{Name: "x", Pattern: "("}, `rule "x"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Rules: []RuleConfig{tc.rule}}
			_, err := cfg.RuleSet()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{Separators: true, Strict: true, StripAnnotations: DefaultStripAnnotations}
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.True(t, opts.Separators)
	assert.True(t, opts.Strict)
	require.NotNil(t, opts.Rules)
}

func TestDBPath_Default(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, filepath.Join(ConfigDir(), DefaultDBName), cfg.DBPath())
}

func TestLoad_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := DefaultConfigPath()
	assert.Equal(t, filepath.Join(home, ".config", "stripasm", DefaultConfigFile), path)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("workers: 9\nstrict: true\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
	assert.True(t, cfg.Strict)
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}
