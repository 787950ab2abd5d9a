package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff_Identical(t *testing.T) {
	diff, err := UnifiedDiff("main:\n\tretq\n", "main:\n\tretq\n", "a.s", "b.s", 3)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestUnifiedDiff_Changed(t *testing.T) {
	a := "main:\n\tpushq\t%rbp\n\tretq\n"
	b := "main:\n\tpushq\t%rbx\n\tretq\n"

	diff, err := UnifiedDiff(a, b, "a.s", "b.s", 1)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a.s")
	assert.Contains(t, diff, "+++ b.s")
	assert.Contains(t, diff, "-\tpushq\t%rbp\n")
	assert.Contains(t, diff, "+\tpushq\t%rbx\n")
}

func TestColorDiff_PlainKeepsText(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	diff := "--- a\n+++ b\n@@ -1 +1 @@\n-x\n+y\n ctx\n"
	assert.Equal(t, diff, ColorDiff(diff))
	assert.Equal(t, "", ColorDiff(""))
}

func TestKeepBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	bar := KeepBar(5, 10, 10)
	assert.True(t, strings.HasPrefix(bar, strings.Repeat("█", 5)+strings.Repeat("░", 5)))
	assert.Contains(t, bar, "5/10 kept")

	empty := KeepBar(0, 0, 4)
	assert.True(t, strings.HasPrefix(empty, strings.Repeat("░", 4)))
}

func TestTrendArrow(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Equal(t, "─", TrendArrow(0))
	assert.Equal(t, "▲ +3", TrendArrow(3))
	assert.Equal(t, "▼ 2", TrendArrow(-2))
}
