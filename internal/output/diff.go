package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff returns a unified diff of two normalized documents, or "" when
// they are identical.
func UnifiedDiff(a, b, nameA, nameB string, context int) (string, error) {
	if a == b {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  context,
	})
}

// ColorDiff styles a unified diff line by line. Tabs are preserved since
// assembly is usually tab-separated. With color disabled the diff is
// returned unchanged.
func ColorDiff(diff string) string {
	if diff == "" || noColor {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			sb.WriteString(keepTabs(StyleBold).Render(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(keepTabs(StyleMuted).Render(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(keepTabs(StyleError).Render(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(keepTabs(StyleSuccess).Render(body))
		default:
			sb.WriteString(body)
		}
		sb.WriteString(nl)
	}
	return sb.String()
}

func keepTabs(s lipgloss.Style) lipgloss.Style {
	return s.TabWidth(lipgloss.NoTabConversion)
}
