package output

import (
	"fmt"
	"strings"
)

// KeepBar renders how much of a document survived normalization.
// Example: "██████░░░░ 11/17 kept"
func KeepBar(kept, total, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if total > 0 {
		filled = kept * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleError.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, StyleMuted.Render(fmt.Sprintf("%d/%d kept", kept, total)))
}

// TrendArrow returns a styled indicator for the change in output size
// between two runs. Growth is shown as a warning, shrinkage as success.
func TrendArrow(delta int) string {
	switch {
	case delta == 0:
		return StyleMuted.Render("─")
	case delta > 0:
		return StyleWarning.Render(fmt.Sprintf("▲ +%d", delta))
	default:
		return StyleSuccess.Render(fmt.Sprintf("▼ %d", -delta))
	}
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
