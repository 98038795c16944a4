package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadToWidth makes s exactly width cells wide. Truncation is ANSI aware, so
// styled text keeps its escape sequences and wide runes are not split.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// NormalizeLines returns exactly height lines, cutting or appending blanks.
func NormalizeLines(lines []string, height int) []string {
	if len(lines) >= height {
		return lines[:height]
	}
	out := make([]string, height)
	copy(out, lines)
	return out
}
