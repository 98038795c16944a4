package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth = 60 // below this only a warning is shown
	SideHideWidth    = 90 // below this the side panel is dropped
	SideWidth        = 34 // width of the captured-values panel
)

// ComputeColumnWidths splits the terminal into the main column (slider and
// crop box) and the side panel. The side panel is hidden on narrow terminals.
func ComputeColumnWidths(termWidth int) (main, side int, showSide bool) {
	if termWidth < SideHideWidth {
		return termWidth, 0, false
	}
	// One border character between the columns.
	side = SideWidth
	main = termWidth - side - 1
	return main, side, true
}

// JoinColumns joins pre-rendered column strings side by side with border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, 0, len(colLines))
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}
