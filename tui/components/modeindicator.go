package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/tui/styles"
)

// ModeIndicator renders which widget the keys currently drive and the last
// message for the user.
func ModeIndicator(cropMode bool, message string, warning bool, width int) string {
	modeStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	textStyle := styles.Success
	if warning {
		textStyle = styles.Warning
	}

	mode := "TRIM"
	if cropMode {
		mode = "CROP"
	}
	left := " " + modeStyle.Render(mode) + " " + textStyle.Render(message)

	pad := width - lipgloss.Width(left)
	if pad < 0 {
		pad = 0
	}
	return left + strings.Repeat(" ", pad)
}
