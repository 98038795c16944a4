package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/pkg/timeutil"
	"github.com/user/trimcrop-cli/tui/styles"
)

// StatusBarState holds what the status bar shows.
type StatusBarState struct {
	// FileName is the base name of the loaded video, empty before the first load
	FileName string
	// Playing is true while the trimmed range loops
	Playing bool
	// Loop is the 1-based pass being played
	Loop int
	// MaxLoops is the loop limit
	MaxLoops int
	// TimePos is the current playback position in seconds
	TimePos float64
	// Duration is the total video duration in seconds
	Duration float64
	// StepSize is the current nudge step in seconds
	StepSize float64
	// Connected is false once mpv has gone away
	Connected bool
}

// StatusBar renders the one-line status bar.
func StatusBar(state StatusBarState, width int) string {
	playIcon := "⏸"
	if state.Playing {
		playIcon = "▶"
	}

	name := state.FileName
	if name == "" {
		name = "no video"
	}

	left := fmt.Sprintf(" %s %s / %s  %s", playIcon,
		timeutil.FormatPrecise(state.TimePos), timeutil.FormatPrecise(state.Duration), name)

	var right []string
	if state.Playing {
		right = append(right, fmt.Sprintf("loop %d/%d", state.Loop, state.MaxLoops))
	}
	right = append(right, "Step: "+formatStepSize(state.StepSize))
	if !state.Connected {
		right = append(right, "mpv disconnected")
	}
	rightContent := strings.Join(right, "  ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightContent)
	if padding < 0 {
		padding = 0
	}

	return lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + rightContent)
}

// formatStepSize formats the step size for display.
// Shows decimals for values less than 1, otherwise whole number.
func formatStepSize(stepSize float64) string {
	if stepSize < 0.1 {
		return fmt.Sprintf("%.2fs", stepSize)
	}
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
