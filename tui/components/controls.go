// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/tui/styles"
)

// Control represents a single control with its display info.
type Control struct {
	Name     string
	Shortcut string
}

// ControlGroup represents a group of related controls.
type ControlGroup struct {
	Name     string
	Controls []Control
}

// GetControlGroups returns the control groups for the current mode.
// Crop mode rebinds the arrows and +/- to the crop box.
func GetControlGroups(cropMode bool) []ControlGroup {
	if cropMode {
		return []ControlGroup{
			{
				Name: "Crop",
				Controls: []Control{
					{Name: "Move", Shortcut: "←↑↓→"},
					{Name: "Size", Shortcut: "+ / -"},
					{Name: "Apply", Shortcut: "Enter"},
					{Name: "Done", Shortcut: "c / Esc"},
				},
			},
		}
	}
	return []ControlGroup{
		{
			Name: "Trim",
			Controls: []Control{
				{Name: "Play", Shortcut: "Space"},
				{Name: "Thumb", Shortcut: "Tab"},
				{Name: "Nudge", Shortcut: "h / l"},
				{Name: "Step", Shortcut: "< / >"},
			},
		},
		{
			Name: "App",
			Controls: []Control{
				{Name: "Crop", Shortcut: "c"},
				{Name: "Open", Shortcut: "o"},
				{Name: "Help", Shortcut: "?"},
				{Name: "Quit", Shortcut: "q"},
			},
		},
	}
}

// RenderInfoBox renders a generic bordered box with a tab-style header and content lines.
// Content lines are rendered as-is (caller handles styling).
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}

	innerWidth := width - 2

	headerStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	borderStyle := lipgloss.NewStyle().Foreground(styles.Purple)

	// Tab header: ╭─ Title ─────╮
	headerText := headerStyle.Render(" " + title + " ")
	fillWidth := innerWidth - 1 - lipgloss.Width(headerText)
	if fillWidth < 0 {
		fillWidth = 0
	}
	topLine := borderStyle.Render("╭─") + headerText + borderStyle.Render(strings.Repeat("─", fillWidth)+"╮")

	lines := []string{topLine}
	for _, line := range contentLines {
		pad := innerWidth - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, borderStyle.Render("│")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(lines, "\n")
}

// ControlsDisplay renders the controls as a single centered hint bar.
func ControlsDisplay(width int, cropMode bool) string {
	shortcutStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	nameStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)

	var groupStrings []string
	for _, group := range GetControlGroups(cropMode) {
		var controlStrs []string
		for _, ctrl := range group.Controls {
			controlStrs = append(controlStrs, nameStyle.Render(ctrl.Name)+" "+shortcutStyle.Render("["+ctrl.Shortcut+"]"))
		}
		groupStrings = append(groupStrings, strings.Join(controlStrs, "  "))
	}
	allControls := strings.Join(groupStrings, "   ")

	padding := (width - lipgloss.Width(allControls)) / 2
	if padding < 0 {
		padding = 0
	}

	return lipgloss.NewStyle().
		Background(styles.DeepPurple).
		Width(width).
		Render(strings.Repeat(" ", padding) + allControls)
}
