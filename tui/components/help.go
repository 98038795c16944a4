package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/tui/styles"
)

// helpGroups lists every binding, including the ones the hint bar leaves out.
var helpGroups = []ControlGroup{
	{Name: "Trim", Controls: []Control{
		{Shortcut: "Space", Name: "Loop the selected range (3 passes) / stop"},
		{Shortcut: "Tab", Name: "Switch between start and end thumb"},
		{Shortcut: "h / ←", Name: "Move active thumb back by the step"},
		{Shortcut: "l / →", Name: "Move active thumb forward by the step"},
		{Shortcut: "< / >", Name: "Smaller / larger step"},
	}},
	{Name: "Crop", Controls: []Control{
		{Shortcut: "c", Name: "Enter or leave crop mode"},
		{Shortcut: "Arrows", Name: "Move the crop square"},
		{Shortcut: "+ / -", Name: "Grow / shrink the crop square"},
		{Shortcut: "Enter", Name: "Show the crop in mpv"},
		{Shortcut: "Esc", Name: "Leave crop mode"},
	}},
	{Name: "App", Controls: []Control{
		{Shortcut: "o", Name: "Open another video"},
		{Shortcut: "?", Name: "Toggle this help"},
		{Shortcut: "q", Name: "Quit"},
	}},
}

// HelpOverlay renders every key binding in a bordered panel centered in a
// width x height area.
func HelpOverlay(width, height int) string {
	titleStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	groupStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Lavender).Bold(true).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	lines := []string{titleStyle.Render("Keybindings")}
	for _, g := range helpGroups {
		lines = append(lines, groupStyle.Render(g.Name))
		for _, c := range g.Controls {
			lines = append(lines, "  "+keyStyle.Render(c.Shortcut)+descStyle.Render(c.Name))
		}
	}
	lines = append(lines, "", styles.Hint.Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BrightPurple).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
