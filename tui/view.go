package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/trimcrop-cli/tui/components"
	"github.com/user/trimcrop-cli/tui/layout"
	"github.com/user/trimcrop-cli/tui/styles"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.width < layout.MinTerminalWidth {
		return styles.Warning.Render("Terminal too narrow, widen to at least 60 columns")
	}
	if m.showHelp {
		return components.HelpOverlay(m.width, m.height)
	}
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	snap := m.session.Snapshot()
	maxLoops := m.cfg.Playback.MaxLoops

	status := components.StatusBar(components.StatusBarState{
		FileName:  m.fileName(),
		Playing:   snap.Playback.Playing,
		Loop:      snap.Playback.CurrentLoop(),
		MaxLoops:  maxLoops,
		TimePos:   m.position,
		Duration:  snap.Metadata.Duration,
		StepSize:  m.stepSize,
		Connected: m.connected,
	}, m.width)

	mainWidth, sideWidth, showSide := layout.ComputeColumnWidths(m.width)
	mainCol := strings.Join([]string{
		m.slider.View(m.position, mainWidth),
		m.crop.View(mainWidth, m.cropMode),
	}, "\n")

	body := mainCol
	if showSide {
		side := components.CapturedValues(snap, maxLoops, sideWidth)
		height := max(lipgloss.Height(mainCol), lipgloss.Height(side))
		body = layout.JoinColumns([]string{mainCol, side}, []int{mainWidth, sideWidth}, height)
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		status,
		body,
		components.ModeIndicator(m.cropMode, m.message, m.warning, m.width),
		components.ControlsDisplay(m.width, m.cropMode),
	)
	if m.height <= 0 {
		return view
	}
	// Status bar on top, mode line and hint bar at the bottom.
	return layout.Container{Width: m.width, Height: m.height, Header: 1, Footer: 2}.Render(view)
}
