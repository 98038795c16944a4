package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/pkg/timeutil"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/tui/styles"
)

// CapturedValues renders every value a downstream trim/crop step would need.
func CapturedValues(snap preview.Snapshot, maxLoops int, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.Lavender).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	row := func(label, value string) string {
		return " " + labelStyle.Render(label) + valueStyle.Render(value)
	}

	meta := snap.Metadata
	lines := []string{
		row("Duration", timeutil.FormatPrecise(meta.Duration)),
		row("Size", fmt.Sprintf("%dx%d", meta.Width, meta.Height)),
		row("Start", timeutil.FormatPrecise(snap.Trim.Start)),
		row("End", timeutil.FormatPrecise(snap.Trim.End)),
		row("Selected", timeutil.FormatPrecise(snap.Trim.Length())),
	}

	if snap.Crop != nil {
		c := snap.Crop
		lines = append(lines,
			row("Crop X", fmt.Sprintf("%.2f%%", c.X)),
			row("Crop Y", fmt.Sprintf("%.2f%%", c.Y)),
			row("Crop W", fmt.Sprintf("%.2f%%", c.Width)),
			row("Crop H", fmt.Sprintf("%.2f%%", c.Height)),
		)
	} else {
		lines = append(lines, row("Crop", "none"))
	}

	playing := "no"
	if snap.Playback.Playing {
		playing = fmt.Sprintf("yes, loop %d/%d", snap.Playback.CurrentLoop(), maxLoops)
	}
	lines = append(lines, row("Playing", playing))

	return RenderInfoBox("Captured Values", lines, width)
}
