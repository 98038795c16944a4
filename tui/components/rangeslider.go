package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/pkg/timeutil"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/tui/styles"
)

// RangeSlider is a two-thumb slider over [0, Max].
// The thumbs never come closer than MinDistance; moving one into the other
// pushes the other along.
type RangeSlider struct {
	Max         float64
	Step        float64
	MinDistance float64
	Values      [2]float64
	Active      preview.Thumb
}

// NewRangeSlider returns a slider with both thumbs at the ends of [0, max].
func NewRangeSlider(max, step, minDistance float64) RangeSlider {
	s := RangeSlider{Step: step, MinDistance: minDistance}
	s.SetMax(max)
	return s
}

// SetMax changes the range and moves the thumbs to its ends.
func (s *RangeSlider) SetMax(max float64) {
	if max < 0 {
		max = 0
	}
	s.Max = max
	s.Values = [2]float64{0, max}
	s.Active = preview.ThumbStart
}

// SetValues places both thumbs, ordered and clamped.
func (s *RangeSlider) SetValues(start, end float64) {
	if start > end {
		start, end = end, start
	}
	s.Values = [2]float64{clampFloat(start, 0, s.Max), clampFloat(end, 0, s.Max)}
}

// Start returns the lower thumb.
func (s RangeSlider) Start() float64 { return s.Values[0] }

// End returns the upper thumb.
func (s RangeSlider) End() float64 { return s.Values[1] }

// SwitchThumb makes the other thumb active.
func (s *RangeSlider) SwitchThumb() {
	if s.Active == preview.ThumbStart {
		s.Active = preview.ThumbEnd
	} else {
		s.Active = preview.ThumbStart
	}
}

// Nudge moves the active thumb by delta, snapped to Step. It reports whether
// either thumb moved.
func (s *RangeSlider) Nudge(delta float64) bool {
	old := s.Values
	gap := math.Min(s.MinDistance, s.Max)
	v := clampFloat(s.snap(s.Values[s.Active]+delta), 0, s.Max)

	if s.Active == preview.ThumbStart {
		if v > s.Max-gap {
			v = s.Max - gap
		}
		s.Values[0] = v
		if s.Values[1]-v < gap {
			s.Values[1] = math.Min(s.Max, v+gap)
		}
	} else {
		if v < gap {
			v = gap
		}
		s.Values[1] = v
		if v-s.Values[0] < gap {
			s.Values[0] = math.Max(0, v-gap)
		}
	}
	return s.Values != old
}

func (s RangeSlider) snap(v float64) float64 {
	if s.Step <= 0 {
		return v
	}
	return math.Round(v/s.Step) * s.Step
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// View renders the slider as a bordered bar with the selected range filled,
// the playback position marked and both thumb times printed below.
func (s RangeSlider) View(position float64, width int) string {
	if width < 20 {
		return ""
	}
	if s.Max <= 0 {
		return RenderInfoBox("Trim", []string{styles.Hint.Render(" waiting for duration")}, width)
	}

	filledStyle := lipgloss.NewStyle().Foreground(styles.BrightPurple)
	unfilledStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.LightLavender).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	posStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Lavender)

	barWidth := width - 4
	cell := func(v float64) int {
		if s.Max <= 0 {
			return 0
		}
		i := int(math.Round(float64(barWidth-1) * v / s.Max))
		if i < 0 {
			return 0
		}
		if i >= barWidth {
			return barWidth - 1
		}
		return i
	}
	startCell, endCell, posCell := cell(s.Values[0]), cell(s.Values[1]), cell(position)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i == startCell || i == endCell:
			style := thumbStyle
			if (i == startCell && s.Active == preview.ThumbStart) || (i == endCell && s.Active == preview.ThumbEnd) {
				style = activeStyle
			}
			bar.WriteString(style.Render("●"))
		case i > startCell && i < endCell:
			bar.WriteString(filledStyle.Render("━"))
		default:
			bar.WriteString(unfilledStyle.Render("─"))
		}
	}

	var marker strings.Builder
	marker.WriteString(strings.Repeat(" ", posCell))
	marker.WriteString(posStyle.Render("▲"))

	left := fmt.Sprintf("start %s", timeutil.FormatPrecise(s.Values[0]))
	right := fmt.Sprintf("end %s", timeutil.FormatPrecise(s.Values[1]))
	if s.Active == preview.ThumbStart {
		left = activeStyle.Render(left)
		right = labelStyle.Render(right)
	} else {
		left = labelStyle.Render(left)
		right = activeStyle.Render(right)
	}
	pad := barWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	labels := left + strings.Repeat(" ", pad) + right

	lines := []string{" " + bar.String(), " " + marker.String(), " " + labels}
	return RenderInfoBox("Trim", lines, width)
}
