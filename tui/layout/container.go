package layout

import (
	"strings"

	"github.com/user/trimcrop-cli/tui/styles"
)

// Container fits content into exactly Width x Height cells.
// The first Header and last Footer lines always stay visible; when the
// content is too tall, lines are dropped from the middle and the last kept
// body line is replaced by a marker.
type Container struct {
	Width  int
	Height int
	Header int
	Footer int
}

// Render returns content padded or cut to the container size.
func (c Container) Render(content string) string {
	if c.Height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")

	if len(lines) > c.Height {
		head := min(c.Header, c.Height)
		foot := min(c.Footer, c.Height-head)
		body := c.Height - head - foot

		kept := make([]string, 0, c.Height)
		kept = append(kept, lines[:head]...)
		if body > 0 {
			kept = append(kept, lines[head:head+body]...)
			kept[len(kept)-1] = styles.Hint.Render("↓ terminal too short")
		}
		kept = append(kept, lines[len(lines)-foot:]...)
		lines = kept
	}

	lines = NormalizeLines(lines, c.Height)
	for i, line := range lines {
		lines[i] = PadToWidth(line, c.Width)
	}
	return strings.Join(lines, "\n")
}
