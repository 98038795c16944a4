package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/tui/styles"
)

// cropViewMaxRows bounds the height of the frame drawing.
const cropViewMaxRows = 12

// CropBox is a square crop selection over a video frame, kept in pixels so
// the 1:1 aspect holds whatever the frame shape.
type CropBox struct {
	FrameWidth  int
	FrameHeight int
	MinSize     int

	X, Y, Size int
}

// NewCropBox returns an empty crop box. Nothing can be selected until
// SetFrame is called.
func NewCropBox(minSize int) CropBox {
	return CropBox{MinSize: minSize}
}

// Ready reports whether a frame size is known.
func (b CropBox) Ready() bool {
	return b.FrameWidth > 0 && b.FrameHeight > 0
}

// SetFrame sets the frame size and places the box at rect, given in
// normalized 0-100 units.
func (b *CropBox) SetFrame(width, height int, rect preview.CropRect) {
	b.FrameWidth, b.FrameHeight = width, height
	if !b.Ready() {
		b.X, b.Y, b.Size = 0, 0, 0
		return
	}
	x, y, w, h := rect.Pixels(width, height)
	b.X, b.Y = x, y
	b.Size = b.clampSize(min(w, h))
	b.clampPosition()
}

// Move shifts the box by dx, dy pixels, keeping it inside the frame, and
// returns the resulting normalized rectangle.
func (b *CropBox) Move(dx, dy int) preview.CropRect {
	b.X += dx
	b.Y += dy
	b.clampPosition()
	return b.Rect()
}

// Resize grows the box by delta pixels per side around its center.
func (b *CropBox) Resize(delta int) preview.CropRect {
	if !b.Ready() {
		return b.Rect()
	}
	cx, cy := b.X+b.Size/2, b.Y+b.Size/2
	b.Size = b.clampSize(b.Size + delta)
	b.X, b.Y = cx-b.Size/2, cy-b.Size/2
	b.clampPosition()
	return b.Rect()
}

// Rect returns the box in normalized 0-100 units of each axis.
func (b CropBox) Rect() preview.CropRect {
	if !b.Ready() {
		return preview.CropRect{}
	}
	fw, fh := float64(b.FrameWidth), float64(b.FrameHeight)
	return preview.CropRect{
		X:      float64(b.X) / fw * 100,
		Y:      float64(b.Y) / fh * 100,
		Width:  float64(b.Size) / fw * 100,
		Height: float64(b.Size) / fh * 100,
	}
}

// maxSize is the largest square that fits the frame.
func (b CropBox) maxSize() int {
	return min(b.FrameWidth, b.FrameHeight)
}

func (b CropBox) clampSize(size int) int {
	lo := min(b.MinSize, b.maxSize())
	return max(lo, min(size, b.maxSize()))
}

func (b *CropBox) clampPosition() {
	b.X = max(0, min(b.X, b.FrameWidth-b.Size))
	b.Y = max(0, min(b.Y, b.FrameHeight-b.Size))
}

// View draws the frame scaled into a character grid with the crop square on
// top. Terminal cells are about twice as tall as wide, so rows are halved.
func (b CropBox) View(width int, active bool) string {
	if width < 12 {
		return ""
	}
	title := "Crop"
	if active {
		title = "Crop (editing)"
	}
	if !b.Ready() {
		return RenderInfoBox(title, []string{styles.Hint.Render(" waiting for video size")}, width)
	}

	cols := width - 4
	scale := float64(cols) / float64(b.FrameWidth)
	if float64(b.FrameHeight)*scale/2 > cropViewMaxRows {
		scale = cropViewMaxRows * 2 / float64(b.FrameHeight)
		cols = max(1, int(math.Round(float64(b.FrameWidth)*scale)))
	}
	rows := int(math.Max(1, math.Round(float64(b.FrameHeight)*scale/2)))

	frameStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	boxStyle := lipgloss.NewStyle().Foreground(styles.Amber)
	if active {
		boxStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	}

	x0 := int(float64(b.X) * scale)
	x1 := max(x0, int(float64(b.X+b.Size)*scale)-1)
	y0 := int(float64(b.Y) * scale / 2)
	y1 := max(y0, int(float64(b.Y+b.Size)*scale/2)-1)

	lines := make([]string, 0, rows+1)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		line.WriteString(" ")
		for c := 0; c < cols; c++ {
			inside := c >= x0 && c <= x1 && r >= y0 && r <= y1
			edge := inside && (c == x0 || c == x1 || r == y0 || r == y1)
			switch {
			case edge:
				line.WriteString(boxStyle.Render("█"))
			case inside:
				line.WriteString(boxStyle.Render("░"))
			default:
				line.WriteString(frameStyle.Render("·"))
			}
		}
		lines = append(lines, line.String())
	}

	info := lipgloss.NewStyle().Foreground(styles.LightLavender).
		Render(fmt.Sprintf(" %dx%d px at %d,%d", b.Size, b.Size, b.X, b.Y))
	lines = append(lines, info)
	return RenderInfoBox(title, lines, width)
}
