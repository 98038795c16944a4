package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/trimcrop-cli/preview"
)

func TestRangeSliderPushesOtherThumb(t *testing.T) {
	s := NewRangeSlider(10, 1, 2)
	assert.Equal(t, [2]float64{0, 10}, s.Values)

	s.SwitchThumb()
	assert.True(t, s.Nudge(-10))
	assert.Equal(t, [2]float64{0, 2}, s.Values)

	s.SwitchThumb()
	assert.True(t, s.Nudge(5))
	assert.Equal(t, [2]float64{5, 7}, s.Values)
}

func TestRangeSliderClampsAtEdges(t *testing.T) {
	s := NewRangeSlider(10, 1, 2)

	assert.False(t, s.Nudge(-1), "start already at 0")

	assert.True(t, s.Nudge(20))
	assert.Equal(t, [2]float64{8, 10}, s.Values)
	assert.False(t, s.Nudge(1))
}

func TestRangeSliderSnapsToStep(t *testing.T) {
	s := NewRangeSlider(10, 0.5, 0.5)
	s.Nudge(1.2)
	assert.Equal(t, 1.0, s.Start())
}

func TestRangeSliderShortVideo(t *testing.T) {
	// Shorter than the minimum distance: the thumbs stay at the ends.
	s := NewRangeSlider(1, 0.01, 2)
	assert.False(t, s.Nudge(0.5))
	assert.Equal(t, [2]float64{0, 1}, s.Values)
}

func TestRangeSliderSetValues(t *testing.T) {
	s := NewRangeSlider(10, 1, 1)
	s.SetValues(12, 3)
	assert.Equal(t, 3.0, s.Start())
	assert.Equal(t, 10.0, s.End())
}

func TestRangeSliderView(t *testing.T) {
	s := NewRangeSlider(10, 1, 1)
	assert.Empty(t, s.View(0, 10))

	out := s.View(5, 60)
	assert.Contains(t, out, "Trim")
	assert.Contains(t, out, "start 0:00.00")
	assert.Contains(t, out, "end 0:10.00")
}

func TestCropBoxInitialRect(t *testing.T) {
	b := NewCropBox(30)
	assert.False(t, b.Ready())
	assert.Equal(t, preview.CropRect{}, b.Rect())

	b.SetFrame(1920, 1080, preview.InitialCrop(1920, 1080, 0.5))
	require.True(t, b.Ready())
	assert.Equal(t, 540, b.Size)
	assert.Equal(t, 690, b.X)
	assert.Equal(t, 270, b.Y)

	r := b.Rect()
	assert.InDelta(t, 28.125, r.Width, 1e-9)
	assert.InDelta(t, 50.0, r.Height, 1e-9)
}

func TestCropBoxStaysInsideFrame(t *testing.T) {
	b := NewCropBox(30)
	b.SetFrame(1920, 1080, preview.InitialCrop(1920, 1080, 0.5))

	b.Move(-5000, 5000)
	assert.Equal(t, 0, b.X)
	assert.Equal(t, 1080-540, b.Y)

	b.Resize(5000)
	assert.Equal(t, 1080, b.Size)
	assert.Equal(t, 0, b.Y)

	b.Resize(-5000)
	assert.Equal(t, 30, b.Size)
}

func TestCropBoxMinSizeLargerThanFrame(t *testing.T) {
	b := NewCropBox(30)
	b.SetFrame(20, 10, preview.InitialCrop(20, 10, 0.5))
	b.Resize(-100)
	assert.Equal(t, 10, b.Size)
}

func TestCropBoxView(t *testing.T) {
	b := NewCropBox(30)
	assert.Contains(t, b.View(40, false), "waiting for video size")

	b.SetFrame(1920, 1080, preview.InitialCrop(1920, 1080, 0.5))
	out := b.View(60, true)
	assert.Contains(t, out, "Crop (editing)")
	assert.Contains(t, out, "540x540 px at 690,270")
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), cropViewMaxRows+3)
}

func TestCapturedValues(t *testing.T) {
	snap := preview.Snapshot{
		Metadata: preview.MediaMetadata{Duration: 10, Width: 1920, Height: 1080},
		Trim:     preview.TrimRange{Start: 1, End: 4},
		Playback: preview.PlaybackState{Playing: true, LoopCount: 1},
	}
	out := CapturedValues(snap, 3, 40)
	assert.Contains(t, out, "1920x1080")
	assert.Contains(t, out, "loop 2/3")
	assert.Contains(t, out, "none")
}

func TestFormatStepSize(t *testing.T) {
	assert.Equal(t, "0.01s", formatStepSize(0.01))
	assert.Equal(t, "0.5s", formatStepSize(0.5))
	assert.Equal(t, "30s", formatStepSize(30))
}

func TestRangeSliderHiddenUntilDurationKnown(t *testing.T) {
	s := NewRangeSlider(0, 0.01, 0.1)
	out := s.View(0, 60)
	assert.Contains(t, out, "waiting for duration")
	assert.NotContains(t, out, "start")
}
