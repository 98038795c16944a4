package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataSetsTrimAndCrop(t *testing.T) {
	tests := []struct {
		name     string
		meta     MediaMetadata
		wantCrop *CropRect
	}{
		{
			name:     "landscape",
			meta:     MediaMetadata{Duration: 12.5, Width: 1920, Height: 1080},
			wantCrop: &CropRect{X: 35.9375, Y: 25, Width: 28.125, Height: 50},
		},
		{
			name:     "square",
			meta:     MediaMetadata{Duration: 3, Width: 400, Height: 400},
			wantCrop: &CropRect{X: 25, Y: 25, Width: 50, Height: 50},
		},
		{
			name: "audio only",
			meta: MediaMetadata{Duration: 60},
		},
		{
			name: "zero duration",
			meta: MediaMetadata{Width: 640, Height: 360},
			wantCrop: &CropRect{
				X: (100 - 28.125) / 2, Y: 25, Width: 28.125, Height: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, _ := newLoadedSession(tt.meta)
			snap := s.Snapshot()

			assert.Equal(t, 0.0, snap.Trim.Start)
			assert.Equal(t, tt.meta.Duration, snap.Trim.End)
			if tt.wantCrop == nil {
				assert.Nil(t, snap.Crop)
				return
			}
			require.NotNil(t, snap.Crop)
			assert.InDelta(t, tt.wantCrop.X, snap.Crop.X, 1e-9)
			assert.InDelta(t, tt.wantCrop.Y, snap.Crop.Y, 1e-9)
			assert.InDelta(t, tt.wantCrop.Width, snap.Crop.Width, 1e-9)
			assert.InDelta(t, tt.wantCrop.Height, snap.Crop.Height, 1e-9)

			_, _, w, h := snap.Crop.Pixels(tt.meta.Width, tt.meta.Height)
			assert.Equal(t, w, h, "crop is square in pixels")
		})
	}
}

func TestTrimDefaultAppliedOncePerVideo(t *testing.T) {
	media := newFakeMedia()
	s := NewSession(Config{Media: media, AfterFunc: (&fakeClock{}).AfterFunc})
	src := &fakeSource{id: "a", path: "a.mp4"}
	require.NoError(t, s.Load(src))

	s.OnMetadata("a.mp4", MediaMetadata{Width: 100, Height: 100})
	assert.Equal(t, TrimRange{}, s.Snapshot().Trim, "no default before the duration is known")
	assert.ErrorIs(t, s.Adapter().UpdateTrim(1, 2, ThumbStart), ErrNoMetadata)

	s.OnMetadata("a.mp4", MediaMetadata{Duration: 10, Width: 100, Height: 100})
	assert.Equal(t, TrimRange{Start: 0, End: 10}, s.Snapshot().Trim)

	require.NoError(t, s.Adapter().UpdateTrim(2, 5, ThumbEnd))
	s.OnMetadata("a.mp4", MediaMetadata{Duration: 10, Width: 100, Height: 100})
	assert.Equal(t, TrimRange{Start: 2, End: 5}, s.Snapshot().Trim, "default is not reapplied")

	require.NoError(t, s.Load(&fakeSource{id: "b", path: "b.mp4"}))
	s.OnMetadata("b.mp4", MediaMetadata{Duration: 7})
	assert.Equal(t, TrimRange{Start: 0, End: 7}, s.Snapshot().Trim, "a new video gets its own default")
}

func TestTrimRangeInvariantHolds(t *testing.T) {
	s, _, _, _ := newLoadedSession(MediaMetadata{Duration: 8})

	drags := []struct {
		start, end float64
		moved      Thumb
	}{
		{1, 7, ThumbStart},
		{-3, 7, ThumbStart},
		{0, 12, ThumbEnd},
		{6, 2, ThumbEnd},
		{9, 9.5, ThumbStart},
		{4, 4, ThumbEnd},
		{0.01, 0.11, ThumbStart},
	}
	for _, d := range drags {
		require.NoError(t, s.Adapter().UpdateTrim(d.start, d.end, d.moved))
		tr := s.Snapshot().Trim
		assert.GreaterOrEqual(t, tr.Start, 0.0)
		assert.LessOrEqual(t, tr.Start, tr.End)
		assert.LessOrEqual(t, tr.End, 8.0)
	}
}

func TestDegenerateCropIsDiscarded(t *testing.T) {
	s, _, _, _ := newLoadedSession(MediaMetadata{Duration: 10, Width: 800, Height: 800})
	valid := CropRect{X: 5, Y: 5, Width: 40, Height: 40}
	require.NoError(t, s.Adapter().UpdateCrop(valid))

	for _, bad := range []CropRect{
		{X: 10, Y: 10, Width: 0, Height: 40},
		{X: 10, Y: 10, Width: 40, Height: 0},
		{X: 10, Y: 10, Width: -1, Height: 20},
		{},
	} {
		err := s.Adapter().UpdateCrop(bad)
		assert.ErrorIs(t, err, ErrDegenerateCrop)
		require.NotNil(t, s.Snapshot().Crop)
		assert.Equal(t, valid, *s.Snapshot().Crop)
	}
}

func TestCropIgnoredBeforeMetadata(t *testing.T) {
	s := NewSession(Config{Media: newFakeMedia()})
	require.NoError(t, s.Load(&fakeSource{id: "a", path: "a.mp4"}))

	err := s.Adapter().UpdateCrop(CropRect{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrNoMetadata)
	assert.Nil(t, s.Snapshot().Crop)
}

func TestEditWhilePlayingForcesIdle(t *testing.T) {
	s, media, _, _ := newLoadedSession(MediaMetadata{Duration: 10})
	require.NoError(t, s.Controller().Play())
	media.tick(10)
	require.Equal(t, 1, s.Snapshot().Playback.LoopCount)

	require.NoError(t, s.Adapter().UpdateTrim(3, 6, ThumbStart))

	snap := s.Snapshot()
	assert.False(t, snap.Playback.Playing)
	assert.Equal(t, 0, snap.Playback.LoopCount)
	assert.Equal(t, TrimRange{Start: 3, End: 6}, snap.Trim)
	assert.True(t, media.paused)
	assert.Empty(t, media.observers)
}

func TestEditAfterExhaustionResetsLoopCount(t *testing.T) {
	s, media, _, _ := newLoadedSession(MediaMetadata{Duration: 10})
	require.NoError(t, s.Controller().Play())
	for i := 0; i < MaxLoops; i++ {
		media.tick(10)
	}
	require.Equal(t, MaxLoops-1, s.Snapshot().Playback.LoopCount)

	require.NoError(t, s.Adapter().UpdateTrim(1, 9, ThumbEnd))
	assert.Equal(t, 0, s.Snapshot().Playback.LoopCount)
}

func TestRapidDragIssuesOneSeek(t *testing.T) {
	s, media, clock, _ := newLoadedSession(MediaMetadata{Duration: 30})

	for i := 1; i <= 10; i++ {
		require.NoError(t, s.Adapter().UpdateTrim(float64(i)*0.5, 20, ThumbStart))
	}
	assert.Empty(t, media.seeks, "nothing seeks before the drag settles")
	assert.True(t, s.Adapter().SeekPending())

	fired := clock.fireAll()

	assert.Equal(t, 1, fired)
	assert.Equal(t, []float64{5}, media.seeks)
	assert.False(t, s.Adapter().SeekPending())
	for _, tm := range clock.timers {
		assert.Equal(t, SeekDebounce, tm.delay)
	}
}

func TestEndThumbSeeksToEnd(t *testing.T) {
	s, media, clock, _ := newLoadedSession(MediaMetadata{Duration: 30})

	require.NoError(t, s.Adapter().UpdateTrim(0, 12.34, ThumbEnd))
	clock.fireAll()

	assert.Equal(t, []float64{12.34}, media.seeks)
}

func TestDebouncedSeekSkippedWhilePlaying(t *testing.T) {
	s, media, clock, _ := newLoadedSession(MediaMetadata{Duration: 30})

	require.NoError(t, s.Adapter().UpdateTrim(4, 10, ThumbEnd))
	require.NoError(t, s.Controller().Play())
	clock.fireAll()

	assert.Equal(t, []float64{4}, media.seeks, "only the controller's seek to start")
	assert.True(t, s.Controller().Playing())
}

func TestClampRange(t *testing.T) {
	assert.Equal(t, TrimRange{Start: 2, End: 5}, clampRange(5, 2, 10))
	assert.Equal(t, TrimRange{Start: 0, End: 10}, clampRange(-1, 11, 10))
	assert.Equal(t, TrimRange{Start: 10, End: 10}, clampRange(12, 15, 10))
}
