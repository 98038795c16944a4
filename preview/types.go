// Package preview holds the trim/crop preview core: the playback-range
// controller, the trim/crop input adapter and the session that owns them.
package preview

import (
	"errors"
	"math"
	"sync"
	"time"
)

const (
	// MaxLoops is the number of times the trimmed range plays before the preview stops.
	MaxLoops = 3
	// LoopEpsilon is the tolerance before End at which a loop boundary is detected.
	LoopEpsilon = 0.1
	// SeekDebounce is how long trim edits must settle before the media is seeked.
	SeekDebounce = 200 * time.Millisecond
	// InitialCropFraction sizes the initial crop relative to the shorter frame side.
	InitialCropFraction = 0.5
)

var (
	// ErrNotReady is returned when playback is requested before the media can play.
	ErrNotReady = errors.New("preview: media not ready")
	// ErrPlayRejected is returned when the media refused to start playing.
	ErrPlayRejected = errors.New("preview: play rejected")
	// ErrDegenerateCrop is returned when a crop candidate has zero or negative size.
	ErrDegenerateCrop = errors.New("preview: degenerate crop rectangle")
	// ErrNoMetadata is returned when an update arrives before the duration is known.
	ErrNoMetadata = errors.New("preview: metadata not loaded")
)

// MediaMetadata is what the media reports once a video is loaded.
type MediaMetadata struct {
	Duration float64 `yaml:"duration"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// Known returns true once the duration is positive.
func (m MediaMetadata) Known() bool {
	return m.Duration > 0
}

// TrimRange is the selected [Start, End] section in seconds.
type TrimRange struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Length returns End - Start.
func (r TrimRange) Length() float64 {
	return r.End - r.Start
}

// CropRect is a crop region in normalized 0-100 units of the frame.
type CropRect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Valid reports whether both sides are strictly positive.
func (c CropRect) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// Pixels converts the rectangle to pixel coordinates for a frame of w x h,
// rounding to the nearest pixel.
func (c CropRect) Pixels(w, h int) (x, y, width, height int) {
	fw, fh := float64(w), float64(h)
	px := func(v, side float64) int { return int(math.Round(v * side / 100)) }
	return px(c.X, fw), px(c.Y, fh), px(c.Width, fw), px(c.Height, fh)
}

// PlaybackState tracks the trimmed-loop preview.
// LoopCount counts completed passes over the range.
type PlaybackState struct {
	Playing   bool `yaml:"playing"`
	LoopCount int  `yaml:"loop_count"`
}

// CurrentLoop returns the 1-based number of the pass being played.
func (p PlaybackState) CurrentLoop() int {
	return p.LoopCount + 1
}

// Thumb identifies which trim endpoint moved.
type Thumb int

const (
	ThumbStart Thumb = iota
	ThumbEnd
)

func (t Thumb) String() string {
	if t == ThumbEnd {
		return "end"
	}
	return "start"
}

// State is the single mutable state object for one loaded video.
// It is owned by a Session and shared by pointer with the Controller and the
// Adapter. Every exported method that touches it takes mu.
type State struct {
	mu sync.Mutex

	Metadata MediaMetadata
	Trim     TrimRange
	Crop     CropRect
	HasCrop  bool
	Playback PlaybackState

	// trimApplied records that the 0..duration default was set for this video.
	trimApplied bool
}

// reset clears everything derived from the loaded video. Caller holds mu.
func (s *State) reset() {
	s.Metadata = MediaMetadata{}
	s.Trim = TrimRange{}
	s.Crop = CropRect{}
	s.HasCrop = false
	s.Playback = PlaybackState{}
	s.trimApplied = false
}

// Snapshot is a copy of State safe to use without locking.
type Snapshot struct {
	Metadata MediaMetadata `yaml:"metadata"`
	Trim     TrimRange     `yaml:"trim"`
	Crop     *CropRect     `yaml:"crop,omitempty"`
	Playback PlaybackState `yaml:"playback"`
}

// snapshot copies the state. Caller holds mu.
func (s *State) snapshot() Snapshot {
	snap := Snapshot{
		Metadata: s.Metadata,
		Trim:     s.Trim,
		Playback: s.Playback,
	}
	if s.HasCrop {
		c := s.Crop
		snap.Crop = &c
	}
	return snap
}
