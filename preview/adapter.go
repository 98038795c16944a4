package preview

import (
	"math"

	"github.com/hashicorp/go-hclog"
)

// Adapter turns raw widget callbacks into validated trim and crop updates.
type Adapter struct {
	state *State
	ctrl  *Controller
	media Media
	log   hclog.Logger
	opts  Options
	seek  *Debouncer
}

func newAdapter(state *State, ctrl *Controller, media Media, log hclog.Logger, opts Options, after AfterFunc) *Adapter {
	return &Adapter{
		state: state,
		ctrl:  ctrl,
		media: media,
		log:   log.Named("adapter"),
		opts:  opts,
		seek:  NewDebouncer(opts.SeekDebounce, after),
	}
}

// UpdateTrim stores a new range from the slider and schedules a debounced
// seek to the endpoint that moved. A running preview is stopped first.
// It returns ErrNoMetadata and changes nothing while the duration is unknown.
func (a *Adapter) UpdateTrim(start, end float64, moved Thumb) error {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()

	if !a.state.Metadata.Known() {
		return ErrNoMetadata
	}

	if a.state.Playback.Playing {
		_ = a.ctrl.stopLocked("trim range edited")
	}
	a.state.Playback.LoopCount = 0
	a.state.Trim = clampRange(start, end, a.state.Metadata.Duration)

	target := a.state.Trim.Start
	if moved == ThumbEnd {
		target = a.state.Trim.End
	}
	a.seek.Arm(func(token uint64) {
		a.fireSeek(token, target)
	})
	return nil
}

// fireSeek runs when the trim edits settle.
func (a *Adapter) fireSeek(token uint64, target float64) {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()

	if !a.seek.Current(token) {
		return
	}
	// The controller owns the position while it loops.
	if a.state.Playback.Playing {
		a.log.Debug("skipping trim seek during playback", "target", target)
		return
	}
	if err := a.media.Seek(target); err != nil {
		a.log.Warn("trim seek failed", "target", target, "error", err)
	}
}

// SeekPending reports whether a debounced seek is armed.
func (a *Adapter) SeekPending() bool {
	return a.seek.Pending()
}

// UpdateCrop stores rect if both sides are positive. Degenerate candidates
// are dropped with ErrDegenerateCrop and the previous rectangle is kept.
func (a *Adapter) UpdateCrop(rect CropRect) error {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()

	if !a.state.Metadata.Known() {
		return ErrNoMetadata
	}
	if !rect.Valid() {
		a.log.Warn("discarding degenerate crop", "x", rect.X, "y", rect.Y, "width", rect.Width, "height", rect.Height)
		return ErrDegenerateCrop
	}
	a.state.Crop = rect
	a.state.HasCrop = true
	return nil
}

// applyMetadataLocked installs new metadata. The 0..duration trim default is
// applied once per video, the first time the duration is known. Caller holds
// state.mu.
func (a *Adapter) applyMetadataLocked(meta MediaMetadata) {
	prev := a.state.Metadata
	a.state.Metadata = meta

	if meta.Known() && !a.state.trimApplied {
		a.state.Trim = TrimRange{Start: 0, End: meta.Duration}
		a.state.trimApplied = true
	} else if meta.Known() {
		a.state.Trim = clampRange(a.state.Trim.Start, a.state.Trim.End, meta.Duration)
	}

	sizeChanged := prev.Width != meta.Width || prev.Height != meta.Height
	if meta.Width > 0 && meta.Height > 0 && (!a.state.HasCrop || sizeChanged) {
		a.state.Crop = InitialCrop(meta.Width, meta.Height, a.opts.CropFraction)
		a.state.HasCrop = true
		a.log.Debug("initial crop", "x", a.state.Crop.X, "y", a.state.Crop.Y, "width", a.state.Crop.Width, "height", a.state.Crop.Height)
	}
}

// close cancels the pending seek.
func (a *Adapter) close() {
	a.seek.Cancel()
}

// InitialCrop returns a centered square whose side is fraction of the shorter
// frame side, in normalized units of each axis.
func InitialCrop(width, height int, fraction float64) CropRect {
	if width <= 0 || height <= 0 {
		return CropRect{}
	}
	side := math.Min(float64(width), float64(height)) * fraction
	w := side / float64(width) * 100
	h := side / float64(height) * 100
	return CropRect{
		X:      (100 - w) / 2,
		Y:      (100 - h) / 2,
		Width:  w,
		Height: h,
	}
}

// clampRange orders and clamps a pair into [0, duration].
func clampRange(start, end, duration float64) TrimRange {
	if start > end {
		start, end = end, start
	}
	start = math.Max(0, math.Min(start, duration))
	end = math.Max(start, math.Min(end, duration))
	return TrimRange{Start: start, End: end}
}
