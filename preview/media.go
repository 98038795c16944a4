package preview

import "time"

// Media is the media element the preview drives.
// Implementations must not call back into an Observer from inside Observe,
// Seek, Play or Pause; notifications are delivered later by the event loop.
type Media interface {
	// Seek moves the playback position to an absolute time in seconds.
	Seek(position float64) error
	// Play starts playback. A non-nil error means the media refused to play.
	Play() error
	// Pause pauses playback.
	Pause() error
	// Paused reports whether playback is currently paused.
	Paused() (bool, error)
	// Ready reports whether enough data is available to start playing.
	Ready() bool
	// Observe attaches o to position and pause notifications.
	// The returned func detaches it and is safe to call more than once.
	Observe(o Observer) (detach func())
}

// Observer receives media notifications in the order the media emits them.
type Observer interface {
	OnTimeUpdate(position float64)
	OnPause()
}

// Options tunes the loop and debounce behaviour. Zero values use the defaults.
type Options struct {
	MaxLoops     int
	LoopEpsilon  float64
	SeekDebounce time.Duration
	CropFraction float64
}

func (o Options) withDefaults() Options {
	if o.MaxLoops <= 0 {
		o.MaxLoops = MaxLoops
	}
	if o.LoopEpsilon <= 0 {
		o.LoopEpsilon = LoopEpsilon
	}
	if o.SeekDebounce <= 0 {
		o.SeekDebounce = SeekDebounce
	}
	if o.CropFraction <= 0 || o.CropFraction > 1 {
		o.CropFraction = InitialCropFraction
	}
	return o
}
