package preview

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Controller plays the trimmed range in a bounded loop.
//
// It is Idle until Play succeeds, then Playing until the loop limit is hit,
// the media pauses for any other reason, the range is edited, or Pause is
// called. Position and pause observers are attached only while Playing.
type Controller struct {
	state *State
	media Media
	log   hclog.Logger
	opts  Options

	detach     func()
	observerID uint64
	// absorbPause counts pause notifications expected from the loop's own
	// resume, which must not end the session.
	absorbPause int
}

func newController(state *State, media Media, log hclog.Logger, opts Options) *Controller {
	return &Controller{
		state: state,
		media: media,
		log:   log.Named("controller"),
		opts:  opts,
	}
}

// Playing reports whether the trimmed preview is running.
func (c *Controller) Playing() bool {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.Playback.Playing
}

// Play seeks to the start of the range and starts the looped preview.
// It returns ErrNotReady if the duration is unknown or the media cannot play
// yet, and an error wrapping ErrPlayRejected if the media refused. In both
// cases the controller stays Idle with a zero loop count.
func (c *Controller) Play() error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.playLocked()
}

func (c *Controller) playLocked() error {
	if c.state.Playback.Playing {
		return nil
	}
	if !c.state.Metadata.Known() || !c.media.Ready() {
		c.log.Warn("play requested before media is ready", "duration", c.state.Metadata.Duration)
		return ErrNotReady
	}

	c.state.Playback = PlaybackState{}
	start := c.state.Trim.Start
	if err := c.media.Seek(start); err != nil {
		c.log.Warn("seek to range start failed", "start", start, "error", err)
		return fmt.Errorf("%w: seek to %.2f: %w", ErrPlayRejected, start, err)
	}
	if err := c.media.Play(); err != nil {
		c.log.Warn("media rejected play", "error", err)
		return fmt.Errorf("%w: %w", ErrPlayRejected, err)
	}

	c.state.Playback.Playing = true
	c.attach()
	c.log.Debug("trimmed playback started", "start", start, "end", c.state.Trim.End)
	return nil
}

// Pause stops the preview. It always leaves the controller Idle with a zero
// loop count, even when it was already Idle.
func (c *Controller) Pause() error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.stopLocked("pause requested")
}

// Toggle pauses a running preview or starts an idle one.
func (c *Controller) Toggle() error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if c.state.Playback.Playing {
		return c.stopLocked("pause requested")
	}
	return c.playLocked()
}

// stopLocked detaches observers, resets the playback state and pauses the
// media if it was playing. Caller holds state.mu.
func (c *Controller) stopLocked(reason string) error {
	wasPlaying := c.state.Playback.Playing
	c.detachLocked()
	c.state.Playback = PlaybackState{}
	if !wasPlaying {
		return nil
	}
	c.log.Debug("trimmed playback stopped", "reason", reason)
	if err := c.media.Pause(); err != nil {
		c.log.Warn("pause failed", "error", err)
		return fmt.Errorf("pause media: %w", err)
	}
	return nil
}

// close detaches observers without commanding the media. Caller holds state.mu.
func (c *Controller) close() {
	c.detachLocked()
	c.state.Playback = PlaybackState{}
}

func (c *Controller) attach() {
	c.detachLocked()
	c.observerID++
	c.absorbPause = 0
	c.detach = c.media.Observe(&loopObserver{c: c, id: c.observerID})
}

func (c *Controller) detachLocked() {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
	// Invalidates any notification already queued for the old observer.
	c.observerID++
	c.absorbPause = 0
}

func (c *Controller) onTimeUpdate(id uint64, position float64) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if id != c.observerID || !c.state.Playback.Playing {
		return
	}

	trim := c.state.Trim
	if position < trim.End-c.opts.LoopEpsilon {
		c.absorbPause = 0
		return
	}

	next := c.state.Playback.LoopCount + 1
	if next >= c.opts.MaxLoops {
		// Exhausted: loop count stays at its last value until the next Play.
		c.detachLocked()
		c.state.Playback.Playing = false
		c.log.Debug("loop limit reached", "loops", next)
		if err := c.media.Pause(); err != nil {
			c.log.Warn("pause at loop limit failed", "error", err)
		}
		return
	}

	c.state.Playback.LoopCount = next
	if err := c.media.Seek(trim.Start); err != nil {
		c.log.Warn("loop seek failed", "start", trim.Start, "error", err)
		_ = c.stopLocked("loop seek failed")
		return
	}
	paused, err := c.media.Paused()
	if err != nil || !paused {
		return
	}
	c.absorbPause = 1
	if err := c.media.Play(); err != nil {
		c.log.Warn("resume after loop seek failed", "error", err)
		c.detachLocked()
		c.state.Playback = PlaybackState{}
	}
}

func (c *Controller) onPause(id uint64) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if id != c.observerID || !c.state.Playback.Playing {
		return
	}
	if c.absorbPause > 0 {
		c.absorbPause--
		return
	}
	c.detachLocked()
	c.state.Playback = PlaybackState{}
	c.log.Debug("playback paused externally")
}

// loopObserver forwards media notifications to the controller that attached
// it. Notifications for a detached observer are dropped by id.
type loopObserver struct {
	c  *Controller
	id uint64
}

func (o *loopObserver) OnTimeUpdate(position float64) {
	o.c.onTimeUpdate(o.id, position)
}

func (o *loopObserver) OnPause() {
	o.c.onPause(o.id)
}
