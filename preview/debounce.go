package preview

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the Debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via realAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer is a single-slot cancellable timer. Arming it cancels whatever was
// armed before, so only the last armed callback can fire.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	after AfterFunc
	timer Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer firing delay after the last Arm.
// A nil after uses time.AfterFunc.
func NewDebouncer(delay time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer{delay: delay, after: after}
}

// Arm cancels any pending callback and schedules f. f receives the token Arm
// returns, so it can check Current to detect a newer Arm that raced it.
func (d *Debouncer) Arm(f func(token uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f(gen)
	})
	return gen
}

// Cancel stops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a callback is armed and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Current reports whether token belongs to the most recent Arm and no Cancel
// happened since.
func (d *Debouncer) Current(token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == token
}
