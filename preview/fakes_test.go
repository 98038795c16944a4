package preview

import (
	"sync"
	"time"
)

type fakeMedia struct {
	ready       bool
	paused      bool
	position    float64
	playErr     error
	seekErr     error
	pauseOnSeek bool

	seeks  []float64
	plays  int
	pauses int
	loads  []string

	observers map[int]Observer
	nextID    int
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{ready: true, paused: true, observers: map[int]Observer{}}
}

func (m *fakeMedia) Seek(position float64) error {
	if m.seekErr != nil {
		return m.seekErr
	}
	m.seeks = append(m.seeks, position)
	m.position = position
	if m.pauseOnSeek {
		m.paused = true
	}
	return nil
}

func (m *fakeMedia) Play() error {
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *fakeMedia) Pause() error {
	m.pauses++
	m.paused = true
	return nil
}

func (m *fakeMedia) Paused() (bool, error) {
	return m.paused, nil
}

func (m *fakeMedia) Ready() bool {
	return m.ready
}

func (m *fakeMedia) Observe(o Observer) func() {
	m.nextID++
	id := m.nextID
	m.observers[id] = o
	return func() { delete(m.observers, id) }
}

func (m *fakeMedia) Load(path string) error {
	m.loads = append(m.loads, path)
	return nil
}

func (m *fakeMedia) attached() []Observer {
	out := make([]Observer, 0, len(m.observers))
	for _, o := range m.observers {
		out = append(out, o)
	}
	return out
}

// tick delivers a position update to every attached observer.
func (m *fakeMedia) tick(position float64) {
	m.position = position
	for _, o := range m.attached() {
		o.OnTimeUpdate(position)
	}
}

// firePause delivers a pause notification to every attached observer.
func (m *fakeMedia) firePause() {
	for _, o := range m.attached() {
		o.OnPause()
	}
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer that was neither stopped nor fired.
func (c *fakeClock) fireAll() int {
	n := 0
	for _, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
		n++
	}
	return n
}

type fakeSource struct {
	id      string
	path    string
	revokes int
}

func (s *fakeSource) ID() string   { return s.id }
func (s *fakeSource) Path() string { return s.path }

func (s *fakeSource) Revoke() error {
	s.revokes++
	return nil
}

// newLoadedSession returns a session with a source loaded and metadata applied.
func newLoadedSession(meta MediaMetadata) (*Session, *fakeMedia, *fakeClock, *fakeSource) {
	media := newFakeMedia()
	clock := &fakeClock{}
	s := NewSession(Config{Media: media, AfterFunc: clock.AfterFunc})
	src := &fakeSource{id: "a", path: "/tmp/a.mp4"}
	_ = s.Load(src)
	s.OnMetadata(src.path, meta)
	return s, media, clock, src
}

// lockedMedia guards seeks that arrive from a real timer goroutine.
type lockedMedia struct {
	*fakeMedia
	mu sync.Mutex
}

func (m *lockedMedia) Seek(position float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fakeMedia.Seek(position)
}

func (m *lockedMedia) seekCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seeks...)
}
