// Package player implements the preview media element on top of an mpv
// IPC client.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/user/trimcrop-cli/mpv"
	"github.com/user/trimcrop-cli/preview"
)

// Observed property ids.
const (
	observeTimePos = iota + 1
	observePause
	observeDuration
)

// osdDuration is how long ShowText messages stay on the video.
const osdDuration = 1500 * time.Millisecond

// ErrNoVideoSize is returned by SetCrop before the frame size is known.
var ErrNoVideoSize = errors.New("player: video size unknown")

// Client is the subset of *mpv.Client the player needs.
type Client interface {
	Seek(seconds float64) error
	Play() error
	Pause() error
	GetPaused() (bool, error)
	LoadFile(path string) (int64, error)
	ObserveProperty(id int, name string) error
	GetDuration() (float64, error)
	GetVideoSize() (width, height int, err error)
	GetPath() (string, error)
	SetCrop(x, y, w, h int) error
	ClearCrop() error
	ShowText(text string, d time.Duration) error
}

// MetadataFunc is called when a loaded file's metadata becomes available.
// path is the path mpv reports for the file.
type MetadataFunc func(path string, meta preview.MediaMetadata)

// Media is a preview.Media backed by mpv.
// mpv events reach it through Dispatch; observers are called from there.
type Media struct {
	client     Client
	log        hclog.Logger
	onMetadata MetadataFunc

	mu        sync.Mutex
	observers map[int]preview.Observer
	nextID    int
	ready     bool
	// seeking drops position updates from before a seek until mpv reports
	// playback restarted at the new position.
	seeking bool
	meta    preview.MediaMetadata
	// want is the playlist entry of the latest Load, started the entry of
	// the last start-file. A file-loaded for any other entry is stale.
	want    int64
	started int64
}

var (
	_ preview.Media  = (*Media)(nil)
	_ preview.Loader = (*Media)(nil)
)

// New returns a Media driving client. onMetadata may be nil.
func New(client Client, logger hclog.Logger, onMetadata MetadataFunc) *Media {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Media{
		client:     client,
		log:        logger.Named("player"),
		onMetadata: onMetadata,
		observers:  make(map[int]preview.Observer),
	}
}

// Start subscribes to the mpv properties the preview needs.
func (m *Media) Start() error {
	props := []struct {
		id   int
		name string
	}{
		{observeTimePos, "time-pos"},
		{observePause, "pause"},
		{observeDuration, "duration"},
	}
	for _, p := range props {
		if err := m.client.ObserveProperty(p.id, p.name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Media) Seek(position float64) error {
	m.setSeeking(true)
	if err := m.client.Seek(position); err != nil {
		m.setSeeking(false)
		return err
	}
	return nil
}

func (m *Media) setSeeking(v bool) {
	m.mu.Lock()
	m.seeking = v
	m.mu.Unlock()
}

func (m *Media) Play() error {
	return m.client.Play()
}

func (m *Media) Pause() error {
	return m.client.Pause()
}

func (m *Media) Paused() (bool, error) {
	return m.client.GetPaused()
}

// Ready is true between file-loaded and the next load or end-file.
func (m *Media) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Observe attaches o until the returned func is called.
func (m *Media) Observe(o preview.Observer) func() {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.observers[id] = o
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Load replaces the file mpv plays and clears any crop shown for the previous
// one. The media is not ready until mpv reports the file loaded.
func (m *Media) Load(path string) error {
	m.mu.Lock()
	m.ready = false
	m.seeking = false
	m.meta = preview.MediaMetadata{}
	m.mu.Unlock()

	if err := m.client.ClearCrop(); err != nil {
		m.log.Debug("clearing crop failed", "error", err)
	}
	id, err := m.client.LoadFile(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.want = id
	m.started = 0
	m.mu.Unlock()
	return nil
}

// ShowText puts a short message on the video.
func (m *Media) ShowText(text string) error {
	return m.client.ShowText(text, osdDuration)
}

// Metadata returns the last metadata read from mpv.
func (m *Media) Metadata() preview.MediaMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta
}

// SetCrop shows rect on the video. An invalid rect clears the crop.
func (m *Media) SetCrop(rect preview.CropRect) error {
	if !rect.Valid() {
		return m.client.ClearCrop()
	}
	meta := m.Metadata()
	if meta.Width <= 0 || meta.Height <= 0 {
		return ErrNoVideoSize
	}
	x, y, w, h := rect.Pixels(meta.Width, meta.Height)
	return m.client.SetCrop(x, y, w, h)
}

// Dispatch routes one mpv event. It must be called from a single goroutine,
// in the order events arrive. Position updates are held back while a seek is
// in flight so a stale position cannot count as reaching the range end.
func (m *Media) Dispatch(ev mpv.Event) {
	switch ev.Name {
	case mpv.EventPropertyChange:
		m.dispatchProperty(ev)
	case mpv.EventStartFile:
		m.mu.Lock()
		m.started = ev.EntryID
		m.mu.Unlock()
	case mpv.EventFileLoaded:
		m.mu.Lock()
		// mpv 0.33+ tags entries; without ids every file-loaded counts.
		if m.want != 0 && m.started != m.want {
			want, started := m.want, m.started
			m.mu.Unlock()
			m.log.Debug("ignoring superseded file", "entry", started, "want", want)
			return
		}
		m.ready = true
		m.seeking = false
		m.mu.Unlock()
		m.loadMetadata()
	case mpv.EventPlaybackRestart:
		m.setSeeking(false)
	case mpv.EventEndFile:
		m.mu.Lock()
		m.ready = false
		m.mu.Unlock()
		m.log.Debug("file ended", "reason", ev.Reason)
		m.notifyPause()
	case mpv.EventDisconnected:
		m.mu.Lock()
		m.ready = false
		m.mu.Unlock()
		m.notifyPause()
	}
}

func (m *Media) dispatchProperty(ev mpv.Event) {
	switch ev.Property {
	case "time-pos":
		m.mu.Lock()
		seeking := m.seeking
		m.mu.Unlock()
		if pos, ok := ev.Float(); ok && !seeking {
			for _, o := range m.attached() {
				o.OnTimeUpdate(pos)
			}
		}
	case "pause":
		if paused, ok := ev.Bool(); ok && paused && m.stillPaused() {
			m.notifyPause()
		}
	case "duration":
		d, ok := ev.Float()
		if !ok || d <= 0 || !m.Ready() {
			return
		}
		if d != m.Metadata().Duration {
			m.loadMetadata()
		}
	}
}

// stillPaused reports whether mpv is paused now. A pause=true change is
// delivered late, so one echoing a Pause that a Play has since undone must
// not stop the playback that Play started.
func (m *Media) stillPaused() bool {
	paused, err := m.client.GetPaused()
	if err != nil {
		m.log.Debug("reading pause failed", "error", err)
		return true
	}
	if !paused {
		m.log.Debug("ignoring stale pause")
	}
	return paused
}

func (m *Media) notifyPause() {
	for _, o := range m.attached() {
		o.OnPause()
	}
}

// attached copies the observer set so callbacks can detach themselves.
func (m *Media) attached() []preview.Observer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]preview.Observer, 0, len(m.observers))
	for _, o := range m.observers {
		out = append(out, o)
	}
	return out
}

func (m *Media) loadMetadata() {
	path, err := m.client.GetPath()
	if err != nil {
		m.log.Warn("reading path failed", "error", err)
		return
	}
	var meta preview.MediaMetadata
	if meta.Duration, err = m.client.GetDuration(); err != nil {
		// Duration arrives later for some containers; the duration observer retries.
		m.log.Debug("duration not available yet", "error", err)
		meta.Duration = 0
	}
	if meta.Width, meta.Height, err = m.client.GetVideoSize(); err != nil {
		m.log.Debug("video size not available", "error", err)
		meta.Width, meta.Height = 0, 0
	}

	m.mu.Lock()
	m.meta = meta
	m.mu.Unlock()

	if m.onMetadata != nil {
		m.onMetadata(path, meta)
	}
}
