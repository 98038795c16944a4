package preview

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrClosed is returned by a Session after Close.
var ErrClosed = errors.New("preview: session closed")

// Source is a revocable handle to the video data being previewed.
type Source interface {
	ID() string
	Path() string
	Revoke() error
}

// Loader is implemented by media that can switch to a new source.
type Loader interface {
	Load(path string) error
}

// Config configures a Session.
type Config struct {
	Media   Media
	Logger  hclog.Logger
	Options Options
	// AfterFunc overrides the timer used for debounced seeks.
	AfterFunc AfterFunc
}

// Session coordinates one preview: it owns the State, the Controller, the
// Adapter and the current Source.
type Session struct {
	state   *State
	media   Media
	log     hclog.Logger
	ctrl    *Controller
	adapter *Adapter
	source  Source
	closed  bool
}

// NewSession creates an idle session with no source loaded.
func NewSession(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	opts := cfg.Options.withDefaults()
	state := &State{}
	ctrl := newController(state, cfg.Media, logger, opts)
	return &Session{
		state:   state,
		media:   cfg.Media,
		log:     logger,
		ctrl:    ctrl,
		adapter: newAdapter(state, ctrl, cfg.Media, logger, opts, cfg.AfterFunc),
	}
}

// Controller returns the playback-range controller.
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// Adapter returns the trim/crop input adapter.
func (s *Session) Adapter() *Adapter {
	return s.adapter
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.snapshot()
}

// Source returns the live source, or nil.
func (s *Session) Source() Source {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.source
}

// Load makes src the live source. The previous source is revoked, playback
// and any pending seek are cancelled, and all per-video state is cleared
// until metadata for src arrives.
func (s *Session) Load(src Source) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_ = s.ctrl.stopLocked("new source loaded")
	s.adapter.close()
	s.state.reset()

	old := s.source
	s.source = src
	if old != nil {
		s.revoke(old)
	}

	if loader, ok := s.media.(Loader); ok {
		if err := loader.Load(src.Path()); err != nil {
			return fmt.Errorf("load %s: %w", src.Path(), err)
		}
	}
	s.log.Info("source loaded", "id", src.ID(), "path", src.Path())
	return nil
}

// OnMetadata applies metadata reported for path. Metadata for anything other
// than the live source is ignored.
func (s *Session) OnMetadata(path string, meta MediaMetadata) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.closed || s.source == nil || s.source.Path() != path {
		s.log.Debug("ignoring metadata for stale source", "path", path)
		return
	}
	s.adapter.applyMetadataLocked(meta)
	s.log.Info("metadata loaded", "duration", meta.Duration, "width", meta.Width, "height", meta.Height)
}

// Close detaches observers, cancels the pending seek and revokes the live
// source. Calling it again does nothing.
func (s *Session) Close() {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.ctrl.close()
	s.adapter.close()
	if s.source != nil {
		s.revoke(s.source)
		s.source = nil
	}
}

func (s *Session) revoke(src Source) {
	if err := src.Revoke(); err != nil {
		s.log.Warn("revoking source failed", "id", src.ID(), "error", err)
		return
	}
	s.log.Debug("source revoked", "id", src.ID())
}
