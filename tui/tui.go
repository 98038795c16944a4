package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/hashicorp/go-hclog"

	"github.com/user/trimcrop-cli/config"
	"github.com/user/trimcrop-cli/mpv"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/source"
	"github.com/user/trimcrop-cli/tui/components"
	"github.com/user/trimcrop-cli/watch"
)

const (
	// defaultStepSize is the default nudge step in seconds.
	defaultStepSize = 1.0
	// resultDisplayDuration is how long to show messages.
	resultDisplayDuration = 3 * time.Second
)

// stepSizes defines the available nudge steps.
// Users can cycle through these with < and > keys.
var stepSizes = []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30}

// mpvEventMsg carries one mpv event into the update loop.
type mpvEventMsg mpv.Event

// fileChangedMsg is sent when the watched video settled after a rewrite.
type fileChangedMsg struct {
	path    string
	watcher *watch.FileWatcher
}

// clearResultMsg clears the message line if it is still the one with seq.
type clearResultMsg struct{ seq int }

// Player is what the TUI needs from the mpv-backed media element.
type Player interface {
	Dispatch(ev mpv.Event)
	SetCrop(rect preview.CropRect) error
	ShowText(text string) error
}

// Options wires the TUI to the rest of the program.
type Options struct {
	Session *preview.Session
	Player  Player
	Events  <-chan mpv.Event
	Sources *source.Registry
	Config  *config.Config
	Logger  hclog.Logger
	// Video is opened when the program starts.
	Video string
	// InitialTrim, if set, replaces the 0..duration default of the first video.
	InitialTrim *preview.TrimRange
	// Watch reloads the video whenever it is rewritten on disk.
	Watch bool
}

// Result is what the TUI leaves behind when it exits.
type Result struct {
	// Video is the original path of the last opened video.
	Video    string
	Snapshot preview.Snapshot
}

// Model is the Bubbletea model for the TUI application.
type Model struct {
	session *preview.Session
	player  Player
	events  <-chan mpv.Event
	sources *source.Registry
	cfg     *config.Config
	log     hclog.Logger

	videoPath   string
	initialTrim *preview.TrimRange
	watchFiles  bool
	watcher     *watch.FileWatcher

	slider   components.RangeSlider
	crop     components.CropBox
	meta     preview.MediaMetadata
	position float64
	stepSize float64

	cropMode  bool
	showHelp  bool
	form      *huh.Form
	formPath  string
	connected bool

	message   string
	warning   bool
	resultSeq int

	err      error
	quitting bool
	width    int
	height   int
}

// NewModel creates the model. Nothing is loaded until Init runs.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &Model{
		session:     opts.Session,
		player:      opts.Player,
		events:      opts.Events,
		sources:     opts.Sources,
		cfg:         cfg,
		log:         logger.Named("tui"),
		videoPath:   opts.Video,
		initialTrim: opts.InitialTrim,
		watchFiles:  opts.Watch,
		slider:      components.NewRangeSlider(0, cfg.Trim.Step, cfg.Trim.MinDistance),
		crop:        components.NewCropBox(cfg.Crop.MinSize),
		stepSize:    defaultStepSize,
		connected:   true,
	}
}

// Init opens the initial video and starts listening for mpv events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.events)}
	if m.videoPath != "" {
		watchCmd, err := m.openVideo(m.videoPath)
		if err != nil {
			m.err = err
			return tea.Quit
		}
		cmds = append(cmds, watchCmd)
	}
	return tea.Batch(cmds...)
}

// waitForEvent blocks until mpv sends the next event.
func waitForEvent(events <-chan mpv.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return mpvEventMsg(ev)
	}
}

// waitForChange blocks until w reports a settled rewrite or is closed.
func waitForChange(w *watch.FileWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case path := <-w.Changes():
			return fileChangedMsg{path: path, watcher: w}
		case <-w.Done():
			return nil
		}
	}
}

func (m *Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForChange(m.watcher)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case mpvEventMsg:
		m.handleEvent(mpv.Event(msg))
		return m, waitForEvent(m.events)

	case fileChangedMsg:
		if msg.watcher != m.watcher {
			return m, nil
		}
		m.log.Info("video rewritten, reloading", "path", msg.path)
		// The watcher stays the same for the same file, so re-arm it here.
		if _, err := m.openVideo(msg.path); err != nil {
			return m, tea.Batch(m.setMessage(describeError(err), true), m.watchCmd())
		}
		return m, tea.Batch(m.setMessage("video changed on disk, reloaded", false), m.watchCmd())

	case clearResultMsg:
		if msg.seq == m.resultSeq {
			m.message = ""
			m.warning = false
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

// handleEvent lets the player route the event, then syncs the widgets with
// whatever the session made of it.
func (m *Model) handleEvent(ev mpv.Event) {
	before := m.session.Snapshot().Playback
	m.player.Dispatch(ev)
	m.announceLoop(before)

	switch ev.Name {
	case mpv.EventPropertyChange:
		if ev.Property == "time-pos" {
			if pos, ok := ev.Float(); ok {
				m.position = pos
			}
		}
	case mpv.EventDisconnected:
		m.connected = false
		m.message, m.warning = "mpv disconnected", true
	}
	m.syncWidgets()
}

// announceLoop shows the new pass number on the video when a loop wrapped.
func (m *Model) announceLoop(before preview.PlaybackState) {
	now := m.session.Snapshot().Playback
	if !now.Playing || now.LoopCount <= before.LoopCount {
		return
	}
	text := fmt.Sprintf("loop %d/%d", now.CurrentLoop(), m.cfg.Playback.MaxLoops)
	if err := m.player.ShowText(text); err != nil {
		m.log.Debug("showing loop number failed", "error", err)
	}
}

// syncWidgets updates the slider and crop box when new metadata arrived.
func (m *Model) syncWidgets() {
	snap := m.session.Snapshot()
	if snap.Metadata == m.meta {
		return
	}
	prev := m.meta
	m.meta = snap.Metadata

	if snap.Metadata.Duration != prev.Duration {
		m.slider.SetMax(snap.Metadata.Duration)
		if m.initialTrim != nil && snap.Metadata.Known() {
			r := *m.initialTrim
			m.initialTrim = nil
			if err := m.session.Adapter().UpdateTrim(r.Start, r.End, preview.ThumbStart); err != nil {
				m.log.Warn("initial trim rejected", "error", err)
			}
			snap = m.session.Snapshot()
		}
		m.slider.SetValues(snap.Trim.Start, snap.Trim.End)
	}

	if snap.Metadata.Width != prev.Width || snap.Metadata.Height != prev.Height {
		var rect preview.CropRect
		if snap.Crop != nil {
			rect = *snap.Crop
		}
		m.crop.SetFrame(snap.Metadata.Width, snap.Metadata.Height, rect)
		if !m.crop.Ready() {
			m.cropMode = false
		}
	}
}

// openVideo creates a source handle for path and makes it the live source.
// The previous handle is revoked by the session. The returned command waits
// on a newly started watcher and is nil when the watcher did not change.
func (m *Model) openVideo(path string) (tea.Cmd, error) {
	h, err := m.sources.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := m.session.Load(h); err != nil {
		return nil, err
	}

	m.videoPath = h.Target()
	m.meta = preview.MediaMetadata{}
	m.position = 0
	m.cropMode = false
	m.slider.SetMax(0)
	m.crop = components.NewCropBox(m.cfg.Crop.MinSize)

	if m.watchFiles && (m.watcher == nil || m.watcher.Path() != h.Target()) {
		m.restartWatcher(h.Target())
		return m.watchCmd(), nil
	}
	return nil, nil
}

func (m *Model) restartWatcher(path string) {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
	w, err := watch.New(path, m.cfg.Watch.Debounce, m.log)
	if err != nil {
		m.log.Warn("cannot watch video", "path", path, "error", err)
		return
	}
	m.watcher = w
}

// setMessage shows text on the message line for resultDisplayDuration.
func (m *Model) setMessage(text string, warning bool) tea.Cmd {
	m.resultSeq++
	seq := m.resultSeq
	m.message = text
	m.warning = warning
	return tea.Tick(resultDisplayDuration, func(time.Time) tea.Msg {
		return clearResultMsg{seq: seq}
	})
}

// describeError turns core errors into short user-facing messages.
func describeError(err error) string {
	switch {
	case errors.Is(err, preview.ErrNotReady):
		return "video not ready yet"
	case errors.Is(err, preview.ErrPlayRejected):
		return "player refused to play: " + err.Error()
	case errors.Is(err, preview.ErrDegenerateCrop):
		return "crop too small, kept previous"
	case errors.Is(err, preview.ErrNoMetadata):
		return "waiting for video metadata"
	default:
		return err.Error()
	}
}

func (m *Model) close() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

func (m *Model) result() Result {
	return Result{Video: m.videoPath, Snapshot: m.session.Snapshot()}
}

// fileName returns the base name of the current video.
func (m *Model) fileName() string {
	if m.videoPath == "" {
		return ""
	}
	return filepath.Base(m.videoPath)
}

// Run starts the Bubbletea program and blocks until the user quits.
func Run(opts Options) (Result, error) {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	model.close()
	if err == nil && model.err != nil {
		err = model.err
	}
	return model.result(), err
}
