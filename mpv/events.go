package mpv

// mpv event names used by this package.
const (
	EventPropertyChange  = "property-change"
	EventStartFile       = "start-file"
	EventFileLoaded      = "file-loaded"
	EventEndFile         = "end-file"
	EventPlaybackRestart = "playback-restart"
	// EventDisconnected is synthesized by the client when the socket closes.
	EventDisconnected = "disconnected"
)

// Event is an asynchronous message from mpv.
type Event struct {
	// Name is the mpv event name, e.g. "property-change".
	Name string
	// Property is set for property-change events.
	Property string
	// Data is the decoded property value, if any.
	Data interface{}
	// Reason is set for end-file events ("eof", "stop", "error", ...).
	Reason string
	// EntryID is the playlist entry a start-file or end-file event refers to.
	// Zero when mpv does not report one.
	EntryID int64
}

// Float returns Data as a float64. ok is false when Data is missing or not numeric.
func (e Event) Float() (v float64, ok bool) {
	f, err := toFloat64(e.Data)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns Data as a bool.
func (e Event) Bool() (v bool, ok bool) {
	b, ok := e.Data.(bool)
	return b, ok
}
