package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultSocketPath is the default Unix socket path for mpv IPC.
	DefaultSocketPath = "/tmp/trimcrop-mpv.sock"
	// DefaultTimeout bounds how long a command waits for its reply.
	DefaultTimeout = 3 * time.Second
	// eventBuffer is the capacity of the Events channel.
	eventBuffer = 256
)

var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when the socket file doesn't exist.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
	// ErrTimeout is returned when mpv does not answer a command in time.
	ErrTimeout = errors.New("mpv: command timed out")
	// requestID is a global counter for generating unique request IDs.
	requestID uint64
)

// ipcRequest represents a JSON IPC request to mpv.
type ipcRequest struct {
	Command   []interface{} `json:"command"`
	RequestID uint64        `json:"request_id"`
}

// ipcMessage is anything mpv writes to the socket: a reply carries a
// request_id, an event carries an event name.
type ipcMessage struct {
	Data      interface{} `json:"data"`
	RequestID uint64      `json:"request_id"`
	Error     string      `json:"error"`
	Event     string      `json:"event"`
	Name      string      `json:"name"`
	Reason    string      `json:"reason"`
	EntryID   int64       `json:"playlist_entry_id"`
}

// Client is an mpv IPC client that communicates via Unix socket.
// Replies are matched to requests by a background reader, which also
// forwards mpv events to the Events channel.
type Client struct {
	socketPath string
	timeout    time.Duration
	log        hclog.Logger

	mu      sync.Mutex
	conn    net.Conn
	pending map[uint64]chan ipcMessage

	writeMu sync.Mutex
	events  chan Event
	dropped atomic.Uint64
}

// NewClient creates a new mpv IPC client.
// If socketPath is empty, DefaultSocketPath is used. A nil logger discards logs.
func NewClient(socketPath string, logger hclog.Logger) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
		log:        logger.Named("mpv"),
		events:     make(chan Event, eventBuffer),
	}
}

// Connect establishes a connection to the mpv IPC socket.
// Returns an error if the socket doesn't exist or connection fails.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil // Already connected
	}

	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrSocketNotFound, err)
	}

	c.conn = conn
	c.pending = make(map[uint64]chan ipcMessage)
	go c.readLoop(conn)
	return nil
}

// Close closes the connection to mpv.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// IsConnected returns true if the client is connected to mpv.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SocketPath returns the socket path this client is configured to use.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Events returns the channel mpv events are delivered on. When the
// connection drops an Event named EventDisconnected is sent.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Dropped returns how many property-change events were dropped because the
// Events channel was full.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// GetProperty retrieves the value of an mpv property.
// The property name should be the mpv property name (e.g., "time-pos", "duration", "pause").
func (c *Client) GetProperty(name string) (interface{}, error) {
	return c.sendCommand("get_property", name)
}

// SetProperty sets the value of an mpv property.
func (c *Client) SetProperty(name string, value interface{}) error {
	_, err := c.sendCommand("set_property", name, value)
	return err
}

// GetTimePos returns the current playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	result, err := c.GetProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return toFloat64(result)
}

// GetDuration returns the total duration of the video in seconds.
func (c *Client) GetDuration() (float64, error) {
	result, err := c.GetProperty("duration")
	if err != nil {
		return 0, err
	}
	return toFloat64(result)
}

// GetPaused returns true if playback is paused.
func (c *Client) GetPaused() (bool, error) {
	result, err := c.GetProperty("pause")
	if err != nil {
		return false, err
	}
	paused, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: unexpected pause value type: %T", result)
	}
	return paused, nil
}

// GetVideoSize returns the decoded frame size in pixels.
func (c *Client) GetVideoSize() (width, height int, err error) {
	w, err := c.GetProperty("width")
	if err != nil {
		return 0, 0, err
	}
	h, err := c.GetProperty("height")
	if err != nil {
		return 0, 0, err
	}
	fw, err := toFloat64(w)
	if err != nil {
		return 0, 0, err
	}
	fh, err := toFloat64(h)
	if err != nil {
		return 0, 0, err
	}
	return int(fw), int(fh), nil
}

// GetPath returns the path of the loaded file.
func (c *Client) GetPath() (string, error) {
	result, err := c.GetProperty("path")
	if err != nil {
		return "", err
	}
	path, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("mpv: unexpected path value type: %T", result)
	}
	return path, nil
}

// Seek jumps to an absolute position in seconds, frame-exact.
func (c *Client) Seek(seconds float64) error {
	_, err := c.sendCommand("seek", seconds, "absolute+exact")
	return err
}

// Play unpauses playback.
func (c *Client) Play() error {
	return c.SetProperty("pause", false)
}

// Pause pauses playback.
func (c *Client) Pause() error {
	return c.SetProperty("pause", true)
}

// LoadFile replaces the current file with path. It returns the playlist
// entry id mpv assigned, or 0 when mpv is too old to report one.
func (c *Client) LoadFile(path string) (int64, error) {
	result, err := c.sendCommand("loadfile", path, "replace")
	if err != nil {
		return 0, err
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return 0, nil
	}
	id, err := toFloat64(data["playlist_entry_id"])
	if err != nil {
		return 0, nil
	}
	return int64(id), nil
}

// ObserveProperty asks mpv to send property-change events for name.
func (c *Client) ObserveProperty(id int, name string) error {
	_, err := c.sendCommand("observe_property", id, name)
	return err
}

// SetCrop crops the displayed video to a w x h rectangle at x, y (pixels).
func (c *Client) SetCrop(x, y, w, h int) error {
	return c.SetProperty("video-crop", fmt.Sprintf("%dx%d+%d+%d", w, h, x, y))
}

// ClearCrop removes any display crop.
func (c *Client) ClearCrop() error {
	return c.SetProperty("video-crop", "")
}

// ShowText displays text on the video for the given duration.
func (c *Client) ShowText(text string, d time.Duration) error {
	_, err := c.sendCommand("show-text", text, d.Milliseconds())
	return err
}

// toFloat64 converts an interface{} to float64.
// JSON numbers from mpv are typically decoded as float64.
func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("mpv: unexpected numeric value type: %T", v)
	}
}

// sendCommand sends a JSON IPC command to mpv and waits for its reply.
// The command is formatted as {"command": [command, args...], "request_id": <id>}
// and sent as newline-terminated JSON over the socket.
func (c *Client) sendCommand(command string, args ...interface{}) (interface{}, error) {
	cmdArray := make([]interface{}, 0, len(args)+1)
	cmdArray = append(cmdArray, command)
	cmdArray = append(cmdArray, args...)

	reqID := atomic.AddUint64(&requestID, 1)
	data, err := json.Marshal(ipcRequest{Command: cmdArray, RequestID: reqID})
	if err != nil {
		return nil, fmt.Errorf("mpv: failed to marshal command: %w", err)
	}
	data = append(data, '\n')

	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	reply := make(chan ipcMessage, 1)
	c.pending[reqID] = reply
	c.mu.Unlock()

	c.writeMu.Lock()
	_, err = conn.Write(data)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(reqID)
		return nil, fmt.Errorf("mpv: failed to send command: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-reply:
		if !ok {
			return nil, ErrNotConnected
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s: %s", command, resp.Error)
		}
		return resp.Data, nil
	case <-timer.C:
		c.forget(reqID)
		return nil, fmt.Errorf("%w: %s", ErrTimeout, command)
	}
}

func (c *Client) forget(reqID uint64) {
	c.mu.Lock()
	delete(c.pending, reqID)
	c.mu.Unlock()
}

// readLoop reads newline-delimited JSON from conn until it fails.
func (c *Client) readLoop(conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			c.disconnect(conn, err)
			return
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			// Skip malformed lines
			continue
		}

		if msg.Event != "" {
			c.deliver(Event{
				Name:     msg.Event,
				Property: msg.Name,
				Data:     msg.Data,
				Reason:   msg.Reason,
				EntryID:  msg.EntryID,
			})
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if ok {
			reply <- msg
		}
	}
}

// deliver forwards an event. Property changes are dropped when the channel is
// full; anything else waits up to the command timeout.
func (c *Client) deliver(ev Event) {
	if ev.Name == EventPropertyChange {
		select {
		case c.events <- ev:
		default:
			c.dropped.Add(1)
		}
		return
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case c.events <- ev:
	case <-timer.C:
		c.log.Warn("event channel full, dropping event", "event", ev.Name)
	}
}

// disconnect fails every pending command and announces the disconnect.
func (c *Client) disconnect(conn net.Conn, cause error) {
	c.mu.Lock()
	var pending map[uint64]chan ipcMessage
	// A newer connection owns the pending map once Connect ran again.
	if c.conn == conn || c.conn == nil {
		c.conn = nil
		pending = c.pending
		c.pending = make(map[uint64]chan ipcMessage)
	}
	c.mu.Unlock()

	for _, reply := range pending {
		close(reply)
	}
	_ = conn.Close()
	c.log.Debug("connection closed", "cause", cause)
	c.deliver(Event{Name: EventDisconnected})
}
