package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMpv answers IPC commands over a Unix socket the way mpv does.
type fakeMpv struct {
	t        *testing.T
	ln       net.Listener
	path     string
	mu       sync.Mutex
	conn     net.Conn
	commands [][]interface{}
	props    map[string]interface{}
	silent   bool
	entries  int
}

func newFakeMpv(t *testing.T) *fakeMpv {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpvtest")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	f := &fakeMpv{
		t:    t,
		ln:   ln,
		path: path,
		props: map[string]interface{}{
			"time-pos": 12.5,
			"duration": 90.0,
			"pause":    true,
			"width":    1920.0,
			"height":   1080.0,
			"path":     "/videos/a.mp4",
		},
	}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f
}

func (f *fakeMpv) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req ipcRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		silent := f.silent
		f.mu.Unlock()
		if silent {
			continue
		}
		f.reply(req)
	}
}

func (f *fakeMpv) reply(req ipcRequest) {
	resp := map[string]interface{}{"request_id": req.RequestID, "error": "success"}
	name, _ := req.Command[0].(string)
	switch name {
	case "get_property":
		prop, _ := req.Command[1].(string)
		f.mu.Lock()
		v, ok := f.props[prop]
		f.mu.Unlock()
		if !ok {
			resp["error"] = "property not found"
		} else {
			resp["data"] = v
		}
	case "set_property":
		prop, _ := req.Command[1].(string)
		f.mu.Lock()
		f.props[prop] = req.Command[2]
		f.mu.Unlock()
	case "loadfile":
		f.mu.Lock()
		f.entries++
		id := f.entries
		f.mu.Unlock()
		// An event interleaved before the reply must not confuse the client.
		f.send(map[string]interface{}{"event": "start-file", "playlist_entry_id": id})
		resp["data"] = map[string]interface{}{"playlist_entry_id": id}
	}
	f.send(resp)
}

func (f *fakeMpv) send(msg map[string]interface{}) {
	data, err := json.Marshal(msg)
	require.NoError(f.t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Write(append(data, '\n'))
	}
}

func (f *fakeMpv) lastCommand() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commands) == 0 {
		return nil
	}
	return f.commands[len(f.commands)-1]
}

func (f *fakeMpv) dropConnection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conn.Close()
}

func connect(t *testing.T, f *fakeMpv) *Client {
	t.Helper()
	c := NewClient(f.path, nil)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConnectMissingSocket(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "nope.sock"), nil)
	assert.ErrorIs(t, c.Connect(), ErrSocketNotFound)
	assert.False(t, c.IsConnected())

	_, err := c.GetTimePos()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestNewClientDefaultSocket(t *testing.T) {
	assert.Equal(t, DefaultSocketPath, NewClient("", nil).SocketPath())
}

func TestGetters(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)

	pos, err := c.GetTimePos()
	require.NoError(t, err)
	assert.Equal(t, 12.5, pos)

	dur, err := c.GetDuration()
	require.NoError(t, err)
	assert.Equal(t, 90.0, dur)

	paused, err := c.GetPaused()
	require.NoError(t, err)
	assert.True(t, paused)

	w, h, err := c.GetVideoSize()
	require.NoError(t, err)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	path, err := c.GetPath()
	require.NoError(t, err)
	assert.Equal(t, "/videos/a.mp4", path)

	_, err = c.GetProperty("nonexistent")
	assert.ErrorContains(t, err, "property not found")
}

func TestCommandsAreEncoded(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)

	require.NoError(t, c.Seek(4.25))
	assert.Equal(t, []interface{}{"seek", 4.25, "absolute+exact"}, f.lastCommand())

	require.NoError(t, c.Play())
	assert.Equal(t, []interface{}{"set_property", "pause", false}, f.lastCommand())

	require.NoError(t, c.Pause())
	assert.Equal(t, []interface{}{"set_property", "pause", true}, f.lastCommand())

	require.NoError(t, c.SetCrop(10, 20, 300, 300))
	assert.Equal(t, []interface{}{"set_property", "video-crop", "300x300+10+20"}, f.lastCommand())

	require.NoError(t, c.ObserveProperty(1, "time-pos"))
	assert.Equal(t, []interface{}{"observe_property", 1.0, "time-pos"}, f.lastCommand())

	id, err := c.LoadFile("/tmp/x.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, []interface{}{"loadfile", "/tmp/x.mp4", "replace"}, f.lastCommand())

	id, err = c.LoadFile("/tmp/y.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	require.NoError(t, c.ShowText("loop 2/3", 1500*time.Millisecond))
	assert.Equal(t, []interface{}{"show-text", "loop 2/3", 1500.0}, f.lastCommand())
}

func TestLoadFileStartEventCarriesEntryID(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)

	id, err := c.LoadFile("/tmp/x.mp4")
	require.NoError(t, err)

	ev := nextEvent(t, c)
	assert.Equal(t, EventStartFile, ev.Name)
	assert.Equal(t, id, ev.EntryID)
}

func TestEventsAreForwarded(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)
	// Round trip so the server has accepted the connection.
	_, err := c.GetTimePos()
	require.NoError(t, err)

	f.send(map[string]interface{}{"event": "property-change", "id": 1, "name": "time-pos", "data": 3.5})
	f.send(map[string]interface{}{"event": "end-file", "reason": "eof"})

	ev := nextEvent(t, c)
	assert.Equal(t, EventPropertyChange, ev.Name)
	assert.Equal(t, "time-pos", ev.Property)
	v, ok := ev.Float()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	ev = nextEvent(t, c)
	assert.Equal(t, EventEndFile, ev.Name)
	assert.Equal(t, "eof", ev.Reason)
}

func TestDisconnectFailsPendingCommands(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)
	_, err := c.GetTimePos()
	require.NoError(t, err)

	f.mu.Lock()
	f.silent = true
	f.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		_, err := c.GetDuration()
		errc <- err
	}()

	require.Eventually(t, func() bool { return f.lastCommand()[1] == "duration" }, time.Second, 5*time.Millisecond)
	f.dropConnection()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrNotConnected)
	case <-time.After(2 * time.Second):
		t.Fatal("pending command was not failed")
	}

	assert.Equal(t, EventDisconnected, nextEvent(t, c).Name)
	assert.False(t, c.IsConnected())
}

func TestCommandTimeout(t *testing.T) {
	f := newFakeMpv(t)
	c := connect(t, f)
	c.timeout = 50 * time.Millisecond
	f.mu.Lock()
	f.silent = true
	f.mu.Unlock()

	_, err := c.GetTimePos()
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWaitForSocket(t *testing.T) {
	f := newFakeMpv(t)
	c := NewClient(f.path, nil)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, WaitForSocket(ctx, c, 10*time.Millisecond))
	assert.True(t, c.IsConnected())

	missing := NewClient(filepath.Join(t.TempDir(), "none.sock"), nil)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, WaitForSocket(ctx, missing, 5*time.Millisecond), ErrSocketNotFound)
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}
