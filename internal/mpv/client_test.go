package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aria/video-analyzer/internal/player"
)

// fakeMpv answers get_property/set_property/seek/quit over a unix socket.
type fakeMpv struct {
	t        *testing.T
	listener net.Listener
	mu       sync.Mutex
	props    map[string]interface{}
	commands [][]interface{}
}

func newFakeMpv(t *testing.T, socketPath string) *fakeMpv {
	t.Helper()

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakeMpv{
		t:        t,
		listener: ln,
		props: map[string]interface{}{
			"time-pos":    12.5,
			"duration":    900.0,
			"pause":       true,
			"eof-reached": false,
			"speed":       1.0,
		},
	}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f
}

func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func (f *fakeMpv) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMpv) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	enc := json.NewEncoder(conn)

	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req ipcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		resp := map[string]interface{}{"request_id": req.RequestID, "error": "success"}
		switch req.Command[0] {
		case "get_property":
			v, ok := f.props[req.Command[1].(string)]
			if !ok {
				resp["error"] = "property not found"
			} else {
				resp["data"] = v
			}
		case "set_property":
			f.props[req.Command[1].(string)] = req.Command[2]
		case "seek":
			f.props["time-pos"] = req.Command[1]
		}
		f.mu.Unlock()

		// An unrelated event line precedes every reply.
		enc.Encode(map[string]interface{}{"event": "playback-restart"})
		enc.Encode(resp)
	}
}

func (f *fakeMpv) prop(name string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[name]
}

func (f *fakeMpv) set(name string, v interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = v
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(shortSocketPath(t))
	if _, err := c.GetTimePos(); err != ErrNotConnected {
		t.Fatalf("GetTimePos() error = %v, want ErrNotConnected", err)
	}
	if err := c.Connect(); err != ErrSocketNotFound {
		t.Fatalf("Connect() error = %v, want ErrSocketNotFound", err)
	}
}

func TestClient_Properties(t *testing.T) {
	path := shortSocketPath(t)
	fake := newFakeMpv(t, path)

	c := NewClient(path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	pos, err := c.GetTimePos()
	if err != nil || pos != 12.5 {
		t.Fatalf("GetTimePos() = %v, %v; want 12.5, nil", pos, err)
	}

	d, err := c.GetDuration()
	if err != nil || d != 900 {
		t.Fatalf("GetDuration() = %v, %v; want 900, nil", d, err)
	}

	if err := c.SetProperty("pause", false); err != nil {
		t.Fatalf("SetProperty() error = %v", err)
	}
	if got := fake.prop("pause"); got != false {
		t.Errorf("pause = %v, want false", got)
	}

	if err := c.SeekAbsolute(45); err != nil {
		t.Fatalf("SeekAbsolute() error = %v", err)
	}
	if got := fake.prop("time-pos"); got != 45.0 {
		t.Errorf("time-pos = %v, want 45", got)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	path := shortSocketPath(t)
	newFakeMpv(t, path)

	c := NewClient(path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if _, err := c.GetProperty("no-such-prop"); err == nil {
		t.Fatal("GetProperty() error = nil, want error")
	}
}

func TestArgs_DisablesChrome(t *testing.T) {
	args := Args("/tmp/x.sock", "US90ZQyKHR8", player.Options{})

	want := []string{"--osc=no", "--input-default-bindings=no", "--fs=no", "--sub-auto=no"}
	for _, w := range want {
		found := false
		for _, a := range args {
			if a == w {
				found = true
			}
		}
		if !found {
			t.Errorf("args missing %q: %v", w, args)
		}
	}
	if last := args[len(args)-1]; last != "https://www.youtube.com/watch?v=US90ZQyKHR8" {
		t.Errorf("last arg = %q, want watch url", last)
	}
}

func TestFactory_CreateSignalsReadyAndState(t *testing.T) {
	path := shortSocketPath(t)

	var launched []string
	var fake *fakeMpv
	f := NewFactory(path, nil)
	f.launch = func(args []string) (*exec.Cmd, error) {
		launched = args
		fake = newFakeMpv(t, path)
		return nil, nil
	}

	ready := make(chan struct{}, 1)
	states := make(chan player.PlayState, 4)
	engine, err := f.Create("US90ZQyKHR8", player.Options{}, player.Events{
		OnReady:       func() { ready <- struct{}{} },
		OnStateChange: func(s player.PlayState) { states <- s },
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer engine.Destroy()

	if len(launched) == 0 {
		t.Fatal("mpv was not launched")
	}

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("ready was not signaled")
	}

	select {
	case s := <-states:
		if s != player.StatePaused {
			t.Errorf("first state = %v, want paused", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("state change was not signaled")
	}

	if err := engine.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if got := fake.prop("pause"); got != false {
		t.Errorf("pause = %v, want false after Play", got)
	}

	fake.set("eof-reached", true)
	if s, err := engine.State(); err != nil || s != player.StateEnded {
		t.Errorf("State() = %v, %v; want ended", s, err)
	}

	if err := engine.SetPlaybackRate(1.5); err != nil {
		t.Fatalf("SetPlaybackRate() error = %v", err)
	}
	if got := fake.prop("speed"); got != 1.5 {
		t.Errorf("speed = %v, want 1.5", got)
	}
}
