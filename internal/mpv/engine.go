package mpv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/aria/video-analyzer/internal/deps"
	"github.com/aria/video-analyzer/internal/player"
	"github.com/aria/video-analyzer/internal/videosource"
)

const (
	connectAttempts = 50
	connectInterval = 100 * time.Millisecond
	readyTimeout    = 30 * time.Second
	stateInterval   = 250 * time.Millisecond
)

// Factory launches one mpv process per engine.
type Factory struct {
	SocketPath string
	Logger     *slog.Logger

	// launch starts the player process; replaced in tests.
	launch func(args []string) (*exec.Cmd, error)
}

func NewFactory(socketPath string, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Factory{SocketPath: socketPath, Logger: logger, launch: launchMpv}
}

// Args builds the mpv command line for a video with the given chrome options.
func Args(socketPath, videoID string, opts player.Options) []string {
	args := []string{
		"--input-ipc-server=" + socketPath,
		"--force-window=yes",
		"--keep-open=yes",
		"--idle=no",
		"--pause",
	}
	if !opts.Controls {
		args = append(args, "--osc=no")
	}
	if !opts.Keyboard {
		args = append(args, "--input-default-bindings=no", "--input-vo-keyboard=no")
	}
	if !opts.Fullscreen {
		args = append(args, "--fs=no")
	}
	if !opts.Annotations {
		args = append(args, "--sub-auto=no", "--sid=no")
	}
	return append(args, videosource.WatchURL(videoID))
}

func launchMpv(args []string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	cmd := exec.Command("mpv", args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (f *Factory) Create(videoID string, opts player.Options, events player.Events) (player.Engine, error) {
	if err := os.Remove(f.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	cmd, err := f.launch(Args(f.SocketPath, videoID, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to launch mpv: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		client:  NewClient(f.SocketPath),
		cmd:     cmd,
		logger:  f.Logger.With("component", "mpv", "video_id", videoID),
		events:  events,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go e.watch(ctx)
	return e, nil
}

// Engine is a player.Engine backed by a running mpv process.
type Engine struct {
	client  *Client
	cmd     *exec.Cmd
	logger  *slog.Logger
	events  player.Events
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// watch connects to the socket, waits for a known duration, signals ready and
// then reports pause changes until ctx is canceled.
func (e *Engine) watch(ctx context.Context) {
	defer close(e.stopped)

	if err := e.connect(ctx); err != nil {
		e.logger.Error("failed to connect to mpv", "error", err)
		return
	}

	if err := e.waitForDuration(ctx); err != nil {
		e.logger.Error("mpv never reported a duration", "error", err)
		return
	}
	if e.events.OnReady != nil {
		e.events.OnReady()
	}

	last := player.StateUnstarted
	ticker := time.NewTicker(stateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, err := e.State()
			if err != nil {
				continue
			}
			if state != last {
				last = state
				if e.events.OnStateChange != nil {
					e.events.OnStateChange(state)
				}
			}
		}
	}
}

func (e *Engine) connect(ctx context.Context) error {
	var err error
	for i := 0; i < connectAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectInterval):
		}
		if err = e.client.Connect(); err == nil {
			return nil
		}
	}
	return err
}

func (e *Engine) waitForDuration(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	for {
		if d, err := e.client.GetDuration(); err == nil && d > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectInterval):
		}
	}
}

func (e *Engine) CurrentTime() (float64, error) {
	return e.client.GetTimePos()
}

func (e *Engine) Seek(seconds float64) error {
	return e.client.SeekAbsolute(seconds)
}

func (e *Engine) Play() error {
	return e.client.SetProperty("pause", false)
}

func (e *Engine) Pause() error {
	return e.client.SetProperty("pause", true)
}

func (e *Engine) State() (player.PlayState, error) {
	if eof, err := e.client.GetBool("eof-reached"); err == nil && eof {
		return player.StateEnded, nil
	}
	paused, err := e.client.GetPaused()
	if err != nil {
		return player.StateUnstarted, err
	}
	if paused {
		return player.StatePaused, nil
	}
	return player.StatePlaying, nil
}

func (e *Engine) Duration() (float64, error) {
	return e.client.GetDuration()
}

func (e *Engine) SetPlaybackRate(rate float64) error {
	return e.client.SetProperty("speed", rate)
}

// Destroy stops the watcher, asks mpv to quit and reaps the process.
func (e *Engine) Destroy() error {
	var err error
	e.once.Do(func() {
		e.cancel()
		<-e.stopped

		if e.client.IsConnected() {
			_ = e.client.Quit()
		}
		err = e.client.Close()

		if e.cmd != nil && e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
			_ = e.cmd.Wait()
		}
	})
	return err
}
