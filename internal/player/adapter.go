package player

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aria/video-analyzer/internal/videosource"
)

// PlaybackRates are the multipliers offered by the transport controls.
var PlaybackRates = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// Adapter owns exactly one engine per loaded video. It is not safe for
// concurrent use; engine events are funneled through Dispatch so that they
// run on the caller's event loop.
type Adapter struct {
	factory  Factory
	logger   *slog.Logger
	dispatch func(func())

	engine       Engine
	videoID      string
	gen          uint64
	ready        bool
	readyPending bool
	duration     float64
	state        PlayState

	onReady       func(duration float64)
	onStateChange func(PlayState)
}

type AdapterConfig struct {
	Factory Factory
	Logger  *slog.Logger
	// Dispatch schedules fn on the owning event loop. Defaults to calling fn directly.
	Dispatch func(fn func())
}

func NewAdapter(cfg AdapterConfig) *Adapter {
	a := &Adapter{
		factory:  cfg.Factory,
		logger:   cfg.Logger,
		dispatch: cfg.Dispatch,
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.dispatch == nil {
		a.dispatch = func(fn func()) { fn() }
	}
	return a
}

// OnReady registers the listener invoked once per successful load, after the
// duration has been read.
func (a *Adapter) OnReady(fn func(duration float64)) {
	a.onReady = fn
}

func (a *Adapter) OnStateChange(fn func(PlayState)) {
	a.onStateChange = fn
}

// Load resolves ref, tears down the current engine and creates a new one.
func (a *Adapter) Load(ref string) error {
	id, err := videosource.Resolve(ref)
	if err != nil {
		return fmt.Errorf("load %q: %w", ref, err)
	}

	a.teardown()
	a.gen++
	gen := a.gen

	events := Events{
		OnReady: func() {
			a.dispatch(func() { a.handleReady(gen) })
		},
		OnStateChange: func(s PlayState) {
			a.dispatch(func() { a.handleStateChange(gen, s) })
		},
	}

	engine, err := a.factory.Create(id, Options{}, events)
	if err != nil {
		return fmt.Errorf("create player for %s: %w", id, err)
	}

	a.engine = engine
	a.videoID = id
	a.logger.Info("player created", "video_id", id)

	if a.readyPending {
		a.handleReady(gen)
	}
	return nil
}

func (a *Adapter) handleReady(gen uint64) {
	if gen != a.gen || a.ready {
		return
	}
	if a.engine == nil {
		// Ready fired synchronously from inside Factory.Create.
		a.readyPending = true
		return
	}
	a.readyPending = false

	duration, err := a.engine.Duration()
	if err != nil {
		a.logger.Warn("failed to read duration", "video_id", a.videoID, "error", err)
		duration = 0
	}
	if duration < 0 {
		duration = 0
	}

	a.duration = duration
	a.ready = true
	a.logger.Info("player ready", "video_id", a.videoID, "duration", duration)

	if a.onReady != nil {
		a.onReady(duration)
	}
}

func (a *Adapter) handleStateChange(gen uint64, s PlayState) {
	if gen != a.gen {
		return
	}
	a.state = s
	if a.onStateChange != nil {
		a.onStateChange(s)
	}
}

func (a *Adapter) teardown() {
	if a.engine != nil {
		if err := a.engine.Destroy(); err != nil {
			a.logger.Warn("failed to destroy player", "video_id", a.videoID, "error", err)
		}
	}
	a.engine = nil
	a.videoID = ""
	a.ready = false
	a.readyPending = false
	a.duration = 0
	a.state = StateUnstarted
}

// Close destroys the current engine and invalidates any in-flight events.
func (a *Adapter) Close() {
	a.teardown()
	a.gen++
}

func (a *Adapter) Ready() bool {
	return a.ready
}

func (a *Adapter) VideoID() string {
	return a.videoID
}

// Duration is the value cached at ready, 0 before that.
func (a *Adapter) Duration() float64 {
	return a.duration
}

func (a *Adapter) State() PlayState {
	return a.state
}

// CurrentTime reports the playback position; ok is false while no engine is ready.
func (a *Adapter) CurrentTime() (seconds float64, ok bool) {
	if !a.ready {
		return 0, false
	}
	t, err := a.engine.CurrentTime()
	if err != nil {
		a.logger.Debug("failed to read current time", "error", err)
		return 0, false
	}
	if t < 0 {
		t = 0
	}
	return t, true
}

func (a *Adapter) Seek(seconds float64) {
	if !a.ready {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if err := a.engine.Seek(seconds); err != nil {
		a.logger.Warn("seek failed", "seconds", seconds, "error", err)
	}
}

func (a *Adapter) SetPlaybackRate(rate float64) {
	if !a.ready || rate <= 0 {
		return
	}
	if err := a.engine.SetPlaybackRate(rate); err != nil {
		a.logger.Warn("set playback rate failed", "rate", rate, "error", err)
	}
}

// TogglePlayPause queries the engine state and flips it.
func (a *Adapter) TogglePlayPause() {
	if !a.ready {
		return
	}
	state, err := a.engine.State()
	if err != nil {
		a.logger.Warn("failed to read play state", "error", err)
		return
	}
	if state == StatePlaying || state == StateBuffering {
		err = a.engine.Pause()
	} else {
		err = a.engine.Play()
	}
	if err != nil {
		a.logger.Warn("toggle play/pause failed", "error", err)
	}
}
