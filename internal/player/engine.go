// Package player wraps an external video playback engine behind a small,
// lifecycle-owning adapter.
package player

// PlayState is the engine's reported playback state.
type PlayState int

const (
	StateUnstarted PlayState = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateEnded:
		return "ended"
	default:
		return "unstarted"
	}
}

// Options configures the chrome an engine provides on its own. The review UI
// supplies its own transport controls, so every field defaults to false.
type Options struct {
	Controls    bool
	Keyboard    bool
	Fullscreen  bool
	Annotations bool
}

// Events are the notifications an engine emits. Engines may invoke them from
// any goroutine.
type Events struct {
	OnReady       func()
	OnStateChange func(PlayState)
}

// Engine is one player instance bound to one video.
type Engine interface {
	CurrentTime() (float64, error)
	Seek(seconds float64) error
	Play() error
	Pause() error
	State() (PlayState, error)
	Duration() (float64, error)
	SetPlaybackRate(rate float64) error
	Destroy() error
}

// Factory creates engines. Each call must return a fresh instance.
type Factory interface {
	Create(videoID string, opts Options, events Events) (Engine, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(videoID string, opts Options, events Events) (Engine, error)

func (f FactoryFunc) Create(videoID string, opts Options, events Events) (Engine, error) {
	return f(videoID, opts, events)
}
