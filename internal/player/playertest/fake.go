// Package playertest provides an in-memory player engine for tests.
package playertest

import (
	"errors"

	"github.com/aria/video-analyzer/internal/player"
)

var ErrDestroyed = errors.New("playertest: engine destroyed")

// Engine is a scripted player.Engine. Tests drive time and readiness by hand.
type Engine struct {
	VideoID   string
	Options   player.Options
	Events    player.Events
	Time      float64
	Length    float64
	PlayState player.PlayState
	Rate      float64
	Seeks     []float64
	Destroyed bool
	// Err, when set, is returned from every query.
	Err error
}

func (e *Engine) CurrentTime() (float64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	return e.Time, nil
}

func (e *Engine) Seek(seconds float64) error {
	if err := e.check(); err != nil {
		return err
	}
	e.Seeks = append(e.Seeks, seconds)
	e.Time = seconds
	return nil
}

func (e *Engine) Play() error {
	if err := e.check(); err != nil {
		return err
	}
	e.PlayState = player.StatePlaying
	return nil
}

func (e *Engine) Pause() error {
	if err := e.check(); err != nil {
		return err
	}
	e.PlayState = player.StatePaused
	return nil
}

func (e *Engine) State() (player.PlayState, error) {
	if err := e.check(); err != nil {
		return player.StateUnstarted, err
	}
	return e.PlayState, nil
}

func (e *Engine) Duration() (float64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	return e.Length, nil
}

func (e *Engine) SetPlaybackRate(rate float64) error {
	if err := e.check(); err != nil {
		return err
	}
	e.Rate = rate
	return nil
}

func (e *Engine) Destroy() error {
	e.Destroyed = true
	return nil
}

// FireReady emits the engine's ready notification.
func (e *Engine) FireReady() {
	if e.Events.OnReady != nil {
		e.Events.OnReady()
	}
}

func (e *Engine) FireStateChange(s player.PlayState) {
	e.PlayState = s
	if e.Events.OnStateChange != nil {
		e.Events.OnStateChange(s)
	}
}

func (e *Engine) check() error {
	if e.Destroyed {
		return ErrDestroyed
	}
	return e.Err
}

// Factory records every engine it creates.
type Factory struct {
	// Duration is assigned to each new engine.
	Duration float64
	// ReadyOnCreate fires the ready event from inside Create.
	ReadyOnCreate bool
	Err           error
	Created       []*Engine
}

func (f *Factory) Create(videoID string, opts player.Options, events player.Events) (player.Engine, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	e := &Engine{
		VideoID: videoID,
		Options: opts,
		Events:  events,
		Length:  f.Duration,
		Rate:    1,
	}
	f.Created = append(f.Created, e)
	if f.ReadyOnCreate {
		e.FireReady()
	}
	return e, nil
}

// Last returns the most recently created engine, or nil.
func (f *Factory) Last() *Engine {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}
