// Package review holds the per-case annotation state: the mark in/out cursor,
// the clip collection and the note collection.
//
// A Session is owned by one case and discarded wholesale when another case is
// loaded. It is not safe for concurrent use; drive it from a single event loop.
package review

import (
	"errors"
	"time"
)

var (
	ErrIncompleteMarks = errors.New("set both mark in and mark out")
	ErrInvalidRange    = errors.New("mark in must be before mark out")
	ErrEmptyName       = errors.New("clip name is required")
	ErrEmptyText       = errors.New("note text is required")
)

// TimeSource reports the playback position; ok is false while no player is ready.
type TimeSource interface {
	CurrentTime() (seconds float64, ok bool)
}

type Seeker interface {
	Seek(seconds float64)
}

// Player is the subset of the player adapter a session needs.
type Player interface {
	TimeSource
	Seeker
}

type SessionConfig struct {
	Player Player
	// Now stamps CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

type Session struct {
	player Player
	now    func() time.Time

	cursor Cursor
	clips  []Clip
	notes  []Note
	nextID int64

	listeners []func()
}

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		player: cfg.Player,
		now:    cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// OnChange registers fn to run after every state mutation.
func (s *Session) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed() {
	for _, fn := range s.listeners {
		fn()
	}
}

func (s *Session) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Session) currentTime() (float64, bool) {
	if s.player == nil {
		return 0, false
	}
	return s.player.CurrentTime()
}

func (s *Session) seek(seconds float64) {
	if s.player == nil {
		return
	}
	s.player.Seek(seconds)
}
