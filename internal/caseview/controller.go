// Package caseview orchestrates one review screen: the loaded case, its
// player, the annotation session, tabs, the case selector and the
// analysis panel.
//
// A Controller is confined to one event loop. Background work (fetches,
// analysis, timers) reports back through the Scheduler and never touches
// controller state from another goroutine.
package caseview

import (
	"context"
	"log/slog"
	"time"

	"github.com/aria/video-analyzer/internal/analysis"
	"github.com/aria/video-analyzer/internal/cases"
	"github.com/aria/video-analyzer/internal/logging"
	"github.com/aria/video-analyzer/internal/player"
	"github.com/aria/video-analyzer/internal/review"
)

const (
	DefaultPollInterval     = 100 * time.Millisecond
	DefaultInitialLoadDelay = 500 * time.Millisecond
	DefaultCaseID           = "1-0102-004"
)

// CaseSource fetches case records, typically over HTTP.
type CaseSource interface {
	ListCases(ctx context.Context) ([]cases.Summary, error)
	GetCase(ctx context.Context, id string) (*cases.Case, error)
}

// Player is the part of the player adapter the controller drives.
type Player interface {
	review.Player
	Load(ref string) error
	Close()
	OnReady(fn func(duration float64))
	Ready() bool
	VideoID() string
	Duration() float64
	State() player.PlayState
	SetPlaybackRate(rate float64)
	TogglePlayPause()
}

type Config struct {
	Source    CaseSource
	Analyzer  analysis.Analyzer
	Player    Player
	Scheduler Scheduler
	Logger    *slog.Logger

	PollInterval     time.Duration
	InitialLoadDelay time.Duration
	DefaultCaseID    string
	// Now stamps clips and notes. Defaults to time.Now.
	Now func() time.Time
}

type Controller struct {
	source   CaseSource
	analyzer analysis.Analyzer
	player   Player
	sched    Scheduler
	logger   *slog.Logger
	now      func() time.Time

	pollInterval     time.Duration
	initialLoadDelay time.Duration
	defaultCaseID    string

	current *cases.Case
	// caseGen increments on every LoadCase; async results tagged with an
	// older value belong to a case that is no longer shown.
	caseGen uint64
	session *review.Session
	panels  []Panel

	position   float64
	rate       float64
	pollCancel func()

	fetchToken uint64
	listToken  uint64
	selector   selectorState

	tab      Tab
	analysis analysisState
}

func New(cfg Config) *Controller {
	c := &Controller{
		source:           cfg.Source,
		analyzer:         cfg.Analyzer,
		player:           cfg.Player,
		sched:            cfg.Scheduler,
		logger:           cfg.Logger,
		now:              cfg.Now,
		pollInterval:     cfg.PollInterval,
		initialLoadDelay: cfg.InitialLoadDelay,
		defaultCaseID:    cfg.DefaultCaseID,
		rate:             1,
		tab:              TabSubject,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.initialLoadDelay < 0 {
		c.initialLoadDelay = 0
	}
	if c.defaultCaseID == "" {
		c.defaultCaseID = DefaultCaseID
	}
	c.session = c.newSession()
	c.player.OnReady(c.handleReady)
	return c
}

func (c *Controller) newSession() *review.Session {
	return review.NewSession(review.SessionConfig{Player: c.player, Now: c.now})
}

// Session is the annotation state of the loaded case. It is replaced on
// every LoadCase, so callers must not hold on to it.
func (c *Controller) Session() *review.Session {
	return c.session
}

func (c *Controller) Case() *cases.Case {
	return c.current
}

// LoadCase makes cs the active case. All clips, notes and marks of the
// previous case are discarded, polling stops until the new video is ready,
// and any pending analysis or fetch result for the old case is ignored.
func (c *Controller) LoadCase(cs *cases.Case) {
	if cs == nil {
		return
	}
	c.caseGen++
	c.stopPolling()

	c.current = cs
	c.session = c.newSession()
	c.panels = buildPanels(cs)
	c.position = 0
	c.rate = 1
	c.analysis = analysisState{}

	log := logging.WithCaseID(c.logger, cs.ID)
	if err := c.player.Load(cs.Video); err != nil {
		// Leave no video from the previous case behind the new panels.
		c.player.Close()
		log.Error("failed to load case video", "video", cs.Video, "error", err)
		return
	}
	log.Info("case loaded")
}

func (c *Controller) handleReady(duration float64) {
	c.stopPolling()
	c.pollCancel = c.sched.Every(c.pollInterval, c.poll)
	c.poll()
}

func (c *Controller) poll() {
	if t, ok := c.player.CurrentTime(); ok {
		c.position = t
	}
}

func (c *Controller) stopPolling() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// Polling reports whether a playhead polling task is active.
func (c *Controller) Polling() bool {
	return c.pollCancel != nil
}

// Close stops polling and destroys the player.
func (c *Controller) Close() {
	c.stopPolling()
	c.caseGen++
	c.player.Close()
}
