package caseview

import (
	"errors"
	"fmt"

	"github.com/aria/video-analyzer/internal/player"
	"github.com/aria/video-analyzer/internal/review"
	"github.com/aria/video-analyzer/internal/timeline"
)

var ErrUnsupportedRate = errors.New("unsupported playback rate")

func (c *Controller) TogglePlayPause() {
	c.player.TogglePlayPause()
}

// SetPlaybackRate accepts only the rates offered by the speed control.
func (c *Controller) SetPlaybackRate(rate float64) error {
	for _, r := range player.PlaybackRates {
		if r == rate {
			if c.player.Ready() {
				c.player.SetPlaybackRate(rate)
				c.rate = rate
			}
			return nil
		}
	}
	return fmt.Errorf("%v: %w", rate, ErrUnsupportedRate)
}

// StepPlaybackRate moves delta steps through the offered rates, stopping at
// either end.
func (c *Controller) StepPlaybackRate(delta int) {
	idx := 0
	for i, r := range player.PlaybackRates {
		if r == c.rate {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(player.PlaybackRates) {
		idx = len(player.PlaybackRates) - 1
	}
	_ = c.SetPlaybackRate(player.PlaybackRates[idx])
}

func (c *Controller) PlaybackRate() float64 {
	return c.rate
}

// Position is the playhead time from the last poll.
func (c *Controller) Position() float64 {
	return c.position
}

// Seek moves the playhead; the displayed position follows immediately.
func (c *Controller) Seek(seconds float64) {
	if !c.player.Ready() {
		return
	}
	c.player.Seek(seconds)
	c.poll()
}

// SeekRelative seeks delta seconds from the last polled position.
func (c *Controller) SeekRelative(delta float64) {
	c.Seek(c.position + delta)
}

// ClickTimeline handles a click at offset on a track of the given width.
// Markers within tolerance take precedence over the track.
func (c *Controller) ClickTimeline(offset, width, tolerance float64) bool {
	t, ok := timeline.ResolveClick(c.timelineView(), offset, width, c.player.Duration(), tolerance)
	if !ok {
		return false
	}
	c.Seek(t)
	return true
}

// ClickTimelineColumn handles a click on cell col of a rendered track that is
// width cells wide.
func (c *Controller) ClickTimelineColumn(col, width int, tolerance float64) bool {
	t, ok := timeline.ResolveColumnClick(c.timelineView(), col, width, c.player.Duration(), tolerance)
	if !ok {
		return false
	}
	c.Seek(t)
	return true
}

func (c *Controller) GotoClip(id int64) bool {
	clip, ok := c.session.Clip(id)
	if !ok {
		return false
	}
	c.session.GotoClip(clip.MarkIn)
	c.poll()
	return true
}

func (c *Controller) GotoNote(id int64) bool {
	if !c.session.GotoNote(id) {
		return false
	}
	c.poll()
	return true
}

func (c *Controller) timelineView() timeline.View {
	return timeline.Project(timeline.Input{
		Clips:       c.session.Clips(),
		Notes:       c.session.Notes(),
		CurrentTime: c.position,
		Duration:    c.player.Duration(),
	})
}

// Prompted operations funnel through here so the console and tests share
// one code path.

func (c *Controller) PromptCreateClip(p review.Prompter) (review.Clip, bool, error) {
	return c.session.PromptCreateClip(p)
}

func (c *Controller) PromptAddNote(p review.Prompter) (review.Note, bool, error) {
	return c.session.PromptAddNote(p)
}
