package caseview

import (
	"context"

	"github.com/aria/video-analyzer/internal/cases"
)

type selectorState struct {
	open    bool
	loading bool
	cases   []cases.Summary
}

// SelectCase fetches id in the background and loads it when it arrives.
// Only the most recent request is applied; a failed fetch is logged and
// leaves the current case in place.
func (c *Controller) SelectCase(ctx context.Context, id string) {
	c.selector.open = false
	c.fetchToken++
	token := c.fetchToken

	go func() {
		cs, err := c.source.GetCase(ctx, id)
		c.sched.Post(func() {
			if token != c.fetchToken {
				c.logger.Debug("discarding stale case fetch", "case_id", id)
				return
			}
			if err != nil {
				c.logger.Error("failed to fetch case", "case_id", id, "error", err)
				return
			}
			c.LoadCase(cs)
		})
	}()
}

// LoadInitialCase selects the default case after the initial load delay.
func (c *Controller) LoadInitialCase(ctx context.Context) (cancel func()) {
	return c.sched.After(c.initialLoadDelay, func() {
		c.SelectCase(ctx, c.defaultCaseID)
	})
}

// OpenCaseSelector fetches the case list and opens the selector once it
// arrives. On failure the selector stays closed.
func (c *Controller) OpenCaseSelector(ctx context.Context) {
	c.listToken++
	token := c.listToken
	c.selector.loading = true

	go func() {
		list, err := c.source.ListCases(ctx)
		c.sched.Post(func() {
			if token != c.listToken {
				return
			}
			c.selector.loading = false
			if err != nil {
				c.logger.Error("failed to load case list", "error", err)
				return
			}
			c.selector.cases = list
			c.selector.open = true
		})
	}()
}

func (c *Controller) CloseCaseSelector() {
	c.listToken++
	c.selector = selectorState{cases: c.selector.cases}
}
