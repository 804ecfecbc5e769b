package caseview

import (
	"context"

	"github.com/aria/video-analyzer/internal/analysis"
)

type analysisState struct {
	busy   bool
	result *analysis.Result
	err    error
}

// GenerateAnalysis requests an analysis of the loaded case. The trigger is
// disabled until the result arrives; the result replaces any previous one.
// It reports false when nothing was started: no case is loaded or a run is
// already in flight.
func (c *Controller) GenerateAnalysis(ctx context.Context) bool {
	if c.current == nil || c.analysis.busy {
		return false
	}
	c.analysis.busy = true
	c.analysis.err = nil

	gen := c.caseGen
	req := analysis.Request{CaseID: c.current.ID, VideoID: c.player.VideoID()}
	c.logger.Info("analysis started", "case_id", req.CaseID)

	go func() {
		res, err := c.analyzer.Analyze(ctx, req)
		c.sched.Post(func() {
			if gen != c.caseGen {
				c.logger.Debug("discarding stale analysis", "case_id", req.CaseID)
				return
			}
			c.analysis.busy = false
			if err != nil {
				c.analysis.err = err
				c.logger.Error("analysis failed", "case_id", req.CaseID, "error", err)
				return
			}
			c.analysis.result = res
		})
	}()
	return true
}

func (c *Controller) AnalysisBusy() bool {
	return c.analysis.busy
}
