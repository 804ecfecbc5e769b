// Package analysis is the boundary to the behavioural analysis service.
// Only a fixed stub is provided; it returns the same annotations for every
// case after a simulated processing delay.
package analysis

import (
	"context"
	"log/slog"
	"time"
)

const DefaultDelay = 2 * time.Second

type Request struct {
	CaseID  string
	VideoID string
}

// Observation is one categorised annotation anchored at a playback position.
type Observation struct {
	Timestamp   float64 `json:"timestamp"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type Result struct {
	CaseID       string        `json:"case_id"`
	Summary      string        `json:"summary"`
	Observations []Observation `json:"observations"`
}

type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

type StubAnalyzer struct {
	delay  time.Duration
	logger *slog.Logger
}

func NewStubAnalyzer(delay time.Duration, logger *slog.Logger) *StubAnalyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StubAnalyzer{delay: delay, logger: logger}
}

func (a *StubAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	a.logger.Info("analysis stub: analysis requested", "case_id", req.CaseID, "video_id", req.VideoID)

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return &Result{
		CaseID:       req.CaseID,
		Summary:      stubSummary,
		Observations: stubObservations(),
	}, nil
}

const stubSummary = "Automated review flagged reduced reciprocal eye contact, limited response to name, " +
	"and brief repetitive hand movements. Findings are provisional and require clinician confirmation."

func stubObservations() []Observation {
	return []Observation{
		{Timestamp: 12.5, Category: "Social Communication", Description: "Limited eye contact during greeting"},
		{Timestamp: 34.2, Category: "Social Communication", Description: "Delayed response when name is called"},
		{Timestamp: 58.0, Category: "Repetitive Behaviour", Description: "Hand flapping while excited"},
		{Timestamp: 95.7, Category: "Play", Description: "Lines up toys instead of functional play"},
		{Timestamp: 142.3, Category: "Joint Attention", Description: "Does not follow examiner's point"},
	}
}
