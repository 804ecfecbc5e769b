package caseview

import (
	"github.com/aria/video-analyzer/internal/analysis"
	"github.com/aria/video-analyzer/internal/cases"
	"github.com/aria/video-analyzer/internal/timecode"
	"github.com/aria/video-analyzer/internal/timeline"
)

const noMark = "--:--"

// View is a render-ready snapshot of the controller.
type View struct {
	CaseID  string
	Subject string
	HasCase bool

	Ready       bool
	State       string
	Clock       string
	DurationStr string
	Rate        float64

	MarkIn        string
	MarkOut       string
	CanCreateClip bool

	Clips    []ClipRow
	Notes    []NoteRow
	Timeline timeline.View

	Panels    []Panel
	ActiveTab Tab

	Analysis AnalysisView
	Selector SelectorView
}

type ClipRow struct {
	ID       int64
	Name     string
	Range    string
	Duration string
	MarkIn   float64
}

type NoteRow struct {
	ID       int64
	Timecode string
	Text     string
	At       float64
}

type AnalysisView struct {
	Busy        bool
	CanGenerate bool
	HasResult   bool
	Summary     string
	Items       []ObservationRow
	Error       string
}

type ObservationRow struct {
	Timecode    string
	Category    string
	Description string
	At          float64
}

type SelectorView struct {
	Open    bool
	Loading bool
	Cases   []cases.Summary
}

func (c *Controller) View() View {
	v := View{
		Ready:       c.player.Ready(),
		State:       c.player.State().String(),
		Clock:       timecode.FormatClock(c.position),
		DurationStr: timecode.FormatClock(c.player.Duration()),
		Rate:        c.rate,
		Timeline:    c.timelineView(),
		Panels:      c.Panels(),
		ActiveTab:   c.tab,
		Selector: SelectorView{
			Open:    c.selector.open,
			Loading: c.selector.loading,
			Cases:   append([]cases.Summary(nil), c.selector.cases...),
		},
	}
	if c.current != nil {
		v.HasCase = true
		v.CaseID = c.current.ID
		v.Subject = c.current.Subject
	}

	cur := c.session.Cursor()
	v.MarkIn = formatMark(cur.MarkIn)
	v.MarkOut = formatMark(cur.MarkOut)
	v.CanCreateClip = cur.Complete()

	for _, clip := range c.session.Clips() {
		v.Clips = append(v.Clips, ClipRow{
			ID:       clip.ID,
			Name:     clip.Name,
			Range:    timecode.FormatTimecode(clip.MarkIn) + " → " + timecode.FormatTimecode(clip.MarkOut),
			Duration: timecode.FormatTimecode(clip.Duration()),
			MarkIn:   clip.MarkIn,
		})
	}
	for _, n := range c.session.Notes() {
		v.Notes = append(v.Notes, NoteRow{
			ID:       n.ID,
			Timecode: timecode.FormatTimecode(n.Timecode),
			Text:     n.Text,
			At:       n.Timecode,
		})
	}

	v.Analysis = c.analysisView()
	return v
}

func (c *Controller) analysisView() AnalysisView {
	av := AnalysisView{
		Busy:        c.analysis.busy,
		CanGenerate: c.current != nil && !c.analysis.busy,
	}
	if c.analysis.err != nil {
		av.Error = c.analysis.err.Error()
	}
	if r := c.analysis.result; r != nil {
		av.HasResult = true
		av.Summary = r.Summary
		av.Items = observationRows(r.Observations)
	}
	return av
}

func observationRows(obs []analysis.Observation) []ObservationRow {
	rows := make([]ObservationRow, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, ObservationRow{
			Timecode:    timecode.FormatClock(o.Timestamp),
			Category:    o.Category,
			Description: o.Description,
			At:          o.Timestamp,
		})
	}
	return rows
}

func formatMark(m *float64) string {
	if m == nil {
		return noMark
	}
	return timecode.FormatTimecode(*m)
}
