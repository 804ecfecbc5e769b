package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria/video-analyzer/internal/caseview"
	"github.com/aria/video-analyzer/internal/timeline"
)

const helpLine = "space play/pause · ←/→ seek · [/] speed · i/o mark in/out · x clear · c clip · n note · " +
	"g seek to · tab switch · enter go to · d delete · C cases · a analysis · e export · ? help · q quit"

func (m *Model) trackWidth() int {
	if m.width < 10 {
		return 10
	}
	return m.width
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.ctrl.View()
	width := m.trackWidth()

	header, transport := m.topRows(v)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(transport)
	b.WriteString("\n")

	// The timeline always occupies two rows.
	track := timeline.Render(v.Timeline, width)
	if track == "" {
		track = mutedStyle.Render("waiting for video…") + "\n"
	}
	b.WriteString(track)
	b.WriteString("\n")

	b.WriteString(tabsView(v.ActiveTab))
	b.WriteString("\n")

	var body string
	switch {
	case m.form != nil:
		body = m.form.View()
	case m.showHelp:
		body = helpView()
	case v.Selector.Open:
		body = m.selectorView(v.Selector)
	default:
		body = m.tabView(v)
	}
	b.WriteString(bodyStyle.Width(width - 2).Render(body))
	b.WriteString("\n")

	b.WriteString(m.statusView(v))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Width(width).Render(helpLine))
	return b.String()
}

// topRows renders the header and transport wrapped to the terminal width so
// their height is known before the timeline is placed below them.
func (m *Model) topRows(v caseview.View) (string, string) {
	wrap := lipgloss.NewStyle().Width(m.trackWidth())
	return wrap.Render(m.headerView(v)), wrap.Render(m.transportView(v))
}

// timelineTop is the first screen row of the two-line timeline.
func (m *Model) timelineTop(v caseview.View) int {
	header, transport := m.topRows(v)
	return lipgloss.Height(header) + lipgloss.Height(transport)
}

func (m *Model) headerView(v caseview.View) string {
	title := titleStyle.Render("ARIA Video Analyzer")
	if !v.HasCase {
		return title + mutedStyle.Render("  · no case loaded")
	}
	return title + "  " + boldStyle.Render(v.CaseID) + mutedStyle.Render("  "+v.Subject)
}

func (m *Model) transportView(v caseview.View) string {
	state := mutedStyle.Render("○ " + v.State)
	if v.State == "playing" {
		state = infoStyle.Render("▶ playing")
	}
	parts := []string{
		state,
		fmt.Sprintf("%s / %s", v.Clock, v.DurationStr),
		fmt.Sprintf("%gx", v.Rate),
		"In " + v.MarkIn,
		"Out " + v.MarkOut,
	}
	if v.CanCreateClip {
		parts = append(parts, selectedStyle.Render("[c] create clip"))
	}
	return strings.Join(parts, "   ")
}

func tabsView(active caseview.Tab) string {
	tabs := make([]string, 0, len(caseview.Tabs))
	for i, t := range caseview.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if t == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) tabView(v caseview.View) string {
	if !v.HasCase {
		return mutedStyle.Render("Loading case…  (C to choose a case)")
	}
	switch v.ActiveTab {
	case caseview.TabClips:
		return m.clipsView(v.Clips)
	case caseview.TabNotes:
		return m.notesView(v.Notes)
	case caseview.TabAnalysis:
		return m.analysisView(v.Analysis)
	default:
		return panelsView(v.Panels)
	}
}

func panelsView(panels []caseview.Panel) string {
	var blocks []string
	for _, p := range panels {
		if p.Hidden {
			continue
		}
		lines := []string{boldStyle.Render(p.Title)}
		for _, f := range p.Fields {
			lines = append(lines, labelStyle.Render(f.Label)+f.Value)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) clipsView(rows []caseview.ClipRow) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No clips created yet")
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		line := fmt.Sprintf("%s  %s  (%s)", r.Name, r.Range, r.Duration)
		lines = append(lines, selectable(line, i == m.clipSel))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) notesView(rows []caseview.NoteRow) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No notes yet")
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, selectable(r.Timecode+"  "+r.Text, i == m.noteSel))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) analysisView(a caseview.AnalysisView) string {
	switch {
	case a.Busy:
		return busyStyle.Render("Analyzing video…")
	case a.Error != "":
		return errorStyle.Render("Analysis failed: "+a.Error) + "\n" + mutedStyle.Render("press a to retry")
	case !a.HasResult:
		return mutedStyle.Render("press a to generate an AI analysis")
	}

	lines := []string{a.Summary, ""}
	for i, o := range a.Items {
		line := fmt.Sprintf("%s  %-22s %s", o.Timecode, o.Category, o.Description)
		lines = append(lines, selectable(line, i == m.obsSel))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) selectorView(s caseview.SelectorView) string {
	if len(s.Cases) == 0 {
		return mutedStyle.Render("No cases available")
	}
	lines := []string{boldStyle.Render("Select a case") + mutedStyle.Render("  (enter to open, esc to close)")}
	for i, c := range s.Cases {
		line := fmt.Sprintf("%s  %s · %s · %s · %s", c.Subject, c.Sex, c.DOB, c.FamilyType, c.Sample.PredictedAncestry)
		lines = append(lines, selectable(line, i == m.selectorSel))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusView(v caseview.View) string {
	switch {
	case m.status != "" && m.statusErr:
		return errorStyle.Render(m.status)
	case m.status != "":
		return infoStyle.Render(m.status)
	case v.Selector.Loading:
		return busyStyle.Render("Loading cases…")
	}
	return ""
}

func helpView() string {
	return strings.Join(strings.Split(helpLine, " · "), "\n")
}

func selectable(line string, selected bool) string {
	if selected {
		return selectedStyle.Render("▸ " + line)
	}
	return "  " + line
}
