// Package tui is the terminal review console. It drives a caseview
// Controller from a bubbletea program; every controller call happens inside
// Update.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/aria/video-analyzer/internal/caseview"
	"github.com/aria/video-analyzer/internal/export"
	"github.com/aria/video-analyzer/internal/review"
	"github.com/aria/video-analyzer/internal/timecode"
	"github.com/aria/video-analyzer/internal/videosource"
)

const (
	seekStep              = 5.0
	statusDisplayDuration = 4 * time.Second
	// markerTolerance is how many cells from a marker still count as a hit.
	markerTolerance = 1.0
)

// clearStatusMsg clears the status line if it is still showing seq.
type clearStatusMsg struct{ seq int }

type Config struct {
	Controller *caseview.Controller
	// Context bounds fetches and analysis runs.
	Context   context.Context
	ExportDir string
	Logger    *slog.Logger
	// Now stamps exports. Defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea model of the review console.
type Model struct {
	ctrl      *caseview.Controller
	ctx       context.Context
	exportDir string
	logger    *slog.Logger
	now       func() time.Time

	width  int
	height int

	// selection per list: clips, notes, observations and the case selector
	clipSel     int
	noteSel     int
	obsSel      int
	selectorSel int

	form       *huh.Form
	formKind   formKind
	answer     *formAnswer
	pendingID  int64
	status     string
	statusErr  bool
	statusSeq  int
	showHelp   bool
	quitting   bool
	cancelInit func()
}

func NewModel(cfg Config) *Model {
	m := &Model{
		ctrl:      cfg.Controller,
		ctx:       cfg.Context,
		exportDir: cfg.ExportDir,
		logger:    cfg.Logger,
		now:       cfg.Now,
		width:     80,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Init schedules the default case load.
func (m *Model) Init() tea.Cmd {
	m.cancelInit = m.ctrl.LoadInitialCase(m.ctx)
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case funcMsg:
		msg()
		m.clampSelections()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.form != nil {
			if msg.String() == "esc" {
				m.closeForm()
				return m, nil
			}
			return m.updateForm(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.ctrl.View().Selector.Open {
			return m.handleSelectorKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "?":
		m.showHelp = true
	case " ":
		m.ctrl.TogglePlayPause()
	case "left", "h":
		m.ctrl.SeekRelative(-seekStep)
	case "right", "l":
		m.ctrl.SeekRelative(seekStep)
	case "[":
		m.ctrl.StepPlaybackRate(-1)
	case "]":
		m.ctrl.StepPlaybackRate(1)
	case "i":
		m.ctrl.Session().MarkInNow()
	case "o":
		m.ctrl.Session().MarkOutNow()
	case "x":
		m.ctrl.Session().ClearMarks()
	case "c":
		return m.openClipForm()
	case "n":
		return m.openNoteForm()
	case "g":
		return m.openForm(formSeek, newSeekForm)
	case "tab":
		m.ctrl.CycleTab(1)
	case "shift+tab":
		m.ctrl.CycleTab(-1)
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		_ = m.ctrl.SwitchTab(string(caseview.Tabs[idx]))
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter":
		m.gotoSelected()
	case "d":
		return m.openDeleteForm()
	case "C":
		m.ctrl.OpenCaseSelector(m.ctx)
	case "a":
		if m.ctrl.GenerateAnalysis(m.ctx) {
			_ = m.ctrl.SwitchTab(string(caseview.TabAnalysis))
		}
	case "e":
		return m.exportSession()
	}
	return m, nil
}

func (m *Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.ctrl.View().Selector.Cases
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "esc", "C":
		m.ctrl.CloseCaseSelector()
	case "up", "k":
		m.selectorSel = clampIndex(m.selectorSel-1, len(list))
	case "down", "j":
		m.selectorSel = clampIndex(m.selectorSel+1, len(list))
	case "enter":
		if m.selectorSel < len(list) {
			m.ctrl.SelectCase(m.ctx, list[m.selectorSel].ID)
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	top := m.timelineTop(m.ctrl.View())
	if msg.Y != top && msg.Y != top+1 {
		return m, nil
	}
	m.ctrl.ClickTimelineColumn(msg.X, m.trackWidth(), markerTolerance)
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancelInit != nil {
		m.cancelInit()
	}
	m.ctrl.Close()
	return m, tea.Quit
}

// Forms

type formBuilder func(a *formAnswer) *huh.Form

func (m *Model) openForm(kind formKind, build formBuilder) (tea.Model, tea.Cmd) {
	m.answer = &formAnswer{}
	m.form = build(m.answer)
	m.formKind = kind
	return m, m.form.Init()
}

func (m *Model) openClipForm() (tea.Model, tea.Cmd) {
	s := m.ctrl.Session()
	if err := s.CheckMarks(); err != nil {
		return m, m.setStatus(clipErrorText(err), true)
	}
	def := s.DefaultClipName()
	return m.openForm(formClipName, func(a *formAnswer) *huh.Form {
		return newClipNameForm(def, a)
	})
}

func (m *Model) openNoteForm() (tea.Model, tea.Cmd) {
	v := m.ctrl.View()
	if !v.Ready {
		return m, nil
	}
	at := m.ctrl.Position()
	return m.openForm(formNoteText, func(a *formAnswer) *huh.Form {
		return newNoteForm(at, a)
	})
}

func (m *Model) openDeleteForm() (tea.Model, tea.Cmd) {
	v := m.ctrl.View()
	switch v.ActiveTab {
	case caseview.TabClips:
		if m.clipSel >= len(v.Clips) {
			return m, nil
		}
		m.pendingID = v.Clips[m.clipSel].ID
		return m.openForm(formDeleteClip, func(a *formAnswer) *huh.Form {
			return newConfirmForm("Delete this clip?", a)
		})
	case caseview.TabNotes:
		if m.noteSel >= len(v.Notes) {
			return m, nil
		}
		m.pendingID = v.Notes[m.noteSel].ID
		return m.openForm(formDeleteNote, func(a *formAnswer) *huh.Form {
			return newConfirmForm("Delete this note?", a)
		})
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		submitCmd := m.submitForm()
		m.closeForm()
		return m, tea.Batch(cmd, submitCmd)
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) submitForm() tea.Cmd {
	p := m.answer.Prompter()
	s := m.ctrl.Session()

	switch m.formKind {
	case formClipName:
		clip, created, err := m.ctrl.PromptCreateClip(p)
		if err != nil {
			return m.setStatus(clipErrorText(err), true)
		}
		if created {
			return m.setStatus(fmt.Sprintf("Created clip %q", clip.Name), false)
		}
	case formNoteText:
		note, added, err := m.ctrl.PromptAddNote(p)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		if added {
			return m.setStatus("Added note at "+timecode.FormatTimecode(note.Timecode), false)
		}
	case formDeleteClip:
		s.DeleteClip(m.pendingID, p)
		m.clampSelections()
	case formDeleteNote:
		s.DeleteNote(m.pendingID, p)
		m.clampSelections()
	case formSeek:
		if m.answer.Text == "" {
			return nil
		}
		t, err := timecode.Parse(m.answer.Text)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.ctrl.Seek(t)
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
	m.answer = nil
	m.pendingID = 0
}

// Lists

func (m *Model) moveSelection(delta int) {
	v := m.ctrl.View()
	switch v.ActiveTab {
	case caseview.TabClips:
		m.clipSel = clampIndex(m.clipSel+delta, len(v.Clips))
	case caseview.TabNotes:
		m.noteSel = clampIndex(m.noteSel+delta, len(v.Notes))
	case caseview.TabAnalysis:
		m.obsSel = clampIndex(m.obsSel+delta, len(v.Analysis.Items))
	}
}

func (m *Model) gotoSelected() {
	v := m.ctrl.View()
	switch v.ActiveTab {
	case caseview.TabClips:
		if m.clipSel < len(v.Clips) {
			m.ctrl.GotoClip(v.Clips[m.clipSel].ID)
		}
	case caseview.TabNotes:
		if m.noteSel < len(v.Notes) {
			m.ctrl.GotoNote(v.Notes[m.noteSel].ID)
		}
	case caseview.TabAnalysis:
		if m.obsSel < len(v.Analysis.Items) {
			m.ctrl.Seek(v.Analysis.Items[m.obsSel].At)
		}
	}
}

func (m *Model) clampSelections() {
	v := m.ctrl.View()
	m.clipSel = clampIndex(m.clipSel, len(v.Clips))
	m.noteSel = clampIndex(m.noteSel, len(v.Notes))
	m.obsSel = clampIndex(m.obsSel, len(v.Analysis.Items))
	m.selectorSel = clampIndex(m.selectorSel, len(v.Selector.Cases))
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Export

func (m *Model) exportSession() (tea.Model, tea.Cmd) {
	cs := m.ctrl.Case()
	if cs == nil {
		return m, m.setStatus("No case loaded", true)
	}
	s := m.ctrl.Session()
	videoURL := cs.Video
	if id, err := videosource.Resolve(cs.Video); err == nil {
		videoURL = videosource.WatchURL(id)
	}

	path, err := export.Write(export.Request{
		CaseID:    cs.ID,
		VideoURL:  videoURL,
		Clips:     s.Clips(),
		Notes:     s.Notes(),
		FrameRate: export.DefaultFrameRate,
		OutputDir: m.exportDir,
		Now:       m.now(),
	})
	if errors.Is(err, export.ErrNoClips) {
		return m, m.setStatus("Nothing to export: create a clip first", true)
	}
	if err != nil {
		m.logger.Error("export failed", "case_id", cs.ID, "error", err)
		return m, m.setStatus("Export failed: "+err.Error(), true)
	}
	m.logger.Info("session exported", "case_id", cs.ID, "path", path)
	return m, m.setStatus("Exported "+path, false)
}

// Status line

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = text
	m.statusErr = isErr
	return tea.Tick(statusDisplayDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func clipErrorText(err error) string {
	switch {
	case errors.Is(err, review.ErrIncompleteMarks):
		return "Please set both Mark In and Mark Out"
	case errors.Is(err, review.ErrInvalidRange):
		return "Mark In must be before Mark Out"
	case errors.Is(err, review.ErrEmptyName):
		return "Clip name cannot be empty"
	}
	return err.Error()
}
