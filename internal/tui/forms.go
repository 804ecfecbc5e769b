package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aria/video-analyzer/internal/review"
	"github.com/aria/video-analyzer/internal/timecode"
)

type formKind int

const (
	formNone formKind = iota
	formClipName
	formNoteText
	formDeleteClip
	formDeleteNote
	formSeek
)

// formAnswer is bound to the active form's fields.
type formAnswer struct {
	Text      string
	Confirmed bool
}

// Prompter converts the answer into the prompter the session operation
// expects. An empty text answer counts as cancelled.
func (a *formAnswer) Prompter() review.Prompter {
	return review.StaticPrompter{
		Text:      a.Text,
		Confirmed: a.Confirmed,
		Cancelled: a.Text == "" && !a.Confirmed,
	}
}

func formTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(accent).
		PaddingLeft(1)
	t.Focused.Title = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(muted)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(danger)
	return t
}

func newClipNameForm(defaultName string, a *formAnswer) *huh.Form {
	a.Text = defaultName
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter clip name:").
				Description("enter to save, esc to cancel").
				Value(&a.Text),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func newNoteForm(at float64, a *formAnswer) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Enter note:").
				Description("@ "+timecode.FormatTimecode(at)).
				Value(&a.Text),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func newConfirmForm(title string, a *formAnswer) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(&a.Confirmed),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func newSeekForm(a *formAnswer) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Seek to:").
				Placeholder("MM:SS, HH:MM:SS or seconds").
				Value(&a.Text).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := timecode.Parse(s)
					return err
				}),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}
