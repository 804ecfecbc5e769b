package review

import (
	"sort"
	"strings"
	"time"
)

// Note is free text anchored to a playback position.
type Note struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Timecode  float64   `json:"timecode"`
	CreatedAt time.Time `json:"created_at"`
}

// Notes returns the notes ordered by timecode; ties keep insertion order.
func (s *Session) Notes() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timecode < out[j].Timecode
	})
	return out
}

// AddNote anchors text at the current playback time. added is false, with no
// error, while no player is ready.
func (s *Session) AddNote(text string) (note Note, added bool, err error) {
	t, ok := s.currentTime()
	if !ok {
		return Note{}, false, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, false, ErrEmptyText
	}

	note = Note{
		ID:        s.newID(),
		Text:      text,
		Timecode:  t,
		CreatedAt: s.now(),
	}
	s.notes = append(s.notes, note)
	s.changed()
	return note, true, nil
}

// PromptAddNote asks p for the note text. A cancelled or blank answer adds nothing.
func (s *Session) PromptAddNote(p Prompter) (Note, bool, error) {
	if _, ok := s.currentTime(); !ok {
		return Note{}, false, nil
	}
	text, ok := p.Input("Enter note:", "")
	if !ok || strings.TrimSpace(text) == "" {
		return Note{}, false, nil
	}
	return s.AddNote(text)
}

// DeleteNote removes the note after p confirms. Unknown ids are a no-op.
func (s *Session) DeleteNote(id int64, p Prompter) bool {
	idx := -1
	for i, n := range s.notes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if !p.Confirm("Delete this note?") {
		return false
	}
	s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	s.changed()
	return true
}

// GotoNote seeks the player to a note's timecode.
func (s *Session) GotoNote(id int64) bool {
	for _, n := range s.notes {
		if n.ID == id {
			s.seek(n.Timecode)
			return true
		}
	}
	return false
}
