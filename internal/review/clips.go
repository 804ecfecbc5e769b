package review

import (
	"fmt"
	"strings"
	"time"
)

// Clip is a named range of the reference video.
type Clip struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MarkIn    float64   `json:"mark_in"`
	MarkOut   float64   `json:"mark_out"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Clip) Duration() float64 {
	return c.MarkOut - c.MarkIn
}

// Clips returns the clips in insertion order.
func (s *Session) Clips() []Clip {
	out := make([]Clip, len(s.clips))
	copy(out, s.clips)
	return out
}

func (s *Session) Clip(id int64) (Clip, bool) {
	for _, c := range s.clips {
		if c.ID == id {
			return c, true
		}
	}
	return Clip{}, false
}

// DefaultClipName is the name offered when prompting for a new clip.
func (s *Session) DefaultClipName() string {
	return fmt.Sprintf("Clip %d", len(s.clips)+1)
}

// CreateClip turns the cursor into a clip and clears the cursor. On error
// nothing changes.
func (s *Session) CreateClip(name string) (Clip, error) {
	if err := s.cursor.Check(); err != nil {
		return Clip{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Clip{}, ErrEmptyName
	}

	clip := Clip{
		ID:        s.newID(),
		Name:      name,
		MarkIn:    *s.cursor.MarkIn,
		MarkOut:   *s.cursor.MarkOut,
		CreatedAt: s.now(),
	}
	s.clips = append(s.clips, clip)
	s.cursor = Cursor{}
	s.changed()
	return clip, nil
}

// PromptCreateClip validates the marks, asks p for a name and creates the
// clip. created is false when the user cancels.
func (s *Session) PromptCreateClip(p Prompter) (clip Clip, created bool, err error) {
	if err := s.cursor.Check(); err != nil {
		return Clip{}, false, err
	}
	name, ok := p.Input("Enter clip name:", s.DefaultClipName())
	if !ok || name == "" {
		return Clip{}, false, nil
	}
	clip, err = s.CreateClip(name)
	if err != nil {
		return Clip{}, false, err
	}
	return clip, true, nil
}

// DeleteClip removes the clip after p confirms. Unknown ids are a no-op.
func (s *Session) DeleteClip(id int64, p Prompter) bool {
	idx := -1
	for i, c := range s.clips {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if !p.Confirm("Delete this clip?") {
		return false
	}
	s.clips = append(s.clips[:idx], s.clips[idx+1:]...)
	s.changed()
	return true
}

// GotoClip seeks the player to a clip's mark in.
func (s *Session) GotoClip(markIn float64) {
	s.seek(markIn)
}
