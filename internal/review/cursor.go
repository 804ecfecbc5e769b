package review

// Cursor is the pending clip range. Either slot may be unset.
type Cursor struct {
	MarkIn  *float64
	MarkOut *float64
}

// Complete reports whether both slots are set.
func (c Cursor) Complete() bool {
	return c.MarkIn != nil && c.MarkOut != nil
}

// Check validates the cursor as a clip range.
func (c Cursor) Check() error {
	if !c.Complete() {
		return ErrIncompleteMarks
	}
	if *c.MarkIn >= *c.MarkOut {
		return ErrInvalidRange
	}
	return nil
}

func (s *Session) Cursor() Cursor {
	return s.cursor
}

// MarkInNow stores the current playback time as mark in. It reports false
// and changes nothing while no player is ready.
func (s *Session) MarkInNow() bool {
	t, ok := s.currentTime()
	if !ok {
		return false
	}
	s.cursor.MarkIn = &t
	s.changed()
	return true
}

// MarkOutNow stores the current playback time as mark out. No ordering
// against mark in is enforced here.
func (s *Session) MarkOutNow() bool {
	t, ok := s.currentTime()
	if !ok {
		return false
	}
	s.cursor.MarkOut = &t
	s.changed()
	return true
}

func (s *Session) ClearMarks() {
	s.cursor = Cursor{}
	s.changed()
}

// CheckMarks reports whether a clip could be created from the cursor.
func (s *Session) CheckMarks() error {
	return s.cursor.Check()
}
