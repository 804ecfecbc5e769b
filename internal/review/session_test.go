package review

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	now   float64
	ready bool
	seeks []float64
}

func (p *fakePlayer) CurrentTime() (float64, bool) {
	return p.now, p.ready
}

func (p *fakePlayer) Seek(seconds float64) {
	p.seeks = append(p.seeks, seconds)
	p.now = seconds
}

func newTestSession() (*Session, *fakePlayer) {
	p := &fakePlayer{ready: true}
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession(SessionConfig{Player: p, Now: func() time.Time { return fixed }})
	return s, p
}

func markRange(s *Session, p *fakePlayer, in, out float64) {
	p.now = in
	s.MarkInNow()
	p.now = out
	s.MarkOutNow()
}

func TestMarks_NoOpWithoutPlayer(t *testing.T) {
	s, p := newTestSession()
	p.ready = false

	assert.False(t, s.MarkInNow())
	assert.False(t, s.MarkOutNow())
	assert.Nil(t, s.Cursor().MarkIn)
	assert.Nil(t, s.Cursor().MarkOut)
}

func TestMarks_OverwriteAndNoOrdering(t *testing.T) {
	s, p := newTestSession()

	p.now = 30
	require.True(t, s.MarkOutNow())
	p.now = 40
	require.True(t, s.MarkInNow())
	p.now = 42
	require.True(t, s.MarkInNow())

	c := s.Cursor()
	require.NotNil(t, c.MarkIn)
	require.NotNil(t, c.MarkOut)
	assert.Equal(t, 42.0, *c.MarkIn)
	assert.Equal(t, 30.0, *c.MarkOut)
	assert.ErrorIs(t, s.CheckMarks(), ErrInvalidRange)
}

func TestClearMarks(t *testing.T) {
	s, p := newTestSession()
	markRange(s, p, 1, 2)

	s.ClearMarks()
	assert.False(t, s.Cursor().Complete())
	assert.ErrorIs(t, s.CheckMarks(), ErrIncompleteMarks)
}

func TestCreateClip_IncompleteMarks(t *testing.T) {
	s, p := newTestSession()
	p.now = 10
	s.MarkInNow()

	_, err := s.CreateClip("Greeting")
	require.ErrorIs(t, err, ErrIncompleteMarks)
	assert.Empty(t, s.Clips())
	assert.NotNil(t, s.Cursor().MarkIn, "failed creation must not clear the cursor")

	s.ClearMarks()
	p.now = 20
	s.MarkOutNow()
	_, err = s.CreateClip("Greeting")
	assert.ErrorIs(t, err, ErrIncompleteMarks)
}

func TestCreateClip_InvalidRange(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in, out float64
	}{
		{name: "equal", in: 10, out: 10},
		{name: "reversed", in: 20, out: 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, p := newTestSession()
			markRange(s, p, tc.in, tc.out)

			_, err := s.CreateClip("x")
			require.ErrorIs(t, err, ErrInvalidRange)
			assert.Empty(t, s.Clips())
			assert.True(t, s.Cursor().Complete())
		})
	}
}

func TestCreateClip_EmptyName(t *testing.T) {
	s, p := newTestSession()
	markRange(s, p, 1, 2)

	_, err := s.CreateClip("   ")
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, s.Clips())
	assert.True(t, s.Cursor().Complete())
}

func TestCreateClip_Success(t *testing.T) {
	s, p := newTestSession()
	changes := 0
	s.OnChange(func() { changes++ })

	markRange(s, p, 45, 50)
	clip, err := s.CreateClip(" Greeting ")
	require.NoError(t, err)

	assert.Equal(t, "Greeting", clip.Name)
	assert.Equal(t, 45.0, clip.MarkIn)
	assert.Equal(t, 50.0, clip.MarkOut)
	assert.Equal(t, 5.0, clip.Duration())
	assert.NotZero(t, clip.ID)
	assert.False(t, clip.CreatedAt.IsZero())

	assert.False(t, s.Cursor().Complete(), "cursor is cleared after creation")
	assert.Nil(t, s.Cursor().MarkIn)
	assert.Equal(t, []Clip{clip}, s.Clips())
	assert.Equal(t, 3, changes)
}

func TestPromptCreateClip(t *testing.T) {
	s, p := newTestSession()

	_, created, err := s.PromptCreateClip(StaticPrompter{Text: "x"})
	assert.ErrorIs(t, err, ErrIncompleteMarks)
	assert.False(t, created)

	markRange(s, p, 1, 3)
	_, created, err = s.PromptCreateClip(StaticPrompter{Cancelled: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, s.Cursor().Complete(), "cancel leaves marks in place")

	assert.Equal(t, "Clip 1", s.DefaultClipName())
	clip, created, err := s.PromptCreateClip(StaticPrompter{Text: "Wave"})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "Wave", clip.Name)
	assert.Equal(t, "Clip 2", s.DefaultClipName())
}

func TestDeleteClip(t *testing.T) {
	s, p := newTestSession()
	markRange(s, p, 1, 2)
	a, _ := s.CreateClip("a")
	markRange(s, p, 3, 4)
	b, _ := s.CreateClip("b")

	assert.False(t, s.DeleteClip(a.ID, StaticPrompter{Confirmed: false}))
	assert.Len(t, s.Clips(), 2)

	assert.False(t, s.DeleteClip(9999, Confirmed))
	assert.Len(t, s.Clips(), 2)

	assert.True(t, s.DeleteClip(a.ID, Confirmed))
	assert.Equal(t, []Clip{b}, s.Clips())
}

func TestClips_InsertionOrderMinusDeletions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		s, p := newTestSession()
		var want []int64

		for step := 0; step < 30; step++ {
			if len(want) > 0 && rng.Intn(3) == 0 {
				idx := rng.Intn(len(want))
				require.True(t, s.DeleteClip(want[idx], Confirmed))
				want = append(want[:idx], want[idx+1:]...)
				continue
			}
			// Later clips often start earlier; display order must not re-sort.
			in := rng.Float64() * 100
			markRange(s, p, in, in+1+rng.Float64()*10)
			clip, err := s.CreateClip("c")
			require.NoError(t, err)
			want = append(want, clip.ID)
		}

		var got []int64
		for _, c := range s.Clips() {
			got = append(got, c.ID)
		}
		assert.Equal(t, want, got)
	}
}

func TestGotoClip(t *testing.T) {
	s, p := newTestSession()
	s.GotoClip(45)
	assert.Equal(t, []float64{45}, p.seeks)
}

func TestAddNote(t *testing.T) {
	s, p := newTestSession()

	p.now = 12.5
	note, added, err := s.AddNote("  eye contact  ")
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, "eye contact", note.Text)
	assert.Equal(t, 12.5, note.Timecode)

	_, added, err = s.AddNote("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.False(t, added)
	assert.Len(t, s.Notes(), 1)
}

func TestAddNote_NoPlayerIsSilent(t *testing.T) {
	s, p := newTestSession()
	p.ready = false

	_, added, err := s.AddNote("text")
	assert.NoError(t, err)
	assert.False(t, added)

	_, added, err = s.AddNote("")
	assert.NoError(t, err, "no player wins over validation")
	assert.False(t, added)
	assert.Empty(t, s.Notes())
}

func TestPromptAddNote(t *testing.T) {
	s, p := newTestSession()
	p.now = 3

	_, added, err := s.PromptAddNote(StaticPrompter{Cancelled: true})
	assert.NoError(t, err)
	assert.False(t, added)

	_, added, err = s.PromptAddNote(StaticPrompter{Text: "  "})
	assert.NoError(t, err)
	assert.False(t, added)

	note, added, err := s.PromptAddNote(StaticPrompter{Text: "points"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 3.0, note.Timecode)
}

func TestNotes_SortedByTimecodeStable(t *testing.T) {
	s, p := newTestSession()

	for _, tc := range []struct {
		at   float64
		text string
	}{
		{30, "c"}, {10, "a"}, {30, "d"}, {20, "b"}, {10, "a2"},
	} {
		p.now = tc.at
		_, _, err := s.AddNote(tc.text)
		require.NoError(t, err)
	}

	var texts []string
	for _, n := range s.Notes() {
		texts = append(texts, n.Text)
	}
	assert.Equal(t, []string{"a", "a2", "b", "c", "d"}, texts)
}

func TestNotes_NonDecreasingForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s, p := newTestSession()

	for i := 0; i < 200; i++ {
		p.now = float64(rng.Intn(600))
		_, _, err := s.AddNote("n")
		require.NoError(t, err)

		notes := s.Notes()
		for j := 1; j < len(notes); j++ {
			require.LessOrEqual(t, notes[j-1].Timecode, notes[j].Timecode)
		}
	}
}

func TestNoteIDsFollowInsertionOrder(t *testing.T) {
	s, p := newTestSession()
	p.now = 50
	first, _, _ := s.AddNote("late")
	p.now = 5
	second, _, _ := s.AddNote("early")

	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, second.ID, s.Notes()[0].ID)
}

func TestDeleteNoteAndGotoNote(t *testing.T) {
	s, p := newTestSession()
	p.now = 8
	n, _, _ := s.AddNote("x")

	p.now = 0
	assert.True(t, s.GotoNote(n.ID))
	assert.Equal(t, []float64{8}, p.seeks)
	assert.False(t, s.GotoNote(404))

	assert.False(t, s.DeleteNote(n.ID, StaticPrompter{}))
	assert.Len(t, s.Notes(), 1)
	assert.True(t, s.DeleteNote(n.ID, Confirmed))
	assert.Empty(t, s.Notes())
	assert.False(t, s.DeleteNote(n.ID, Confirmed))
}
