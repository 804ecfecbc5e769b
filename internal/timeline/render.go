package timeline

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	filledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90D9"))
	trackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C5C5C"))
	clipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A33D")).Bold(true)
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3097C6"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D33061")).Bold(true)
)

const (
	clipGlyph = '▼'
	noteGlyph = '◆'
)

// Column maps a percentage onto a track of width cells. Out-of-range values
// are pinned to the ends.
func Column(pct float64, width int) int {
	if width <= 0 {
		return 0
	}
	col := int(math.Round(float64(width-1) * pct / 100))
	if col < 0 {
		return 0
	}
	if col > width-1 {
		return width - 1
	}
	return col
}

// Render draws the view as two terminal lines: markers above the track and
// the track with the played portion filled. A hidden view renders nothing.
func Render(v View, width int) string {
	if !v.Visible || width < 2 {
		return ""
	}

	marks := make([]rune, width)
	kinds := make([]MarkerKind, width)
	for i := range marks {
		marks[i] = ' '
	}
	for _, m := range v.Markers {
		col := Column(m.Percent, width)
		// Clips take the cell when a note lands on the same column.
		if kinds[col] == KindClip {
			continue
		}
		kinds[col] = m.Kind
		if m.Kind == KindClip {
			marks[col] = clipGlyph
		} else {
			marks[col] = noteGlyph
		}
	}

	head := Column(v.Playhead, width)

	var top, bar strings.Builder
	for i := 0; i < width; i++ {
		switch kinds[i] {
		case KindClip:
			top.WriteString(clipStyle.Render(string(marks[i])))
		case KindNote:
			top.WriteString(noteStyle.Render(string(marks[i])))
		default:
			top.WriteByte(' ')
		}

		switch {
		case i == head:
			bar.WriteString(playheadStyle.Render("┃"))
		case i < head:
			bar.WriteString(filledStyle.Render("━"))
		default:
			bar.WriteString(trackStyle.Render("─"))
		}
	}
	return top.String() + "\n" + bar.String()
}

// ResolveColumnClick resolves a click on cell col of a track drawn by Render
// at the given width. Cells are mapped the same way Column places markers,
// so a click on a drawn marker lands on it.
func ResolveColumnClick(v View, col, width int, duration, tolerance float64) (float64, bool) {
	if width < 2 {
		return 0, false
	}
	return ResolveClick(v, float64(col), float64(width-1), duration, tolerance)
}
