// Package timeline projects clips, notes and the playhead onto a horizontal
// track expressed in percent of the video duration.
package timeline

import (
	"math"

	"github.com/aria/video-analyzer/internal/review"
	"github.com/aria/video-analyzer/internal/timecode"
)

type MarkerKind string

const (
	KindClip MarkerKind = "clip"
	KindNote MarkerKind = "note"
)

type Marker struct {
	Kind  MarkerKind
	ID    int64
	Label string
	// Percent is the left offset on the track, 0..100 for in-range times.
	Percent float64
	// SeekTo is the playback position a click on the marker jumps to.
	SeekTo float64
}

type Input struct {
	Clips       []review.Clip
	Notes       []review.Note
	CurrentTime float64
	Duration    float64
}

// View is the derived visual state. It is rebuilt from scratch on every
// refresh so no stale markers survive a mutation.
type View struct {
	Visible  bool
	Markers  []Marker
	Playhead float64
}

// Project derives the track. While the duration is unknown the view is
// hidden and no percentage is computed.
func Project(in Input) View {
	if !(in.Duration > 0) {
		return View{}
	}

	v := View{
		Visible:  true,
		Playhead: percent(in.CurrentTime, in.Duration),
		Markers:  make([]Marker, 0, len(in.Clips)+len(in.Notes)),
	}
	for _, c := range in.Clips {
		v.Markers = append(v.Markers, Marker{
			Kind:    KindClip,
			ID:      c.ID,
			Label:   c.Name,
			Percent: percent(c.MarkIn, in.Duration),
			SeekTo:  c.MarkIn,
		})
	}
	for _, n := range in.Notes {
		v.Markers = append(v.Markers, Marker{
			Kind:    KindNote,
			ID:      n.ID,
			Label:   timecode.FormatTimecode(n.Timecode),
			Percent: percent(n.Timecode, in.Duration),
			SeekTo:  n.Timecode,
		})
	}
	return v
}

func percent(t, duration float64) float64 {
	return t / duration * 100
}

// SeekTimeForClick maps a click offset on a track of the given width to a
// playback position. ok is false when width or duration is not positive.
func SeekTimeForClick(offset, width, duration float64) (float64, bool) {
	if !(width > 0) || !(duration > 0) {
		return 0, false
	}
	offset = math.Max(0, math.Min(offset, width))
	return offset / width * duration, true
}

// ResolveClick decides where a click on the track seeks. A marker within
// tolerance (in the same units as offset) wins over the track itself; the
// nearest marker is chosen when several are in reach.
func ResolveClick(v View, offset, width, duration, tolerance float64) (float64, bool) {
	if !v.Visible {
		return 0, false
	}
	if width > 0 {
		best := -1
		bestDist := math.Inf(1)
		for i, m := range v.Markers {
			d := math.Abs(m.Percent/100*width - offset)
			if d <= tolerance && d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			return v.Markers[best].SeekTo, true
		}
	}
	return SeekTimeForClick(offset, width, duration)
}
