// Package export writes review clips as a CMX3600 edit decision list so they
// can be pulled into an editor against the case video.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/aria/video-analyzer/internal/review"
)

const DefaultFrameRate = 30.0

// Event is one EDL entry. In and Out are source positions in seconds.
type Event struct {
	Name   string
	Source string
	In     float64
	Out    float64
}

// Locator is a note placed on the record timeline as a comment.
type Locator struct {
	At   float64
	Text string
}

// EventsFromClips keeps clip order; each clip becomes one event on source.
func EventsFromClips(clips []review.Clip, source string) []Event {
	events := make([]Event, 0, len(clips))
	for _, c := range clips {
		name := SanitizeName(c.Name, 160)
		if name == "" {
			name = fmt.Sprintf("clip_%d", c.ID)
		}
		events = append(events, Event{Name: name, Source: source, In: c.MarkIn, Out: c.MarkOut})
	}
	return events
}

func LocatorsFromNotes(notes []review.Note) []Locator {
	locs := make([]Locator, 0, len(notes))
	for _, n := range notes {
		locs = append(locs, Locator{At: n.Timecode, Text: SanitizeName(n.Text, 200)})
	}
	return locs
}

// GenerateEDL lays the events end to end on the record side. Locators are
// listed after the events using source timecode.
func GenerateEDL(title string, frameRate float64, events []Event, locators []Locator) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = int(DefaultFrameRate)
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordFrames := 0
	for i, ev := range events {
		in := toFrames(ev.In, fps)
		out := toFrames(ev.Out, fps)
		length := out - in

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V",
				framesToTimecode(in, fps), framesToTimecode(out, fps),
				framesToTimecode(recordFrames, fps), framesToTimecode(recordFrames+length, fps)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", ev.Name),
			fmt.Sprintf("* SOURCE:  %s", ev.Source),
		)
		recordFrames += length
	}

	if len(locators) > 0 {
		lines = append(lines, "")
		for _, loc := range locators {
			lines = append(lines, fmt.Sprintf("* LOC: %s NOTE %s", framesToTimecode(toFrames(loc.At, fps), fps), loc.Text))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func toFrames(seconds float64, fps int) int {
	if seconds < 0 {
		seconds = 0
	}
	return int(math.Round(seconds * float64(fps)))
}

func framesToTimecode(totalFrames int, fps int) string {
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
