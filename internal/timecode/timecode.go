// Package timecode formats and parses playback positions expressed in seconds.
package timecode

import (
	"fmt"
	"math"
	"strings"
)

// FormatClock formats seconds as MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds float64) string {
	mins, secs := split(seconds)
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// FormatTimecode formats seconds as MM:SS.CC where CC is truncated centiseconds.
func FormatTimecode(seconds float64) string {
	seconds = clamp(seconds)
	mins, secs := split(seconds)
	centis := int(math.Floor(math.Mod(seconds, 1) * 100))
	return fmt.Sprintf("%02d:%02d.%02d", mins, secs, centis)
}

// maxSeconds keeps the minute count well inside int64.
const maxSeconds = 1e18

func split(seconds float64) (int64, int) {
	seconds = clamp(seconds)
	mins := int64(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return mins, secs
}

func clamp(seconds float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return math.Min(seconds, maxSeconds)
}

// Parse parses HH:MM:SS, MM:SS, MM:SS.CC or raw seconds.
// The colon count decides the layout: 2 colons = H:M:S, 1 colon = M:S, 0 colons = seconds.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)

	switch strings.Count(s, ":") {
	case 2:
		var hours, minutes int
		var seconds float64
		if n, err := fmt.Sscanf(s, "%d:%d:%f", &hours, &minutes, &seconds); n == 3 && err == nil && valid(minutes, seconds) {
			return float64(hours*3600+minutes*60) + seconds, nil
		}
	case 1:
		var minutes int
		var seconds float64
		if n, err := fmt.Sscanf(s, "%d:%f", &minutes, &seconds); n == 2 && err == nil && valid(minutes, seconds) {
			return float64(minutes*60) + seconds, nil
		}
	case 0:
		var seconds float64
		if n, err := fmt.Sscanf(s, "%f", &seconds); n == 1 && err == nil && seconds >= 0 {
			return seconds, nil
		}
	}

	return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, MM:SS.CC or seconds, got %q", s)
}

func valid(minutes int, seconds float64) bool {
	return minutes >= 0 && seconds >= 0 && seconds < 60
}
