// Package videosource turns a video reference (URL or bare identifier) into
// the canonical identifier a player can load.
package videosource

import (
	"errors"
	"regexp"
)

// ErrInvalidSource is returned when no known reference format matches.
var ErrInvalidSource = errors.New("invalid video source")

// Patterns are tried in order; the first capture group of the first match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// Resolve extracts the canonical video identifier from ref.
func Resolve(ref string) (string, error) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}
	return "", ErrInvalidSource
}

// WatchURL returns the watch page URL for a resolved identifier.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
