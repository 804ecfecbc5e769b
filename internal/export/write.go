package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aria/video-analyzer/internal/review"
)

var ErrNoClips = errors.New("no clips to export")

// Request describes one export of a review session.
type Request struct {
	CaseID    string
	VideoURL  string
	Clips     []review.Clip
	Notes     []review.Note
	FrameRate float64
	OutputDir string
	Now       time.Time
}

// Write renders the session as an EDL under OutputDir and returns the file
// path. The directory is created when missing.
func Write(req Request) (string, error) {
	if len(req.Clips) == 0 {
		return "", ErrNoClips
	}
	if err := PrepareOutputDir(req.OutputDir); err != nil {
		return "", err
	}

	name := SanitizeName(req.CaseID, 80)
	if name == "" {
		name = "aria_export"
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	frameRate := req.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	edl := GenerateEDL(name, frameRate, EventsFromClips(req.Clips, req.VideoURL), LocatorsFromNotes(req.Notes))

	path := filepath.Join(req.OutputDir, fmt.Sprintf("%s_%s.edl", name, now.UTC().Format("20060102T150405Z")))
	if err := os.WriteFile(path, []byte(edl), 0o644); err != nil {
		return "", fmt.Errorf("write edl: %w", err)
	}
	return path, nil
}
