// Package deps checks for the external programs the review console drives.
package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL   = "https://mpv.io/installation/"
	YtDlpInstallURL = "https://github.com/yt-dlp/yt-dlp#installation"
)

// DependencyError describes a program missing from PATH.
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Dependency is a program the console needs on PATH.
type Dependency struct {
	Name       string
	InstallURL string
}

// Required lists mpv and yt-dlp, which mpv uses to open hosted videos.
var Required = []Dependency{
	{Name: "mpv", InstallURL: MpvInstallURL},
	{Name: "yt-dlp", InstallURL: YtDlpInstallURL},
}

var lookPath = exec.LookPath

// Check reports whether d is installed.
func Check(d Dependency) error {
	if _, err := lookPath(d.Name); err != nil {
		return &DependencyError{Name: d.Name, InstallURL: d.InstallURL}
	}
	return nil
}

func CheckMpv() error {
	return Check(Required[0])
}

// CheckAll returns one error per missing dependency.
func CheckAll() []error {
	var errs []error
	for _, d := range Required {
		if err := Check(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
