// Package deps checks for the external programs trimcrop runs.
package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
	// Optional dependencies only unlock extra features.
	Optional bool
}

func (e *DependencyError) Error() string {
	if e.Optional {
		return fmt.Sprintf("%s not found (optional). Install from: %s", e.Name, e.InstallURL)
	}
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Result is the outcome of checking one dependency.
type Result struct {
	Name string
	Err  error
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	if _, err := lookPath("mpv"); err != nil {
		return &DependencyError{Name: "mpv", InstallURL: MpvInstallURL}
	}
	return nil
}

// CheckFfmpeg checks if ffmpeg is installed. Previewing works without it;
// it is only needed to run the printed cut command.
func CheckFfmpeg() error {
	if _, err := lookPath("ffmpeg"); err != nil {
		return &DependencyError{Name: "ffmpeg", InstallURL: FfmpegInstallURL, Optional: true}
	}
	return nil
}

// CheckAll checks every dependency, required ones first.
func CheckAll() []Result {
	return []Result{
		{Name: "mpv", Err: CheckMpv()},
		{Name: "ffmpeg", Err: CheckFfmpeg()},
	}
}
