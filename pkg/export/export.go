// Package export turns captured trim and crop values into a report for the
// next processing step.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/trimcrop-cli/preview"
)

// Report is what `trimcrop open --print` writes on exit.
type Report struct {
	Video    string                `yaml:"video"`
	Metadata preview.MediaMetadata `yaml:"metadata"`
	Trim     preview.TrimRange     `yaml:"trim"`
	Crop     *CropReport           `yaml:"crop,omitempty"`
	// Ffmpeg is a command that would apply the selection. It is never run here.
	Ffmpeg string `yaml:"ffmpeg,omitempty"`
}

// CropReport carries the crop in both unit systems.
type CropReport struct {
	Normalized preview.CropRect `yaml:"normalized"`
	Pixels     PixelRect        `yaml:"pixels"`
}

// PixelRect is a crop in frame pixels.
type PixelRect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// NewReport builds a report for videoPath from a session snapshot.
func NewReport(videoPath string, snap preview.Snapshot) Report {
	r := Report{
		Video:    videoPath,
		Metadata: snap.Metadata,
		Trim:     snap.Trim,
	}
	var px *PixelRect
	if snap.Crop != nil && snap.Metadata.Width > 0 && snap.Metadata.Height > 0 {
		x, y, w, h := snap.Crop.Pixels(snap.Metadata.Width, snap.Metadata.Height)
		p := PixelRect{X: x, Y: y, Width: w, Height: h}
		px = &p
		r.Crop = &CropReport{Normalized: *snap.Crop, Pixels: p}
	}
	if snap.Metadata.Known() && videoPath != "" {
		r.Ffmpeg = ShellJoin(FfmpegArgs(videoPath, snap.Trim, px))
	}
	return r
}

// Write encodes the report as YAML.
func (r Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// OutputPath returns {videoDir}/{videoName}-trimmed{ext}.
func OutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	base := strings.TrimSuffix(filepath.Base(videoPath), ext)
	return filepath.Join(filepath.Dir(videoPath), base+"-trimmed"+ext)
}

// FfmpegArgs returns the ffmpeg arguments that cut trim out of videoPath and
// apply crop when it is non-nil. Cropping needs a re-encode, so stream copy
// is only used without a crop.
func FfmpegArgs(videoPath string, trim preview.TrimRange, crop *PixelRect) []string {
	args := []string{
		"ffmpeg",
		"-ss", fmt.Sprintf("%.3f", trim.Start),
		"-i", videoPath,
		"-t", fmt.Sprintf("%.3f", trim.Length()),
	}
	if crop != nil {
		args = append(args, "-vf", fmt.Sprintf("crop=%d:%d:%d:%d", crop.Width, crop.Height, crop.X, crop.Y))
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, OutputPath(videoPath))
}

// ShellJoin quotes args for a POSIX shell.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && strings.IndexFunc(a, needsQuote) < 0 {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=+,", r)
}
