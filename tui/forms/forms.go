// Package forms provides huh-based form components for the TUI.
package forms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// NewOpenFileForm asks for the path of the next video to preview.
// The path pointer is bound to the input and holds the answer on submit.
func NewOpenFileForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Open video").
				Description("Path to a video file. The current preview is replaced.").
				Placeholder("~/Videos/match.mp4").
				Value(path).
				Validate(ValidateVideoPath),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}

// ValidateVideoPath accepts paths to existing regular files. A leading ~ is
// expanded.
func ValidateVideoPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(ExpandHome(s))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("file does not exist")
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}
	return nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
