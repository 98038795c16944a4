// Package timeutil formats and parses playback positions.
package timeutil

import (
	"fmt"
	"math"
	"strings"
)

// FormatTime formats seconds as H:MM:SS (e.g. 0:01:30, 1:11:22).
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// FormatPrecise formats seconds as M:SS.cc, with an hour field only when
// needed (e.g. 0:04.25, 1:02:03.50). Trim points are set to the hundredth.
func FormatPrecise(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	hundredths := int64(math.Round(seconds * 100))
	cs := hundredths % 100
	total := hundredths / 100
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, mins, secs, cs)
	}
	return fmt.Sprintf("%d:%02d.%02d", mins, secs, cs)
}

// ParseTimeToSeconds parses a time string in HH:MM:SS, MM:SS, or raw seconds format.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw seconds.
// The seconds field may carry a fraction.
func ParseTimeToSeconds(timeStr string) (float64, error) {
	timeStr = strings.TrimSpace(timeStr)
	colons := strings.Count(timeStr, ":")

	switch colons {
	case 2:
		var hours, minutes int
		var seconds float64
		if n, err := fmt.Sscanf(timeStr, "%d:%d:%f", &hours, &minutes, &seconds); n == 3 && err == nil && validClock(minutes, seconds) {
			return float64(hours*3600+minutes*60) + seconds, nil
		}
	case 1:
		var minutes int
		var seconds float64
		if n, err := fmt.Sscanf(timeStr, "%d:%f", &minutes, &seconds); n == 2 && err == nil && validClock(0, seconds) && minutes >= 0 {
			return float64(minutes*60) + seconds, nil
		}
	case 0:
		var secs float64
		if n, err := fmt.Sscanf(timeStr, "%f", &secs); n == 1 && err == nil && secs >= 0 {
			return secs, nil
		}
	}

	return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
}

func validClock(minutes int, seconds float64) bool {
	return minutes >= 0 && minutes < 60 && seconds >= 0 && seconds < 60
}
