// Package styles holds the colour palette and shared Lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette, warm and earthy on a dark background.
const (
	DeepPurple    = lipgloss.Color("#191C27") // app background
	DarkPurple    = lipgloss.Color("#181818") // status bar, overlays
	Purple        = lipgloss.Color("#5C4F4B") // borders, unselected track
	BrightPurple  = lipgloss.Color("#724D7C") // selected range, focus
	Lavender      = lipgloss.Color("#AEA47A") // secondary text
	LightLavender = lipgloss.Color("#F3DBB2") // primary text
	Pink          = lipgloss.Color("#D33061") // headers, playback position
	Cyan          = lipgloss.Color("#3097C6") // active thumb, shortcuts
	Amber         = lipgloss.Color("#CC8B3F") // crop box
	Red           = lipgloss.Color("#AC3835")
	Green         = lipgloss.Color("#A6A75D")
)

// Warning is the style for warning messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// Hint is the style for dim explanatory text
var Hint = lipgloss.NewStyle().
	Foreground(Lavender).
	Italic(true)
