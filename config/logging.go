package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// NewLogger opens the configured log file and returns a logger writing to it.
// The TUI owns the terminal, so nothing is written to stderr. An empty file
// path discards logs. The returned closer closes the file.
func (c *Config) NewLogger() (hclog.Logger, io.Closer, error) {
	if c.Logging.File == "" {
		return hclog.NewNullLogger(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(c.Logging.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(c.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "trimcrop",
		Level:      hclog.LevelFromString(c.LogLevel()),
		Output:     f,
		TimeFormat: "2006-01-02 15:04:05.000",
	})
	return logger, f, nil
}
