package mpv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/user/trimcrop-cli/deps"
)

// LaunchMpv starts an idle, paused mpv with its IPC socket at socketPath.
// Files are loaded later over IPC. It checks that mpv is installed first and
// returns an error with install link if not.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func LaunchMpv(socketPath string, extraArgs ...string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed run would make Connect hit a dead file.
	_ = os.Remove(socketPath)

	args := []string{
		"--input-ipc-server=" + socketPath,
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--pause",
		"--osd-level=1",
	}
	args = append(args, extraArgs...)

	cmd := exec.Command("mpv", args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	return cmd, nil
}

// WaitForSocket retries Connect every interval until it succeeds or ctx ends.
func WaitForSocket(ctx context.Context, client *Client, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = client.Connect(); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for mpv socket: %w", lastErr)
		case <-ticker.C:
		}
	}
}
