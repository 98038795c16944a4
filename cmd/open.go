package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/user/trimcrop-cli/mpv"
	"github.com/user/trimcrop-cli/pkg/export"
	"github.com/user/trimcrop-cli/pkg/timeutil"
	"github.com/user/trimcrop-cli/player"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/source"
	"github.com/user/trimcrop-cli/tui"
)

// socketWait bounds how long mpv gets to create its IPC socket.
const socketWait = 5 * time.Second

var (
	watchFile   bool
	printResult bool
	startFlag   string
	endFlag     string
)

var openCmd = &cobra.Command{
	Use:   "open <video-file>",
	Short: "Open a video file to pick a trim range and crop",
	Long: `Open a video file in mpv and show the trim and crop controls in the terminal.
Space loops the selected range three times. With --print the captured values
and a matching ffmpeg command are printed as YAML when you quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&watchFile, "watch", false, "reload the video when the file is rewritten")
	openCmd.Flags().BoolVar(&printResult, "print", false, "print captured values as YAML on exit")
	openCmd.Flags().StringVar(&startFlag, "start", "", "initial range start (seconds, MM:SS or HH:MM:SS)")
	openCmd.Flags().StringVar(&endFlag, "end", "", "initial range end (seconds, MM:SS or HH:MM:SS)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	absPath, err := checkVideo(args[0])
	if err != nil {
		return err
	}
	initialTrim, err := parseInitialTrim(startFlag, endFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, logCloser, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger.Info("starting", "version", Version, "video", absPath, "socket", cfg.Socket, "log_level", cfg.LogLevel())

	process, err := mpv.LaunchMpv(cfg.Socket)
	if err != nil {
		return fmt.Errorf("failed to launch mpv: %w", err)
	}
	defer stopMpv(process.Process, logger)

	client := mpv.NewClient(cfg.Socket, logger)
	ctx, cancel := context.WithTimeout(cmd.Context(), socketWait)
	err = mpv.WaitForSocket(ctx, client, 100*time.Millisecond)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to mpv: %w", err)
	}
	defer client.Close()

	sources, err := source.NewRegistry("")
	if err != nil {
		return err
	}
	defer func() {
		if err := sources.Close(); err != nil {
			logger.Warn("removing source dir failed", "dir", sources.Dir(), "error", err)
		}
	}()

	// Metadata only arrives through Dispatch, which runs after the session exists.
	var session *preview.Session
	media := player.New(client, logger, func(path string, meta preview.MediaMetadata) {
		session.OnMetadata(path, meta)
	})
	if err := media.Start(); err != nil {
		return fmt.Errorf("failed to observe mpv properties: %w", err)
	}
	session = preview.NewSession(preview.Config{
		Media:   media,
		Logger:  logger,
		Options: cfg.PreviewOptions(),
	})
	defer session.Close()

	res, err := tui.Run(tui.Options{
		Session:     session,
		Player:      media,
		Events:      client.Events(),
		Sources:     sources,
		Config:      cfg,
		Logger:      logger,
		Video:       absPath,
		InitialTrim: initialTrim,
		Watch:       watchFile,
	})
	if err != nil {
		return err
	}
	if dropped := client.Dropped(); dropped > 0 {
		logger.Debug("position updates dropped", "count", dropped)
	}

	if printResult {
		return export.NewReport(res.Video, res.Snapshot).Write(cmd.OutOrStdout())
	}
	return nil
}

// checkVideo resolves path and makes sure it names a regular file.
func checkVideo(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}
	return absPath, nil
}

// parseInitialTrim turns the --start and --end flags into a range. It returns
// nil when neither is set. A missing end means the end of the video.
func parseInitialTrim(start, end string) (*preview.TrimRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	r := preview.TrimRange{Start: 0, End: math.Inf(1)}
	var err error
	if start != "" {
		if r.Start, err = timeutil.ParseTimeToSeconds(start); err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if end != "" {
		if r.End, err = timeutil.ParseTimeToSeconds(end); err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if r.Start >= r.End {
		return nil, fmt.Errorf("--start (%s) must be before --end (%s)",
			timeutil.FormatPrecise(r.Start), timeutil.FormatPrecise(r.End))
	}
	return &r, nil
}

func stopMpv(p *os.Process, logger hclog.Logger) {
	if p == nil {
		return
	}
	if err := p.Kill(); err != nil {
		logger.Debug("killing mpv failed", "error", err)
	}
	_, _ = p.Wait()
}
