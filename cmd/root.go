package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/trimcrop-cli/config"
)

var Version = "0.1.0"

// Persistent flags shared by every command.
var (
	configPath string
	socketPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "trimcrop",
	Short: "Preview trim and crop selections for a video",
	Long: `trimcrop is a terminal tool for picking the section and square crop of a
video before cutting it. The video plays in mpv while the terminal shows a
range slider and a crop box.

Features:
  - Loop the selected range three times to check it
  - Nudge range endpoints with adjustable step sizes
  - Position a square crop and preview it in mpv
  - Print the captured values and a matching ffmpeg command`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trimcrop version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/trimcrop-cli/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "mpv IPC socket path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(doctorCmd)
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if socketPath != "" {
		cfg.Socket = socketPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
