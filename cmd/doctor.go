package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/trimcrop-cli/deps"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that mpv is installed. ffmpeg is optional and only needed to run the printed cut command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking dependencies...")
		fmt.Fprintln(out)

		missingRequired := false
		for _, res := range deps.CheckAll() {
			var depErr *deps.DependencyError
			switch {
			case res.Err == nil:
				fmt.Fprintf(out, "✓ %s: OK\n", res.Name)
			case errors.As(res.Err, &depErr) && depErr.Optional:
				fmt.Fprintf(out, "- %s: not found (optional)\n", res.Name)
				fmt.Fprintf(out, "  Install from: %s\n", depErr.InstallURL)
			default:
				fmt.Fprintf(out, "✗ %s: NOT FOUND\n", res.Name)
				if errors.As(res.Err, &depErr) {
					fmt.Fprintf(out, "  Install from: %s\n", depErr.InstallURL)
				}
				missingRequired = true
			}
		}

		fmt.Fprintln(out)
		if missingRequired {
			return errors.New("required dependencies are missing")
		}
		fmt.Fprintln(out, "All required dependencies are installed!")
		return nil
	},
}
