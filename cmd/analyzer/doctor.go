package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aria/video-analyzer/internal/deps"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the programs the review console drives (mpv, yt-dlp) are installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking dependencies...")
		fmt.Fprintln(out)

		var missing int
		for _, d := range deps.Required {
			if err := deps.Check(d); err != nil {
				var depErr *deps.DependencyError
				if errors.As(err, &depErr) {
					fmt.Fprintf(out, "✗ %s: NOT FOUND\n  Install from: %s\n", depErr.Name, depErr.InstallURL)
				}
				missing++
				continue
			}
			fmt.Fprintf(out, "✓ %s: OK\n", d.Name)
		}

		fmt.Fprintln(out)
		if missing > 0 {
			return fmt.Errorf("%d dependencies missing", missing)
		}
		fmt.Fprintln(out, "All dependencies are installed!")
		return nil
	},
}
