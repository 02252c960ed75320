package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musehub",
	Short: "MuseHub collaborative music platform backend",
	Long: `MuseHub is the backend for a collaborative music platform:
track version history, royalty split accounting, content moderation
and track file storage behind one HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default action is to start the server.
		serverCmd.Run(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
