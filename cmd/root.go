package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"handlescan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "handlescan",
	Short: "handlescan - extract social media usernames from screenshots",
	Long: `handlescan runs two independent OCR engines over a screenshot and
extracts the social media usernames (@handles) found in the image.

The extracted handles are filtered against email addresses and domain-like
tokens, merged across engines, deduplicated and written to a text file.
A companion subcommand resolves the extracted handles to YouTube channel IDs.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("handlescan executed")

		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
