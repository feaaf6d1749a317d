package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"handlescan/internal/channels"
	"handlescan/internal/config"
	"handlescan/internal/logger"
)

var channelsCmd = &cobra.Command{
	Use:   "channels [csv-file]",
	Short: "Resolve extracted usernames to YouTube channel IDs",
	Long: `Read a username,url,channel CSV (as written by 'extract --csv') and
resolve each username to its YouTube channel ID by scraping the public
channel pages.

Progress is saved alongside the input file so an interrupted run resumes
where it stopped. Found channels are also exported as a Glance
videos-widget YAML snippet.`,
	Example: `  # Resolve all pending usernames
  handlescan channels extracted_usernames.csv

  # Slow down between requests
  SCRAPE_DELAY=2 handlescan channels extracted_usernames.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)

	channelsCmd.Flags().Bool("no-resume", false, "Ignore saved progress and rescrape everything")
}

func runChannels(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("channels")

	noResume, _ := cmd.Flags().GetBool("no-resume")
	csvPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	results, err := channels.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no usernames found in %s", csvPath)
	}

	progressPath := derivePath(csvPath, "_progress.json")
	outputPath := derivePath(csvPath, "_scraped.csv")
	glancePath := derivePath(csvPath, "_glance.yml")

	if !noResume {
		state, err := channels.LoadProgress(progressPath)
		if err != nil {
			log.Warn().Err(err).Str("file", progressPath).Msg("Could not load saved progress")
		} else {
			for i, result := range results {
				if saved, ok := state[result.Username]; ok && saved.Status != channels.StatusPending {
					results[i] = saved
				}
			}
		}
	}

	pending := 0
	for _, result := range results {
		if result.Status == channels.StatusPending {
			pending++
		}
	}
	log.Info().
		Int("total", len(results)).
		Int("pending", pending).
		Dur("delay", cfg.ScrapeDelay).
		Msg("Starting channel resolution")

	if pending == 0 {
		fmt.Println("No usernames need scraping.")
		printChannelStats(results)
		return nil
	}

	finder := channels.NewFinder(channels.Options{Delay: cfg.ScrapeDelay}, log)

	done := 0
	for i, result := range results {
		if result.Status != channels.StatusPending {
			continue
		}

		resolved := finder.Resolve(cmd.Context(), result.Username)
		results[i] = resolved
		done++

		switch resolved.Status {
		case channels.StatusFound:
			fmt.Printf("%s -> %s\n", resolved.Username, resolved.ChannelID)
		default:
			fmt.Printf("%s -> %s\n", resolved.Username, resolved.Status)
		}

		// Checkpoint every few usernames so interruptions lose little work.
		if done%5 == 0 {
			saveCheckpoint(outputPath, progressPath, results, log)
		}
	}

	saveCheckpoint(outputPath, progressPath, results, log)

	if err := channels.ExportGlance(glancePath, results); err != nil {
		log.Warn().Err(err).Msg("Skipping Glance export")
	} else {
		fmt.Printf("Glance config exported to %s\n", glancePath)
	}

	printChannelStats(results)
	return nil
}

func saveCheckpoint(outputPath, progressPath string, results []channels.Result, log zerolog.Logger) {
	if err := channels.SaveCSV(outputPath, results); err != nil {
		log.Warn().Err(err).Str("file", outputPath).Msg("Failed to save results CSV")
	}
	if err := channels.SaveProgress(progressPath, results); err != nil {
		log.Warn().Err(err).Str("file", progressPath).Msg("Failed to save progress")
	}
}

func derivePath(csvPath, suffix string) string {
	base := strings.TrimSuffix(csvPath, ".csv")
	return base + suffix
}

func printChannelStats(results []channels.Result) {
	var found, pending, notFound int
	for _, result := range results {
		switch result.Status {
		case channels.StatusFound:
			found++
		case channels.StatusPending:
			pending++
		case channels.StatusNotFound:
			notFound++
		}
	}

	fmt.Printf("Progress: %d/%d found", found, len(results))
	if pending > 0 {
		fmt.Printf(" | pending: %d", pending)
	}
	if notFound > 0 {
		fmt.Printf(" | not found: %d", notFound)
	}
	fmt.Println()
}
