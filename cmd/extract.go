package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"handlescan/internal/config"
	"handlescan/internal/device"
	"handlescan/internal/extract"
	"handlescan/internal/logger"
	"handlescan/internal/ocr"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract @usernames from a screenshot image",
	Long: `Run OCR over a screenshot and extract the social media usernames found
in it.

Two engines process the image one after another: Tesseract (single-pass,
CPU) and a PaddleOCR detection+recognition pipeline that can use GPU
acceleration when available. Their filtered username sets are merged,
deduplicated and written to a text file, one @username per line.

Recognized environment variables:
  EASYOCR_GPU      - true/false, default auto-detect
  EASYOCR_QUANTIZE - true/false, default false
  EASYOCR_MODEL    - DBNet or CRAFT, default DBNet
  PADDLE_OCR_PATH  - path to the PaddleOCR-json sidecar binary
  FILE_NAME        - default output file name`,
	Example: `  # Extract usernames from a screenshot
  handlescan extract screenshot.png

  # Write results to a custom file
  handlescan extract screenshot.png -o handles.txt

  # Fast path: Tesseract only
  handlescan extract screenshot.png --simple

  # CSV output for the channels subcommand
  handlescan extract screenshot.png --csv -o extracted_usernames.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default from FILE_NAME)")
	extractCmd.Flags().Bool("simple", false, "Run only the lightweight Tesseract engine")
	extractCmd.Flags().Bool("csv", false, "Write a username,url,channel CSV instead of plain text")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	simple, _ := cmd.Flags().GetBool("simple")
	csvOutput, _ := cmd.Flags().GetBool("csv")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if outputPath == "" {
		outputPath = cfg.OutputFile
	}

	log.Info().
		Str("image", imagePath).
		Str("output", outputPath).
		Bool("simple", simple).
		Msg("Starting username extraction")

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engines, err := buildEngines(cfg, simple, log)
	if err != nil {
		return err
	}
	defer closeEngines(engines, log)

	report, err := extract.New(log, engines...).Run(ctx, imagePath)
	if err != nil {
		if errors.Is(err, ocr.ErrImageDecode) {
			return fmt.Errorf("cannot read image %s: %w", imagePath, err)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	printReport(report)

	if err := writeUsernames(outputPath, report.Merged, csvOutput); err != nil {
		log.Error().Err(err).Str("output", outputPath).Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Int("usernames", len(report.Merged)).
		Dur("total", report.Total).
		Str("output", outputPath).
		Msg("Extraction completed")

	return nil
}

// buildEngines constructs the engine list. Simple mode skips the
// accelerated engine entirely; otherwise a construction failure of the
// accelerated engine is not fatal because it initializes lazily.
func buildEngines(cfg *config.Config, simple bool, log zerolog.Logger) ([]ocr.Engine, error) {
	tesseract, err := ocr.NewTesseractEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create Tesseract engine: %w", err)
	}

	engines := []ocr.Engine{tesseract}
	if simple {
		return engines, nil
	}

	dev := device.Detect(cfg.GPU)
	log.Info().Str("device", dev.String()).Msg("Selected compute device for accelerated engine")

	paddle := ocr.NewPaddleEngine(ocr.PaddleConfig{
		ExePath:        cfg.PaddleExePath,
		ModelsPath:     cfg.PaddleModelsPath,
		DetectionModel: cfg.DetectionModel,
		Quantize:       cfg.Quantize,
		Device:         dev,
		MinConfidence:  cfg.MinConfidence,
	}, log)

	return append(engines, paddle), nil
}

func closeEngines(engines []ocr.Engine, log zerolog.Logger) {
	for _, engine := range engines {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Str("engine", engine.Name()).Msg("Failed to close engine")
		}
	}
}

// validateImageFile checks that the path exists and is a regular file.
// Decodability is verified separately before the engines run.
func validateImageFile(imagePath string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", imagePath).Msg("Image file not found")
			return fmt.Errorf("image file not found: %s", imagePath)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", imagePath).Msg("Permission denied accessing image file")
			return fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().Str("file", imagePath).Msg("Path is not a regular file")
		return fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		log.Error().Str("file", imagePath).Msg("Image file is empty")
		return fmt.Errorf("image file is empty: %s", imagePath)
	}

	return nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// printReport prints per-engine and merged results to stdout.
func printReport(report *extract.Report) {
	for _, result := range report.Engines {
		fmt.Printf("=== %s (%v) ===\n", result.Engine, result.Duration.Round(time.Millisecond))
		switch {
		case result.Err != nil:
			fmt.Printf("  engine failed: %v\n", result.Err)
		case len(result.Usernames) == 0:
			fmt.Println("  no usernames found")
		default:
			for _, username := range result.Usernames {
				fmt.Printf("  %s\n", username)
			}
		}
	}

	fmt.Printf("=== combined (%v) ===\n", report.Total.Round(time.Millisecond))
	if len(report.Merged) == 0 {
		fmt.Println("  no usernames found")
		return
	}
	for _, username := range report.Merged {
		fmt.Printf("  %s\n", username)
	}
}

// writeUsernames persists the merged set, either one handle per line or as
// the username,url,channel CSV consumed by the channels subcommand.
func writeUsernames(path string, usernames []string, asCSV bool) error {
	if asCSV {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		writer := csv.NewWriter(f)
		if err := writer.Write([]string{"username", "url", "channel"}); err != nil {
			return err
		}
		for _, username := range usernames {
			if err := writer.Write([]string{username, "", ""}); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	}

	var sb strings.Builder
	for _, username := range usernames {
		sb.WriteString(username)
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
