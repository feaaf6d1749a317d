// Package extract orchestrates the username extraction pipeline: it runs
// the configured OCR engines sequentially, filters each engine's raw text
// into usernames, and merges the per-engine results into one deduplicated
// set.
package extract

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"handlescan/internal/filter"
	"handlescan/internal/ocr"
)

// EngineResult holds one engine's usernames and timing.
type EngineResult struct {
	Engine    string
	Usernames []string
	Duration  time.Duration
	Err       error
}

// Report is the outcome of a full extraction run.
type Report struct {
	Engines []EngineResult
	Merged  []string
	Total   time.Duration
}

// Extractor runs OCR engines over an image and collects usernames.
// Engines run one after another, not in parallel, so per-engine timing
// stays attributable.
type Extractor struct {
	engines []ocr.Engine
	log     zerolog.Logger
}

// New creates an extractor over the given engines. Engines run in the
// order provided.
func New(log zerolog.Logger, engines ...ocr.Engine) *Extractor {
	return &Extractor{engines: engines, log: log}
}

// Run validates the image, runs every engine and merges the filtered
// username sets. An engine failure is downgraded to a warning and the run
// continues with the remaining engines' results; only an undecodable image
// is fatal.
func (x *Extractor) Run(ctx context.Context, imagePath string) (*Report, error) {
	start := time.Now()

	if err := ocr.ValidateImage(imagePath); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, engine := range x.engines {
		result := x.runEngine(ctx, engine, imagePath)
		report.Engines = append(report.Engines, result)
	}

	sets := make([][]string, 0, len(report.Engines))
	for _, result := range report.Engines {
		sets = append(sets, result.Usernames)
	}
	report.Merged = Union(sets...)
	report.Total = time.Since(start)

	return report, nil
}

func (x *Extractor) runEngine(ctx context.Context, engine ocr.Engine, imagePath string) EngineResult {
	log := x.log.With().Str("engine", engine.Name()).Logger()
	log.Info().Msg("Running OCR engine")

	start := time.Now()
	fragments, err := engine.Recognize(ctx, imagePath)
	duration := time.Since(start)

	if err != nil {
		log.Warn().
			Err(err).
			Dur("duration", duration).
			Msg("OCR engine failed, continuing without its results")
		return EngineResult{Engine: engine.Name(), Duration: duration, Err: err}
	}

	texts := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		texts = append(texts, fragment.Text)
	}
	usernames := filter.Normalize(texts)

	log.Info().
		Int("fragments", len(fragments)).
		Int("usernames", len(usernames)).
		Dur("duration", duration).
		Msg("OCR engine completed")

	return EngineResult{
		Engine:    engine.Name(),
		Usernames: usernames,
		Duration:  duration,
	}
}

// Union merges username sets preserving first-seen order. It is
// commutative and idempotent in set terms: the membership of the result
// does not depend on argument order.
func Union(sets ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, set := range sets {
		for _, username := range set {
			if _, dup := seen[username]; dup {
				continue
			}
			seen[username] = struct{}{}
			merged = append(merged, username)
		}
	}
	return merged
}
