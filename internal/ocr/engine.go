// Package ocr provides text recognition over raster images through two
// interchangeable engines: a lightweight single-pass Tesseract adapter and
// an accelerated PaddleOCR detection+recognition pipeline.
//
// Both engines produce raw text fragments; username filtering happens
// downstream and is independent of the engine that produced the text.
package ocr

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Fragment is a single piece of text recognized in the image.
// Confidence is 0 when the engine does not report per-fragment scores.
type Fragment struct {
	Text       string
	Confidence float64
}

// Engine is the capability shared by all OCR backends.
type Engine interface {
	// Name identifies the engine in logs and reports.
	Name() string

	// Recognize runs text recognition over the image at the given path.
	Recognize(ctx context.Context, imagePath string) ([]Fragment, error)

	// Close releases any resources held by the engine.
	Close() error
}

// ValidateImage verifies that the file exists and decodes as a supported
// raster image (PNG, JPEG). It must pass before any engine runs.
func ValidateImage(imagePath string) error {
	const op = "ValidateImage"

	f, err := os.Open(imagePath)
	if err != nil {
		return WrapEngineError(op, "", ErrImageDecode, fmt.Sprintf("cannot open %s: %v", imagePath, err))
	}
	defer f.Close()

	if _, _, err := image.Decode(f); err != nil {
		return WrapEngineError(op, "", ErrImageDecode, fmt.Sprintf("cannot decode %s: %v", imagePath, err))
	}
	return nil
}
