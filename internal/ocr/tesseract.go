package ocr

import (
	"context"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractName identifies the lightweight engine in reports.
const TesseractName = "tesseract"

// TesseractEngine recognizes text with the Tesseract OCR engine via
// gosseract. It runs a single whole-image pass on the CPU and needs no
// device selection.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a Tesseract engine for English text.
func NewTesseractEngine() (*TesseractEngine, error) {
	const op = "NewTesseractEngine"

	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, WrapEngineError(op, TesseractName, ErrModelLoad, err.Error())
	}

	return &TesseractEngine{client: client}, nil
}

// Name implements Engine.
func (e *TesseractEngine) Name() string { return TesseractName }

// Recognize runs one OCR pass over the whole image and returns the raw
// recognized text as a single fragment. Tesseract reports no per-fragment
// confidence through this path, so Confidence is left at zero.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return nil, WrapEngineError(op, TesseractName, err, "context done before recognition")
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, WrapEngineError(op, TesseractName, ErrImageDecode, err.Error())
	}

	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, WrapEngineError(op, TesseractName, ErrImageDecode, err.Error())
	}

	text, err := e.client.Text()
	if err != nil {
		return nil, WrapEngineError(op, TesseractName, err, "tesseract recognition failed")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return []Fragment{{Text: text}}, nil
}

// Close releases the underlying Tesseract client.
func (e *TesseractEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
