package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrImageDecode is returned when the input image is missing, unreadable
	// or not a decodable raster image. It is fatal and aborts the run before
	// any engine is invoked.
	ErrImageDecode = errors.New("cannot read or decode input image")

	// ErrDeviceUnavailable is returned when the selected accelerator cannot
	// be used. Recoverable: the engine retries once on CPU.
	ErrDeviceUnavailable = errors.New("selected compute device unavailable")

	// ErrModelLoad is returned when the accelerated reader cannot be
	// constructed. Fatal for that engine only; the run continues with the
	// remaining engine's results.
	ErrModelLoad = errors.New("failed to load OCR model")

	// ErrNoText is returned when recognition produced no text fragments.
	ErrNoText = errors.New("no text recognized in image")
)

// EngineError wraps errors with context about which engine operation failed.
type EngineError struct {
	// Op is the operation that failed (e.g., "Recognize", "loadReader").
	Op string

	// Engine names the OCR backend, empty for engine-independent failures.
	Engine string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	prefix := "ocr"
	if e.Engine != "" {
		prefix = "ocr/" + e.Engine
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s failed: %s: %v", prefix, e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", prefix, e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewEngineError creates a new EngineError.
func NewEngineError(op, engine string, err error, details string) *EngineError {
	return &EngineError{
		Op:      op,
		Engine:  engine,
		Err:     err,
		Details: details,
	}
}

// WrapEngineError wraps an error as an EngineError if it isn't already one.
func WrapEngineError(op, engine string, err error, details string) error {
	if err == nil {
		return nil
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err // Already wrapped
	}

	return NewEngineError(op, engine, err, details)
}
