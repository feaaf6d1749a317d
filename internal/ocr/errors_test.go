package ocr

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineErrorUnwrapAndIs(t *testing.T) {
	err := NewEngineError("Recognize", PaddleName, ErrModelLoad, "missing weights")

	assert.ErrorIs(t, err, ErrModelLoad)
	assert.Equal(t, ErrModelLoad, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "ocr/paddleocr")
	assert.Contains(t, err.Error(), "Recognize")
	assert.Contains(t, err.Error(), "missing weights")
}

func TestWrapEngineErrorDoesNotDoubleWrap(t *testing.T) {
	inner := NewEngineError("getReader", PaddleName, ErrModelLoad, "")
	wrapped := WrapEngineError("Recognize", PaddleName, inner, "outer")

	assert.Same(t, inner, wrapped)
}

func TestWrapEngineErrorNil(t *testing.T) {
	assert.NoError(t, WrapEngineError("Recognize", TesseractName, nil, ""))
}

func TestValidateImage(t *testing.T) {
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "ok.jpg")
	f, err := os.Create(goodPath)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil))
	require.NoError(t, f.Close())

	assert.NoError(t, ValidateImage(goodPath))

	badPath := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(badPath, []byte("not an image"), 0644))
	assert.ErrorIs(t, ValidateImage(badPath), ErrImageDecode)

	assert.ErrorIs(t, ValidateImage(filepath.Join(dir, "missing.png")), ErrImageDecode)
}
