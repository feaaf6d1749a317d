package extract

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescan/internal/ocr"
)

// fakeEngine returns canned fragments or a canned error.
type fakeEngine struct {
	name      string
	fragments []ocr.Fragment
	err       error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, imagePath string) ([]ocr.Fragment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fragments, nil
}

func (f *fakeEngine) Close() error { return nil }

// writeTestImage creates a small valid PNG for decode validation.
func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screenshot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return path
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestRunMergesBothEngines(t *testing.T) {
	imagePath := writeTestImage(t)

	a := &fakeEngine{name: "tesseract", fragments: []ocr.Fragment{
		{Text: "Follow @AYEON and @real_user"},
	}}
	b := &fakeEngine{name: "paddleocr", fragments: []ocr.Fragment{
		{Text: "@real_user", Confidence: 0.93},
		{Text: "@albertatech", Confidence: 0.88},
	}}

	report, err := New(testLogger(), a, b).Run(context.Background(), imagePath)
	require.NoError(t, err)

	require.Len(t, report.Engines, 2)
	assert.Equal(t, []string{"@AYEON", "@real_user"}, report.Engines[0].Usernames)
	assert.Equal(t, []string{"@real_user", "@albertatech"}, report.Engines[1].Usernames)
	assert.Equal(t, []string{"@AYEON", "@real_user", "@albertatech"}, report.Merged)
	assert.GreaterOrEqual(t, report.Total, report.Engines[0].Duration)
}

func TestRunContinuesWhenAcceleratedEngineFails(t *testing.T) {
	imagePath := writeTestImage(t)

	a := &fakeEngine{name: "tesseract", fragments: []ocr.Fragment{
		{Text: "say hi to @survivor"},
	}}
	b := &fakeEngine{name: "paddleocr", err: ocr.NewEngineError("getReader", "paddleocr", ocr.ErrModelLoad, "no models")}

	report, err := New(testLogger(), a, b).Run(context.Background(), imagePath)
	require.NoError(t, err)

	assert.Equal(t, []string{"@survivor"}, report.Merged)
	assert.NoError(t, report.Engines[0].Err)
	assert.ErrorIs(t, report.Engines[1].Err, ocr.ErrModelLoad)
}

func TestRunFailsOnUndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0644))

	engine := &fakeEngine{name: "tesseract"}
	_, err := New(testLogger(), engine).Run(context.Background(), path)
	assert.ErrorIs(t, err, ocr.ErrImageDecode)
}

func TestRunFailsOnMissingImage(t *testing.T) {
	engine := &fakeEngine{name: "tesseract"}
	_, err := New(testLogger(), engine).Run(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ocr.ErrImageDecode)
}

func TestUnionCommutative(t *testing.T) {
	a := []string{"@one", "@two"}
	b := []string{"@two", "@three"}

	ab := Union(a, b)
	ba := Union(b, a)

	sort.Strings(ab)
	sort.Strings(ba)
	assert.Equal(t, ab, ba)
}

func TestUnionIdempotent(t *testing.T) {
	a := []string{"@one", "@two"}
	assert.Equal(t, a, Union(a, a))
	assert.Equal(t, a, Union(Union(a), a))
}

func TestUnionPreservesFirstSeenOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"@b", "@a", "@c"},
		Union([]string{"@b", "@a"}, []string{"@a", "@c"}))
}
