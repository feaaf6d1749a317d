package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.GPU)
	assert.False(t, cfg.Quantize)
	assert.Equal(t, ModelDBNet, cfg.DetectionModel)
	assert.Equal(t, float64(0), cfg.MinConfidence)
	assert.Equal(t, "extracted_usernames.txt", cfg.OutputFile)
	assert.Equal(t, time.Second, cfg.ScrapeDelay)
}

func TestLoadGPUOverride(t *testing.T) {
	t.Setenv("EASYOCR_GPU", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.GPU)
	assert.False(t, *cfg.GPU)

	t.Setenv("EASYOCR_GPU", "true")
	cfg, err = Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.GPU)
	assert.True(t, *cfg.GPU)
}

func TestLoadUnparseableGPUMeansAuto(t *testing.T) {
	t.Setenv("EASYOCR_GPU", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.GPU)
}

func TestLoadRejectsUnknownDetectionModel(t *testing.T) {
	t.Setenv("EASYOCR_MODEL", "YOLO")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeConfidence(t *testing.T) {
	t.Setenv("OCR_MIN_CONFIDENCE", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadScrapeDelaySeconds(t *testing.T) {
	t.Setenv("SCRAPE_DELAY", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.ScrapeDelay)
}

func TestLoadScrapeDelayDuration(t *testing.T) {
	t.Setenv("SCRAPE_DELAY", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.ScrapeDelay)
}
