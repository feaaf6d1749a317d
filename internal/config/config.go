package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"handlescan/internal/logger"
)

// Detection model choices for the accelerated OCR engine.
const (
	ModelDBNet = "DBNet"
	ModelCRAFT = "CRAFT"
)

type Config struct {
	// Accelerated OCR Engine Configuration
	GPU            *bool   // EASYOCR_GPU: nil means auto-detect
	Quantize       bool    // EASYOCR_QUANTIZE: trade precision for CPU throughput
	DetectionModel string  // EASYOCR_MODEL: DBNet or CRAFT
	MinConfidence  float64 // OCR_MIN_CONFIDENCE: fragments below are dropped (0 accepts all)

	// PaddleOCR Sidecar Configuration
	PaddleExePath    string
	PaddleModelsPath string

	// Output Configuration
	OutputFile string

	// Channel Finder Configuration
	ScrapeDelay time.Duration

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GPU:              getEnvBoolPtr("EASYOCR_GPU"),
		Quantize:         getEnvBool("EASYOCR_QUANTIZE", false),
		DetectionModel:   getEnv("EASYOCR_MODEL", ModelDBNet),
		MinConfidence:    getEnvFloat("OCR_MIN_CONFIDENCE", 0),
		PaddleExePath:    getEnv("PADDLE_OCR_PATH", "PaddleOCR-json"),
		PaddleModelsPath: getEnv("PADDLE_MODELS_PATH", "models"),
		OutputFile:       getEnv("FILE_NAME", "extracted_usernames.txt"),
		ScrapeDelay:      getEnvDuration("SCRAPE_DELAY", time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:        getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DetectionModel != ModelDBNet && c.DetectionModel != ModelCRAFT {
		return fmt.Errorf("EASYOCR_MODEL must be %s or %s, got %q", ModelDBNet, ModelCRAFT, c.DetectionModel)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("OCR_MIN_CONFIDENCE must be between 0 and 1, got %v", c.MinConfidence)
	}
	if c.OutputFile == "" {
		return fmt.Errorf("FILE_NAME must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBoolPtr returns nil when the variable is unset or unparseable,
// so callers can distinguish "not configured" from an explicit choice.
func getEnvBoolPtr(key string) *bool {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return defaultValue
}
