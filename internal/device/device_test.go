package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestDetectWithExplicitDisable(t *testing.T) {
	// An explicit false override forces CPU even on capable platforms.
	got := DetectWith(boolPtr(false), ProbeOptions{
		GOOS:   "darwin",
		GOARCH: "arm64",
		LookPath: func(string) (string, error) {
			return "/usr/bin/nvidia-smi", nil
		},
	})
	assert.Equal(t, CPU, got)
}

func TestDetectWithAppleSilicon(t *testing.T) {
	got := DetectWith(nil, ProbeOptions{
		GOOS:   "darwin",
		GOARCH: "arm64",
		LookPath: func(string) (string, error) {
			return "", errors.New("not found")
		},
	})
	assert.Equal(t, MPS, got)
}

func TestDetectWithCUDA(t *testing.T) {
	got := DetectWith(boolPtr(true), ProbeOptions{
		GOOS:   "linux",
		GOARCH: "amd64",
		LookPath: func(name string) (string, error) {
			if name == "nvidia-smi" {
				return "/usr/bin/nvidia-smi", nil
			}
			return "", errors.New("not found")
		},
	})
	assert.Equal(t, CUDA, got)
}

func TestDetectWithNoAccelerator(t *testing.T) {
	got := DetectWith(nil, ProbeOptions{
		GOOS:   "linux",
		GOARCH: "amd64",
		LookPath: func(string) (string, error) {
			return "", errors.New("not found")
		},
	})
	assert.Equal(t, CPU, got)
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "cpu", CPU.String())
	assert.Equal(t, "mps", MPS.String())
	assert.Equal(t, "cuda", CUDA.String())
}

func TestIsGPU(t *testing.T) {
	assert.False(t, CPU.IsGPU())
	assert.True(t, MPS.IsGPU())
	assert.True(t, CUDA.IsGPU())
}
