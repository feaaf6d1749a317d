// Package device selects the compute device used by the accelerated OCR
// engine. Probing never fails: any error during detection downgrades the
// result to the next candidate, with CPU as the final fallback.
package device

import (
	"os/exec"
	"runtime"
)

// Device identifies the compute backend used for OCR inference.
type Device int

const (
	CPU Device = iota
	MPS        // Apple Silicon unified-memory GPU
	CUDA       // NVIDIA GPU
)

func (d Device) String() string {
	switch d {
	case MPS:
		return "mps"
	case CUDA:
		return "cuda"
	default:
		return "cpu"
	}
}

// IsGPU reports whether the device is a hardware accelerator.
func (d Device) IsGPU() bool {
	return d == MPS || d == CUDA
}

// ProbeOptions controls environment probing. Zero values fall back to the
// current runtime and exec.LookPath, so tests can inject both.
type ProbeOptions struct {
	GOOS     string
	GOARCH   string
	LookPath func(string) (string, error)
}

// Detect returns the optimal device for the accelerated engine.
// An explicit false override forces CPU regardless of platform capability;
// otherwise the environment is probed for MPS first, then CUDA.
func Detect(override *bool) Device {
	return DetectWith(override, ProbeOptions{})
}

// DetectWith is Detect with injectable probing, for tests.
func DetectWith(override *bool, opts ProbeOptions) Device {
	if override != nil && !*override {
		return CPU
	}

	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	goarch := opts.GOARCH
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	// Apple Silicon unified-memory acceleration
	if goos == "darwin" && goarch == "arm64" {
		return MPS
	}

	// CUDA-capable accelerator, detected via the driver utility
	if _, err := lookPath("nvidia-smi"); err == nil {
		return CUDA
	}

	return CPU
}
