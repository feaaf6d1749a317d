package ocr

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"handlescan/internal/device"
)

func TestSidecarArgsCPU(t *testing.T) {
	engine := NewPaddleEngine(PaddleConfig{
		ModelsPath:     "/opt/paddleocr/models",
		DetectionModel: "DBNet",
		Device:         device.CPU,
	}, zerolog.Nop())

	args := engine.sidecarArgs(device.CPU)
	assert.Contains(t, args, "-models_path")
	assert.Contains(t, args, "/opt/paddleocr/models")
	assert.Contains(t, args, "/opt/paddleocr/models/dbnet_det_infer")
	assert.NotContains(t, args, "-use_gpu")
}

func TestSidecarArgsCUDA(t *testing.T) {
	engine := NewPaddleEngine(PaddleConfig{
		ModelsPath:     "models",
		DetectionModel: "CRAFT",
		Device:         device.CUDA,
	}, zerolog.Nop())

	args := engine.sidecarArgs(device.CUDA)
	assert.Contains(t, args, "models/craft_det_infer")
	assert.Contains(t, args, "-use_gpu")
}

func TestPaddleEngineName(t *testing.T) {
	engine := NewPaddleEngine(PaddleConfig{}, zerolog.Nop())
	assert.Equal(t, PaddleName, engine.Name())
}

func TestPaddleEngineCloseWithoutReader(t *testing.T) {
	engine := NewPaddleEngine(PaddleConfig{}, zerolog.Nop())
	assert.NoError(t, engine.Close())
}
