package ocr

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/doraemonkeys/paddleocr"
	"github.com/rs/zerolog"

	"handlescan/internal/device"
)

// PaddleName identifies the accelerated engine in reports.
const PaddleName = "paddleocr"

// PaddleConfig configures the accelerated detection+recognition pipeline.
type PaddleConfig struct {
	// ExePath locates the PaddleOCR-json sidecar binary.
	ExePath string

	// ModelsPath is the directory holding detection and recognition models.
	ModelsPath string

	// DetectionModel selects the text detection network. DBNet favors
	// speed, CRAFT favors recall on low-contrast text.
	DetectionModel string

	// Quantize enables mkldnn reduced-precision inference for CPU
	// throughput at a possible small recall cost.
	Quantize bool

	// Device is the compute backend chosen by the device selector.
	Device device.Device

	// MinConfidence drops recognized fragments scoring below it.
	// Zero accepts all fragments.
	MinConfidence float64
}

// PaddleEngine recognizes text with a PaddleOCR detection+recognition
// pipeline running in a sidecar process. The reader handle is expensive to
// construct, so it is created lazily and reused for the lifetime of the
// engine.
type PaddleEngine struct {
	cfg    PaddleConfig
	log    zerolog.Logger
	reader *paddleocr.Ppocr
}

// NewPaddleEngine creates an accelerated engine. The reader is not loaded
// until the first Recognize call, so construction never fails.
func NewPaddleEngine(cfg PaddleConfig, log zerolog.Logger) *PaddleEngine {
	return &PaddleEngine{cfg: cfg, log: log}
}

// Name implements Engine.
func (e *PaddleEngine) Name() string { return PaddleName }

// getReader returns the cached reader handle, constructing it on first use.
func (e *PaddleEngine) getReader(dev device.Device) (*paddleocr.Ppocr, error) {
	const op = "getReader"

	if e.reader != nil {
		return e.reader, nil
	}

	e.log.Info().
		Str("device", dev.String()).
		Str("detection_model", e.cfg.DetectionModel).
		Bool("quantize", e.cfg.Quantize).
		Msg("Initializing PaddleOCR reader")

	args := paddleocr.OcrArgs{}
	if e.cfg.Quantize {
		quantize := true
		args.EnableMkldnn = &quantize
	}

	reader, err := paddleocr.NewPpocr(e.cfg.ExePath, args, e.sidecarArgs(dev)...)
	if err != nil {
		return nil, WrapEngineError(op, PaddleName, ErrModelLoad, err.Error())
	}

	e.reader = reader
	return reader, nil
}

// sidecarArgs builds the raw sidecar flags for the selected device and
// detection model.
func (e *PaddleEngine) sidecarArgs(dev device.Device) []string {
	args := []string{
		"-models_path", e.cfg.ModelsPath,
		"-det_model_dir", filepath.Join(e.cfg.ModelsPath, strings.ToLower(e.cfg.DetectionModel)+"_det_infer"),
	}
	if dev == device.CUDA {
		args = append(args, "-use_gpu", "true")
	}
	return args
}

// Recognize runs detection then recognition over the image and returns one
// fragment per detected text region, in scan order. If the accelerator
// fails mid-run the engine rebuilds the reader on CPU and retries once.
func (e *PaddleEngine) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return nil, WrapEngineError(op, PaddleName, err, "context done before recognition")
	}

	fragments, err := e.recognizeOn(e.cfg.Device, imagePath)
	if err != nil && e.cfg.Device.IsGPU() {
		e.log.Warn().
			Err(err).
			Str("device", e.cfg.Device.String()).
			Msg("Accelerated recognition failed, retrying on CPU")

		e.resetReader()
		fragments, err = e.recognizeOn(device.CPU, imagePath)
		if err != nil {
			return nil, WrapEngineError(op, PaddleName, ErrDeviceUnavailable, err.Error())
		}
	}
	if err != nil {
		return nil, err
	}

	return fragments, nil
}

func (e *PaddleEngine) recognizeOn(dev device.Device, imagePath string) ([]Fragment, error) {
	const op = "recognizeOn"

	reader, err := e.getReader(dev)
	if err != nil {
		return nil, err
	}

	result, err := reader.OcrFileAndParse(imagePath)
	if err != nil {
		return nil, WrapEngineError(op, PaddleName, err, "sidecar recognition failed")
	}

	fragments := make([]Fragment, 0, len(result.Data))
	for _, item := range result.Data {
		if e.cfg.MinConfidence > 0 && float64(item.Score) < e.cfg.MinConfidence {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:       item.Text,
			Confidence: float64(item.Score),
		})
	}
	return fragments, nil
}

func (e *PaddleEngine) resetReader() {
	if e.reader != nil {
		if err := e.reader.Close(); err != nil {
			e.log.Warn().Err(err).Msg("Failed to close PaddleOCR reader")
		}
		e.reader = nil
	}
}

// Close releases the sidecar process if one was started.
func (e *PaddleEngine) Close() error {
	if e.reader == nil {
		return nil
	}
	err := e.reader.Close()
	e.reader = nil
	return err
}
