package filters

import (
	"context"
	"fmt"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const (
	ParamUseHistogramEqualization = "use_histogram_equalization"
	ParamUseCLAHE                 = "use_clahe"
	ParamCLAHEClipLimit           = "clahe_clip_limit"
	ParamCLAHETileSize            = "clahe_tile_size"
	ParamDenoise                  = "denoise"
	ParamDenoiseKernelSize        = "denoise_kernel_size"
)

// HistogramEqualizer applies global histogram equalization.
type HistogramEqualizer struct{}

func NewHistogramEqualizer() *HistogramEqualizer {
	return &HistogramEqualizer{}
}

func (h *HistogramEqualizer) Name() string {
	return "histogram_equalization"
}

func (h *HistogramEqualizer) ShouldExecute(params map[string]interface{}) bool {
	use, ok := params[ParamUseHistogramEqualization].(bool)
	return ok && use
}

func (h *HistogramEqualizer) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGray8(input, "histogram equalization"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	if err := gocv.EqualizeHist(input.GetMat(), &dst); err != nil {
		dst.Close()
		return nil, fmt.Errorf("histogram equalization failed: %w", err)
	}

	return safe.Adopt(dst, "equalized")
}
