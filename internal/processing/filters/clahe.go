package filters

import (
	"context"
	"fmt"
	"image"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const (
	DefaultCLAHEClipLimit = 2.0
	DefaultCLAHETileSize  = 8
)

// CLAHEFilter applies Contrast Limited Adaptive Histogram Equalization.
type CLAHEFilter struct{}

func NewCLAHEFilter() *CLAHEFilter {
	return &CLAHEFilter{}
}

func (c *CLAHEFilter) Name() string {
	return "clahe_filter"
}

func (c *CLAHEFilter) ShouldExecute(params map[string]interface{}) bool {
	useClahe, ok := params[ParamUseCLAHE].(bool)
	return ok && useClahe
}

func (c *CLAHEFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGray8(input, "CLAHE"); err != nil {
		return nil, err
	}

	clipLimit := DefaultCLAHEClipLimit
	if val, ok := params[ParamCLAHEClipLimit].(float64); ok {
		clipLimit = val
	}

	tileSize := DefaultCLAHETileSize
	if val, ok := params[ParamCLAHETileSize].(int); ok {
		tileSize = val
	}

	if clipLimit <= 0 || tileSize <= 0 {
		return nil, fmt.Errorf("invalid CLAHE parameters: clip limit %.2f, tile size %d", clipLimit, tileSize)
	}

	clahe := gocv.NewCLAHEWithParams(clipLimit, image.Point{X: tileSize, Y: tileSize})
	defer clahe.Close()

	dst := gocv.NewMat()
	if err := clahe.Apply(input.GetMat(), &dst); err != nil {
		dst.Close()
		return nil, fmt.Errorf("CLAHE failed: %w", err)
	}

	return safe.Adopt(dst, "clahe")
}
