package filters

import (
	"context"
	"fmt"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// DenoiseMethod names the smoothing filter run ahead of contrast enhancement.
type DenoiseMethod string

const (
	DenoiseNone      DenoiseMethod = "none"
	DenoiseGaussian  DenoiseMethod = "gaussian"
	DenoiseMedian    DenoiseMethod = "median"
	DenoiseBilateral DenoiseMethod = "bilateral"
)

const (
	DefaultDenoiseKernelSize = 3

	bilateralDiameter   = 9
	bilateralSigmaColor = 75
	bilateralSigmaSpace = 75
)

// ParseDenoiseMethod accepts the method names above; the empty string means none.
func ParseDenoiseMethod(s string) (DenoiseMethod, error) {
	switch DenoiseMethod(s) {
	case "", DenoiseNone:
		return DenoiseNone, nil
	case DenoiseGaussian, DenoiseMedian, DenoiseBilateral:
		return DenoiseMethod(s), nil
	}
	return "", fmt.Errorf("unknown denoise method %q", s)
}

// Denoiser smooths the image with a gaussian, median or bilateral filter.
// The kernel size applies to the gaussian and median filters; the bilateral
// filter uses a fixed 9 pixel neighbourhood.
type Denoiser struct{}

func NewDenoiser() *Denoiser {
	return &Denoiser{}
}

func (d *Denoiser) Name() string {
	return "denoise"
}

func (d *Denoiser) ShouldExecute(params map[string]interface{}) bool {
	method, ok := params[ParamDenoise].(string)
	return ok && method != "" && DenoiseMethod(method) != DenoiseNone
}

func (d *Denoiser) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateGray8(input, "denoise"); err != nil {
		return nil, err
	}

	name, _ := params[ParamDenoise].(string)
	method, err := ParseDenoiseMethod(name)
	if err != nil {
		return nil, err
	}

	kernelSize := DefaultDenoiseKernelSize
	if val, ok := params[ParamDenoiseKernelSize].(int); ok && val > 0 {
		kernelSize = val
	}

	switch method {
	case DenoiseGaussian:
		return GaussianBlur(input, kernelSize)
	case DenoiseMedian:
		return MedianBlur(input, kernelSize)
	case DenoiseBilateral:
		return BilateralFilter(input)
	}
	return input.Clone()
}

// MedianBlur replaces each pixel with the median of its kernelSize neighbourhood.
func MedianBlur(src *safe.Mat, kernelSize int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "MedianBlur"); err != nil {
		return nil, err
	}
	if kernelSize < 3 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("median kernel size must be an odd number >= 3, got %d", kernelSize)
	}

	dst := gocv.NewMat()
	if err := gocv.MedianBlur(src.GetMat(), &dst, kernelSize); err != nil {
		dst.Close()
		return nil, fmt.Errorf("median blur failed: %w", err)
	}

	return safe.Adopt(dst, src.Tag()+"_median")
}

// BilateralFilter smooths flat regions while keeping strong edges.
func BilateralFilter(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "BilateralFilter"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	if err := gocv.BilateralFilter(src.GetMat(), &dst, bilateralDiameter, bilateralSigmaColor, bilateralSigmaSpace); err != nil {
		dst.Close()
		return nil, fmt.Errorf("bilateral filter failed: %w", err)
	}

	return safe.Adopt(dst, src.Tag()+"_bilateral")
}
