package filters

import (
	"edgebench/internal/processing/chain"
)

// EnhancementOptions selects the preprocessing applied before edge detection.
// Denoising runs first; when both are enabled, equalization runs before CLAHE.
type EnhancementOptions struct {
	Denoise               DenoiseMethod
	DenoiseKernelSize     int
	HistogramEqualization bool
	CLAHE                 bool
	CLAHEClipLimit        float64
	CLAHETileSize         int
}

func DefaultEnhancementOptions() EnhancementOptions {
	return EnhancementOptions{
		Denoise:           DenoiseNone,
		DenoiseKernelSize: DefaultDenoiseKernelSize,
		CLAHEClipLimit:    DefaultCLAHEClipLimit,
		CLAHETileSize:     DefaultCLAHETileSize,
	}
}

// Params renders the options as step parameters.
func (o EnhancementOptions) Params() map[string]interface{} {
	return map[string]interface{}{
		ParamDenoise:                  string(o.Denoise),
		ParamDenoiseKernelSize:        o.DenoiseKernelSize,
		ParamUseHistogramEqualization: o.HistogramEqualization,
		ParamUseCLAHE:                 o.CLAHE,
		ParamCLAHEClipLimit:           o.CLAHEClipLimit,
		ParamCLAHETileSize:            o.CLAHETileSize,
	}
}

// NewEnhancementChain returns the enhancement stage: denoise, equalization, then CLAHE.
func NewEnhancementChain() *chain.ProcessingChain {
	return chain.NewProcessingChain([]chain.ProcessingStep{
		NewDenoiser(),
		NewHistogramEqualizer(),
		NewCLAHEFilter(),
	})
}
