package filters

import (
	"context"
	"testing"

	"edgebench/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowContrastMat(t *testing.T) *safe.Mat {
	t.Helper()

	rows, cols := 32, 32
	data := make([]byte, rows*cols)
	for i := range data {
		data[i] = byte(100 + (i % 20))
	}

	mat, err := safe.NewGrayFromBytes(rows, cols, data)
	require.NoError(t, err)
	t.Cleanup(mat.Close)
	return mat
}

func valueRange(t *testing.T, mat *safe.Mat) (byte, byte) {
	t.Helper()

	data, err := mat.Bytes()
	require.NoError(t, err)

	lo, hi := byte(255), byte(0)
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func TestHistogramEqualizerStretchesRange(t *testing.T) {
	src := lowContrastMat(t)

	out, err := NewHistogramEqualizer().Apply(context.Background(), src, nil)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Shape(), out.Shape())
	lo, hi := valueRange(t, out)
	assert.Greater(t, int(hi)-int(lo), 19)
}

func TestCLAHEKeepsShape(t *testing.T) {
	src := lowContrastMat(t)

	params := DefaultEnhancementOptions()
	params.CLAHE = true

	out, err := NewCLAHEFilter().Apply(context.Background(), src, params.Params())
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Shape(), out.Shape())
}

func TestCLAHERejectsInvalidParameters(t *testing.T) {
	src := lowContrastMat(t)

	_, err := NewCLAHEFilter().Apply(context.Background(), src, map[string]interface{}{
		ParamCLAHEClipLimit: -1.0,
	})
	assert.Error(t, err)
}

func TestEnhancementChainSelection(t *testing.T) {
	stage := NewEnhancementChain()

	tests := []struct {
		name string
		opts EnhancementOptions
		want []string
	}{
		{"none", DefaultEnhancementOptions(), []string{}},
		{"he", EnhancementOptions{HistogramEqualization: true}, []string{"histogram_equalization"}},
		{"clahe", EnhancementOptions{CLAHE: true, CLAHEClipLimit: 2, CLAHETileSize: 8}, []string{"clahe_filter"}},
		{"both", EnhancementOptions{HistogramEqualization: true, CLAHE: true, CLAHEClipLimit: 2, CLAHETileSize: 8},
			[]string{"histogram_equalization", "clahe_filter"}},
		{"median then he", EnhancementOptions{Denoise: DenoiseMedian, HistogramEqualization: true},
			[]string{"denoise", "histogram_equalization"}},
		{"explicit none", EnhancementOptions{Denoise: DenoiseNone}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stage.ActiveStepNames(tt.opts.Params()))
		})
	}
}

func TestDisabledChainReturnsCopy(t *testing.T) {
	src := lowContrastMat(t)

	out, err := NewEnhancementChain().Execute(context.Background(), src, DefaultEnhancementOptions().Params())
	require.NoError(t, err)
	defer out.Close()

	assert.NotSame(t, src, out)

	want, err := src.Bytes()
	require.NoError(t, err)
	got, err := out.Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestChainHonorsCancellation(t *testing.T) {
	src := lowContrastMat(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := EnhancementOptions{HistogramEqualization: true}
	_, err := NewEnhancementChain().Execute(ctx, src, opts.Params())
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, src.IsValid())
}
