package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianBlurNarrowsRange(t *testing.T) {
	src := lowContrastMat(t)

	blurred, err := GaussianBlur(src, 5)
	require.NoError(t, err)
	defer blurred.Close()

	assert.Equal(t, src.Shape(), blurred.Shape())

	srcLo, srcHi := valueRange(t, src)
	lo, hi := valueRange(t, blurred)
	assert.GreaterOrEqual(t, lo, srcLo)
	assert.LessOrEqual(t, hi, srcHi)
}

func TestGaussianBlurRejectsEvenKernel(t *testing.T) {
	_, err := GaussianBlur(lowContrastMat(t), 4)
	assert.Error(t, err)

	_, err = GaussianBlur(nil, 3)
	assert.Error(t, err)
}
