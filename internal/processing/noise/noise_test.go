package noise

import (
	"math"
	"testing"

	"edgebench/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func grayMat(t *testing.T, rows, cols int, value byte) *safe.Mat {
	t.Helper()

	data := make([]byte, rows*cols)
	for i := range data {
		data[i] = value
	}

	mat, err := safe.NewGrayFromBytes(rows, cols, data)
	require.NoError(t, err)
	t.Cleanup(mat.Close)
	return mat
}

func TestAddGaussianChangesPixels(t *testing.T) {
	src := grayMat(t, 64, 64, 128)

	noisy, err := AddGaussian(src, 0.01, NewSource(1))
	require.NoError(t, err)
	defer noisy.Close()

	assert.Equal(t, src.Shape(), noisy.Shape())

	data, err := noisy.Bytes()
	require.NoError(t, err)

	changed := 0
	for _, v := range data {
		if v != 128 {
			changed++
		}
	}
	assert.Greater(t, changed, len(data)/2)
}

func TestAddGaussianIsDeterministicPerSeed(t *testing.T) {
	src := grayMat(t, 16, 16, 90)

	a, err := AddGaussian(src, 0.05, NewSource(42))
	require.NoError(t, err)
	defer a.Close()
	b, err := AddGaussian(src, 0.05, NewSource(42))
	require.NoError(t, err)
	defer b.Close()

	da, err := a.Bytes()
	require.NoError(t, err)
	db, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestZeroLevelDisablesNoise(t *testing.T) {
	src := grayMat(t, 4, 4, 128)
	want, err := src.Bytes()
	require.NoError(t, err)

	for _, typ := range []Type{Gaussian, SaltPepper} {
		out, err := Apply(typ, src, 0, NewSource(7))
		require.NoError(t, err)

		got, err := out.Bytes()
		require.NoError(t, err)
		assert.Equal(t, want, got, string(typ))
		out.Close()
	}
}

func TestAddSaltPepperOnlyProducesExtremes(t *testing.T) {
	src := grayMat(t, 100, 100, 128)

	noisy, err := AddSaltPepper(src, 0.1, NewSource(3))
	require.NoError(t, err)
	defer noisy.Close()

	data, err := noisy.Bytes()
	require.NoError(t, err)

	flipped := 0
	for _, v := range data {
		switch v {
		case 128:
		case 0, 255:
			flipped++
		default:
			t.Fatalf("unexpected pixel value %d", v)
		}
	}

	// 10% of 10000 pixels, with generous slack for sampling.
	assert.InDelta(t, 1000, flipped, 200)
}

func TestNegativeLevelsFail(t *testing.T) {
	src := grayMat(t, 4, 4, 128)

	_, err := AddGaussian(src, -0.1, NewSource(1))
	assert.Error(t, err)

	_, err = AddSaltPepper(src, -0.1, NewSource(1))
	assert.Error(t, err)

	_, err = AddSaltPepper(src, 1.5, NewSource(1))
	assert.Error(t, err)
}

func TestEmptyInputFails(t *testing.T) {
	_, err := AddGaussian(nil, 0.01, NewSource(1))
	assert.Error(t, err)
}

func TestAddGaussianDrawsOneStreamPerCall(t *testing.T) {
	src := grayMat(t, 3, 3, 128)

	noisy, err := AddGaussian(src, 0.01, NewSource(11))
	require.NoError(t, err)
	defer noisy.Close()

	got, err := noisy.Bytes()
	require.NoError(t, err)

	r := rand.New(NewSource(11))
	sigma := math.Sqrt(0.01)
	for i, v := range got {
		want := toUint8(float64(128)/255 + r.NormFloat64()*sigma)
		assert.Equal(t, want, v, "pixel %d", i)
	}
}

func TestAddSaltPepperDrawsOneStreamPerCall(t *testing.T) {
	src := grayMat(t, 4, 4, 128)

	noisy, err := AddSaltPepper(src, 0.5, NewSource(5))
	require.NoError(t, err)
	defer noisy.Close()

	got, err := noisy.Bytes()
	require.NoError(t, err)

	r := rand.New(NewSource(5))
	for i, v := range got {
		want := byte(128)
		if r.Float64() < 0.5 {
			want = 0
			if r.Float64() < 0.5 {
				want = 255
			}
		}
		assert.Equal(t, want, v, "pixel %d", i)
	}
}
