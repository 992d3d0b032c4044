package threshold

import (
	"testing"

	"edgebench/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientMat(t *testing.T) *safe.Mat {
	t.Helper()

	rows, cols := 16, 16
	data := make([]byte, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			switch {
			case x < 6:
				data[y*cols+x] = 10
			case x < 10:
				data[y*cols+x] = 200
			default:
				data[y*cols+x] = 30
			}
		}
	}

	mat, err := safe.NewGrayFromBytes(rows, cols, data)
	require.NoError(t, err)
	t.Cleanup(mat.Close)
	return mat
}

func TestOtsuProducesBinaryMap(t *testing.T) {
	src := gradientMat(t)

	edges, level, err := Otsu(src)
	require.NoError(t, err)
	defer edges.Close()

	assert.GreaterOrEqual(t, level, float32(30))
	assert.Less(t, level, float32(200))

	binary, err := IsBinary(edges)
	require.NoError(t, err)
	assert.True(t, binary)

	data, err := edges.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), data[3*16+7])
	assert.Equal(t, uint8(0), data[3*16+12])
}

func TestOtsuIsIdempotent(t *testing.T) {
	src := gradientMat(t)

	first, _, err := Otsu(src)
	require.NoError(t, err)
	defer first.Close()

	second, _, err := Otsu(first)
	require.NoError(t, err)
	defer second.Close()

	a, err := first.Bytes()
	require.NoError(t, err)
	b, err := second.Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	binary, err := IsBinary(second)
	require.NoError(t, err)
	assert.True(t, binary)
}

func TestOtsuRejectsNilInput(t *testing.T) {
	_, _, err := Otsu(nil)
	assert.Error(t, err)
}
