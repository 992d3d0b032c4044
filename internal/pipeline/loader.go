package pipeline

import (
	"errors"
	"fmt"
	"os"

	"edgebench/internal/opencv/conversion"
	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

var ErrImageNotFound = errors.New("image not found")

// LoadGray reads the image at path and returns it as an 8-bit single-channel
// raster. Color and 16-bit inputs are converted.
func LoadGray(path string) (*safe.Mat, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	loaded, err := safe.Adopt(mat, "loaded_image")
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer loaded.Close()

	gray, err := conversion.ConvertToGrayscale(loaded)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion of %s failed: %w", path, err)
	}

	return gray, nil
}
