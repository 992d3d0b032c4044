package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"edgebench/internal/logger"
	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Stage names of the rasters written per pass.
const (
	StageInput    = "input"
	StageEnhanced = "enhanced"
)

// ImagePath returns {out}/images/{stem}/{stem}_{tag}_{stage}.png.
func ImagePath(outDir, stem, tag, stage string) string {
	return filepath.Join(outDir, "images", stem, fmt.Sprintf("%s_%s_%s.png", stem, tag, stage))
}

type imageSaver struct {
	outDir string
	logger logger.Logger
}

func (s *imageSaver) Save(stem, tag, stage string, mat *safe.Mat) error {
	if err := safe.ValidateMatForOperation(mat, "SaveImage"); err != nil {
		return err
	}

	path := ImagePath(s.outDir, stem, tag, stage)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	if ok := gocv.IMWrite(path, mat.GetMat()); !ok {
		return fmt.Errorf("failed to write %s", path)
	}

	s.logger.Debug("ImageSaver", "image saved", map[string]interface{}{
		"path":  path,
		"shape": mat.Shape().String(),
	})

	return nil
}
