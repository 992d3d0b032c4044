package conversion

import (
	"fmt"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ConvertToGrayscale converts multi-channel images to single-channel grayscale.
// Single-channel input is cloned. 16-bit input is scaled down to 8 bits first.
func ConvertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	eight, err := ToDepth8(src)
	if err != nil {
		return nil, err
	}
	defer eight.Close()

	if eight.Channels() == 1 {
		return eight.Clone()
	}

	var code gocv.ColorConversionCode
	switch eight.Channels() {
	case 3:
		code = gocv.ColorBGRToGray
	case 4:
		code = gocv.ColorBGRAToGray
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", eight.Channels())
	}
	if err := safe.ValidateColorConversion(eight, code); err != nil {
		return nil, err
	}

	dst, err := safe.NewMatWithTag(eight.Rows(), eight.Cols(), gocv.MatTypeCV8UC1, "gray")
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := eight.GetMat()
	dstMat := dst.GetMat()
	if err := gocv.CvtColor(srcMat, &dstMat, code); err != nil {
		dst.Close()
		return nil, fmt.Errorf("color conversion failed: %w", err)
	}

	return dst, nil
}

// ToDepth8 returns an 8-bit copy of src. 8-bit input is cloned as is.
func ToDepth8(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "depth conversion"); err != nil {
		return nil, err
	}

	var target gocv.MatType
	switch src.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return src.Clone()
	case gocv.MatTypeCV16UC1:
		target = gocv.MatTypeCV8UC1
	case gocv.MatTypeCV16UC3:
		target = gocv.MatTypeCV8UC3
	case gocv.MatTypeCV16UC4:
		target = gocv.MatTypeCV8UC4
	default:
		return nil, fmt.Errorf("unsupported Mat type %d: expected 8 or 16 bit unsigned samples", int(src.Type()))
	}

	dst := gocv.NewMat()
	srcMat := src.GetMat()
	if err := srcMat.ConvertToWithParams(&dst, target, 1.0/257.0, 0); err != nil {
		dst.Close()
		return nil, fmt.Errorf("depth conversion failed: %w", err)
	}

	return safe.Adopt(dst, src.Tag()+"_8bit")
}
