package measure

import (
	"errors"
	"fmt"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// ErrUnsupportedImage is returned for an Image that is not one of the eight
// buffer instantiations.
var ErrUnsupportedImage = errors.New("unsupported image type")

// Region is a pixel rectangle. Regions are clamped to the image extent.
type Region struct {
	X, Y, Width, Height int
}

// FullRegion covers the whole of img.
func FullRegion(img buffer.Image) Region {
	return Region{Width: img.Width(), Height: img.Height()}
}

// MeasureRegion computes Descriptors over region r of img.
func MeasureRegion(img buffer.Image, r Region) ([ViewCount]float64, error) {
	switch b := img.(type) {
	case *buffer.Buffer[uint8]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[uint16]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[uint32]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[uint64]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[int32]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[int64]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[float32]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	case *buffer.Buffer[float64]:
		return Descriptors(b.CropView(r.X, r.Y, r.Width, r.Height)), nil
	}
	return [ViewCount]float64{}, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
}

// MeasureImage computes Descriptors over all of img.
func MeasureImage(img buffer.Image) ([ViewCount]float64, error) {
	return MeasureRegion(img, FullRegion(img))
}

// MeasureMasked crops region r of img, keeps the side of mask selected by
// style, and computes Descriptors on the result. mask must match the region
// size.
func MeasureMasked(img buffer.Image, r Region, mask buffer.View[uint32], style buffer.MaskingStyle) ([ViewCount]float64, error) {
	crop, err := img.CropMaskedImage(r.X, r.Y, r.Width, r.Height, mask, style)
	if err != nil {
		return [ViewCount]float64{}, err
	}
	return MeasureImage(crop)
}
