package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// PreviewResult contains an encoded object crop.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview crops the rectangle [x1,x2) x [y1,y2) from img, scales it by
// scale, and returns it as a base64 PNG. Non-u8 images are min-max scaled
// over the whole image first so previews of one image share a gray scale.
func Preview(img buffer.Image, x1, y1, x2, y2 int, scale float64) (*PreviewResult, error) {
	return encodePreview(ToImage(img), x1, y1, x2, y2, scale)
}

// MaskedPreview is Preview with pixels outside mask (or inside it, for the
// background style) blacked out. mask covers the crop rectangle.
func MaskedPreview(img buffer.Image, x1, y1, x2, y2 int, mask buffer.View[uint32], style buffer.MaskingStyle, scale float64) (*PreviewResult, error) {
	crop, err := img.CropMaskedImage(x1, y1, x2-x1, y2-y1, mask, style)
	if err != nil {
		return nil, err
	}
	return encodePreview(ToImage(crop), 0, 0, x2-x1, y2-y1, scale)
}

func encodePreview(src image.Image, x1, y1, x2, y2 int, scale float64) (*PreviewResult, error) {
	bounds := src.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("%w: preview region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			buffer.ErrRegionBounds, x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid preview region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(src, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("%w: encoding preview: %v", ErrImageWrite, err)
	}

	return &PreviewResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
