package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/detection"
)

// OpenMask decodes a segmentation mask.
//
// Image files must be 8- or 16-bit gray, optionally with alpha (which is
// ignored). .npy files must hold u8, u16, or u32 values with shape (H, W)
// or (H, W, 1).
func OpenMask(path string) (*detection.Mask, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %q", ErrImageExtension, ext)
	}

	if ext == ".npy" {
		img, err := ReadNpyFile(path)
		if err != nil {
			return nil, err
		}
		return maskFromArray(img)
	}

	img, err := decodeStd(path)
	if err != nil {
		return nil, err
	}
	return maskFromImage(img)
}

func maskFromArray(img buffer.Image) (*detection.Mask, error) {
	if img.Channels() != 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrMaskFormat, img.Channels())
	}
	switch b := img.(type) {
	case *buffer.Buffer[uint8]:
		return detection.MaskFromBuffer(b.ToU32())
	case *buffer.Buffer[uint16]:
		return detection.MaskFromBuffer(b.ToU32())
	case *buffer.Buffer[uint32]:
		return detection.MaskFromBuffer(b)
	}
	return nil, fmt.Errorf("%w: dtype %s", ErrMaskFormat, img.Kind())
}

func maskFromImage(img image.Image) (*detection.Mask, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]uint32, 0, w*h)

	switch src := img.(type) {
	case *image.Gray, *image.Gray16:
		b := FromImage(src)
		return detection.MaskFromBuffer(b.ToU32())
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				if c.R != c.G || c.G != c.B {
					return nil, fmt.Errorf("%w: color mask", ErrMaskFormat)
				}
				data = append(data, uint32(c.R))
			}
		}
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBA64At(bounds.Min.X+x, bounds.Min.Y+y)
				if c.R != c.G || c.G != c.B {
					return nil, fmt.Errorf("%w: color mask", ErrMaskFormat)
				}
				data = append(data, uint32(c.R))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrMaskFormat, img)
	}
	return detection.NewMask(w, h, data)
}

// binaryImage renders a mask view as 0/255 gray.
func binaryImage(v buffer.View[uint32]) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, v.Width(), v.Height()))
	v.EachIndexed(func(x, y int, px []uint32) {
		if px[0] != 0 {
			out.Pix[y*out.Stride+x] = 255
		}
	})
	return out
}

// SaveMask writes the nonzero pixels of v as 255 on a 0 background. The
// format follows the extension: .npy writes a u8 (H, W) array, anything
// else is encoded as an 8-bit gray image.
func SaveMask(path string, v buffer.View[uint32]) error {
	gray := binaryImage(v)

	if strings.ToLower(filepath.Ext(path)) == ".npy" {
		b, err := buffer.New(v.Width(), v.Height(), 1, gray.Pix)
		if err != nil {
			return err
		}
		return WriteNpyFile(path, b)
	}

	if err := imaging.Save(gray, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageWrite, path, err)
	}
	return nil
}
