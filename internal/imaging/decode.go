package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// FromImage copies a decoded image into a pixel buffer.
//
// 8-bit and 16-bit gray images become one-channel u8 and u16 buffers.
// 16-bit color images become three-channel u16 buffers and every other
// color model becomes a three-channel u8 buffer. Alpha is discarded.
func FromImage(img image.Image) buffer.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := buffer.Zeros[uint8](w, h, 1)
		for y := 0; y < h; y++ {
			i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Raw()[y*w:(y+1)*w], src.Pix[i:i+w])
		}
		return out
	case *image.Gray16:
		out := buffer.Zeros[uint16](w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, 0, src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return out
	case *image.RGBA64, *image.NRGBA64:
		out := buffer.Zeros[uint16](w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
				out.Set(x, y, 0, c.R)
				out.Set(x, y, 1, c.G)
				out.Set(x, y, 2, c.B)
			}
		}
		return out
	}

	out := buffer.Zeros[uint8](w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, 0, c.R)
			out.Set(x, y, 1, c.G)
			out.Set(x, y, 2, c.B)
		}
	}
	return out
}

// Normalize8 maps img onto 8 bits for display. u8 buffers are copied as is;
// any other kind is min-max scaled to 0..255.
func Normalize8(img buffer.Image) *buffer.Buffer[uint8] {
	if b, ok := img.(*buffer.Buffer[uint8]); ok {
		return b.Clone()
	}

	w, h, c := img.Width(), img.Height(), img.Channels()
	out := buffer.Zeros[uint8](w, h, c)
	lo, hi := img.MinMax()
	span := hi - lo
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return out
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				v := (img.Float64At(x, y, ch) - lo) / span * 255
				out.Set(x, y, ch, uint8(math.Round(v)))
			}
		}
	}
	return out
}

// ToImage renders img as a standard library image for encoding. One- and
// two-channel buffers render their first channel as gray; three or more
// channels render the first three as RGB.
func ToImage(img buffer.Image) *image.NRGBA {
	b := Normalize8(img)
	w, h, c := b.Width(), b.Height(), b.Channels()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl uint8
			if c >= 3 {
				r, g, bl = b.At(x, y, 0), b.At(x, y, 1), b.At(x, y, 2)
			} else if c > 0 {
				r = b.At(x, y, 0)
				g, bl = r, r
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = bl
			out.Pix[i+3] = 255
		}
	}
	return out
}

// ToGray renders the first channel of img as an 8-bit gray image.
func ToGray(img buffer.Image) *image.Gray {
	b := Normalize8(img)
	w, h := b.Width(), b.Height()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if b.Channels() == 0 {
		return out
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = b.At(x, y, 0)
		}
	}
	return out
}
