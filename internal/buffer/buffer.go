package buffer

import (
	"fmt"
)

// MaskingStyle selects which side of a mask survives CropMasked.
type MaskingStyle int

const (
	// Foreground keeps pixels where the mask is nonzero.
	Foreground MaskingStyle = iota
	// Background keeps pixels where the mask is zero.
	Background
)

// String returns "foreground" or "background".
func (s MaskingStyle) String() string {
	if s == Background {
		return "background"
	}
	return "foreground"
}

// Buffer owns a row-major, channel-interleaved pixel array.
//
// The zero value is an empty 0x0 buffer. Use New to construct a buffer from
// existing data or Zeros for a blank one.
type Buffer[T Scalar] struct {
	width    int
	height   int
	channels int
	data     []T
}

// New wraps data as a width x height buffer with the given channel count.
//
// The slice is retained, not copied. New returns ErrBufferSize when
// len(data) != width*height*channels or any dimension is negative.
func New[T Scalar](width, height, channels int, data []T) (*Buffer[T], error) {
	if width < 0 || height < 0 || channels < 1 {
		return nil, fmt.Errorf("%w: invalid shape %dx%dx%d", ErrBufferSize, width, height, channels)
	}
	if want := width * height * channels; len(data) != want {
		return nil, fmt.Errorf("%w: got %d values, want %d (%dx%dx%d)",
			ErrBufferSize, len(data), want, width, height, channels)
	}
	return &Buffer[T]{width: width, height: height, channels: channels, data: data}, nil
}

// Zeros allocates a zero-filled buffer.
func Zeros[T Scalar](width, height, channels int) *Buffer[T] {
	if channels < 1 {
		channels = 1
	}
	return &Buffer[T]{
		width:    width,
		height:   height,
		channels: channels,
		data:     make([]T, width*height*channels),
	}
}

func (b *Buffer[T]) Width() int    { return b.width }
func (b *Buffer[T]) Height() int   { return b.height }
func (b *Buffer[T]) Channels() int { return b.channels }
func (b *Buffer[T]) Len() int      { return len(b.data) }
func (b *Buffer[T]) Kind() Kind    { return KindOf[T]() }

// Shape returns (height, width, channels), matching array conventions.
func (b *Buffer[T]) Shape() (int, int, int) {
	return b.height, b.width, b.channels
}

// Raw exposes the underlying slice. Callers must not modify it while views
// over the buffer are in use.
func (b *Buffer[T]) Raw() []T { return b.data }

// At returns subpixel (x, y, c). It panics on out-of-range coordinates.
func (b *Buffer[T]) At(x, y, c int) T {
	return b.data[(y*b.width+x)*b.channels+c]
}

// Set writes subpixel (x, y, c).
func (b *Buffer[T]) Set(x, y, c int, v T) {
	b.data[(y*b.width+x)*b.channels+c] = v
}

// Float64At returns subpixel (x, y, c) as a float64.
func (b *Buffer[T]) Float64At(x, y, c int) float64 {
	return float64(b.At(x, y, c))
}

// IterChannel returns a copy of every value of channel c in raster order.
func (b *Buffer[T]) IterChannel(c int) ([]T, error) {
	if c < 0 || c >= b.channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrChannelBounds, c, b.channels)
	}
	out := make([]T, 0, b.width*b.height)
	for i := c; i < len(b.data); i += b.channels {
		out = append(out, b.data[i])
	}
	return out, nil
}

// View returns a view covering the whole buffer.
func (b *Buffer[T]) View() View[T] {
	return View[T]{buf: b, w: b.width, h: b.height}
}

// CropView returns a zero-copy window. Coordinates are clamped to the
// buffer extent and never produce an error.
func (b *Buffer[T]) CropView(x, y, w, h int) View[T] {
	return NewView(b, x, y, w, h)
}

// Crop copies the region (x, y, w, h) into a new buffer.
func (b *Buffer[T]) Crop(x, y, w, h int) (*Buffer[T], error) {
	if err := b.checkRegion(x, y, w, h); err != nil {
		return nil, err
	}

	c := b.channels
	out := make([]T, 0, w*h*c)
	for row := y; row < y+h; row++ {
		start := (row*b.width + x) * c
		out = append(out, b.data[start:start+w*c]...)
	}
	return &Buffer[T]{width: w, height: h, channels: c, data: out}, nil
}

// CropMasked copies the region (x, y, w, h) and zeroes every subpixel of
// pixels rejected by mask under style. The mask view must be w x h.
func (b *Buffer[T]) CropMasked(x, y, w, h int, mask View[uint32], style MaskingStyle) (*Buffer[T], error) {
	crop, err := b.Crop(x, y, w, h)
	if err != nil {
		return nil, err
	}
	if mask.Width() != w || mask.Height() != h {
		return nil, fmt.Errorf("%w: mask %dx%d, crop %dx%d",
			ErrMaskSize, mask.Width(), mask.Height(), w, h)
	}

	c := crop.channels
	i := 0
	mask.EachPixel(func(m []uint32) {
		zero := (style == Foreground && m[0] == 0) || (style == Background && m[0] != 0)
		if zero {
			clear(crop.data[i : i+c])
		}
		i += c
	})
	return crop, nil
}

func (b *Buffer[T]) checkRegion(x, y, w, h int) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > b.width || y+h > b.height {
		return fmt.Errorf("%w: region (%d,%d,%d,%d) in %dx%d buffer",
			ErrRegionBounds, x, y, w, h, b.width, b.height)
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer[T]) Clone() *Buffer[T] {
	data := make([]T, len(b.data))
	copy(data, b.data)
	return &Buffer[T]{width: b.width, height: b.height, channels: b.channels, data: data}
}
