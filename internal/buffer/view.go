package buffer

// View is a non-owning rectangular window into a Buffer.
//
// A View never copies pixels. It must not outlive the Buffer it was taken
// from, and the Buffer must not be modified while the View is in use.
type View[T Scalar] struct {
	buf  *Buffer[T]
	x, y int
	w, h int
}

// NewView returns the window (x, y, w, h) of buf with coordinates clamped:
// x = min(x, width), w = min(w, width-x), and likewise for y and h.
func NewView[T Scalar](buf *Buffer[T], x, y, w, h int) View[T] {
	x = clamp(x, 0, buf.width)
	y = clamp(y, 0, buf.height)
	w = clamp(w, 0, buf.width-x)
	h = clamp(h, 0, buf.height-y)
	return View[T]{buf: buf, x: x, y: y, w: w, h: h}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (v View[T]) X() int             { return v.x }
func (v View[T]) Y() int             { return v.y }
func (v View[T]) Width() int         { return v.w }
func (v View[T]) Height() int        { return v.h }
func (v View[T]) Channels() int      { return v.buf.channels }
func (v View[T]) Buffer() *Buffer[T] { return v.buf }
func (v View[T]) Kind() Kind         { return KindOf[T]() }

// Len is the number of subpixels visited by EachSubpixel.
func (v View[T]) Len() int { return v.w * v.h * v.buf.channels }

// IsEmpty reports whether the window has no pixels.
func (v View[T]) IsEmpty() bool { return v.w == 0 || v.h == 0 }

// At returns subpixel (x, y, c) in view-relative coordinates.
func (v View[T]) At(x, y, c int) T {
	return v.buf.At(v.x+x, v.y+y, c)
}

// Row returns the w*channels subpixels of view row y as a slice of the
// underlying buffer.
func (v View[T]) Row(y int) []T {
	c := v.buf.channels
	start := ((v.y+y)*v.buf.width + v.x) * c
	return v.buf.data[start : start+v.w*c]
}

// EachSubpixel calls fn for every subpixel in row-major order, skipping the
// parts of each buffer row that fall outside the window.
func (v View[T]) EachSubpixel(fn func(T)) {
	for y := 0; y < v.h; y++ {
		for _, s := range v.Row(y) {
			fn(s)
		}
	}
}

// EachPixel calls fn with the channels of every pixel in row-major order.
// The slice aliases the buffer and is only valid for the duration of fn.
func (v View[T]) EachPixel(fn func([]T)) {
	c := v.buf.channels
	for y := 0; y < v.h; y++ {
		row := v.Row(y)
		for i := 0; i < len(row); i += c {
			fn(row[i : i+c])
		}
	}
}

// EachIndexed calls fn with view-relative coordinates and pixel channels.
func (v View[T]) EachIndexed(fn func(x, y int, px []T)) {
	c := v.buf.channels
	for y := 0; y < v.h; y++ {
		row := v.Row(y)
		for x := 0; x < v.w; x++ {
			fn(x, y, row[x*c:(x+1)*c])
		}
	}
}

// Subpixels copies the window into a flat slice.
func (v View[T]) Subpixels() []T {
	out := make([]T, 0, v.Len())
	for y := 0; y < v.h; y++ {
		out = append(out, v.Row(y)...)
	}
	return out
}

// Pixels copies the window into one slice per pixel.
func (v View[T]) Pixels() [][]T {
	out := make([][]T, 0, v.w*v.h)
	v.EachPixel(func(px []T) {
		cp := make([]T, len(px))
		copy(cp, px)
		out = append(out, cp)
	})
	return out
}

// Channel copies channel c of the window in raster order.
func (v View[T]) Channel(c int) ([]T, error) {
	if c < 0 || c >= v.buf.channels {
		return nil, ErrChannelBounds
	}
	out := make([]T, 0, v.w*v.h)
	v.EachPixel(func(px []T) {
		out = append(out, px[c])
	})
	return out, nil
}

// Floats copies the window into a flat float64 slice.
func (v View[T]) Floats() []float64 {
	out := make([]float64, 0, v.Len())
	v.EachSubpixel(func(s T) {
		out = append(out, float64(s))
	})
	return out
}

// ToBuffer copies the window into a new owning buffer.
func (v View[T]) ToBuffer() *Buffer[T] {
	return &Buffer[T]{width: v.w, height: v.h, channels: v.buf.channels, data: v.Subpixels()}
}
