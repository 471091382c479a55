package buffer

import "math"

// Resize returns a bilinearly interpolated copy of b with the new size.
//
// Sample positions are aligned on pixel centres and clamped to the source
// edge. Integer kinds round the interpolated value before the saturating
// cast; float kinds keep it as is. A zero-sized target yields an empty buffer.
func (b *Buffer[T]) Resize(width, height int) *Buffer[T] {
	if width == b.width && height == b.height {
		return b.Clone()
	}
	c := b.channels
	out := make([]T, max(width, 0)*max(height, 0)*c)
	if width <= 0 || height <= 0 || b.width == 0 || b.height == 0 {
		return &Buffer[T]{width: max(width, 0), height: max(height, 0), channels: c, data: out}
	}

	round := !KindOf[T]().IsFloat()
	xRatio := float64(b.width) / float64(width)
	yRatio := float64(b.height) / float64(height)

	for y := 0; y < height; y++ {
		y0, y1, fy := sampleAxis(y, yRatio, b.height)
		for x := 0; x < width; x++ {
			x0, x1, fx := sampleAxis(x, xRatio, b.width)
			for ch := 0; ch < c; ch++ {
				a := float64(b.data[(y0*b.width+x0)*c+ch])
				bb := float64(b.data[(y0*b.width+x1)*c+ch])
				cc := float64(b.data[(y1*b.width+x0)*c+ch])
				d := float64(b.data[(y1*b.width+x1)*c+ch])

				v := a*(1-fx)*(1-fy) + bb*fx*(1-fy) + cc*(1-fx)*fy + d*fx*fy
				if round {
					v = math.Round(v)
				}
				out[(y*width+x)*c+ch] = FromFloat[T](v)
			}
		}
	}
	return &Buffer[T]{width: width, height: height, channels: c, data: out}
}

// sampleAxis maps destination index i to its two source neighbours and the
// interpolation weight of the second.
func sampleAxis(i int, ratio float64, size int) (int, int, float64) {
	s := (float64(i)+0.5)*ratio - 0.5
	if s < 0 {
		s = 0
	}
	if limit := float64(size - 1); s > limit {
		s = limit
	}
	i0 := int(math.Floor(s))
	i1 := min(i0+1, size-1)
	return i0, i1, s - float64(i0)
}
