package buffer

import "math"

// Convert casts every subpixel of b to U. Integer targets truncate toward
// zero and saturate at their range, so 2.5 becomes 2 and -1 becomes 0 for
// unsigned kinds.
func Convert[U, T Scalar](b *Buffer[T]) *Buffer[U] {
	out := make([]U, len(b.data))
	if KindOf[T]() == KindOf[U]() {
		for i, v := range b.data {
			out[i] = U(v)
		}
	} else {
		for i, v := range b.data {
			out[i] = FromFloat[U](float64(v))
		}
	}
	return &Buffer[U]{width: b.width, height: b.height, channels: b.channels, data: out}
}

func (b *Buffer[T]) ToU8() *Buffer[uint8]    { return Convert[uint8](b) }
func (b *Buffer[T]) ToU16() *Buffer[uint16]  { return Convert[uint16](b) }
func (b *Buffer[T]) ToU32() *Buffer[uint32]  { return Convert[uint32](b) }
func (b *Buffer[T]) ToF32() *Buffer[float32] { return Convert[float32](b) }
func (b *Buffer[T]) ToF64() *Buffer[float64] { return Convert[float64](b) }

// MinMax returns the smallest and largest subpixel values. An empty buffer
// returns (0, 0).
func (b *Buffer[T]) MinMax() (float64, float64) {
	if len(b.data) == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range b.data {
		f := float64(v)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

// ConvertImage converts img to the requested kind.
func ConvertImage(img Image, k Kind) (Image, error) {
	switch k {
	case KindU8:
		return img.ToU8(), nil
	case KindU16:
		return img.ToU16(), nil
	case KindU32:
		return img.ToU32(), nil
	case KindF32:
		return img.ToF32(), nil
	case KindF64:
		return img.ToF64(), nil
	}
	switch b := img.(type) {
	case *Buffer[uint8]:
		return convertTo(b, k)
	case *Buffer[uint16]:
		return convertTo(b, k)
	case *Buffer[uint32]:
		return convertTo(b, k)
	case *Buffer[uint64]:
		return convertTo(b, k)
	case *Buffer[int32]:
		return convertTo(b, k)
	case *Buffer[int64]:
		return convertTo(b, k)
	case *Buffer[float32]:
		return convertTo(b, k)
	case *Buffer[float64]:
		return convertTo(b, k)
	}
	return nil, ErrConversion
}

func convertTo[T Scalar](b *Buffer[T], k Kind) (Image, error) {
	switch k {
	case KindU64:
		return Convert[uint64](b), nil
	case KindI32:
		return Convert[int32](b), nil
	case KindI64:
		return Convert[int64](b), nil
	}
	return nil, ErrConversion
}
