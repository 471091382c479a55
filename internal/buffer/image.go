package buffer

// Image is a Buffer whose scalar kind is only known at runtime.
//
// Every *Buffer[T] satisfies Image. Decoders return an Image, and code that
// needs the typed buffer recovers it with a type switch over the eight
// *Buffer instantiations.
type Image interface {
	Kind() Kind
	Width() int
	Height() int
	Channels() int
	Len() int
	Shape() (int, int, int)
	Float64At(x, y, c int) float64
	MinMax() (float64, float64)

	CropImage(x, y, w, h int) (Image, error)
	CropMaskedImage(x, y, w, h int, mask View[uint32], style MaskingStyle) (Image, error)
	ResizeImage(width, height int) Image

	ToU8() *Buffer[uint8]
	ToU16() *Buffer[uint16]
	ToU32() *Buffer[uint32]
	ToF32() *Buffer[float32]
	ToF64() *Buffer[float64]
}

// CropImage is Crop returning the erased Image type.
func (b *Buffer[T]) CropImage(x, y, w, h int) (Image, error) {
	out, err := b.Crop(x, y, w, h)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CropMaskedImage is CropMasked returning the erased Image type.
func (b *Buffer[T]) CropMaskedImage(x, y, w, h int, mask View[uint32], style MaskingStyle) (Image, error) {
	out, err := b.CropMasked(x, y, w, h, mask, style)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResizeImage is Resize returning the erased Image type.
func (b *Buffer[T]) ResizeImage(width, height int) Image {
	return b.Resize(width, height)
}

// NewImage builds a zero-filled Image of the given kind.
func NewImage(k Kind, width, height, channels int) (Image, error) {
	switch k {
	case KindU8:
		return Zeros[uint8](width, height, channels), nil
	case KindU16:
		return Zeros[uint16](width, height, channels), nil
	case KindU32:
		return Zeros[uint32](width, height, channels), nil
	case KindU64:
		return Zeros[uint64](width, height, channels), nil
	case KindI32:
		return Zeros[int32](width, height, channels), nil
	case KindI64:
		return Zeros[int64](width, height, channels), nil
	case KindF32:
		return Zeros[float32](width, height, channels), nil
	case KindF64:
		return Zeros[float64](width, height, channels), nil
	}
	return nil, ErrConversion
}

var (
	_ Image = (*Buffer[uint8])(nil)
	_ Image = (*Buffer[uint16])(nil)
	_ Image = (*Buffer[uint32])(nil)
	_ Image = (*Buffer[uint64])(nil)
	_ Image = (*Buffer[int32])(nil)
	_ Image = (*Buffer[int64])(nil)
	_ Image = (*Buffer[float32])(nil)
	_ Image = (*Buffer[float64])(nil)
)
