package buffer

import "errors"

var (
	// ErrBufferSize is returned when a data slice does not match width*height*channels.
	ErrBufferSize = errors.New("buffer length does not match width * height * channels")

	// ErrChannelBounds is returned when a channel index is out of range.
	ErrChannelBounds = errors.New("channel index out of bounds")

	// ErrRegionBounds is returned when a crop region does not fit in the buffer.
	ErrRegionBounds = errors.New("cropping coordinates out of bounds")

	// ErrMaskSize is returned when a mask does not match the crop it is applied to.
	ErrMaskSize = errors.New("mask dimensions do not match crop dimensions")

	// ErrConversion is returned when an image cannot be converted to the requested kind.
	ErrConversion = errors.New("unsupported pixel kind conversion")
)
