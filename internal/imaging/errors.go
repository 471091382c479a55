package imaging

import "errors"

var (
	// ErrImageRead is returned when a file cannot be opened or decoded.
	ErrImageRead = errors.New("failed to read image")

	// ErrImageWrite is returned when an image or mask cannot be encoded or saved.
	ErrImageWrite = errors.New("failed to write image")

	// ErrImageExtension is returned for a file extension no decoder handles.
	ErrImageExtension = errors.New("unsupported image extension")

	// ErrMaskFormat is returned when a decoded mask has an unsupported pixel
	// type or shape.
	ErrMaskFormat = errors.New("unsupported mask format")

	// ErrNpyFormat is returned for a malformed or unsupported .npy file.
	ErrNpyFormat = errors.New("unsupported npy format")
)
