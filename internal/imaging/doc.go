// Package imaging loads images and masks into pixel buffers and renders
// buffers back out for inspection.
//
// Decoding goes through disintegration/imaging with the standard library
// and golang.org/x/image decoders registered, so PNG, JPEG, GIF, TIFF, BMP,
// and WebP files are all accepted. NumPy .npy arrays are read and written
// directly and keep their dtype.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Pixel Kinds
//
// FromImage maps 8-bit gray to one-channel u8, 16-bit gray to one-channel
// u16, 16-bit color to three-channel u16, and everything else to
// three-channel u8. Alpha is always discarded. Masks must be gray (8- or
// 16-bit, alpha ignored) or a u8/u16/u32 array and are widened to u32
// labels.
//
// # Rendering
//
// Previews and overlays are 8-bit. Buffers of any other kind are min-max
// scaled over the whole image, so previews of objects from the same image
// share one gray scale. Overlay outlines use a golden-angle hue palette from
// go-colorful unless a fixed color is given.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached buffers are never
// modified, so callers may measure them from many goroutines at once.
//
// # Error Handling
//
// Failures wrap one of ErrImageRead, ErrImageWrite, ErrImageExtension,
// ErrMaskFormat, or ErrNpyFormat so callers can classify them with
// errors.Is.
package imaging
