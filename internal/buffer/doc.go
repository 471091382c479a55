// Package buffer provides typed pixel buffers and zero-copy views over them.
//
// A Buffer owns a flat, row-major, channel-interleaved array of one scalar
// type together with its width, height, and channel count. A View is a
// rectangular window into a Buffer that shares its storage and is used for
// per-object measurement without copying pixels.
//
// # Memory Layout
//
// Subpixel (x, y, c) is stored at index (y*width + x)*channels + c. The
// constructor rejects any data slice whose length differs from
// width*height*channels.
//
// # Pixel Kinds
//
// Eight scalar kinds are supported: uint8, uint16, uint32, uint64, int32,
// int64, float32, and float64. Algorithms are written once against the
// Scalar constraint. At API boundaries where the kind is only known at
// runtime (after decoding a file), buffers travel as the Image interface and
// callers recover the concrete type with a type switch.
//
// # Bounds Policy
//
// Crop copies a sub-rectangle and fails with ErrRegionBounds when the region
// does not fit. CropView never fails: coordinates are clamped to the buffer
// extent so near-border objects in a batch never abort the run.
//
// # Thread Safety
//
// Buffers are not mutated after construction. Any number of Views may read
// the same Buffer concurrently.
package buffer
