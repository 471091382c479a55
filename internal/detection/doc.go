// Package detection turns segmentation masks into per-object outlines.
//
// A segmentation mask is a single-channel uint32 raster where zero is
// background and every other value marks a foreground pixel. Masks come in
// two flavours:
//
//   - Binary masks hold a single nonzero value. Objects are the 8-connected
//     blobs of that value and must be labeled before they can be told apart.
//   - Instance masks hold one distinct positive integer per object. They are
//     used as they are.
//
// # Pipeline
//
// Mask.Polygons runs the full pipeline:
//
//  1. Labeling: a binary mask is relabeled in place by ConnectedComponents
//  2. Tracing: FindLabeledContours traces the outer border of every label
//  3. Wrapping: the outlines are validated into a geometry.Polygons set
//
// # Connected Components
//
// ConnectedComponents is a two-pass 8-connected labeler backed by a
// union-find with path compression and union by rank. Labels are the
// union-find roots, so they are unique per blob but not contiguous. Callers
// must treat the output as a set of distinct values rather than a 1..k range.
//
// # Contour Tracing
//
// FindContours follows borders with the Suzuki-Abe scheme on a copy of the
// mask padded by one pixel. Hole borders are traced but dropped, so an
// annular object yields only its outer ring. A single isolated pixel yields a
// one-point contour.
//
// Contour coordinates are pixel positions in the unpadded image:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Touching objects that share a value trace as one contour, which is why
// FindLabeledContours traces each label on its own.
package detection
