// Package profile runs descriptor extraction over directories of images and
// their segmentations.
//
// A run pairs every image with a segment file of the same stem (after the
// optional image and segment substrings are removed), crops each object out
// of the image with some padding, and writes one table row per object. The
// segment kind decides where objects come from:
//
//   - Boxes: a bounding box JSON file per image
//   - Polygons: a polygon JSON file per image
//   - Masks: a label or binary mask image per image
//
// The mode string picks the descriptor families written for each object,
// one letter per family, see ModeLetters. Pairs are processed by a bounded
// pool of workers; a pair that fails is recorded in the error ledger and the
// run continues with the rest.
package profile
