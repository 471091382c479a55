// Package geometry provides point-sequence algorithms, polygon and bounding
// box collections, and the form (shape) descriptors computed from outlines.
//
// # Coordinate System
//
// Points use image coordinates: origin at the top-left, X increasing to the
// right, Y increasing downward. Contours traced from masks report pixel
// corners relative to the unpadded image origin.
//
// # Closed and Open Outlines
//
// An outline is closed when its first and last points are equal. Every form
// function detects closure itself and returns the same value for an outline
// and its closed variant.
//
// # Form Descriptors
//
// Descriptors computes 23 values in one pass, in the order of FormNames:
// centroid, vertex centre, polygon/bbox/convex areas, perimeter, elongation,
// thread length and width, solidity, extent, form factor, equivalent
// diameter, ellipse eccentricity and axes, min/max/mean radius, and min/max
// Feret diameters. The single-purpose functions (Area, Perimeter, ...) agree
// with the batch values.
//
// # Degenerate Outlines
//
// Zero-area or collinear outlines are not errors. Ratios that would divide
// by zero return 0, the centroid falls back to the vertex mean, and a failed
// ellipse fit reports zero axes.
//
// # Persisted Formats
//
// Polygon JSON is {"polygons": [[[x, y], ...], ...]} and bounding box JSON is
// {"bounding_boxes": [[min_x, min_y, max_x, max_y], ...]}. Readers accept the
// alias keys in PolygonKeys and BoundingBoxKeys. Coordinates may be integers
// or floats and are stored with float32 precision.
package geometry
