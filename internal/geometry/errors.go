package geometry

import "errors"

var (
	// ErrPolygonsSize is returned when any polygon has two or fewer points.
	ErrPolygonsSize = errors.New("polygons must have more than two points")

	// ErrPolygonsRead is returned when a polygon file cannot be parsed.
	ErrPolygonsRead = errors.New("failed to read polygons")

	// ErrPolygonsWrite is returned when a polygon file cannot be written.
	ErrPolygonsWrite = errors.New("failed to write polygons")

	// ErrBoxesSize is returned when any box has max < min on either axis.
	ErrBoxesSize = errors.New("bounding boxes must have max_x >= min_x and max_y >= min_y")

	// ErrBoxesRead is returned when a bounding box file cannot be parsed.
	ErrBoxesRead = errors.New("failed to read bounding boxes")

	// ErrBoxesWrite is returned when a bounding box file cannot be written.
	ErrBoxesWrite = errors.New("failed to write bounding boxes")
)
