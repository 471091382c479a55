package geometry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PolygonKeys are the top-level keys accepted for polygon arrays, tried in
// order.
var PolygonKeys = []string{"polygons", "contours", "outlines", "shapes", "points"}

// BoundingBoxKeys are the top-level keys accepted for box arrays, tried in
// order.
var BoundingBoxKeys = []string{"bounding_boxes", "bboxes", "bbox", "bounding_box", "boxes", "box", "xyxy"}

// box4 decodes a four-number array with float32 precision.
type box4 [4]float64

func (b *box4) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("box must have 4 coordinates, got %d", len(v))
	}
	for i := range v {
		b[i] = float64(float32(v[i]))
	}
	return nil
}

// DecodePolygons reads a JSON object holding a polygon array under any of
// PolygonKeys. The first key whose value parses wins.
func DecodePolygons(r io.Reader) (*Polygons, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolygonsRead, err)
	}

	for _, key := range PolygonKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var polygons [][]Point
		if err := json.Unmarshal(raw, &polygons); err != nil {
			continue
		}
		return NewPolygons(polygons)
	}
	return nil, fmt.Errorf("%w: no polygon array under any of %v", ErrPolygonsRead, PolygonKeys)
}

// EncodePolygons writes {"polygons": [...]}.
func EncodePolygons(w io.Writer, polygons [][]Point) error {
	if polygons == nil {
		polygons = [][]Point{}
	}
	if err := json.NewEncoder(w).Encode(map[string][][]Point{"polygons": polygons}); err != nil {
		return fmt.Errorf("%w: %v", ErrPolygonsWrite, err)
	}
	return nil
}

// DecodeBoundingBoxes reads a JSON object holding [min_x, min_y, max_x,
// max_y] rows under any of BoundingBoxKeys.
func DecodeBoundingBoxes(r io.Reader) (*BoundingBoxes, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoxesRead, err)
	}

	for _, key := range BoundingBoxKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var rows []box4
		if err := json.Unmarshal(raw, &rows); err != nil {
			continue
		}
		xyxy := make([][4]float64, len(rows))
		for i, r := range rows {
			xyxy[i] = r
		}
		return NewBoundingBoxesXYXY(xyxy)
	}
	return nil, fmt.Errorf("%w: no box array under any of %v", ErrBoxesRead, BoundingBoxKeys)
}

// EncodeBoundingBoxes writes {"bounding_boxes": [...]}.
func EncodeBoundingBoxes(w io.Writer, boxes [][4]float64) error {
	if boxes == nil {
		boxes = [][4]float64{}
	}
	if err := json.NewEncoder(w).Encode(map[string][][4]float64{"bounding_boxes": boxes}); err != nil {
		return fmt.Errorf("%w: %v", ErrBoxesWrite, err)
	}
	return nil
}

// ReadPolygonsJSON opens path and decodes it with DecodePolygons.
func ReadPolygonsJSON(path string) (*Polygons, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolygonsRead, err)
	}
	defer f.Close()
	return DecodePolygons(bufio.NewReader(f))
}

// WritePolygonsJSON creates path and writes polygons to it.
func WritePolygonsJSON(path string, polygons [][]Point) error {
	return writeFile(path, ErrPolygonsWrite, func(w io.Writer) error {
		return EncodePolygons(w, polygons)
	})
}

// ReadBoundingBoxesJSON opens path and decodes it with DecodeBoundingBoxes.
func ReadBoundingBoxesJSON(path string) (*BoundingBoxes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoxesRead, err)
	}
	defer f.Close()
	return DecodeBoundingBoxes(bufio.NewReader(f))
}

// WriteBoundingBoxesJSON creates path and writes boxes to it.
func WriteBoundingBoxesJSON(path string, boxes [][4]float64) error {
	return writeFile(path, ErrBoxesWrite, func(w io.Writer) error {
		return EncodeBoundingBoxes(w, boxes)
	})
}

func writeFile(path string, sentinel error, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return nil
}
