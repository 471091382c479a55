package geometry

import (
	"fmt"
	"math"
)

// Box is an axis-aligned box in [min_x, min_y, max_x, max_y] form.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns MaxX - MinX.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// XYXY returns the box as [min_x, min_y, max_x, max_y].
func (b Box) XYXY() [4]float64 { return [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY} }

// XYWH returns the box as [min_x, min_y, width, height].
func (b Box) XYWH() [4]float64 { return [4]float64{b.MinX, b.MinY, b.Width(), b.Height()} }

// Pad grows the box by pad on every side and clamps it to a width x height
// image. It returns integer pixel coordinates (x, y, w, h) and whether the
// padded box touched or crossed the image border before clamping.
func (b Box) Pad(pad float64, width, height int) (x, y, w, h int, touchesBorder bool) {
	minX, minY := b.MinX-pad, b.MinY-pad
	maxX, maxY := b.MaxX+pad, b.MaxY+pad

	touchesBorder = minX <= 0 || minY <= 0 || maxX >= float64(width) || maxY >= float64(height)

	x0 := int(math.Max(minX, 0))
	y0 := int(math.Max(minY, 0))
	x1 := int(math.Min(maxX, float64(width)))
	y1 := int(math.Min(maxY, float64(height)))
	return x0, y0, max(x1-x0, 0), max(y1-y0, 0), touchesBorder
}

// BoundingBoxes is a validated set of boxes.
type BoundingBoxes struct {
	boxes []Box
}

// NewBoundingBoxes validates every box and fails for the whole set if any
// box has max_x < min_x or max_y < min_y.
func NewBoundingBoxes(boxes []Box) (*BoundingBoxes, error) {
	for i, b := range boxes {
		if b.MaxX < b.MinX || b.MaxY < b.MinY {
			return nil, fmt.Errorf("%w: box %d is [%g %g %g %g]",
				ErrBoxesSize, i, b.MinX, b.MinY, b.MaxX, b.MaxY)
		}
	}
	return &BoundingBoxes{boxes: boxes}, nil
}

// NewBoundingBoxesXYXY builds a set from [min_x, min_y, max_x, max_y] rows.
func NewBoundingBoxesXYXY(rows [][4]float64) (*BoundingBoxes, error) {
	boxes := make([]Box, len(rows))
	for i, r := range rows {
		boxes[i] = Box{MinX: r[0], MinY: r[1], MaxX: r[2], MaxY: r[3]}
	}
	return NewBoundingBoxes(boxes)
}

func (bb *BoundingBoxes) Len() int     { return len(bb.boxes) }
func (bb *BoundingBoxes) IsEmpty() bool { return len(bb.boxes) == 0 }

// Boxes returns the underlying boxes.
func (bb *BoundingBoxes) Boxes() []Box { return bb.boxes }

// XYXY returns every box as [min_x, min_y, max_x, max_y].
func (bb *BoundingBoxes) XYXY() [][4]float64 {
	out := make([][4]float64, len(bb.boxes))
	for i, b := range bb.boxes {
		out[i] = b.XYXY()
	}
	return out
}

// XYWH returns every box as [min_x, min_y, width, height].
func (bb *BoundingBoxes) XYWH() [][4]float64 {
	out := make([][4]float64, len(bb.boxes))
	for i, b := range bb.boxes {
		out[i] = b.XYWH()
	}
	return out
}

// Remove drops the boxes at the given ascending indices.
func (bb *BoundingBoxes) Remove(indices []int) {
	bb.boxes = removeSorted(bb.boxes, indices)
}

// removeSorted returns items without the ascending indices.
func removeSorted[E any](items []E, indices []int) []E {
	if len(indices) == 0 {
		return items
	}
	out := make([]E, 0, max(len(items)-len(indices), 0))
	next := 0
	for i, item := range items {
		if next < len(indices) && indices[next] == i {
			next++
			continue
		}
		out = append(out, item)
	}
	return out
}
