package geometry

import (
	"fmt"
	"slices"
)

// Polygons is a validated set of outlines. Every polygon has more than two
// points.
//
// The deduplicated and ordered flags record which normalisation passes have
// already been applied so repeated calls stay cheap.
type Polygons struct {
	polygons [][]Point
	deduped  bool
	ordered  bool
}

// NewPolygons validates every outline and fails for the whole set if any
// polygon has two or fewer points.
func NewPolygons(polygons [][]Point) (*Polygons, error) {
	for i, p := range polygons {
		if len(p) <= 2 {
			return nil, fmt.Errorf("%w: polygon %d has %d points", ErrPolygonsSize, i, len(p))
		}
	}
	return &Polygons{polygons: polygons}, nil
}

func (ps *Polygons) Len() int      { return len(ps.polygons) }
func (ps *Polygons) IsEmpty() bool { return len(ps.polygons) == 0 }

// Polygons returns the underlying outlines.
func (ps *Polygons) Polygons() [][]Point { return ps.polygons }

// Dedup removes near-duplicate points from every polygon. It is a no-op
// when already applied.
func (ps *Polygons) Dedup() {
	if ps.deduped {
		return
	}
	for i := range ps.polygons {
		ps.polygons[i] = DedupPoints(ps.polygons[i])
	}
	ps.deduped = true
	ps.ordered = false
}

// Order sorts every polygon's points by angle about its mean. It is a no-op
// when already applied.
func (ps *Polygons) Order() {
	if ps.ordered {
		return
	}
	for _, p := range ps.polygons {
		OrderPoints(p)
	}
	ps.ordered = true
}

// ResamplePoints deduplicates and orders every polygon, then resamples each
// to n points at equal arc length.
func (ps *Polygons) ResamplePoints(n int) {
	ps.Dedup()
	ps.Order()
	for i, p := range ps.polygons {
		ps.polygons[i] = ResamplePoints(p, n)
	}
}

// Remove drops the polygons at the given ascending indices.
func (ps *Polygons) Remove(indices []int) {
	ps.polygons = removeSorted(ps.polygons, indices)
}

// BoundingBoxes returns the axis-aligned extent of every polygon.
func (ps *Polygons) BoundingBoxes() *BoundingBoxes {
	boxes := make([]Box, len(ps.polygons))
	for i, p := range ps.polygons {
		minX, minY, maxX, maxY := Bounds(p)
		boxes[i] = Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return &BoundingBoxes{boxes: boxes}
}

// Descriptors deduplicates and orders every polygon, then returns the form
// descriptors of each in FormNames order.
func (ps *Polygons) Descriptors() [][FormCount]float64 {
	ps.Dedup()
	ps.Order()
	out := make([][FormCount]float64, len(ps.polygons))
	for i, p := range ps.polygons {
		out[i] = Descriptors(p)
	}
	return out
}

// Clone returns a deep copy.
func (ps *Polygons) Clone() *Polygons {
	cp := make([][]Point, len(ps.polygons))
	for i, p := range ps.polygons {
		cp[i] = slices.Clone(p)
	}
	return &Polygons{polygons: cp, deduped: ps.deduped, ordered: ps.ordered}
}
