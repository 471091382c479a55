package geometry

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// float32Epsilon is the machine epsilon of float32, the precision coordinates
// are stored with.
const float32Epsilon = 1.1920929e-07

// Point is an (x, y) coordinate. It encodes to JSON as a two-element array.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element numeric array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = float64(float32(xy[0])), float64(float32(xy[1]))
	return nil
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// IsClosed reports whether the first and last points are equal.
func IsClosed(points []Point) bool {
	return len(points) > 1 && points[0] == points[len(points)-1]
}

// openRing drops the closing point of a closed outline.
func openRing(points []Point) []Point {
	if IsClosed(points) {
		return points[:len(points)-1]
	}
	return points
}

// Bounds returns the axis-aligned extent of points.
func Bounds(points []Point) (minX, minY, maxX, maxY float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

func comparePoints(a, b Point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

// ConvexHull returns the convex hull of points using the monotone chain
// algorithm. Collinear and duplicate points are dropped.
//
// For [[0,1],[1,1],[0.5,0.5],[1,0],[0,0]] the hull is
// [[0,0],[0,1],[1,1],[1,0]].
func ConvexHull(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	sorted := slices.Clone(points)
	slices.SortFunc(sorted, comparePoints)

	ccw := func(p, q, r Point) bool {
		return (q.Y-p.Y)*(r.X-q.X) > (q.X-p.X)*(r.Y-q.Y)
	}

	lower := make([]Point, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && !ccw(lower[len(lower)-2], lower[len(lower)-1], p) {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && !ccw(upper[len(upper)-2], upper[len(upper)-1], p) {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) == 0 {
		return []Point{sorted[0]}
	}
	return hull
}

// DedupPoints sorts points by (x, y) and removes neighbours closer than
// float32 epsilon on both axes. The input slice is reordered in place and
// the deduplicated prefix is returned.
func DedupPoints(points []Point) []Point {
	slices.SortFunc(points, comparePoints)
	return slices.CompactFunc(points, func(a, b Point) bool {
		return math.Abs(a.X-b.X) < float32Epsilon && math.Abs(a.Y-b.Y) < float32Epsilon
	})
}

// OrderPoints sorts points in place by descending angle about their mean.
// Points at the same angle are ordered by ascending distance from the mean.
func OrderPoints(points []Point) {
	if len(points) == 0 {
		return
	}
	n := float64(len(points))
	var cx, cy float64
	for _, p := range points {
		cx += p.X / n
		cy += p.Y / n
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		ta := math.Atan2(a.Y-cy, a.X-cx)
		tb := math.Atan2(b.Y-cy, b.X-cx)
		if ta == tb {
			da := (a.X-cx)*(a.X-cx) + (a.Y-cy)*(a.Y-cy)
			db := (b.X-cx)*(b.X-cx) + (b.Y-cy)*(b.Y-cy)
			return cmp.Compare(da, db)
		}
		return cmp.Compare(tb, ta)
	})
}

// ResamplePoints returns n points spaced at equal arc length along the
// closed path through points. The first and last samples both land on the
// first input point.
//
// A path of zero length returns n copies of its first point.
func ResamplePoints(points []Point, n int) []Point {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	if n == 1 {
		return []Point{points[0]}
	}

	path := points
	if !IsClosed(points) {
		path = append(slices.Clone(points), points[0])
	}

	distances := make([]float64, len(path)-1)
	cumulative := make([]float64, len(path))
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		distances[i] = path[i].Dist(path[i+1])
		total += distances[i]
		cumulative[i+1] = total
	}

	out := make([]Point, 0, n)
	if total == 0 {
		for i := 0; i < n; i++ {
			out = append(out, path[0])
		}
		return out
	}

	j := 0
	for i := 0; i < n; i++ {
		d := float64(i) * total / float64(n-1)
		for j < len(cumulative)-2 && d > cumulative[j+1] {
			j++
		}

		t := 0.0
		if distances[j] != 0 {
			t = (d - cumulative[j]) / distances[j]
		}
		out = append(out, Point{
			X: path[j].X + t*(path[j+1].X-path[j].X),
			Y: path[j].Y + t*(path[j+1].Y-path[j].Y),
		})
	}
	return out
}

// PointToSegmentDistance returns the distance from p to the segment a-b.
// A zero-length segment reduces to the distance from p to a.
func PointToSegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return p.Dist(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = max(0, min(1, t))
	return p.Dist(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
