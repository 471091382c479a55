package geometry

import "math"

// FormCount is the number of form descriptors returned by Descriptors.
const FormCount = 23

// FormNames lists the form descriptor names in the order Descriptors
// returns them.
var FormNames = [FormCount]string{
	"form_centroid_x",
	"form_centroid_y",
	"form_center_x",
	"form_center_y",
	"form_area",
	"form_area_bbox",
	"form_area_convex",
	"form_perimeter",
	"form_elongation",
	"form_thread_length",
	"form_thread_width",
	"form_solidity",
	"form_extent",
	"form_form_factor",
	"form_equivalent_diameter",
	"form_eccentricity",
	"form_major_axis",
	"form_minor_axis",
	"form_minimum_radius",
	"form_maximum_radius",
	"form_mean_radius",
	"form_min_feret",
	"form_max_feret",
}

// safeDiv returns a/b, or 0 when the result is not finite.
func safeDiv(a, b float64) float64 {
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// shoelace returns twice the signed area of an open ring together with the
// first moments sx and sy that place its centroid at (sx/3a2, sy/3a2).
func shoelace(ring []Point) (a2, sx, sy float64) {
	n := len(ring)
	for i := 0; i < n; i++ {
		p, q := ring[i], ring[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		a2 += cross
		sx += (p.X + q.X) * cross
		sy += (p.Y + q.Y) * cross
	}
	return a2, sx, sy
}

// signedArea returns twice the signed shoelace area of an open ring.
func signedArea(ring []Point) float64 {
	a2, _, _ := shoelace(ring)
	return a2
}

func centroid(ring []Point, a2, sx, sy float64) Point {
	if a2 == 0 {
		return Center(ring)
	}
	return Point{X: sx / (3 * a2), Y: sy / (3 * a2)}
}

// Area returns the enclosed area of the outline.
func Area(points []Point) float64 {
	return math.Abs(signedArea(openRing(points))) / 2
}

// AreaBBox returns the area of the axis-aligned bounding box.
func AreaBBox(points []Point) float64 {
	minX, minY, maxX, maxY := Bounds(points)
	return (maxX - minX) * (maxY - minY)
}

// AreaConvex returns the area of the convex hull.
func AreaConvex(points []Point) float64 {
	return Area(ConvexHull(openRing(points)))
}

// Perimeter returns the length of the outline, including the closing edge.
func Perimeter(points []Point) float64 {
	ring := openRing(points)
	n := len(ring)
	if n < 2 {
		return 0
	}
	var p float64
	for i := 0; i < n; i++ {
		p += ring[i].Dist(ring[(i+1)%n])
	}
	return p
}

// Centroid returns the area-weighted centre of the outline. Outlines with
// zero area fall back to the vertex mean.
func Centroid(points []Point) Point {
	ring := openRing(points)
	a2, sx, sy := shoelace(ring)
	return centroid(ring, a2, sx, sy)
}

// Center returns the mean of the outline's distinct vertices.
func Center(points []Point) Point {
	ring := openRing(points)
	if len(ring) == 0 {
		return Point{}
	}
	n := float64(len(ring))
	var c Point
	for _, p := range ring {
		c.X += p.X
		c.Y += p.Y
	}
	return Point{X: c.X / n, Y: c.Y / n}
}

// Elongation returns the bounding box aspect ratio folded into [0, 1].
func Elongation(points []Point) float64 {
	minX, minY, maxX, maxY := Bounds(points)
	return elongation(maxX-minX, maxY-minY)
}

func elongation(w, h float64) float64 {
	e := safeDiv(w, h)
	if e > 1 {
		e = 1 / e
	}
	return e
}

func threadLength(area, perimeter float64) float64 {
	left := perimeter * perimeter
	right := 16 * area
	coeff := 0.0
	if left > right {
		coeff = math.Sqrt(left - right)
	}
	return (perimeter + coeff) / 4
}

// ThreadLength returns the length of the thread-like rectangle with the
// outline's area and perimeter.
func ThreadLength(points []Point) float64 {
	return threadLength(Area(points), Perimeter(points))
}

// ThreadWidth returns the area divided by the thread length.
func ThreadWidth(points []Point) float64 {
	area := Area(points)
	return safeDiv(area, threadLength(area, Perimeter(points)))
}

// Solidity returns area / convex hull area.
func Solidity(points []Point) float64 {
	return safeDiv(Area(points), AreaConvex(points))
}

// Extent returns area / bounding box area.
func Extent(points []Point) float64 {
	return safeDiv(Area(points), AreaBBox(points))
}

// FormFactor returns 4*pi*area / perimeter^2.
func FormFactor(points []Point) float64 {
	p := Perimeter(points)
	return safeDiv(4*math.Pi*Area(points), p*p)
}

// EquivalentDiameter returns the diameter of the circle with the same area.
func EquivalentDiameter(points []Point) float64 {
	return 2 * math.Sqrt(Area(points)/math.Pi)
}

// Eccentricity returns the eccentricity of the best fitting ellipse.
func Eccentricity(points []Point) float64 {
	return FitEllipse(points).Eccentricity
}

// MajorAxisLength returns the major axis of the best fitting ellipse.
func MajorAxisLength(points []Point) float64 {
	return FitEllipse(points).Major
}

// MinorAxisLength returns the minor axis of the best fitting ellipse.
func MinorAxisLength(points []Point) float64 {
	return FitEllipse(points).Minor
}

func minRadius(ring []Point, c Point) float64 {
	n := len(ring)
	if n == 0 {
		return 0
	}
	r := math.Inf(1)
	for i := 0; i < n; i++ {
		r = min(r, PointToSegmentDistance(c, ring[i], ring[(i+1)%n]))
	}
	return r
}

// MinRadius returns the shortest distance from the centroid to an edge.
func MinRadius(points []Point) float64 {
	ring := openRing(points)
	return minRadius(ring, Centroid(ring))
}

func maxMeanRadius(ring []Point, c Point) (float64, float64) {
	if len(ring) == 0 {
		return 0, 0
	}
	var maxR, sum float64
	for _, p := range ring {
		d := c.Dist(p)
		maxR = max(maxR, d)
		sum += d
	}
	return maxR, sum / float64(len(ring))
}

// MaxRadius returns the largest distance from the centroid to a vertex.
func MaxRadius(points []Point) float64 {
	ring := openRing(points)
	r, _ := maxMeanRadius(ring, Centroid(ring))
	return r
}

// MeanRadius returns the mean distance from the centroid to the vertices.
func MeanRadius(points []Point) float64 {
	ring := openRing(points)
	_, r := maxMeanRadius(ring, Centroid(ring))
	return r
}

// MinFeret returns the minimum caliper width. For every edge the largest
// perpendicular distance of any vertex from the edge's line is taken, and
// the smallest of those above float32 epsilon is returned.
func MinFeret(points []Point) float64 {
	ring := openRing(points)
	n := len(ring)
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		p1, p2 := ring[i], ring[(i+1)%n]
		ex, ey := p2.X-p1.X, p2.Y-p1.Y
		norm := math.Hypot(ex, ey)
		if norm == 0 {
			continue
		}
		var far float64
		for _, q := range ring {
			d := math.Abs(ex*(q.Y-p1.Y)-ey*(q.X-p1.X)) / norm
			far = max(far, d)
		}
		if far > float32Epsilon && far < best {
			best = far
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// MaxFeret returns the maximum caliper width, the longest projection of the
// outline onto the direction between any two vertices.
func MaxFeret(points []Point) float64 {
	ring := openRing(points)
	return maxFeret(ring, ConvexHull(ring))
}

// maxFeret measures projections over the hull only; the extremes of a
// projection are always hull vertices.
func maxFeret(ring, hull []Point) float64 {
	n := len(ring)
	var best float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx, dy := ring[j].X-ring[i].X, ring[j].Y-ring[i].Y
			if dx == 0 && dy == 0 {
				continue
			}
			norm := math.Hypot(dx, dy)
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, q := range hull {
				proj := ((q.X-ring[i].X)*dx + (q.Y-ring[i].Y)*dy) / norm
				lo = min(lo, proj)
				hi = max(hi, proj)
			}
			best = max(best, hi-lo)
		}
	}
	return best
}

// Descriptors computes all form descriptors of an outline in FormNames
// order. Closed and open outlines give identical results.
func Descriptors(points []Point) [FormCount]float64 {
	var out [FormCount]float64
	ring := openRing(points)
	if len(ring) == 0 {
		return out
	}

	a2, sx, sy := shoelace(ring)
	area := math.Abs(a2) / 2
	minX, minY, maxX, maxY := Bounds(ring)
	w, h := maxX-minX, maxY-minY
	areaBBox := w * h
	hull := ConvexHull(ring)
	areaConvex := Area(hull)
	perimeter := Perimeter(ring)
	c := centroid(ring, a2, sx, sy)
	center := Center(ring)
	thread := threadLength(area, perimeter)
	ellipse := FitEllipse(ring)
	maxR, meanR := maxMeanRadius(ring, c)

	out[0] = c.X
	out[1] = c.Y
	out[2] = center.X
	out[3] = center.Y
	out[4] = area
	out[5] = areaBBox
	out[6] = areaConvex
	out[7] = perimeter
	out[8] = elongation(w, h)
	out[9] = thread
	out[10] = safeDiv(area, thread)
	out[11] = safeDiv(area, areaConvex)
	out[12] = safeDiv(area, areaBBox)
	out[13] = safeDiv(4*math.Pi*area, perimeter*perimeter)
	out[14] = 2 * math.Sqrt(area/math.Pi)
	out[15] = ellipse.Eccentricity
	out[16] = ellipse.Major
	out[17] = ellipse.Minor
	out[18] = minRadius(ring, c)
	out[19] = maxR
	out[20] = meanR
	out[21] = MinFeret(ring)
	out[22] = maxFeret(ring, hull)
	return out
}
