package geometry

import (
	"math"
	"slices"
)

// FillPolygon rasterises the polygon through points onto a row-major
// width x height canvas, writing color into every covered cell.
//
// The interior is filled with an even-odd scanline pass and the edges are
// then traced with Bresenham lines so thin outlines stay connected.
// Coordinates are truncated toward zero; cells outside the canvas are skipped.
func FillPolygon(canvas []uint32, width, height int, points []Point, color uint32) {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return
	}

	yMin, yMax := math.MaxInt, math.MinInt
	for _, p := range points {
		yMin = min(yMin, int(p.Y))
		yMax = max(yMax, int(p.Y))
	}
	yMin = max(0, min(yMin, height-1))
	yMax = max(0, min(yMax, height-1))

	closed := append(slices.Clone(points), points[0])
	var xs []int

	for y := yMin; y <= yMax; y++ {
		fy := float64(y)
		xs = xs[:0]
		for i := 0; i < len(closed)-1; i++ {
			p0, p1 := closed[i], closed[i+1]
			if !((p0.Y <= fy && p1.Y >= fy) || (p1.Y <= fy && p0.Y >= fy)) {
				continue
			}
			switch {
			case p0.Y == p1.Y:
				xs = append(xs, int(p0.X), int(p1.X))
			case p0.Y == fy || p1.Y == fy:
				if p1.Y > fy {
					xs = append(xs, int(p0.X))
				}
				if p0.Y > fy {
					xs = append(xs, int(p1.X))
				}
			default:
				t := (fy - p0.Y) / (p1.Y - p0.Y)
				xs = append(xs, int(math.Round(p0.X+t*(p1.X-p0.X))))
			}
		}

		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := min(xs[i], width)
			to := min(xs[i+1], width-1)
			if from >= width || to < 0 {
				continue
			}
			from, to = max(from, 0), max(to, 0)
			for x := from; x <= to; x++ {
				canvas[y*width+x] = color
			}
		}
	}

	for i := 0; i < len(closed)-1; i++ {
		drawLine(canvas, width, height, closed[i], closed[i+1], color)
	}
}

// DrawOutline traces the closed outline through points onto a row-major
// width x height canvas without filling the interior.
func DrawOutline(canvas []uint32, width, height int, points []Point, color uint32) {
	for i := range points {
		drawLine(canvas, width, height, points[i], points[(i+1)%len(points)], color)
	}
}

func drawLine(canvas []uint32, width, height int, start, end Point, color uint32) {
	x0, y0 := int(start.X), int(start.Y)
	x1, y1 := int(end.X), int(end.Y)

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy

	x, y := x0, y0
	for {
		if x >= 0 && x < width && y >= 0 && y < height {
			canvas[y*width+x] = color
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawPoints fills the polygon through points on a canvas sized to its
// bounding box plus one pixel and pad pixels on every side. The polygon is
// shifted so its bounding box starts at (pad, pad).
//
// It returns the canvas and its width and height.
func DrawPoints(points []Point, pad int) ([]uint32, int, int) {
	if len(points) == 0 {
		return nil, 0, 0
	}
	minX, minY, maxX, maxY := Bounds(points)
	w, h := maxX-minX, maxY-minY
	p := float64(pad)

	shifted := make([]Point, len(points))
	for i, pt := range points {
		shifted[i] = Point{X: math.Round(pt.X - minX + p), Y: math.Round(pt.Y - minY + p)}
	}

	cw := int(w + 1 + 2*p)
	ch := int(h + 1 + 2*p)
	canvas := make([]uint32, cw*ch)
	FillPolygon(canvas, cw, ch, shifted, 1)
	return canvas, cw, ch
}

// DrawCenteredPoints scales the polygon to fit a width x height canvas
// inset by pad, centres it, and fills it with color.
func DrawCenteredPoints(width, height int, points []Point, color uint32, pad int) []uint32 {
	canvas := make([]uint32, width*height)
	if len(points) == 0 {
		return canvas
	}

	drawW := float64(width - 2*pad)
	drawH := float64(height - 2*pad)
	minX, minY, maxX, maxY := Bounds(points)
	boxW, boxH := maxX-minX, maxY-minY

	scale := math.Min(drawW/boxW, drawH/boxH)
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}
	offX := (drawW-boxW*scale)/2 - minX*scale + float64(pad)
	offY := (drawH-boxH*scale)/2 - minY*scale + float64(pad)

	transformed := make([]Point, len(points))
	for i, p := range points {
		transformed[i] = Point{X: p.X*scale + offX, Y: p.Y*scale + offY}
	}
	FillPolygon(canvas, width, height, transformed, color)
	return canvas
}
