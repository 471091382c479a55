package detection

import "github.com/ironsheep/object-measure/internal/geometry"

// Comparison selects how a mask value is tested against the threshold when
// deciding whether a pixel is foreground.
type Comparison int

const (
	// Greater marks pixels with value > threshold.
	Greater Comparison = iota
	// Equal marks pixels with value == threshold.
	Equal
	// Less marks pixels with value < threshold.
	Less
)

func (c Comparison) match(v, threshold uint32) bool {
	switch c {
	case Greater:
		return v > threshold
	case Equal:
		return v == threshold
	case Less:
		return v < threshold
	}
	return false
}

// BorderType distinguishes the outer border of a region from a hole border.
type BorderType int

const (
	Outer BorderType = iota
	Hole
)

func (b BorderType) String() string {
	if b == Hole {
		return "hole"
	}
	return "outer"
}

// Contour is one traced border.
type Contour struct {
	Points     []geometry.Point
	BorderType BorderType
	// Parent is the index of the enclosing border, or -1.
	Parent int
}

// directions lists the 8 neighbour offsets clockwise from west. Rotating
// the ring is done by changing the start offset.
var directions = [8][2]int{
	{-1, 0},  // west
	{-1, -1}, // northwest
	{0, -1},  // north
	{1, -1},  // northeast
	{1, 0},   // east
	{1, 1},   // southeast
	{0, 1},   // south
	{-1, 1},  // southwest
}

// ring is the direction table rotated to start at offset.
type ring struct {
	offset int
}

func (r *ring) rotateTo(dx, dy int) {
	for i, d := range directions {
		if d[0] == dx && d[1] == dy {
			r.offset = i
			return
		}
	}
}

func (r *ring) at(i int) [2]int {
	return directions[(r.offset+i)%8]
}

// TraceBorders follows every border of the foreground selected by
// comparing each pixel to threshold. Both outer and hole borders are
// returned in the order they were found.
func TraceBorders(width, height int, pixels []uint32, threshold uint32, cmp Comparison) []Contour {
	pw, ph := width+2, height+2
	at := func(x, y int) int { return x + pw*y }

	values := make([]int32, pw*ph)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if cmp.match(pixels[y*width+x], threshold) {
				values[at(x+1, y+1)] = 1
			}
		}
	}

	foreground := func(x, y int) bool {
		return x >= 0 && x < pw && y >= 0 && y < ph && values[at(x, y)] != 0
	}

	var (
		contours  []Contour
		dirs      ring
		borderNum int32 = 1
		parentNum int32 = 1
	)

	for y := 1; y <= height; y++ {
		for x := 1; x <= width; x++ {
			v := values[at(x, y)]
			if v == 0 {
				continue
			}

			var (
				outer    bool
				adjacent [2]int
			)
			switch {
			case v == 1 && values[at(x-1, y)] == 0:
				outer, adjacent = true, [2]int{x - 1, y}
			case v > 0 && x+1 < width && values[at(x+1, y)] == 0:
				if v > 1 {
					parentNum = v
				}
				outer, adjacent = false, [2]int{x + 1, y}
			default:
				continue
			}

			borderNum++

			kind := Hole
			if outer {
				kind = Outer
			}

			parent := -1
			if parentNum > 1 {
				idx := int(parentNum - 2)
				if (kind == Outer) != (contours[idx].BorderType == Outer) {
					parent = idx
				} else {
					parent = contours[idx].Parent
				}
			}

			curr := [2]int{x, y}
			dirs.rotateTo(adjacent[0]-curr[0], adjacent[1]-curr[1])

			pos1, found := [2]int{}, false
			for i := 0; i < 8; i++ {
				d := dirs.at(i)
				if foreground(curr[0]+d[0], curr[1]+d[1]) {
					pos1, found = [2]int{curr[0] + d[0], curr[1] + d[1]}, true
					break
				}
			}

			var points []geometry.Point
			if !found {
				points = append(points, geometry.Point{X: float64(x - 1), Y: float64(y - 1)})
				values[at(x, y)] = -borderNum
				contours = append(contours, Contour{Points: points, BorderType: kind, Parent: parent})
				continue
			}

			pos2, pos3 := pos1, curr
			for {
				points = append(points, geometry.Point{X: float64(pos3[0] - 1), Y: float64(pos3[1] - 1)})
				dirs.rotateTo(pos2[0]-pos3[0], pos2[1]-pos3[1])

				var pos4 [2]int
				for i := 7; i >= 0; i-- {
					d := dirs.at(i)
					if foreground(pos3[0]+d[0], pos3[1]+d[1]) {
						pos4 = [2]int{pos3[0] + d[0], pos3[1] + d[1]}
						break
					}
				}

				rightEdge := false
				step := [2]int{pos4[0] - pos3[0], pos4[1] - pos3[1]}
				for i := 7; i >= 0; i-- {
					d := dirs.at(i)
					if d == step {
						break
					}
					if d == [2]int{1, 0} {
						rightEdge = true
						break
					}
				}

				idx := at(pos3[0], pos3[1])
				if pos3[0]+1 == pw || rightEdge {
					values[idx] = -borderNum
				} else if values[idx] == 1 {
					values[idx] = borderNum
				}

				if pos4 == curr && pos3 == pos1 {
					break
				}
				pos2, pos3 = pos3, pos4
			}

			contours = append(contours, Contour{Points: points, BorderType: kind, Parent: parent})
		}
	}

	return contours
}

// FindContours returns the outer borders of the foreground selected by
// comparing each pixel to threshold. Hole borders are discarded.
//
// Example:
//
//	FindContours(3, 3, []uint32{12, 12, 0, 12, 12, 0, 0, 0, 0}, 0, Greater)
//	// [[[0 0] [0 1] [1 1] [1 0]]]
func FindContours(width, height int, pixels []uint32, threshold uint32, cmp Comparison) [][]geometry.Point {
	var out [][]geometry.Point
	for _, c := range TraceBorders(width, height, pixels, threshold, cmp) {
		if c.BorderType == Outer {
			out = append(out, c.Points)
		}
	}
	return out
}

// FindLabeledContours traces each label on its own and keeps its longest
// outer contour. Labels whose longest contour has two or fewer points are
// dropped; the retained labels are returned alongside their contours.
//
// Example:
//
//	FindLabeledContours(3, 3, []uint32{12, 12, 0, 12, 0, 10, 0, 10, 10}, []uint32{10, 12})
//	// [10 12], [[[2 1] [1 2] [2 2]] [[0 0] [0 1] [1 0]]]
func FindLabeledContours(width, height int, pixels []uint32, labels []uint32) ([]uint32, [][]geometry.Point) {
	retained := make([]uint32, 0, len(labels))
	contours := make([][]geometry.Point, 0, len(labels))

	for _, label := range labels {
		var longest []geometry.Point
		for _, c := range FindContours(width, height, pixels, label, Equal) {
			if len(c) >= len(longest) {
				longest = c
			}
		}
		if len(longest) > 2 {
			retained = append(retained, label)
			contours = append(contours, longest)
		}
	}
	return retained, contours
}
