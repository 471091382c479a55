package detection

import (
	"slices"
	"testing"

	"github.com/ironsheep/object-measure/internal/geometry"
)

func pts(xy ...[2]float64) []geometry.Point {
	out := make([]geometry.Point, len(xy))
	for i, p := range xy {
		out[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return out
}

func gridMask(width, height int, set map[int]uint32) []uint32 {
	buf := make([]uint32, width*height)
	for i, v := range set {
		buf[i] = v
	}
	return buf
}

func assertContours(t *testing.T, got, want [][]geometry.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d contours, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("contour %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindContours_Example(t *testing.T) {
	got := FindContours(3, 3, []uint32{12, 12, 0, 12, 12, 0, 0, 0, 0}, 0, Greater)
	assertContours(t, got, [][]geometry.Point{
		pts([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 1}, [2]float64{1, 0}),
	})
}

func TestFindContours_SinglePixels(t *testing.T) {
	buf := gridMask(3, 3, map[int]uint32{0: 1, 2: 1, 6: 1, 8: 1})

	got := FindContours(3, 3, buf, 0, Greater)
	assertContours(t, got, [][]geometry.Point{
		pts([2]float64{0, 0}),
		pts([2]float64{2, 0}),
		pts([2]float64{0, 2}),
		pts([2]float64{2, 2}),
	})
}

func TestFindContours_FourBlocks(t *testing.T) {
	buf := gridMask(5, 5, map[int]uint32{
		0: 1, 1: 1, 5: 1, 6: 1,
		3: 1, 4: 1, 8: 1, 9: 1,
		15: 2, 16: 2, 20: 2, 21: 2,
		18: 3, 19: 3, 23: 3, 24: 3,
	})

	got := FindContours(5, 5, buf, 0, Greater)
	assertContours(t, got, [][]geometry.Point{
		pts([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 1}, [2]float64{1, 0}),
		pts([2]float64{3, 0}, [2]float64{3, 1}, [2]float64{4, 1}, [2]float64{4, 0}),
		pts([2]float64{0, 3}, [2]float64{0, 4}, [2]float64{1, 4}, [2]float64{1, 3}),
		pts([2]float64{3, 3}, [2]float64{3, 4}, [2]float64{4, 4}, [2]float64{4, 3}),
	})
}

func TestFindContours_ThreeRegions(t *testing.T) {
	buf := gridMask(3, 3, map[int]uint32{0: 1, 2: 1, 6: 1, 7: 1, 8: 1})

	got := FindContours(3, 3, buf, 0, Greater)
	assertContours(t, got, [][]geometry.Point{
		pts([2]float64{0, 0}),
		pts([2]float64{2, 0}),
		pts([2]float64{0, 2}, [2]float64{1, 2}, [2]float64{2, 2}, [2]float64{1, 2}),
	})
}

func twoSquares() []uint32 {
	buf := make([]uint32, 100)
	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			switch {
			case i < 4 && j < 4:
				buf[j*10+i] = 1
			case i >= 6 && j >= 6:
				buf[j*10+i] = 2
			}
		}
	}
	return buf
}

func squareRing(x0, y0, x1, y1 float64) []geometry.Point {
	var out []geometry.Point
	for y := y0; y <= y1; y++ {
		out = append(out, geometry.Point{X: x0, Y: y})
	}
	for x := x0 + 1; x <= x1; x++ {
		out = append(out, geometry.Point{X: x, Y: y1})
	}
	for y := y1 - 1; y >= y0; y-- {
		out = append(out, geometry.Point{X: x1, Y: y})
	}
	for x := x1 - 1; x > x0; x-- {
		out = append(out, geometry.Point{X: x, Y: y0})
	}
	return out
}

func TestFindContours_TwoSquares(t *testing.T) {
	got := FindContours(10, 10, twoSquares(), 0, Greater)
	assertContours(t, got, [][]geometry.Point{
		squareRing(0, 0, 3, 3),
		squareRing(6, 6, 9, 9),
	})
}

func TestFindContours_TouchingSquares(t *testing.T) {
	buf := make([]uint32, 100)
	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			if i < 5 {
				buf[j*10+i] = 1
			} else {
				buf[j*10+i] = 2
			}
		}
	}

	if got := FindContours(10, 10, buf, 0, Greater); len(got) != 1 {
		t.Errorf("touching squares traced as %d contours, want 1", len(got))
	}

	labels, got := FindLabeledContours(10, 10, buf, []uint32{1, 2})
	if !slices.Equal(labels, []uint32{1, 2}) {
		t.Errorf("labels = %v, want [1 2]", labels)
	}
	assertContours(t, got, [][]geometry.Point{
		squareRing(0, 0, 4, 9),
		squareRing(5, 0, 9, 9),
	})
}

func TestFindLabeledContours_Example(t *testing.T) {
	labels, got := FindLabeledContours(3, 3, []uint32{12, 12, 0, 12, 0, 10, 0, 10, 10}, []uint32{10, 12})

	if !slices.Equal(labels, []uint32{10, 12}) {
		t.Errorf("labels = %v, want [10 12]", labels)
	}
	assertContours(t, got, [][]geometry.Point{
		pts([2]float64{2, 1}, [2]float64{1, 2}, [2]float64{2, 2}),
		pts([2]float64{0, 0}, [2]float64{0, 1}, [2]float64{1, 0}),
	})
}

func TestFindLabeledContours_DropsSmall(t *testing.T) {
	buf := gridMask(3, 3, map[int]uint32{0: 4, 8: 5, 7: 5, 5: 5})

	labels, got := FindLabeledContours(3, 3, buf, []uint32{4, 5})
	if !slices.Equal(labels, []uint32{5}) {
		t.Errorf("labels = %v, want [5]", labels)
	}
	if len(got) != 1 || len(got[0]) <= 2 {
		t.Errorf("contours = %v", got)
	}
}

func TestTraceBorders_Hole(t *testing.T) {
	// 5x5 ring with a one-pixel hole in the middle
	buf := make([]uint32, 25)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			if x != 2 || y != 2 {
				buf[y*5+x] = 1
			}
		}
	}

	borders := TraceBorders(5, 5, buf, 0, Greater)
	var outer, holes int
	for _, b := range borders {
		switch b.BorderType {
		case Outer:
			outer++
		case Hole:
			holes++
		}
	}
	if outer != 1 || holes != 1 {
		t.Errorf("outer=%d holes=%d, want 1 and 1", outer, holes)
	}

	if got := FindContours(5, 5, buf, 0, Greater); len(got) != 1 {
		t.Errorf("FindContours kept %d contours, want the outer ring only", len(got))
	}
}
