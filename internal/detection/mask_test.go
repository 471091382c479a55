package detection

import (
	"errors"
	"slices"
	"testing"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/geometry"
)

func TestMask_LabelBinary(t *testing.T) {
	data := make([]uint32, 100)
	for _, i := range []int{5, 25, 45, 65, 85} {
		data[i] = 1
	}
	m, err := NewMask(10, 10, data)
	if err != nil {
		t.Fatalf("NewMask failed: %v", err)
	}

	if got := m.Label(); !slices.Equal(got, []uint32{1, 2, 3, 4, 5}) {
		t.Errorf("Label() = %v, want [1 2 3 4 5]", got)
	}
	if m.At(5, 2, 0) != 2 {
		t.Errorf("pixel (5,2) relabeled to %d, want 2", m.At(5, 2, 0))
	}
}

func TestMask_LabelInstance(t *testing.T) {
	data := []uint32{7, 7, 0, 0, 0, 0, 7, 0, 3}
	m, _ := NewMask(3, 3, data)

	// more than one distinct value is kept as is
	if got := m.Label(); !slices.Equal(got, []uint32{3, 7}) {
		t.Errorf("Label() = %v, want [3 7]", got)
	}
	if !slices.Equal(m.Raw(), []uint32{7, 7, 0, 0, 0, 0, 7, 0, 3}) {
		t.Errorf("instance mask was modified: %v", m.Raw())
	}
}

func TestMask_Polygons(t *testing.T) {
	m, _ := NewMask(10, 10, twoSquares())

	labels, polygons, err := m.Polygons()
	if err != nil {
		t.Fatalf("Polygons failed: %v", err)
	}
	if !slices.Equal(labels, []uint32{1, 2}) {
		t.Errorf("labels = %v, want [1 2]", labels)
	}
	if polygons.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", polygons.Len())
	}

	boxes := polygons.BoundingBoxes().XYXY()
	want := [][4]float64{{0, 0, 3, 3}, {6, 6, 9, 9}}
	if !slices.Equal(boxes, want) {
		t.Errorf("boxes = %v, want %v", boxes, want)
	}
}

func TestMask_PolygonsBinary(t *testing.T) {
	data := twoSquares()
	for i := range data {
		if data[i] != 0 {
			data[i] = 255
		}
	}
	m, _ := NewMask(10, 10, data)

	labels, polygons, err := m.Polygons()
	if err != nil {
		t.Fatalf("Polygons failed: %v", err)
	}
	if len(labels) != 2 || polygons.Len() != 2 {
		t.Errorf("got %d labels and %d polygons, want 2 and 2", len(labels), polygons.Len())
	}
}

func TestMask_CropBinary(t *testing.T) {
	m, _ := NewMask(2, 2, []uint32{0, 1, 2, 3})

	crop, err := m.CropBinary(0, 0, 2, 2, 1)
	if err != nil {
		t.Fatalf("CropBinary failed: %v", err)
	}
	if !slices.Equal(crop.Raw(), []uint32{0, 1, 0, 0}) {
		t.Errorf("CropBinary() = %v, want [0 1 0 0]", crop.Raw())
	}

	sub, err := m.CropBinary(1, 1, 1, 1, 3)
	if err != nil {
		t.Fatalf("CropBinary failed: %v", err)
	}
	if !slices.Equal(sub.Raw(), []uint32{1}) {
		t.Errorf("CropBinary(1,1,1,1) = %v, want [1]", sub.Raw())
	}

	if _, err := m.CropBinary(1, 1, 2, 2, 1); !errors.Is(err, buffer.ErrRegionBounds) {
		t.Errorf("out of bounds: got %v, want ErrRegionBounds", err)
	}
}

func TestMaskFromBuffer(t *testing.T) {
	if _, err := MaskFromBuffer(buffer.Zeros[uint32](2, 2, 3)); !errors.Is(err, ErrMaskChannels) {
		t.Errorf("three channels: got %v, want ErrMaskChannels", err)
	}
	if _, err := MaskFromBuffer(buffer.Zeros[uint32](2, 2, 1)); err != nil {
		t.Errorf("one channel: %v", err)
	}
}

func TestMask_Binary(t *testing.T) {
	m, _ := NewMask(2, 2, []uint32{0, 4, 4, 9})

	if got := m.Binary(4); !slices.Equal(got, []uint8{0, 255, 255, 0}) {
		t.Errorf("Binary(4) = %v", got)
	}
	if got := m.Foreground(); !slices.Equal(got, []uint8{0, 255, 255, 255}) {
		t.Errorf("Foreground() = %v", got)
	}
}

func TestMaskFromPolygons(t *testing.T) {
	squares := [][]geometry.Point{
		pts([2]float64{0, 0}, [2]float64{3, 0}, [2]float64{3, 3}, [2]float64{0, 3}),
		pts([2]float64{6, 6}, [2]float64{9, 6}, [2]float64{9, 9}, [2]float64{6, 9}),
	}
	m := MaskFromPolygons(10, 10, squares)

	if got := m.Labels(); !slices.Equal(got, []uint32{1, 2}) {
		t.Errorf("Labels() = %v, want [1 2]", got)
	}
	if !slices.Equal(m.Raw(), twoSquares()) {
		t.Errorf("rasterised mask differs from expected squares")
	}
}
