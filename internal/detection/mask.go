package detection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/geometry"
)

// ErrMaskChannels is returned when a mask is built from a buffer with more
// than one channel.
var ErrMaskChannels = errors.New("mask must have exactly one channel")

// Mask is a single-channel uint32 segmentation raster. Zero is background.
type Mask struct {
	*buffer.Buffer[uint32]
}

// NewMask wraps row-major label data of size width x height.
func NewMask(width, height int, data []uint32) (*Mask, error) {
	b, err := buffer.New(width, height, 1, data)
	if err != nil {
		return nil, err
	}
	return &Mask{Buffer: b}, nil
}

// MaskFromBuffer wraps an existing single-channel buffer without copying.
func MaskFromBuffer(b *buffer.Buffer[uint32]) (*Mask, error) {
	if b.Channels() != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMaskChannels, b.Channels())
	}
	return &Mask{Buffer: b}, nil
}

// Labels returns the sorted distinct nonzero values of the mask.
func (m *Mask) Labels() []uint32 {
	seen := make(map[uint32]struct{})
	for _, v := range m.Raw() {
		if v != 0 {
			seen[v] = struct{}{}
		}
	}
	labels := make([]uint32, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	slices.Sort(labels)
	return labels
}

// Label returns the object labels of the mask. A mask holding a single
// nonzero value is treated as binary and relabeled in place with
// ConnectedComponents first; any other mask is treated as already labeled.
//
// Relabeled values are unique per object but not contiguous.
func (m *Mask) Label() []uint32 {
	labels := m.Labels()
	if len(labels) != 1 {
		return labels
	}
	copy(m.Raw(), ConnectedComponents(m.Width(), m.Height(), m.Raw()))
	return m.Labels()
}

// Polygons labels the mask and traces the outer contour of every object.
// Objects whose contour has two or fewer points are dropped. The returned
// labels line up with the returned polygons.
func (m *Mask) Polygons() ([]uint32, *geometry.Polygons, error) {
	labels := m.Label()
	retained, contours := FindLabeledContours(m.Width(), m.Height(), m.Raw(), labels)
	polygons, err := geometry.NewPolygons(contours)
	if err != nil {
		return nil, nil, err
	}
	return retained, polygons, nil
}

// CropBinary copies the region (x, y, w, h) into a new mask holding 1 where
// the source equals label and 0 elsewhere.
func (m *Mask) CropBinary(x, y, w, h int, label uint32) (*Mask, error) {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > m.Width() || y+h > m.Height() {
		return nil, fmt.Errorf("%w: (%d,%d,%d,%d) in %dx%d mask",
			buffer.ErrRegionBounds, x, y, w, h, m.Width(), m.Height())
	}

	out := make([]uint32, 0, w*h)
	view := m.CropView(x, y, w, h)
	view.EachSubpixel(func(v uint32) {
		if v == label {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	})
	return NewMask(w, h, out)
}

// Binary returns an 8-bit raster holding 255 where the mask equals label
// and 0 elsewhere.
func (m *Mask) Binary(label uint32) []uint8 {
	out := make([]uint8, m.Len())
	for i, v := range m.Raw() {
		if v == label {
			out[i] = 255
		}
	}
	return out
}

// Foreground returns an 8-bit raster holding 255 for every nonzero pixel.
func (m *Mask) Foreground() []uint8 {
	out := make([]uint8, m.Len())
	for i, v := range m.Raw() {
		if v != 0 {
			out[i] = 255
		}
	}
	return out
}

// MaskFromPolygons rasterises each polygon into a width x height mask with
// label i+1 for polygon i. Later polygons overwrite earlier ones where they
// overlap.
func MaskFromPolygons(width, height int, polygons [][]geometry.Point) *Mask {
	data := make([]uint32, width*height)
	for i, p := range polygons {
		geometry.FillPolygon(data, width, height, p, uint32(i+1))
	}
	m, _ := NewMask(width, height, data)
	return m
}
