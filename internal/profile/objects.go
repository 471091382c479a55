package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/detection"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/measure"
)

// ErrSizeMismatch is returned when a mask and its image differ in size.
var ErrSizeMismatch = errors.New("mask and image are not the same size")

// Settings control how objects are cropped and which descriptors are kept.
type Settings struct {
	Mode         string
	Pad          int
	MinSize      int
	DropBorders  bool
	ResampleForm int
}

// Objects holds the rows measured for one image. IDs[i] is the index of
// the object in its segment file and Values[i] its descriptor row.
type Objects struct {
	IDs    []int
	Values [][]float64
}

// Len returns the number of measured objects.
func (o *Objects) Len() int { return len(o.IDs) }

// objectMask returns the binary mask of object idx sized to a w x h crop.
type objectMask func(idx, x, y, w, h int) (buffer.View[uint32], error)

func (s Settings) has(letter string) bool { return strings.Contains(s.Mode, letter) }

// ProfileBoxes measures every box of img. Only the x and c letters apply.
func ProfileBoxes(img buffer.Image, boxes *geometry.BoundingBoxes, s Settings) (*Objects, error) {
	return s.profile(img, boxes, nil, nil)
}

// ProfilePolygons measures every polygon of img. The object mask used for
// the f, b and m letters is the polygon filled and centred in the padded
// crop.
func ProfilePolygons(img buffer.Image, polygons *geometry.Polygons, s Settings) (*Objects, error) {
	points := polygons.Polygons()
	draw := func(idx, _, _, w, h int) (buffer.View[uint32], error) {
		canvas := geometry.DrawCenteredPoints(w, h, points[idx], 1, s.Pad)
		m, err := detection.NewMask(w, h, canvas)
		if err != nil {
			return buffer.View[uint32]{}, err
		}
		return m.View(), nil
	}
	return s.profile(img, polygons.BoundingBoxes(), s.forms(polygons), draw)
}

// ProfileMask labels mask, traces its objects and measures each of them
// on img. mask is relabeled in place when it is binary.
func ProfileMask(img buffer.Image, mask *detection.Mask, s Settings) (*Objects, error) {
	if img.Width() != mask.Width() || img.Height() != mask.Height() {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrSizeMismatch, img.Width(), img.Height(), mask.Width(), mask.Height())
	}

	labels, polygons, err := mask.Polygons()
	if err != nil {
		return nil, err
	}
	crop := func(idx, x, y, w, h int) (buffer.View[uint32], error) {
		m, err := mask.CropBinary(x, y, w, h, labels[idx])
		if err != nil {
			return buffer.View[uint32]{}, err
		}
		return m.View(), nil
	}
	return s.profile(img, polygons.BoundingBoxes(), s.forms(polygons), crop)
}

// forms returns the form descriptors of every polygon when the p letter is
// set. The polygons themselves are left untouched.
func (s Settings) forms(polygons *geometry.Polygons) [][geometry.FormCount]float64 {
	if !s.has("p") {
		return nil
	}
	cp := polygons.Clone()
	if s.ResampleForm > 2 {
		cp.ResamplePoints(s.ResampleForm)
	}
	return cp.Descriptors()
}

func (s Settings) profile(img buffer.Image, boxes *geometry.BoundingBoxes, forms [][geometry.FormCount]float64, maskOf objectMask) (*Objects, error) {
	width, height := img.Width(), img.Height()
	out := &Objects{}

	for idx, box := range boxes.Boxes() {
		x, y, w, h, border := box.Pad(float64(s.Pad), width, height)
		if s.DropBorders && border {
			continue
		}
		if w < s.MinSize || h < s.MinSize {
			continue
		}

		row, err := s.measureObject(img, idx, measure.Region{X: x, Y: y, Width: w, Height: h}, forms, maskOf)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", idx, err)
		}
		out.IDs = append(out.IDs, idx)
		out.Values = append(out.Values, row)
	}
	return out, nil
}

func (s Settings) measureObject(img buffer.Image, idx int, r measure.Region, forms [][geometry.FormCount]float64, maskOf objectMask) ([]float64, error) {
	row := make([]float64, 0, len(Columns(s.Mode)))

	if s.has("x") {
		row = append(row, float64(r.Width), float64(r.Height), float64(r.Width*r.Height))
	}
	if s.has("p") && forms != nil {
		row = append(row, forms[idx][:]...)
	}
	if s.has("c") {
		d, err := measure.MeasureRegion(img, r)
		if err != nil {
			return nil, err
		}
		row = append(row, d[:]...)
	}

	if maskOf == nil || !(s.has("f") || s.has("b") || s.has("m")) {
		return row, nil
	}
	mask, err := maskOf(idx, r.X, r.Y, r.Width, r.Height)
	if err != nil {
		return nil, err
	}

	for _, side := range []struct {
		letter string
		style  buffer.MaskingStyle
	}{{"f", buffer.Foreground}, {"b", buffer.Background}} {
		if !s.has(side.letter) {
			continue
		}
		d, err := measure.MeasureMasked(img, r, mask, side.style)
		if err != nil {
			return nil, err
		}
		row = append(row, d[:]...)
	}
	if s.has("m") {
		d := measure.MaskDescriptors(mask)
		row = append(row, d[:]...)
	}
	return row, nil
}
