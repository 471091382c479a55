package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/object-measure/internal/config"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/imaging"
	"github.com/ironsheep/object-measure/internal/measure"
)

// ErrMode is returned for a mode string the segment kind cannot serve.
var ErrMode = errors.New("invalid mode")

// Segments is the kind of segmentation paired with each image.
type Segments int

const (
	Boxes Segments = iota
	Polygons
	Masks
)

// String returns "boxes", "polygons" or "mask".
func (s Segments) String() string {
	switch s {
	case Boxes:
		return "boxes"
	case Polygons:
		return "polygons"
	}
	return "mask"
}

// ParseSegments maps a command name to its Segments kind.
func ParseSegments(name string) (Segments, error) {
	switch strings.ToLower(name) {
	case "boxes", "box", "bbox":
		return Boxes, nil
	case "polygons", "polygon":
		return Polygons, nil
	case "mask", "masks":
		return Masks, nil
	}
	return 0, fmt.Errorf("unknown segment kind %q", name)
}

// Letters returns the mode letters the kind supports. Boxes carry no shape,
// so only the complete crop and the box size are available.
func (s Segments) Letters() string {
	if s == Boxes {
		return "cx"
	}
	return config.ModeLetters
}

// Extensions returns the segment file extensions discovered for the kind.
func (s Segments) Extensions() []string {
	if s == Masks {
		return imaging.SupportedExtensions
	}
	return []string{".json"}
}

// ValidateMode checks mode against the letters the kind supports.
func (s Segments) ValidateMode(mode string) error {
	if err := config.ValidateMode(mode); err != nil {
		return fmt.Errorf("%w: %v", ErrMode, err)
	}
	allowed := s.Letters()
	for _, r := range mode {
		if !strings.ContainsRune(allowed, r) {
			return fmt.Errorf("%w: %s profiles accept only %q, got %q", ErrMode, s, allowed, mode)
		}
	}
	return nil
}

// RestrictMode drops the letters of mode the kind cannot produce. When none
// remain it falls back to "c".
func (s Segments) RestrictMode(mode string) string {
	allowed := s.Letters()
	var b strings.Builder
	for _, r := range mode {
		if strings.ContainsRune(allowed, r) && !strings.ContainsRune(b.String(), r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "c"
	}
	return b.String()
}

// BoxNames are the columns written for mode letter x.
var BoxNames = []string{"bbox_width", "bbox_height", "bbox_area"}

// Columns returns the descriptor column names for mode in the order object
// rows are written: x, p, c, f, b, m. Letters may appear in any order or
// more than once in mode.
func Columns(mode string) []string {
	var names []string
	if strings.Contains(mode, "x") {
		names = append(names, BoxNames...)
	}
	if strings.Contains(mode, "p") {
		names = append(names, geometry.FormNames[:]...)
	}
	if strings.Contains(mode, "c") {
		names = append(names, measure.ViewNames("complete_")...)
	}
	if strings.Contains(mode, "f") {
		names = append(names, measure.ViewNames("foreground_")...)
	}
	if strings.Contains(mode, "b") {
		names = append(names, measure.ViewNames("background_")...)
	}
	if strings.Contains(mode, "m") {
		names = append(names, measure.MaskNames("mask_")...)
	}
	return names
}
