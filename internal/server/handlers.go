package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/detection"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/imaging"
	"github.com/ironsheep/object-measure/internal/measure"
	"github.com/ironsheep/object-measure/internal/profile"
)

// errArguments is returned when a tool call lacks a required argument.
var errArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "measure_region").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with CodeToolFailure.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	out, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("Tool execution failed")
		return errorResponse(req.ID, CodeToolFailure, "Tool execution failed", err.Error())
	}
	log.Debug("Tool executed")

	return result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(out)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache and segments from disk as needed
//  4. Calls the appropriate measure/profile/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Segmentation
	case "mask_labels":
		return s.handleMaskLabels(args)
	case "mask_polygons":
		return s.handleMaskPolygons(args)
	case "polygons_bounding_boxes":
		return s.handlePolygonsBoundingBoxes(args)
	case "polygons_form":
		return s.handlePolygonsForm(args)

	// Measurement
	case "measure_region":
		return s.handleMeasureRegion(args)
	case "measure_objects":
		return s.handleMeasureObjects(args)
	case "descriptor_names":
		return s.handleDescriptorNames(args)

	// Visual Checks
	case "object_preview":
		return s.handleObjectPreview(args)
	case "render_overlay":
		return s.handleRenderOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Segmentation Handlers ===

type maskArgs struct {
	Path string `json:"path"`
	// Threshold > 0 binarises a grayscale image instead of reading a mask.
	Threshold int `json:"threshold"`
	// Output optionally receives the traced polygons as JSON.
	Output string `json:"output"`
}

// MaskLabelsResult lists the objects of a mask.
type MaskLabelsResult struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Binary bool     `json:"binary"`
	Count  int      `json:"count"`
	Labels []uint32 `json:"labels"`
}

// MaskPolygonsResult holds traced outlines. Labels[i] is the mask label of
// Polygons[i].
type MaskPolygonsResult struct {
	Count    int                `json:"count"`
	Labels   []uint32           `json:"labels"`
	Polygons [][]geometry.Point `json:"polygons"`
	Output   string             `json:"output,omitempty"`
}

func (s *Server) loadMask(a maskArgs) (*detection.Mask, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errArguments)
	}
	if a.Threshold <= 0 {
		return imaging.OpenMask(a.Path)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Threshold(img, uint8(min(a.Threshold, 255))), nil
}

func (s *Server) handleMaskLabels(args json.RawMessage) (interface{}, error) {
	var a maskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mask, err := s.loadMask(a)
	if err != nil {
		return nil, err
	}

	binary := len(mask.Labels()) == 1
	labels := mask.Label()
	return &MaskLabelsResult{
		Width:  mask.Width(),
		Height: mask.Height(),
		Binary: binary,
		Count:  len(labels),
		Labels: labels,
	}, nil
}

func (s *Server) handleMaskPolygons(args json.RawMessage) (interface{}, error) {
	var a maskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mask, err := s.loadMask(a)
	if err != nil {
		return nil, err
	}

	labels, polygons, err := mask.Polygons()
	if err != nil {
		return nil, err
	}
	if a.Output != "" {
		if err := geometry.WritePolygonsJSON(a.Output, polygons.Polygons()); err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"output": a.Output, "objects": polygons.Len()}).Info("Wrote polygons")
	}
	return &MaskPolygonsResult{
		Count:    polygons.Len(),
		Labels:   labels,
		Polygons: polygons.Polygons(),
		Output:   a.Output,
	}, nil
}

type polygonsArgs struct {
	// Path is a polygon JSON file; Polygons are used when it is empty.
	Path     string             `json:"path"`
	Polygons [][]geometry.Point `json:"polygons"`
	Output   string             `json:"output"`
	Resample int                `json:"resample"`
}

func (a polygonsArgs) load() (*geometry.Polygons, error) {
	if a.Path != "" {
		return geometry.ReadPolygonsJSON(a.Path)
	}
	if a.Polygons == nil {
		return nil, fmt.Errorf("%w: path or polygons is required", errArguments)
	}
	return geometry.NewPolygons(a.Polygons)
}

// BoundingBoxesResult holds [min_x, min_y, max_x, max_y] per polygon.
type BoundingBoxesResult struct {
	Count  int          `json:"count"`
	Boxes  [][4]float64 `json:"bounding_boxes"`
	Output string       `json:"output,omitempty"`
}

func (s *Server) handlePolygonsBoundingBoxes(args json.RawMessage) (interface{}, error) {
	var a polygonsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	polygons, err := a.load()
	if err != nil {
		return nil, err
	}

	boxes := polygons.BoundingBoxes().XYXY()
	if a.Output != "" {
		if err := geometry.WriteBoundingBoxesJSON(a.Output, boxes); err != nil {
			return nil, err
		}
	}
	return &BoundingBoxesResult{Count: len(boxes), Boxes: boxes, Output: a.Output}, nil
}

// DescriptorTable is a set of rows sharing one column list.
type DescriptorTable struct {
	Columns []string    `json:"columns"`
	Objects []int       `json:"objects,omitempty"`
	Values  [][]float64 `json:"values"`
}

func (s *Server) handlePolygonsForm(args json.RawMessage) (interface{}, error) {
	var a polygonsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	polygons, err := a.load()
	if err != nil {
		return nil, err
	}
	if a.Resample > 2 {
		polygons.ResamplePoints(a.Resample)
	}

	table := &DescriptorTable{Columns: geometry.FormNames[:]}
	for i, d := range polygons.Descriptors() {
		table.Objects = append(table.Objects, i)
		table.Values = append(table.Values, append([]float64(nil), d[:]...))
	}
	return table, nil
}

// === Measurement Handlers ===

type measureRegionArgs struct {
	Path string `json:"path"`
	// A zero rectangle measures the whole image.
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
	// Mask optionally restricts the region to one object of a mask file.
	Mask  string `json:"mask"`
	Label uint32 `json:"label"`
	Style string `json:"style"`
}

func parseStyle(style string) (buffer.MaskingStyle, error) {
	switch style {
	case "", "foreground":
		return buffer.Foreground, nil
	case "background":
		return buffer.Background, nil
	}
	return 0, fmt.Errorf("%w: style must be foreground or background, got %q", errArguments, style)
}

func (s *Server) handleMeasureRegion(args json.RawMessage) (interface{}, error) {
	var a measureRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	r := measure.FullRegion(img)
	if a.X2 > a.X1 && a.Y2 > a.Y1 {
		r = measure.Region{X: a.X1, Y: a.Y1, Width: a.X2 - a.X1, Height: a.Y2 - a.Y1}
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > img.Width() || r.Y+r.Height > img.Height() {
		return nil, fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside %dx%d image",
			buffer.ErrRegionBounds, r.X, r.Y, r.X+r.Width, r.Y+r.Height, img.Width(), img.Height())
	}

	var values [measure.ViewCount]float64
	if a.Mask == "" {
		values, err = measure.MeasureRegion(img, r)
	} else {
		values, err = s.measureMasked(img, r, a)
	}
	if err != nil {
		return nil, err
	}
	return &DescriptorTable{
		Columns: measure.ViewNames(""),
		Values:  [][]float64{values[:]},
	}, nil
}

func (s *Server) measureMasked(img buffer.Image, r measure.Region, a measureRegionArgs) ([measure.ViewCount]float64, error) {
	var zero [measure.ViewCount]float64
	style, err := parseStyle(a.Style)
	if err != nil {
		return zero, err
	}
	mask, err := imaging.OpenMask(a.Mask)
	if err != nil {
		return zero, err
	}
	if mask.Width() != img.Width() || mask.Height() != img.Height() {
		return zero, profile.ErrSizeMismatch
	}

	var crop *detection.Mask
	if a.Label == 0 {
		crop, err = detection.NewMask(r.Width, r.Height, mask.CropView(r.X, r.Y, r.Width, r.Height).Subpixels())
	} else {
		crop, err = mask.CropBinary(r.X, r.Y, r.Width, r.Height, a.Label)
	}
	if err != nil {
		return zero, err
	}
	return measure.MeasureMasked(img, r, crop.View(), style)
}

type measureObjectsArgs struct {
	Image       string `json:"image"`
	Segments    string `json:"segments"`
	Kind        string `json:"kind"`
	Mode        string `json:"mode"`
	Pad         *int   `json:"pad"`
	MinSize     int    `json:"min_size"`
	DropBorders bool   `json:"drop_borders"`
	Resample    int    `json:"resample"`
}

func (s *Server) handleMeasureObjects(args json.RawMessage) (interface{}, error) {
	var a measureObjectsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Segments == "" {
		return nil, fmt.Errorf("%w: segments is required", errArguments)
	}
	if a.Kind == "" {
		a.Kind = "mask"
	}
	kind, err := profile.ParseSegments(a.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errArguments, err)
	}
	if a.Mode == "" {
		a.Mode = "c"
	}
	if err := kind.ValidateMode(a.Mode); err != nil {
		return nil, err
	}

	settings := profile.Settings{Mode: a.Mode, Pad: 1, MinSize: max(a.MinSize, 1), DropBorders: a.DropBorders, ResampleForm: a.Resample}
	if a.Pad != nil {
		settings.Pad = max(*a.Pad, 0)
	}

	img, err := s.cache.Load(a.Image)
	if err != nil {
		return nil, err
	}
	objects, err := profile.ProfileSegments(img, a.Segments, kind, settings)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"image": a.Image, "objects": objects.Len()}).Info("Measured objects")

	return &DescriptorTable{
		Columns: profile.Columns(a.Mode),
		Objects: objects.IDs,
		Values:  objects.Values,
	}, nil
}

type descriptorNamesArgs struct {
	Mode string `json:"mode"`
}

// DescriptorNamesResult lists column names, either for one mode or per
// descriptor family.
type DescriptorNamesResult struct {
	Mode     string              `json:"mode,omitempty"`
	Columns  []string            `json:"columns,omitempty"`
	Families map[string][]string `json:"families,omitempty"`
}

func (s *Server) handleDescriptorNames(args json.RawMessage) (interface{}, error) {
	var a descriptorNamesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mode != "" {
		if err := profile.Masks.ValidateMode(a.Mode); err != nil {
			return nil, err
		}
		return &DescriptorNamesResult{Mode: a.Mode, Columns: profile.Columns(a.Mode)}, nil
	}
	return &DescriptorNamesResult{Families: map[string][]string{
		"form":      geometry.FormNames[:],
		"intensity": measure.IntensityNames[:],
		"moments":   measure.MomentsNames[:],
		"texture":   measure.TextureNames[:],
		"zernike":   measure.ZernikeNames[:],
		"box":       profile.BoxNames,
	}}, nil
}

// === Visual Check Handlers ===

type objectPreviewArgs struct {
	Image  string  `json:"image"`
	Mask   string  `json:"mask"`
	Object int     `json:"object"`
	Pad    *int    `json:"pad"`
	Scale  float64 `json:"scale"`
	Style  string  `json:"style"`
}

// ObjectPreviewResult is a preview of one object with its crop rectangle.
type ObjectPreviewResult struct {
	*imaging.PreviewResult
	Object int    `json:"object"`
	Label  uint32 `json:"label"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (s *Server) handleObjectPreview(args json.RawMessage) (interface{}, error) {
	var a objectPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	pad := 1
	if a.Pad != nil {
		pad = max(*a.Pad, 0)
	}

	img, err := s.cache.Load(a.Image)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.OpenMask(a.Mask)
	if err != nil {
		return nil, err
	}
	if mask.Width() != img.Width() || mask.Height() != img.Height() {
		return nil, profile.ErrSizeMismatch
	}

	labels, polygons, err := mask.Polygons()
	if err != nil {
		return nil, err
	}
	if a.Object < 0 || a.Object >= len(labels) {
		return nil, fmt.Errorf("%w: object %d, mask has %d objects", errArguments, a.Object, len(labels))
	}

	box := polygons.BoundingBoxes().Boxes()[a.Object]
	x, y, w, h, _ := box.Pad(float64(pad), img.Width(), img.Height())

	var preview *imaging.PreviewResult
	if a.Style == "" {
		preview, err = imaging.Preview(img, x, y, x+w, y+h, a.Scale)
	} else {
		style, serr := parseStyle(a.Style)
		if serr != nil {
			return nil, serr
		}
		crop, cerr := mask.CropBinary(x, y, w, h, labels[a.Object])
		if cerr != nil {
			return nil, cerr
		}
		preview, err = imaging.MaskedPreview(img, x, y, x+w, y+h, crop.View(), style, a.Scale)
	}
	if err != nil {
		return nil, err
	}
	return &ObjectPreviewResult{PreviewResult: preview, Object: a.Object, Label: labels[a.Object], X: x, Y: y}, nil
}

type renderOverlayArgs struct {
	Image      string `json:"image"`
	Mask       string `json:"mask"`
	Polygons   string `json:"polygons"`
	Boxes      string `json:"boxes"`
	Output     string `json:"output"`
	ShowLabels bool   `json:"show_labels"`
	Color      string `json:"color"`
}

// SavedOverlayResult reports an overlay written to disk.
type SavedOverlayResult struct {
	Output  string `json:"output"`
	Objects int    `json:"objects"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mask == "" && a.Polygons == "" && a.Boxes == "" {
		return nil, fmt.Errorf("%w: one of mask, polygons or boxes is required", errArguments)
	}
	img, err := s.cache.Load(a.Image)
	if err != nil {
		return nil, err
	}

	opts := imaging.OverlayOptions{ShowLabels: a.ShowLabels, Color: a.Color}
	if a.Mask != "" {
		mask, err := imaging.OpenMask(a.Mask)
		if err != nil {
			return nil, err
		}
		_, polygons, err := mask.Polygons()
		if err != nil {
			return nil, err
		}
		opts.Polygons = append(opts.Polygons, polygons.Polygons()...)
	}
	if a.Polygons != "" {
		polygons, err := geometry.ReadPolygonsJSON(a.Polygons)
		if err != nil {
			return nil, err
		}
		opts.Polygons = append(opts.Polygons, polygons.Polygons()...)
	}
	if a.Boxes != "" {
		boxes, err := geometry.ReadBoundingBoxesJSON(a.Boxes)
		if err != nil {
			return nil, err
		}
		opts.Boxes = boxes.Boxes()
	}
	if a.Output != "" {
		if err := imaging.SaveOverlay(a.Output, img, opts); err != nil {
			return nil, err
		}
		return &SavedOverlayResult{Output: a.Output, Objects: len(opts.Polygons) + len(opts.Boxes)}, nil
	}
	return imaging.RenderOverlay(img, opts)
}
