package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ironsheep/object-measure/internal/detection"
	"github.com/ironsheep/object-measure/internal/geometry"
	"github.com/ironsheep/object-measure/internal/imaging"
	"github.com/ironsheep/object-measure/internal/measure"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, dir string, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestMaskFile writes a 20x20 binary mask with two square objects,
// pixels [2,5] and [11,15] on both axes.
func createTestMaskFile(t *testing.T, dir string) string {
	t.Helper()

	data := make([]uint32, 20*20)
	for _, sq := range [][2]int{{2, 5}, {11, 15}} {
		for y := sq[0]; y <= sq[1]; y++ {
			for x := sq[0]; x <= sq[1]; x++ {
				data[y*20+x] = 1
			}
		}
	}
	m, err := detection.NewMask(20, 20, data)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "mask.png")
	if err := imaging.SaveMask(path, m.View()); err != nil {
		t.Fatalf("failed to save mask: %v", err)
	}
	return path
}

type fixture struct {
	dir   string
	image string
	mask  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	return fixture{
		dir:   dir,
		image: createTestImageFile(t, dir, 20, 20, color.RGBA{10, 20, 30, 255}),
		mask:  createTestMaskFile(t, dir),
	}
}

// callTool runs a tools/call request and fails the test on a protocol or
// tool error.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode result %q: %v", text, err)
	}
}

func expectToolError(t *testing.T, resp *MCPResponse) {
	t.Helper()
	if resp.Error == nil {
		t.Fatal("expected a tool error")
	}
	if resp.Error.Code != CodeToolFailure {
		t.Errorf("Error code: got %d, want %d", resp.Error.Code, CodeToolFailure)
	}
}

func column(t *testing.T, table DescriptorTable, row int, name string) float64 {
	t.Helper()
	i := slices.Index(table.Columns, name)
	if i < 0 {
		t.Fatalf("column %q missing", name)
	}
	return table.Values[row][i]
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": f.image}), &info)

	if info.Width != 20 || info.Height != 20 || info.Channels != 3 {
		t.Errorf("got %dx%dx%d, want 20x20x3", info.Width, info.Height, info.Channels)
	}
	if info.Kind != "u8" || info.Format != "png" {
		t.Errorf("kind %s format %s", info.Kind, info.Format)
	}
	if info.Min != 10 || info.Max != 30 {
		t.Errorf("range [%v, %v], want [10, 30]", info.Min, info.Max)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	var dims imaging.DimensionsResult
	decodeResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": f.image}), &dims)
	if dims.Width != 20 || dims.Height != 20 || dims.Channels != 3 {
		t.Errorf("got %+v", dims)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)
	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	expectToolError(t, resp)
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New(nil)
	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	expectToolError(t, resp)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_MaskLabels(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	var res MaskLabelsResult
	decodeResult(t, callTool(t, s, "mask_labels", map[string]interface{}{"path": f.mask}), &res)
	if !res.Binary || res.Count != 2 || len(res.Labels) != 2 {
		t.Errorf("got %+v", res)
	}

	// The image is not a usable mask without a threshold.
	expectToolError(t, callTool(t, s, "mask_labels", map[string]interface{}{"path": f.image}))
}

func TestHandleToolsCall_MaskPolygons(t *testing.T) {
	f := newFixture(t)
	s := New(nil)
	out := filepath.Join(f.dir, "polygons.json")

	var res MaskPolygonsResult
	decodeResult(t, callTool(t, s, "mask_polygons", map[string]interface{}{"path": f.mask, "output": out}), &res)
	if res.Count != 2 || len(res.Polygons) != 2 || len(res.Labels) != 2 {
		t.Errorf("got count %d, %d polygons", res.Count, len(res.Polygons))
	}

	polygons, err := geometry.ReadPolygonsJSON(out)
	if err != nil {
		t.Fatalf("ReadPolygonsJSON: %v", err)
	}
	if polygons.Len() != 2 {
		t.Errorf("file holds %d polygons, want 2", polygons.Len())
	}
}

func TestHandleToolsCall_PolygonsBoundingBoxes(t *testing.T) {
	s := New(nil)

	var res BoundingBoxesResult
	decodeResult(t, callTool(t, s, "polygons_bounding_boxes", map[string]interface{}{
		"polygons": [][][2]float64{{{0, 0}, {4, 0}, {4, 3}}},
	}), &res)
	if res.Count != 1 || res.Boxes[0] != [4]float64{0, 0, 4, 3} {
		t.Errorf("got %+v", res)
	}

	expectToolError(t, callTool(t, s, "polygons_bounding_boxes", map[string]interface{}{}))
	expectToolError(t, callTool(t, s, "polygons_bounding_boxes", map[string]interface{}{
		"polygons": [][][2]float64{{{0, 0}, {1, 1}}},
	}))
}

func TestHandleToolsCall_PolygonsForm(t *testing.T) {
	s := New(nil)

	var table DescriptorTable
	decodeResult(t, callTool(t, s, "polygons_form", map[string]interface{}{
		"polygons": [][][2]float64{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
	}), &table)

	if len(table.Columns) != geometry.FormCount || len(table.Values) != 1 {
		t.Fatalf("got %d columns, %d rows", len(table.Columns), len(table.Values))
	}
	if got := column(t, table, 0, "form_area"); got != 100 {
		t.Errorf("form_area = %v, want 100", got)
	}
	if got := column(t, table, 0, "form_perimeter"); got != 40 {
		t.Errorf("form_perimeter = %v, want 40", got)
	}
}

func TestHandleToolsCall_MeasureRegion(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantSum  float64
		wantMean float64
	}{
		{"whole image", map[string]interface{}{"path": f.image}, 400 * 20, 20},
		{"rectangle", map[string]interface{}{"path": f.image, "x1": 0, "y1": 0, "x2": 10, "y2": 5}, 50 * 20, 20},
		{"masked object", map[string]interface{}{"path": f.image, "x1": 1, "y1": 1, "x2": 7, "y2": 7, "mask": f.mask}, 16 * 20, 20},
		{"masked background", map[string]interface{}{"path": f.image, "x1": 1, "y1": 1, "x2": 7, "y2": 7, "mask": f.mask, "style": "background"}, 20 * 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var table DescriptorTable
			decodeResult(t, callTool(t, s, "measure_region", tt.args), &table)
			if len(table.Columns) != measure.ViewCount || len(table.Values[0]) != measure.ViewCount {
				t.Fatalf("got %d columns", len(table.Columns))
			}
			if got := column(t, table, 0, "intensity_sum"); got != tt.wantSum {
				t.Errorf("intensity_sum = %v, want %v", got, tt.wantSum)
			}
			if got := column(t, table, 0, "intensity_mean"); got != tt.wantMean {
				t.Errorf("intensity_mean = %v, want %v", got, tt.wantMean)
			}
		})
	}

	t.Run("out of bounds", func(t *testing.T) {
		expectToolError(t, callTool(t, s, "measure_region", map[string]interface{}{"path": f.image, "x1": 10, "y1": 10, "x2": 30, "y2": 30}))
	})
	t.Run("bad style", func(t *testing.T) {
		expectToolError(t, callTool(t, s, "measure_region", map[string]interface{}{"path": f.image, "mask": f.mask, "style": "inside"}))
	})
}

func TestHandleToolsCall_MeasureObjects(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	var table DescriptorTable
	decodeResult(t, callTool(t, s, "measure_objects", map[string]interface{}{
		"image":    f.image,
		"segments": f.mask,
		"mode":     "cm",
	}), &table)

	if len(table.Columns) != measure.ViewCount+measure.MaskCount {
		t.Errorf("got %d columns", len(table.Columns))
	}
	if !slices.Equal(table.Objects, []int{0, 1}) || len(table.Values) != 2 {
		t.Fatalf("objects %v, %d rows", table.Objects, len(table.Values))
	}
	if got := column(t, table, 0, "mask_moments_m00"); got != 16 {
		t.Errorf("mask_moments_m00 = %v, want 16", got)
	}

	boxes := filepath.Join(f.dir, "boxes.json")
	if err := geometry.WriteBoundingBoxesJSON(boxes, [][4]float64{{2, 2, 8, 8}}); err != nil {
		t.Fatal(err)
	}
	decodeResult(t, callTool(t, s, "measure_objects", map[string]interface{}{
		"image":    f.image,
		"segments": boxes,
		"kind":     "boxes",
		"mode":     "x",
		"pad":      0,
	}), &table)
	if got := column(t, table, 0, "bbox_area"); got != 36 {
		t.Errorf("bbox_area = %v, want 36", got)
	}

	expectToolError(t, callTool(t, s, "measure_objects", map[string]interface{}{
		"image": f.image, "segments": boxes, "kind": "boxes", "mode": "f",
	}))
	expectToolError(t, callTool(t, s, "measure_objects", map[string]interface{}{"image": f.image}))
}

func TestHandleToolsCall_DescriptorNames(t *testing.T) {
	s := New(nil)

	var res DescriptorNamesResult
	decodeResult(t, callTool(t, s, "descriptor_names", map[string]interface{}{}), &res)
	if len(res.Families) != 6 || len(res.Families["zernike"]) != measure.ZernikeCount {
		t.Errorf("families: %v", res.Families)
	}

	decodeResult(t, callTool(t, s, "descriptor_names", map[string]interface{}{"mode": "m"}), &res)
	if len(res.Columns) != measure.MaskCount || res.Columns[0] != "mask_moments_m00" {
		t.Errorf("columns: %v", res.Columns)
	}

	expectToolError(t, callTool(t, s, "descriptor_names", map[string]interface{}{"mode": "q"}))
}

func TestHandleToolsCall_ObjectPreview(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	tests := []struct {
		name  string
		args  map[string]interface{}
		wantW int
	}{
		{"plain", map[string]interface{}{"image": f.image, "mask": f.mask, "object": 0}, 5},
		{"scaled", map[string]interface{}{"image": f.image, "mask": f.mask, "object": 0, "scale": 2.0}, 10},
		{"foreground", map[string]interface{}{"image": f.image, "mask": f.mask, "object": 1, "style": "foreground", "pad": 0}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res ObjectPreviewResult
			decodeResult(t, callTool(t, s, "object_preview", tt.args), &res)
			if res.PreviewResult == nil || res.Width != tt.wantW {
				t.Fatalf("got %+v, want width %d", res, tt.wantW)
			}
			if res.MimeType != "image/png" || res.ImageBase64 == "" {
				t.Errorf("mime %s, %d base64 bytes", res.MimeType, len(res.ImageBase64))
			}
		})
	}

	expectToolError(t, callTool(t, s, "object_preview", map[string]interface{}{"image": f.image, "mask": f.mask, "object": 5}))
}

func TestHandleToolsCall_RenderOverlay(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	var res imaging.OverlayResult
	decodeResult(t, callTool(t, s, "render_overlay", map[string]interface{}{
		"image":       f.image,
		"mask":        f.mask,
		"show_labels": true,
	}), &res)
	if res.Objects != 2 || res.Width != 20 || res.ImageBase64 == "" {
		t.Errorf("got objects %d width %d", res.Objects, res.Width)
	}

	out := filepath.Join(f.dir, "overlay.png")
	var saved SavedOverlayResult
	decodeResult(t, callTool(t, s, "render_overlay", map[string]interface{}{
		"image":  f.image,
		"mask":   f.mask,
		"output": out,
		"color":  "#FF0000",
	}), &saved)
	if saved.Output != out || saved.Objects != 2 {
		t.Errorf("got %+v", saved)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("overlay not written: %v", err)
	}

	expectToolError(t, callTool(t, s, "render_overlay", map[string]interface{}{"image": f.image}))
}

func TestExecuteTool_AllTools(t *testing.T) {
	f := newFixture(t)
	s := New(nil)

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": f.image}},
		{"image_dimensions", map[string]interface{}{"path": f.image}},
		{"mask_labels", map[string]interface{}{"path": f.mask}},
		{"mask_polygons", map[string]interface{}{"path": f.mask}},
		{"polygons_bounding_boxes", map[string]interface{}{"polygons": [][][2]float64{{{0, 0}, {4, 0}, {4, 4}}}}},
		{"polygons_form", map[string]interface{}{"polygons": [][][2]float64{{{0, 0}, {4, 0}, {4, 4}}}}},
		{"measure_region", map[string]interface{}{"path": f.image}},
		{"measure_objects", map[string]interface{}{"image": f.image, "segments": f.mask}},
		{"descriptor_names", map[string]interface{}{}},
		{"object_preview", map[string]interface{}{"image": f.image, "mask": f.mask, "object": 0}},
		{"render_overlay", map[string]interface{}{"image": f.image, "mask": f.mask}},
	}

	if len(toolTests) != len(GetToolDefinitions()) {
		t.Fatalf("%d dispatch cases for %d tools", len(toolTests), len(GetToolDefinitions()))
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestExecuteTool_EmptyArguments(t *testing.T) {
	s := New(nil)

	if _, err := s.executeTool("descriptor_names", nil); err != nil {
		t.Errorf("descriptor_names with no arguments: %v", err)
	}
}
