package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file (PNG, JPEG, GIF, TIFF, BMP, WebP or .npy) and return its size, channel count, pixel kind and value range. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and channel count of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "mask_labels",
			Description: "List the object labels of a segmentation mask. A mask holding a single nonzero value is treated as binary and split into 8-connected objects.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask file (PNG, TIFF or .npy)",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional gray level (1-255). When set, the file is read as an image and pixels at or above the level become foreground",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mask_polygons",
			Description: "Trace the outer contour of every object in a mask. Returns one polygon per object with its label, and optionally writes the polygons as JSON.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask file",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional gray level (1-255) used to binarise a grayscale image first",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path of a .json file to write the polygons to",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "polygons_bounding_boxes",
			Description: "Compute the axis-aligned bounding box [min_x, min_y, max_x, max_y] of every polygon.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a polygon JSON file",
					},
					"polygons": map[string]interface{}{
						"type":        "array",
						"description": "Inline polygons as arrays of [x, y] points, used when path is empty",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "number"}},
						},
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional path of a .json file to write the boxes to",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        "polygons_form",
			Description: "Compute the 23 form descriptors (area, perimeter, solidity, Feret diameters, ellipse axes and more) of every polygon.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a polygon JSON file",
					},
					"polygons": map[string]interface{}{
						"type":        "array",
						"description": "Inline polygons as arrays of [x, y] points, used when path is empty",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "number"}},
						},
					},
					"resample": map[string]interface{}{
						"type":        "integer",
						"description": "Optional number of equidistant points (>= 3) to resample each outline to first",
					},
				},
				"required": []string{},
			},
		},

		// Measurement
		{
			Name:        "measure_region",
			Description: "Compute the 74 intensity, moment, texture and Zernike descriptors of a rectangle of an image, or of the whole image when no rectangle is given. Zero-valued pixels are treated as background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"mask": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask file of the same size; pixels on the unselected side are zeroed before measuring",
					},
					"label": map[string]interface{}{
						"type":        "integer",
						"description": "Mask label to keep; 0 keeps every nonzero mask pixel",
					},
					"style": map[string]interface{}{
						"type":        "string",
						"description": "Which side of the mask to keep: foreground (default) or background",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "measure_objects",
			Description: "Measure every object of an image from a mask, polygon JSON or bounding box JSON file. Returns one descriptor row per object with columns chosen by the mode string.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"segments": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask, polygon or bounding box file",
					},
					"kind": map[string]interface{}{
						"type":        "string",
						"description": "Segment kind: mask (default), polygons or boxes",
						"enum":        []string{"mask", "polygons", "boxes"},
						"default":     "mask",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Descriptor families: c complete crop, f foreground, b background, m binary mask, p polygon form, x box size. Default c",
						"default":     "c",
					},
					"pad": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around each object crop. Default 1",
						"default":     1,
					},
					"min_size": map[string]interface{}{
						"type":        "integer",
						"description": "Drop objects whose padded crop is narrower or shorter than this. Default 1",
					},
					"drop_borders": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop objects whose padded box touches the image border",
					},
					"resample": map[string]interface{}{
						"type":        "integer",
						"description": "Resample outlines to this many points before form descriptors",
					},
				},
				"required": []string{"image", "segments"},
			},
		},
		{
			Name:        "descriptor_names",
			Description: "List descriptor column names for a mode string, or every descriptor family when no mode is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Optional mode string such as cm or cfbmp",
					},
				},
				"required": []string{},
			},
		},

		// Visual Checks
		{
			Name:        "object_preview",
			Description: "Crop one object of a mask out of its image and return it as base64-encoded PNG. Optionally blank out the pixels outside (or inside) the object.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask file",
					},
					"object": map[string]interface{}{
						"type":        "integer",
						"description": "Object index as returned by mask_polygons",
					},
					"pad": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around the object. Default 1",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to enlarge small objects). Default 1.0",
						"default":     1.0,
					},
					"style": map[string]interface{}{
						"type":        "string",
						"description": "Optional masking: foreground keeps the object, background keeps its surroundings",
						"enum":        []string{"foreground", "background"},
					},
				},
				"required": []string{"image", "mask", "object"},
			},
		},
		{
			Name:        "render_overlay",
			Description: "Draw object outlines from a mask, polygon file and/or bounding box file over the image. Returns base64-encoded PNG or writes it to output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask file whose objects are traced",
					},
					"polygons": map[string]interface{}{
						"type":        "string",
						"description": "Optional polygon JSON file",
					},
					"boxes": map[string]interface{}{
						"type":        "string",
						"description": "Optional bounding box JSON file",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional .png path to write instead of returning base64",
					},
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each object's index next to its outline",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB; each object gets its own color when empty",
					},
				},
				"required": []string{"image"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
