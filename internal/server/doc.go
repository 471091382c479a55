// Package server implements the MCP (Model Context Protocol) server for object
// measurement tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the descriptor
// engine through the MCP protocol, so an assistant can load a microscopy
// image and its segmentation, trace objects, and read back their form,
// intensity, moment, texture and Zernike descriptors.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load an image and report kind, channels and value range
//   - image_dimensions: Get width, height and channels
//
// Segmentation:
//   - mask_labels: List object labels, relabeling binary masks
//   - mask_polygons: Trace object outlines, optionally writing polygon JSON
//   - polygons_bounding_boxes: Boxes around polygons
//   - polygons_form: Form descriptors of polygons
//
// Measurement:
//   - measure_region: Descriptors of a rectangle or the whole image
//   - measure_objects: Descriptor rows for every object of a segment file
//   - descriptor_names: Column names for a mode string
//
// Visual Checks:
//   - object_preview: Crop of one object as base64 PNG
//   - render_overlay: Outlines drawn over the image
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// Images are reused across tool calls for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: CodeToolFailure (-32000) or a standard JSON-RPC code
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal(err)
//	}
package server
