package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/geometry"
)

// OverlayOptions selects what RenderOverlay draws over the image.
type OverlayOptions struct {
	Polygons [][]geometry.Point
	Boxes    []geometry.Box
	// ShowLabels draws each object's index next to its outline.
	ShowLabels bool
	// Color is a "#RRGGBB" or "#RRGGBBAA" outline color. When empty or
	// invalid every object gets its own palette color.
	Color string
}

// OverlayResult contains the image with object outlines drawn over it.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Objects     int    `json:"objects"`
}

// Palette returns n distinct colors spaced around the hue circle by the
// golden angle.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := math.Mod(float64(i)*137.50776, 360)
		r, g, b := colorful.Hsv(h, 0.85, 1).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Overlay draws polygon and box outlines onto an RGB rendering of img.
func Overlay(img buffer.Image, opts OverlayOptions) *image.NRGBA {
	result := ToImage(img)
	w, h := img.Width(), img.Height()

	outlines := make([][]geometry.Point, 0, len(opts.Polygons)+len(opts.Boxes))
	outlines = append(outlines, opts.Polygons...)
	for _, b := range opts.Boxes {
		outlines = append(outlines, []geometry.Point{
			{X: b.MinX, Y: b.MinY},
			{X: b.MaxX, Y: b.MinY},
			{X: b.MaxX, Y: b.MaxY},
			{X: b.MinX, Y: b.MaxY},
		})
	}

	colors := Palette(len(outlines))
	if c, err := parseHexColor(opts.Color); err == nil {
		for i := range colors {
			colors[i] = c
		}
	}

	canvas := make([]uint32, w*h)
	for i, outline := range outlines {
		geometry.DrawOutline(canvas, w, h, outline, uint32(i+1))
	}
	for i, label := range canvas {
		if label == 0 {
			continue
		}
		result.Set(i%w, i/w, colors[label-1])
	}

	if opts.ShowLabels {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}
		for i, outline := range outlines {
			if len(outline) == 0 {
				continue
			}
			minX, minY, _, _ := geometry.Bounds(outline)
			drawLabel(result, int(minX)+2, int(minY)+2, strconv.Itoa(i), labelColor, bgColor)
		}
	}
	return result
}

// RenderOverlay draws the outlines and returns the result as a base64 PNG.
func RenderOverlay(img buffer.Image, opts OverlayOptions) (*OverlayResult, error) {
	result := Overlay(img, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("%w: encoding overlay: %v", ErrImageWrite, err)
	}

	return &OverlayResult{
		Width:       result.Bounds().Dx(),
		Height:      result.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Objects:     len(opts.Polygons) + len(opts.Boxes),
	}, nil
}

// SaveOverlay draws the outlines and writes the result as a PNG file.
func SaveOverlay(path string, img buffer.Image, opts OverlayOptions) error {
	if err := imgio.Save(path, Overlay(img, opts), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageWrite, path, err)
	}
	return nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is
// optional.
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	c, err := colorful.Hex("#" + hex[:6])
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()

	a := uint64(255)
	if len(hex) == 8 {
		if a, err = strconv.ParseUint(hex[6:], 16, 8); err != nil {
			return color.RGBA{}, err
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: uint8(a)}, nil
}

// drawLabel draws an object index using a 3x5 pixel digit font.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
