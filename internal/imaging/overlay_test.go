package imaging

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/object-measure/internal/geometry"
)

func TestOverlay_Polygon(t *testing.T) {
	img := FromImage(createInMemoryImage(20, 20, color.Black))
	square := []geometry.Point{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 8}}

	out := Overlay(img, OverlayOptions{Polygons: [][]geometry.Point{square}, Color: "#FF0000"})

	if c := out.NRGBAAt(5, 2); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("edge pixel: got %v, want red", c)
	}
	if c := out.NRGBAAt(5, 5); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("interior pixel: got %v, want black", c)
	}
}

func TestOverlay_Boxes(t *testing.T) {
	img := FromImage(createInMemoryImage(20, 20, color.Black))
	boxes := []geometry.Box{{MinX: 1, MinY: 1, MaxX: 5, MaxY: 5}, {MinX: 10, MinY: 10, MaxX: 15, MaxY: 15}}

	out := Overlay(img, OverlayOptions{Boxes: boxes})
	palette := Palette(2)

	if c := out.NRGBAAt(1, 3); c.R != palette[0].R || c.G != palette[0].G || c.B != palette[0].B {
		t.Errorf("first box edge: got %v, want %v", c, palette[0])
	}
	if c := out.NRGBAAt(15, 12); c.R != palette[1].R || c.G != palette[1].G || c.B != palette[1].B {
		t.Errorf("second box edge: got %v, want %v", c, palette[1])
	}
}

func TestPalette(t *testing.T) {
	p := Palette(6)
	seen := map[color.RGBA]bool{}
	for _, c := range p {
		if seen[c] {
			t.Errorf("duplicate palette color %v", c)
		}
		seen[c] = true
		if c.A != 255 {
			t.Errorf("palette color %v is not opaque", c)
		}
	}
}

func TestRenderOverlay(t *testing.T) {
	img := FromImage(createPatternImage(30, 30))
	square := []geometry.Point{{X: 2, Y: 2}, {X: 20, Y: 2}, {X: 20, Y: 20}, {X: 2, Y: 20}}

	result, err := RenderOverlay(img, OverlayOptions{Polygons: [][]geometry.Point{square}, ShowLabels: true})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if result.Width != 30 || result.Height != 30 || result.Objects != 1 {
		t.Errorf("got %+v", result)
	}
	w, h, _ := decodePreview(t, result.ImageBase64)
	if w != 30 || h != 30 {
		t.Errorf("decoded %dx%d, want 30x30", w, h)
	}
}

func TestSaveOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.png")
	img := FromImage(createPatternImage(16, 16))
	if err := SaveOverlay(path, img, OverlayOptions{Boxes: []geometry.Box{{MinX: 1, MinY: 1, MaxX: 9, MaxY: 9}}}); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("overlay file missing: %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
		{"#ff8000", color.RGBA{255, 128, 0, 255}, false},
		{"#12345678", color.RGBA{0x12, 0x34, 0x56, 0x78}, false},
		{"#FF0000ZZ", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	out := ToImage(mustBuffer(t, 4, 4, 1, make([]uint8, 16)))
	// must not panic when the label runs off the image
	drawLabel(out, 2, 2, "12345", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
	drawLabel(out, -10, -10, "x", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
}
