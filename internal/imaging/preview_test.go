package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"

	"github.com/ironsheep/object-measure/internal/buffer"
)

func decodePreview(t *testing.T, b64 string) (w, h int, at func(x, y int) (uint8, uint8, uint8)) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), func(x, y int) (uint8, uint8, uint8) {
		r, g, b, _ := img.At(x, y).RGBA()
		return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
	}
}

func TestPreview(t *testing.T) {
	img := FromImage(createPatternImage(100, 100))

	result, err := Preview(img, 0, 0, 50, 50, 1.0)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	_, _, at := decodePreview(t, result.ImageBase64)
	if r, g, b := at(10, 10); r != 255 || g != 0 || b != 0 {
		t.Errorf("top-left quadrant: got (%d,%d,%d), want red", r, g, b)
	}
}

func TestPreview_Scale(t *testing.T) {
	img := FromImage(createPatternImage(100, 100))

	tests := []struct {
		name  string
		scale float64
		want  int
	}{
		{"up", 2.0, 100},
		{"down", 0.5, 25},
		{"ignored", 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Preview(img, 50, 50, 100, 100, tt.scale)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if result.Width != tt.want || result.Height != tt.want {
				t.Errorf("got %dx%d, want %dx%d", result.Width, result.Height, tt.want, tt.want)
			}
		})
	}
}

func TestPreview_InvalidRegion(t *testing.T) {
	img := FromImage(createPatternImage(10, 10))

	if _, err := Preview(img, -1, 0, 5, 5, 1); !errors.Is(err, buffer.ErrRegionBounds) {
		t.Errorf("out of bounds: got %v, want ErrRegionBounds", err)
	}
	if _, err := Preview(img, 5, 5, 5, 8, 1); err == nil {
		t.Error("empty region should fail")
	}
}

func TestPreview_DeepImage(t *testing.T) {
	result, err := Preview(ramp(t, 8, 8), 0, 0, 8, 8, 1)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	_, _, at := decodePreview(t, result.ImageBase64)
	if r, _, _ := at(0, 0); r != 0 {
		t.Errorf("min pixel rendered as %d, want 0", r)
	}
	if r, _, _ := at(7, 7); r != 255 {
		t.Errorf("max pixel rendered as %d, want 255", r)
	}
}

func TestMaskedPreview(t *testing.T) {
	img := mustBuffer(t, 2, 2, 1, []uint8{10, 20, 30, 40})
	mask := mustBuffer(t, 2, 2, 1, []uint32{1, 0, 0, 1})

	result, err := MaskedPreview(img, 0, 0, 2, 2, mask.View(), buffer.Foreground, 1)
	if err != nil {
		t.Fatalf("MaskedPreview failed: %v", err)
	}
	_, _, at := decodePreview(t, result.ImageBase64)
	if r, _, _ := at(1, 0); r != 0 {
		t.Errorf("masked pixel = %d, want 0", r)
	}
	if r, _, _ := at(0, 0); r != 10 {
		t.Errorf("kept pixel = %d, want 10", r)
	}
}
