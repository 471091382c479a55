package imaging

import (
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/object-measure/internal/buffer"
	"github.com/ironsheep/object-measure/internal/detection"
)

// Threshold binarises the first channel of img into a mask. The channel is
// first scaled to 8 bits as in Normalize8; pixels strictly above level
// become foreground (255). A level of 255 yields an empty mask.
func Threshold(img buffer.Image, level uint8) *detection.Mask {
	w, h := img.Width(), img.Height()
	data := make([]uint32, w*h)
	if level == 255 {
		m, _ := detection.NewMask(w, h, data)
		return m
	}

	// segment.Threshold keeps values >= its argument.
	gray := segment.Threshold(ToGray(img), level+1)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			data[y*w+x] = uint32(v)
		}
	}
	m, _ := detection.NewMask(w, h, data)
	return m
}
