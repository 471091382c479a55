package measure

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// GLCMLevels is the number of gray levels a channel is quantised to.
const GLCMLevels = 64

// TextureAngles are the co-occurrence directions in degrees.
var TextureAngles = [4]float64{0, 45, 90, 135}

// GLCM is a symmetric, normalised gray-level co-occurrence matrix.
type GLCM struct {
	data [GLCMLevels * GLCMLevels]float64
}

// At returns the probability of level i co-occurring with level j.
func (g *GLCM) At(i, j int) float64 {
	return g.data[i*GLCMLevels+j]
}

// Levels returns the matrix dimension.
func (g *GLCM) Levels() int { return GLCMLevels }

// MarginSums returns the row and column sums.
func (g *GLCM) MarginSums() (px, py []float64) {
	px = make([]float64, GLCMLevels)
	py = make([]float64, GLCMLevels)
	for i := 0; i < GLCMLevels; i++ {
		row := g.data[i*GLCMLevels : (i+1)*GLCMLevels]
		px[i] = floats.Sum(row)
		for j, x := range row {
			py[j] += x
		}
	}
	return px, py
}

// quantiser maps channel values onto [0, GLCMLevels).
//
// A channel already spanning exactly 0..63 is used as is, a homogeneous
// channel maps entirely to level 0, and anything else is min-max scaled.
func quantiser(lo, hi float64) func(float64) int {
	top := float64(GLCMLevels - 1)
	switch {
	case lo == hi:
		return func(float64) int { return 0 }
	case lo == 0 && hi == top:
		return func(x float64) int { return clampLevel(math.Round(x)) }
	}
	return func(x float64) int {
		return clampLevel(math.Round((x - lo) / (hi - lo) * top))
	}
}

func clampLevel(x float64) int {
	if !(x > 0) {
		return 0
	}
	if x > GLCMLevels-1 {
		return GLCMLevels - 1
	}
	return int(x)
}

// NewGLCM builds the co-occurrence matrix of one channel of v for pixel
// pairs separated by distance along angle (degrees). Each pair is counted
// in both directions. A view with no valid pairs yields the zero matrix.
func NewGLCM[T buffer.Scalar](v buffer.View[T], channel int, angle, distance float64) (*GLCM, error) {
	values, err := v.Channel(channel)
	if err != nil {
		return nil, err
	}
	return glcmFromChannel(values, v.Width(), v.Height(), angle, distance), nil
}

func glcmFromChannel[T buffer.Scalar](values []T, width, height int, angle, distance float64) *GLCM {
	g := &GLCM{}
	if len(values) == 0 {
		return g
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range values {
		x := float64(s)
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	level := quantiser(lo, hi)

	rad := angle * math.Pi / 180
	dx := int(math.Round(math.Cos(rad) * distance))
	dy := int(math.Round(math.Sin(rad) * distance))

	var total float64
	for y := 0; y < height; y++ {
		ny := y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for x := 0; x < width; x++ {
			nx := x + dx
			if nx < 0 || nx >= width {
				continue
			}
			a := level(float64(values[y*width+x]))
			b := level(float64(values[ny*width+nx]))
			g.data[a*GLCMLevels+b]++
			g.data[b*GLCMLevels+a]++
			total += 2
		}
	}

	if total > 0 {
		floats.Scale(1/total, g.data[:])
	}
	return g
}
