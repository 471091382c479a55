package measure

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// entropyEpsilon keeps log2 finite for empty cells.
const entropyEpsilon = 1.1920929e-07

func xlog2(x float64) float64 {
	return x * math.Log2(x+entropyEpsilon)
}

// marginStats returns the 1-based means and standard deviations of the
// margins together with their entropies.
func marginStats(px, py []float64) (ux, uy, sx, sy, hx, hy float64) {
	for i := range px {
		k := float64(i + 1)
		ux += k * px[i]
		uy += k * py[i]
		hx -= xlog2(px[i])
		hy -= xlog2(py[i])
	}
	for i := range px {
		k := float64(i + 1)
		sx += (k - ux) * (k - ux) * px[i]
		sy += (k - uy) * (k - uy) * py[i]
	}
	return ux, uy, math.Sqrt(sx), math.Sqrt(sy), hx, hy
}

func nonFinite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Energy is the angular second moment, sum g(i,j)^2.
func Energy(g *GLCM) float64 {
	return floats.Dot(g.data[:], g.data[:])
}

// Contrast is sum (i-j)^2 g(i,j).
func Contrast(g *GLCM) float64 {
	var s float64
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			d := float64(i - j)
			s += d * d * g.At(i, j)
		}
	}
	return s
}

// Correlation is the linear dependency of gray levels between neighbours.
// A matrix with zero variance along either margin yields 0.
func Correlation(g *GLCM) float64 {
	px, py := g.MarginSums()
	ux, uy, sx, sy, _, _ := marginStats(px, py)
	if sx*sy == 0 {
		return 0
	}
	var s float64
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			s += (float64(i+1) - ux) * (float64(j+1) - uy) * g.At(i, j)
		}
	}
	return s / (sx * sy)
}

// SumOfSquares is the variance of the row levels.
func SumOfSquares(g *GLCM) float64 {
	px, py := g.MarginSums()
	ux, _, _, _, _, _ := marginStats(px, py)
	var s float64
	for i := 0; i < GLCMLevels; i++ {
		d := float64(i+1) - ux
		s += d * d * px[i]
	}
	return s
}

// InverseDifferenceMoment is sum g(i,j) / (1 + (i-j)^2).
func InverseDifferenceMoment(g *GLCM) float64 {
	var s float64
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			d := float64(i - j)
			s += g.At(i, j) / (1 + d*d)
		}
	}
	return s
}

// sumDistribution returns p_{x+y}, of length 2*levels.
func sumDistribution(g *GLCM) []float64 {
	p := make([]float64, 2*GLCMLevels)
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			p[i+j] += g.At(i, j)
		}
	}
	return p
}

// diffDistribution returns p_{|x-y|}, of length levels.
func diffDistribution(g *GLCM) []float64 {
	p := make([]float64, GLCMLevels)
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			d := i - j
			if d < 0 {
				d = -d
			}
			p[d] += g.At(i, j)
		}
	}
	return p
}

func SumAverage(g *GLCM) float64 {
	avg, _, _ := sumStats(sumDistribution(g))
	return avg
}

func SumVariance(g *GLCM) float64 {
	_, variance, _ := sumStats(sumDistribution(g))
	return variance
}

func SumEntropy(g *GLCM) float64 {
	_, _, entropy := sumStats(sumDistribution(g))
	return entropy
}

func sumStats(p []float64) (avg, variance, entropy float64) {
	var sq float64
	for k, x := range p {
		fk := float64(k)
		avg += fk * x
		sq += fk * fk * x
		if x <= entropyEpsilon {
			continue
		}
		entropy -= x * math.Log2(x)
	}
	return avg, sq - avg*avg, entropy
}

// Entropy is -sum g(i,j) log2 g(i,j).
func Entropy(g *GLCM) float64 {
	var s float64
	for _, x := range g.data {
		s -= xlog2(x)
	}
	return s
}

// DifferenceVariance is the population variance of the entries of
// p_{|x-y|}.
func DifferenceVariance(g *GLCM) float64 {
	return diffVariance(diffDistribution(g))
}

func diffVariance(p []float64) float64 {
	mean := floats.Sum(p) / float64(len(p))
	var s float64
	for _, x := range p {
		s += (x - mean) * (x - mean)
	}
	return s / float64(len(p))
}

func DifferenceEntropy(g *GLCM) float64 {
	var s float64
	for _, x := range diffDistribution(g) {
		s -= xlog2(x)
	}
	return s
}

// jointEntropies returns hxy1 = sum g log2 g and hxy2 = sum px py log2(px py).
func jointEntropies(g *GLCM, px, py []float64) (hxy1, hxy2 float64) {
	for i := 0; i < GLCMLevels; i++ {
		for j := 0; j < GLCMLevels; j++ {
			hxy1 += xlog2(g.At(i, j))
			hxy2 += xlog2(px[i] * py[j])
		}
	}
	return hxy1, hxy2
}

// InfoCorrelation1 is the first information measure of correlation.
func InfoCorrelation1(g *GLCM) float64 {
	px, py := g.MarginSums()
	_, _, _, _, hx, hy := marginStats(px, py)
	hxy1, hxy2 := jointEntropies(g, px, py)
	return nonFinite((hxy2 - hxy1) / math.Max(hx, hy))
}

// InfoCorrelation2 is the second information measure of correlation.
func InfoCorrelation2(g *GLCM) float64 {
	px, py := g.MarginSums()
	hxy1, hxy2 := jointEntropies(g, px, py)
	return nonFinite(math.Sqrt(1 - math.Exp(-2*(hxy1-hxy2))))
}

// Haralick computes the 13 features of g in the order of TextureNames in a
// single pass over the matrix.
func Haralick(g *GLCM) [TextureCount]float64 {
	px, py := g.MarginSums()
	ux, uy, sx, sy, hx, hy := marginStats(px, py)

	var (
		energy, contrast, correlation, sumSquares, idm, entropy float64
		hxy1, hxy2                                              float64
	)
	pSum := make([]float64, 2*GLCMLevels)
	pDiff := make([]float64, GLCMLevels)

	for i := 0; i < GLCMLevels; i++ {
		fi := float64(i)
		for j := 0; j < GLCMLevels; j++ {
			x := g.At(i, j)
			fj := float64(j)
			d := fi - fj

			hxy1 += xlog2(x)
			hxy2 += xlog2(px[i] * py[j])

			pSum[i+j] += x
			pDiff[int(math.Abs(d))] += x

			energy += x * x
			contrast += d * d * x
			correlation += (fi + 1 - ux) * (fj + 1 - uy) * x
			sumSquares += (fi + 1 - ux) * (fi + 1 - ux) * x
			idm += x / (1 + d*d)
			entropy -= xlog2(x)
		}
	}

	if sx*sy == 0 {
		correlation = 0
	} else {
		correlation /= sx * sy
	}

	sumAvg, sumVar, sumEntropy := sumStats(pSum)

	var diffEntropy float64
	for _, x := range pDiff {
		diffEntropy -= xlog2(x)
	}

	return [TextureCount]float64{
		energy,
		contrast,
		correlation,
		sumSquares,
		idm,
		sumAvg,
		sumVar,
		sumEntropy,
		entropy,
		diffVariance(pDiff),
		diffEntropy,
		nonFinite((hxy2 - hxy1) / math.Max(hx, hy)),
		nonFinite(math.Sqrt(1 - math.Exp(-2*(hxy1-hxy2)))),
	}
}

// Texture returns the 13 Haralick features of v at distance 1 averaged over
// TextureAngles and every channel.
func Texture[T buffer.Scalar](v buffer.View[T]) [TextureCount]float64 {
	var out [TextureCount]float64
	channels := v.Channels()
	if channels == 0 {
		return out
	}

	for c := 0; c < channels; c++ {
		values, _ := v.Channel(c)
		for _, angle := range TextureAngles {
			g := glcmFromChannel(values, v.Width(), v.Height(), angle, 1)
			h := Haralick(g)
			floats.Add(out[:], h[:])
		}
	}
	floats.Scale(1/float64(len(TextureAngles)*channels), out[:])
	return out
}
