package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ellipseSamples is the minimum number of points used for a fit. Sparser
// outlines are resampled along their arc length first.
const ellipseSamples = 32

// Ellipse holds the parameters of a fitted ellipse.
type Ellipse struct {
	// Major and Minor are full axis lengths.
	Major float64
	Minor float64

	Eccentricity float64

	// Angle is the orientation in radians, in [0, pi).
	Angle float64
}

// FitEllipse fits the conic a*x^2 + b*xy + c*y^2 + d*x + e*y = 1 to the
// outline by linear least squares and derives the ellipse parameters.
//
// Points are centred on their mean before fitting. A degenerate fit, such as
// collinear input, returns the zero Ellipse.
func FitEllipse(points []Point) Ellipse {
	if len(points) < 3 {
		return Ellipse{}
	}

	path := points
	if !IsClosed(points) {
		path = append(append([]Point(nil), points...), points[0])
	}
	if len(path) < ellipseSamples {
		path = ResamplePoints(path, ellipseSamples)
	}

	n := len(path)
	var cx, cy float64
	for _, p := range path[1:] {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(n - 1)
	cy /= float64(n - 1)

	design := mat.NewDense(n, 5, nil)
	target := mat.NewVecDense(n, nil)
	for i, p := range path {
		x, y := p.X-cx, p.Y-cy
		design.SetRow(i, []float64{x * x, x * y, y * y, x, y})
		target.SetVec(i, 1)
	}

	sol, ok := solveLeastSquares(design, target)
	if !ok {
		return Ellipse{}
	}

	a := sol.AtVec(0)
	b := sol.AtVec(1) / 2
	c := sol.AtVec(2)
	d := sol.AtVec(3) / 2
	f := sol.AtVec(4) / 2
	g := -1.0

	den := b*b - a*c
	num := 2 * (a*f*f + c*d*d + g*b*b - 2*b*d*f - a*c*g)
	factor := math.Sqrt((a-c)*(a-c) + 4*b*b)

	major := math.Sqrt(num / den / (factor - a - c))
	minor := math.Sqrt(num / den / (-factor - a - c))

	widthGtHeight := true
	if major < minor {
		widthGtHeight = false
		major, minor = minor, major
	}

	r := (minor / major) * (minor / major)
	if r > 1 {
		r = 1 / r
	}
	ecc := math.Sqrt(1 - r)

	var phi float64
	switch {
	case b == 0 && a < c:
		phi = 0
	case b == 0:
		phi = math.Pi / 2
	default:
		phi = math.Atan(2*b/(a-c)) / 2
		if a > c {
			phi += math.Pi / 2
		}
	}
	if !widthGtHeight {
		phi += math.Pi / 2
	}
	phi = math.Mod(phi, math.Pi)
	if phi < 0 {
		phi += math.Pi
	}

	return Ellipse{
		Major:        finite(2 * major),
		Minor:        finite(2 * minor),
		Eccentricity: finite(ecc),
		Angle:        finite(phi),
	}
}

// solveLeastSquares solves min ||Ax - b|| with a QR factorisation, falling
// back to a rank-revealing SVD when A is rank deficient.
func solveLeastSquares(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, bool) {
	_, cols := a.Dims()
	x := mat.NewVecDense(cols, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(x, false, b); err == nil && vecFinite(x) {
		return x, true
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	rank := svd.Rank(1e-8)
	if rank == 0 {
		return nil, false
	}
	var xm mat.Dense
	svd.SolveTo(&xm, b, rank)
	for i := 0; i < cols; i++ {
		x.SetVec(i, xm.At(i, 0))
	}
	return x, vecFinite(x)
}

func vecFinite(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if f := v.AtVec(i); math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
