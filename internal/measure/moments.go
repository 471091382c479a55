package measure

import (
	"math"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// pixelMeans returns the per-pixel mean across channels of v in raster
// order.
func pixelMeans[T buffer.Scalar](v buffer.View[T]) []float64 {
	out := make([]float64, 0, v.Width()*v.Height())
	c := float64(v.Channels())
	v.EachPixel(func(px []T) {
		if len(px) == 1 {
			out = append(out, float64(px[0]))
			return
		}
		var s float64
		for _, x := range px {
			s += float64(x)
		}
		out = append(out, s/c)
	})
	return out
}

// RawMoments holds the spatial moments m_pq = sum x^p y^q I(x, y).
type RawMoments struct {
	M00, M10, M01, M11, M20, M02, M21, M12, M30, M03 float64
}

// CentralMoments holds the moments about the centroid. u00, u10 and u01 are
// omitted since they equal m00, 0 and 0.
type CentralMoments struct {
	U11, U20, U02, U21, U12, U30, U03 float64
}

// rawMoments accumulates over a width-wide raster, skipping zero pixels.
func rawMoments(values []float64, width int) RawMoments {
	var m RawMoments
	if width == 0 {
		return m
	}
	for i, p := range values {
		if p == 0 {
			continue
		}
		x := float64(i % width)
		y := float64(i / width)
		xx, yy := x*x, y*y
		m.M00 += p
		m.M10 += x * p
		m.M01 += y * p
		m.M11 += x * y * p
		m.M20 += xx * p
		m.M02 += yy * p
		m.M21 += xx * y * p
		m.M12 += x * yy * p
		m.M30 += xx * x * p
		m.M03 += yy * y * p
	}
	return m
}

// Central returns the central moments. An empty object (m00 == 0) yields
// zeros.
func (m RawMoments) Central() CentralMoments {
	if m.M00 == 0 {
		return CentralMoments{}
	}
	x := m.M10 / m.M00
	y := m.M01 / m.M00
	return CentralMoments{
		U11: m.M11 - x*m.M01,
		U20: m.M20 - x*m.M10,
		U02: m.M02 - y*m.M01,
		U21: m.M21 - 2*x*m.M11 - y*m.M20 + 2*x*x*m.M01,
		U12: m.M12 - 2*y*m.M11 - x*m.M02 + 2*y*y*m.M10,
		U30: m.M30 - 3*x*m.M20 + 2*x*x*m.M10,
		U03: m.M03 - 3*y*m.M02 + 2*y*y*m.M01,
	}
}

// Hu returns the seven Hu invariants from central moments normalised by
// u00 = m00.
func Hu(m00 float64, u CentralMoments) [7]float64 {
	if m00 == 0 {
		return [7]float64{}
	}
	s2 := m00 * m00
	s3 := math.Pow(m00, 2.5)

	n20, n02, n11 := u.U20/s2, u.U02/s2, u.U11/s2
	n30, n03, n21, n12 := u.U30/s3, u.U03/s3, u.U21/s3, u.U12/s3

	p := n20 - n02
	q := n30 - 3*n12
	r := n30 + n12
	z := n21 + n03
	y := 3*n21 - n03

	return [7]float64{
		n20 + n02,
		p*p + 4*n11*n11,
		q*q + y*y,
		r*r + z*z,
		q*r*(r*r-3*z*z) + y*z*(3*r*r-z*z),
		p*(r*r-z*z) + 4*n11*r*z,
		y*r*(r*r-3*z*z) - q*z*(3*r*r-z*z),
	}
}

func momentsVector(values []float64, width int) [MomentsCount]float64 {
	m := rawMoments(values, width)
	if m.M00 == 0 {
		return [MomentsCount]float64{}
	}
	u := m.Central()
	hu := Hu(m.M00, u)

	out := [MomentsCount]float64{
		m.M00, m.M10, m.M01, m.M11, m.M20, m.M02, m.M21, m.M12, m.M30, m.M03,
		u.U11, u.U20, u.U02, u.U21, u.U12, u.U30, u.U03,
	}
	copy(out[17:], hu[:])
	return out
}

// Raw returns the raw moments of v with coordinates relative to the view
// origin.
func Raw[T buffer.Scalar](v buffer.View[T]) RawMoments {
	return rawMoments(pixelMeans(v), v.Width())
}

// Moments returns the 24 moment descriptors of v in the order of
// MomentsNames: ten raw moments, seven central moments, then seven Hu
// invariants.
//
// Example, a 4x4 identity mask:
//
//	m00..m03  [4 6 6 14 14 14 36 36 36 36]
//	u11..u03  [5 5 5 0 0 0 0]
//	i1, i2    0.625, 0.390625
func Moments[T buffer.Scalar](v buffer.View[T]) [MomentsCount]float64 {
	return momentsVector(pixelMeans(v), v.Width())
}
