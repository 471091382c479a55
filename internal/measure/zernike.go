package measure

import (
	"math"
	"math/cmplx"

	"github.com/ironsheep/object-measure/internal/buffer"
)

var factorial = [10]float64{1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880}

// zernikeOrders lists (n, m) for 0 <= m <= n <= 9 with n-m even.
func zernikeOrders() [][2]int {
	out := make([][2]int, 0, ZernikeCount)
	for n := 0; n <= 9; n++ {
		for m := 0; m <= n; m++ {
			if (n-m)%2 == 0 {
				out = append(out, [2]int{n, m})
			}
		}
	}
	return out
}

// RadialPolynomial evaluates R_nm(r) for n <= 9.
func RadialPolynomial(n, m int, r float64) float64 {
	var s float64
	for k := 0; k <= (n-m)/2; k++ {
		c := factorial[n-k] /
			(factorial[k] * factorial[(n+m)/2-k] * factorial[(n-m)/2-k])
		if k%2 == 1 {
			c = -c
		}
		s += c * math.Pow(r, float64(n-2*k))
	}
	return s
}

// ZernikePolynomial evaluates V_nm(r, theta) = R_nm(r) exp(i m theta).
func ZernikePolynomial(n, m int, r, theta float64) complex128 {
	return complex(RadialPolynomial(n, m, r), 0) * cmplx.Exp(complex(0, float64(m)*theta))
}

// disk holds the pixels of a raster that fall inside the unit disk.
type disk struct {
	r, theta, value []float64
	mass            float64
}

// unitDisk maps pixel (x, y) to ((x-w/2)/(w/2), (y-h/2)/(h/2)) and keeps
// the points with radius <= 1.
func unitDisk(values []float64, width, height int) disk {
	var d disk
	if width == 0 || height == 0 {
		return d
	}
	hw := float64(width) / 2
	hh := float64(height) / 2
	for i, p := range values {
		xn := (float64(i%width) - hw) / hw
		yn := (float64(i/width) - hh) / hh
		r := math.Hypot(xn, yn)
		if r > 1 {
			continue
		}
		d.r = append(d.r, r)
		d.theta = append(d.theta, math.Atan2(yn, xn))
		d.value = append(d.value, p)
		d.mass += p
	}
	return d
}

func (d disk) moment(n, m int) float64 {
	if d.mass == 0 {
		return 0
	}
	var a complex128
	for i, r := range d.r {
		v := ZernikePolynomial(n, m, r, d.theta[i])
		a += cmplx.Conj(v) * complex(d.value[i]/d.mass, 0)
	}
	return cmplx.Abs(a) * float64(n+1) / math.Pi
}

// ZernikeMoment returns |A_nm| of v, or 0 for an object with no mass inside
// the unit disk.
func ZernikeMoment[T buffer.Scalar](v buffer.View[T], n, m int) float64 {
	return unitDisk(pixelMeans(v), v.Width(), v.Height()).moment(n, m)
}

// Zernike returns the 30 Zernike moment magnitudes of v in the order of
// ZernikeNames.
func Zernike[T buffer.Scalar](v buffer.View[T]) [ZernikeCount]float64 {
	var out [ZernikeCount]float64
	d := unitDisk(pixelMeans(v), v.Width(), v.Height())
	if d.mass == 0 {
		return out
	}
	for i, nm := range zernikeOrders() {
		out[i] = d.moment(nm[0], nm[1])
	}
	return out
}
