package measure

import "github.com/ironsheep/object-measure/internal/buffer"

// Descriptors concatenates Intensity, Moments, Texture, and Zernike for v.
// Column names are given by ViewNames.
func Descriptors[T buffer.Scalar](v buffer.View[T]) [ViewCount]float64 {
	var out [ViewCount]float64
	intensity := Intensity(v)
	texture := Texture(v)

	means := pixelMeans(v)
	moments := momentsVector(means, v.Width())
	zernike := [ZernikeCount]float64{}
	if d := unitDisk(means, v.Width(), v.Height()); d.mass != 0 {
		for i, nm := range zernikeOrders() {
			zernike[i] = d.moment(nm[0], nm[1])
		}
	}

	n := copy(out[:], intensity[:])
	n += copy(out[n:], moments[:])
	n += copy(out[n:], texture[:])
	copy(out[n:], zernike[:])
	return out
}

// MaskDescriptors concatenates Moments and Zernike for a binary object
// mask. Column names are given by MaskNames.
func MaskDescriptors[T buffer.Scalar](v buffer.View[T]) [MaskCount]float64 {
	var out [MaskCount]float64
	moments := Moments(v)
	zernike := Zernike(v)
	n := copy(out[:], moments[:])
	copy(out[n:], zernike[:])
	return out
}
