package measure

import "fmt"

const (
	IntensityCount = 7
	MomentsCount   = 24
	TextureCount   = 13
	ZernikeCount   = 30

	// ViewCount is the width of the vector returned by Descriptors.
	ViewCount = IntensityCount + MomentsCount + TextureCount + ZernikeCount

	// MaskCount is the width of the vector returned by MaskDescriptors.
	MaskCount = MomentsCount + ZernikeCount
)

var IntensityNames = [IntensityCount]string{
	"intensity_min",
	"intensity_max",
	"intensity_sum",
	"intensity_mean",
	"intensity_std",
	"intensity_median",
	"intensity_mad",
}

var MomentsNames = [MomentsCount]string{
	"moments_m00",
	"moments_m10",
	"moments_m01",
	"moments_m11",
	"moments_m20",
	"moments_m02",
	"moments_m21",
	"moments_m12",
	"moments_m30",
	"moments_m03",
	"moments_u11",
	"moments_u20",
	"moments_u02",
	"moments_u21",
	"moments_u12",
	"moments_u30",
	"moments_u03",
	"moments_i1",
	"moments_i2",
	"moments_i3",
	"moments_i4",
	"moments_i5",
	"moments_i6",
	"moments_i7",
}

var TextureNames = [TextureCount]string{
	"texture_energy",
	"texture_contrast",
	"texture_correlation",
	"texture_sum_of_squares",
	"texture_inverse_difference_moment",
	"texture_sum_average",
	"texture_sum_variance",
	"texture_sum_entropy",
	"texture_entropy",
	"texture_difference_variance",
	"texture_difference_entropy",
	"texture_infocorr1",
	"texture_infocorr2",
}

// ZernikeNames are zernike_<n><m> for 0 <= m <= n <= 9 with n-m even,
// ordered by n then m.
var ZernikeNames = zernikeNames()

func zernikeNames() [ZernikeCount]string {
	var names [ZernikeCount]string
	for i, nm := range zernikeOrders() {
		names[i] = fmt.Sprintf("zernike_%d%d", nm[0], nm[1])
	}
	return names
}

// ViewNames returns the column names of Descriptors, each prefixed with
// prefix (for example "complete_" or "foreground_").
func ViewNames(prefix string) []string {
	out := make([]string, 0, ViewCount)
	for _, group := range [][]string{IntensityNames[:], MomentsNames[:], TextureNames[:], ZernikeNames[:]} {
		for _, name := range group {
			out = append(out, prefix+name)
		}
	}
	return out
}

// MaskNames returns the column names of MaskDescriptors with prefix.
func MaskNames(prefix string) []string {
	out := make([]string, 0, MaskCount)
	for _, group := range [][]string{MomentsNames[:], ZernikeNames[:]} {
		for _, name := range group {
			out = append(out, prefix+name)
		}
	}
	return out
}
