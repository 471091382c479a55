package measure

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/object-measure/internal/buffer"
)

// ChannelStats holds the intensity statistics of one channel computed over
// its nonzero values.
type ChannelStats struct {
	Min  float64
	Max  float64
	Sum  float64
	Mean float64
	// Std is the population standard deviation.
	Std float64
}

// nonzero splits the nonzero subpixels of v by channel.
func nonzero[T buffer.Scalar](v buffer.View[T]) [][]float64 {
	out := make([][]float64, v.Channels())
	v.EachPixel(func(px []T) {
		for c, s := range px {
			if s != 0 {
				out[c] = append(out[c], float64(s))
			}
		}
	})
	return out
}

func channelStats(values []float64) ChannelStats {
	if len(values) == 0 {
		return ChannelStats{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return ChannelStats{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Sum:  floats.Sum(values),
		Mean: mean,
		Std:  std,
	}
}

// IntensityChannels returns per-channel statistics of v. A channel with no
// nonzero values reports all zeros.
func IntensityChannels[T buffer.Scalar](v buffer.View[T]) []ChannelStats {
	groups := nonzero(v)
	out := make([]ChannelStats, len(groups))
	for c, values := range groups {
		out[c] = channelStats(values)
	}
	return out
}

// median returns the median of values, averaging the middle pair for an
// even count. values is sorted in place.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	slices.Sort(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

// IntensityMedian returns the median of all nonzero subpixels of v pooled
// across channels.
func IntensityMedian[T buffer.Scalar](v buffer.View[T]) float64 {
	return median(slices.Concat(nonzero(v)...))
}

// IntensityMAD returns the median absolute deviation from the median of all
// nonzero subpixels of v pooled across channels.
func IntensityMAD[T buffer.Scalar](v buffer.View[T]) float64 {
	return mad(slices.Concat(nonzero(v)...))
}

func mad(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := median(values)
	dev := make([]float64, len(values))
	for i, x := range values {
		dev[i] = math.Abs(x - m)
	}
	return median(dev)
}

// Intensity returns the seven intensity descriptors of v in the order of
// IntensityNames. Min, max, sum, mean, and std are averaged over channels.
func Intensity[T buffer.Scalar](v buffer.View[T]) [IntensityCount]float64 {
	var out [IntensityCount]float64
	groups := nonzero(v)
	if len(groups) == 0 {
		return out
	}

	for _, values := range groups {
		s := channelStats(values)
		out[0] += s.Min
		out[1] += s.Max
		out[2] += s.Sum
		out[3] += s.Mean
		out[4] += s.Std
	}
	n := float64(len(groups))
	for i := 0; i < 5; i++ {
		out[i] /= n
	}

	pooled := slices.Concat(groups...)
	out[5] = median(slices.Clone(pooled))
	out[6] = mad(pooled)
	return out
}
