// Package measure computes per-object intensity, moment, texture, and
// Zernike descriptors from buffer views.
//
// Every family is a pure function of a View: no family allocates shared
// state, so any number of objects cropped from the same Buffer may be
// measured concurrently.
//
// # Background Convention
//
// Zero-valued pixels are background. Intensity statistics and raw moments
// skip them, which lets a foreground- or background-masked crop be measured
// with the same functions as a plain crop. A true black pixel in the source
// image is therefore indistinguishable from masked space.
//
// # Multichannel Views
//
// Intensity reports the average of the per-channel statistics, with the
// median and MAD pooled over every nonzero subpixel. Texture averages the
// Haralick features over four angles and every channel. Moments and Zernike
// moments are computed on the per-pixel mean across channels. All families
// therefore return fixed-width vectors whatever the channel count.
//
// # Descriptor Order
//
// The order of each family's values is fixed and matches IntensityNames,
// MomentsNames, TextureNames, and ZernikeNames. Descriptors concatenates the
// four families in that order.
package measure
