package raster

import (
	"fmt"
	"math"
)

// MaxResamplePixels caps the pixel count of a single resampled band.
const MaxResamplePixels = 1 << 28

// Resample scales every band by factor using bilinear interpolation.
//
// Target dimensions are round(dim*factor), never less than one pixel. The
// transform is rescaled by the ratio of old to new dimensions rather than by
// factor itself, so the output covers exactly the same extent even when
// rounding changed the effective factor. A factor that would produce more
// than MaxResamplePixels pixels per band fails with ErrInvalidScale.
func Resample(ds Dataset, factor float64) (*Result, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("resample by %v: %w", factor, ErrInvalidScale)
	}

	w, h := ds.Width(), ds.Height()
	fw := math.Max(1, math.Round(float64(w)*factor))
	fh := math.Max(1, math.Round(float64(h)*factor))
	if fw*fh > MaxResamplePixels {
		return nil, fmt.Errorf("resample %dx%d by %v exceeds %d pixels: %w", w, h, factor, MaxResamplePixels, ErrInvalidScale)
	}
	newW, newH := int(fw), int(fh)

	bands := make([]*Grid, 0, ds.BandCount())
	for b := 1; b <= ds.BandCount(); b++ {
		src, err := ReadBand(ds, b)
		if err != nil {
			return nil, fmt.Errorf("failed to read band %d: %w", b, err)
		}
		bands = append(bands, Bilinear(src, newW, newH))
	}

	meta := Describe(ds)
	meta.Width = newW
	meta.Height = newH
	meta.Transform = ds.Transform().Scale(float64(w)/float64(newW), float64(h)/float64(newH))

	return &Result{Bands: bands, Meta: meta}, nil
}

// Bilinear resizes src to width x height.
//
// Output pixel centers are mapped onto the source grid (half-pixel
// alignment) and each value is the weighted average of the four surrounding
// source pixels. Samples beyond the edge clamp to the border pixel. NaN
// neighbours are left out of the average; the output is NaN only when every
// contributing neighbour is NaN.
func Bilinear(src *Grid, width, height int) *Grid {
	dst := NewGrid(width, height)
	if src.Width == 0 || src.Height == 0 {
		return dst
	}

	sx := float64(src.Width) / float64(width)
	sy := float64(src.Height) / float64(height)

	for r := 0; r < height; r++ {
		fy := clampf((float64(r)+0.5)*sy-0.5, 0, float64(src.Height-1))
		y0 := int(fy)
		y1 := min(y0+1, src.Height-1)
		wy := fy - float64(y0)

		for c := 0; c < width; c++ {
			fx := clampf((float64(c)+0.5)*sx-0.5, 0, float64(src.Width-1))
			x0 := int(fx)
			x1 := min(x0+1, src.Width-1)
			wx := fx - float64(x0)

			dst.Set(c, r, blend(
				src.At(x0, y0), src.At(x1, y0), src.At(x0, y1), src.At(x1, y1),
				(1-wx)*(1-wy), wx*(1-wy), (1-wx)*wy, wx*wy,
			))
		}
	}
	return dst
}

// blend computes a weighted mean of four samples, skipping NaNs.
func blend(v00, v10, v01, v11, w00, w10, w01, w11 float64) float64 {
	vals := [4]float64{v00, v10, v01, v11}
	weights := [4]float64{w00, w10, w01, w11}

	var sum, wsum float64
	for i, v := range vals {
		if weights[i] == 0 || math.IsNaN(v) {
			continue
		}
		sum += v * weights[i]
		wsum += weights[i]
	}
	if wsum == 0 {
		return math.NaN()
	}
	return sum / wsum
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
