package raster

import (
	"fmt"
	"math"
)

// NoDataNDVI is the value NDVI produces where NIR+Red is zero.
var NoDataNDVI = math.NaN()

// NDVI computes the Normalized Difference Vegetation Index,
// (nir - red) / (nir + red), pixel by pixel in float64.
//
// Where nir + red == 0 the index is undefined and the pixel is set to
// NoDataNDVI (NaN) instead of failing the whole computation. NaN inputs
// propagate. Bands must have the same shape.
func NDVI(nir, red *Grid) (*Grid, error) {
	if !nir.SameShape(red) {
		return nil, fmt.Errorf("nir %dx%d vs red %dx%d: %w",
			nir.Width, nir.Height, red.Width, red.Height, ErrShapeMismatch)
	}

	out := NewGrid(nir.Width, nir.Height)
	for i := range out.Data {
		n, r := nir.Data[i], red.Data[i]
		sum := n + r
		if sum == 0 {
			out.Data[i] = NoDataNDVI
			continue
		}
		out.Data[i] = (n - r) / sum
	}
	return out, nil
}

// DatasetNDVI reads two bands of ds (1-based) and computes their NDVI.
// The result is a single-band grid on the dataset's own transform.
func DatasetNDVI(ds Dataset, nirBand, redBand int) (*Result, error) {
	nir, err := ReadBand(ds, nirBand)
	if err != nil {
		return nil, fmt.Errorf("failed to read NIR band: %w", err)
	}
	red, err := ReadBand(ds, redBand)
	if err != nil {
		return nil, fmt.Errorf("failed to read red band: %w", err)
	}

	ndvi, err := NDVI(nir, red)
	if err != nil {
		return nil, err
	}

	meta := Describe(ds)
	meta.Count = 1
	meta.NoData = nil
	return &Result{Bands: []*Grid{ndvi}, Meta: meta}, nil
}
