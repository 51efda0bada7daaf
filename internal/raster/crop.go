package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Crop reads the part of every band that falls inside bounds.
//
// The bounds are clipped to the raster extent and converted to the smallest
// covering pixel window, which is clipped again to the raster's pixels.
// Bounds that miss the raster entirely, or degenerate bounds with no area,
// fail with ErrInvalidBounds before any pixel is read.
//
// The returned metadata carries the window's size and a transform anchored
// at the window's top-left pixel.
func Crop(ds Dataset, bounds orb.Bound) (*Result, error) {
	if !(bounds.Min[0] < bounds.Max[0] && bounds.Min[1] < bounds.Max[1]) {
		return nil, fmt.Errorf("bounds %v have no area: %w", bounds, ErrInvalidBounds)
	}

	extent := Describe(ds).Bounds()
	if !bounds.Intersects(extent) {
		return nil, fmt.Errorf("bounds %v vs extent %v: %w", bounds, extent, ErrInvalidBounds)
	}
	bounds = clipBound(bounds, extent)

	t := ds.Transform()
	win, err := WindowFromBounds(bounds, t)
	if err != nil {
		return nil, err
	}
	win = win.Intersect(fullWindow(ds))
	if win.Empty() {
		return nil, fmt.Errorf("bounds %v vs extent %v: %w", bounds, extent, ErrInvalidBounds)
	}

	bands, err := readAll(ds, win)
	if err != nil {
		return nil, err
	}

	meta := Describe(ds)
	meta.Width = win.Width
	meta.Height = win.Height
	meta.Transform = t.Translate(float64(win.ColOff), float64(win.RowOff))

	return &Result{Bands: bands, Meta: meta}, nil
}

func clipBound(b, to orb.Bound) orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Max(b.Min[0], to.Min[0]), math.Max(b.Min[1], to.Min[1])},
		Max: orb.Point{math.Min(b.Max[0], to.Max[0]), math.Min(b.Max[1], to.Max[1])},
	}
}
