package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// snap absorbs floating point noise when converting bounds to pixel edges.
const snap = 1e-9

// maxPixelCoord bounds window offsets so far-away corners still convert to int.
const maxPixelCoord = 1 << 30

// Window is a rectangular block of pixels.
type Window struct {
	ColOff int `json:"col_off"`
	RowOff int `json:"row_off"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// Intersect clips w to o. The result may be empty.
func (w Window) Intersect(o Window) Window {
	c0 := max(w.ColOff, o.ColOff)
	r0 := max(w.RowOff, o.RowOff)
	c1 := min(w.ColOff+w.Width, o.ColOff+o.Width)
	r1 := min(w.RowOff+w.Height, o.RowOff+o.Height)
	return Window{ColOff: c0, RowOff: r0, Width: c1 - c0, Height: r1 - r0}
}

// String formats the window as "col,row wxh".
func (w Window) String() string {
	return fmt.Sprintf("%d,%d %dx%d", w.ColOff, w.RowOff, w.Width, w.Height)
}

// WindowFromBounds converts geographic bounds to the smallest pixel window
// that covers them. All four corners are inverted so rotated transforms
// yield the enclosing window. The window is not clipped to any raster, but
// pixel coordinates beyond ±maxPixelCoord are pinned there. Corners
// that map to no pixel, as infinite bounds can, fail with ErrInvalidBounds.
func WindowFromBounds(b orb.Bound, t Transform) (Window, error) {
	corners := []orb.Point{b.Min, {b.Min[0], b.Max[1]}, b.Max, {b.Max[0], b.Min[1]}}

	minCol, minRow := math.Inf(1), math.Inf(1)
	maxCol, maxRow := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		col, row, err := t.Invert(p[0], p[1])
		if err != nil {
			return Window{}, err
		}
		if math.IsNaN(col) || math.IsNaN(row) {
			return Window{}, fmt.Errorf("corner %v maps to no pixel: %w", p, ErrInvalidBounds)
		}
		col, row = clampf(col, -maxPixelCoord, maxPixelCoord), clampf(row, -maxPixelCoord, maxPixelCoord)
		minCol, maxCol = math.Min(minCol, col), math.Max(maxCol, col)
		minRow, maxRow = math.Min(minRow, row), math.Max(maxRow, row)
	}

	c0 := int(math.Floor(minCol + snap))
	r0 := int(math.Floor(minRow + snap))
	c1 := int(math.Ceil(maxCol - snap))
	r1 := int(math.Ceil(maxRow - snap))
	return Window{ColOff: c0, RowOff: r0, Width: c1 - c0, Height: r1 - r0}, nil
}

// WindowBounds returns the geographic bounds covered by a window of t.
func WindowBounds(w Window, t Transform) orb.Bound {
	corners := [][2]float64{
		{float64(w.ColOff), float64(w.RowOff)},
		{float64(w.ColOff + w.Width), float64(w.RowOff)},
		{float64(w.ColOff), float64(w.RowOff + w.Height)},
		{float64(w.ColOff + w.Width), float64(w.RowOff + w.Height)},
	}
	x, y := t.Apply(corners[0][0], corners[0][1])
	b := orb.Point{x, y}.Bound()
	for _, c := range corners[1:] {
		x, y = t.Apply(c[0], c[1])
		b = b.Extend(orb.Point{x, y})
	}
	return b
}
