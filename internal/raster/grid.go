package raster

import (
	"fmt"
	"math"
)

// Grid is a single band of pixel values stored row-major.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zero-filled width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Data: make([]float64, width*height)}
}

// GridFromRows builds a grid from a slice of equal-length rows.
func GridFromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	w := len(rows[0])
	g := NewGrid(w, len(rows))
	for r, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", r, len(row), w, ErrShapeMismatch)
		}
		copy(g.Data[r*w:], row)
	}
	return g, nil
}

// Filled returns a width x height grid with every pixel set to v.
func Filled(width, height int, v float64) *Grid {
	g := NewGrid(width, height)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

// At returns the value at (col, row). It panics if the position is outside the grid.
func (g *Grid) At(col, row int) float64 {
	return g.Data[row*g.Width+col]
}

// Set stores v at (col, row).
func (g *Grid) Set(col, row int, v float64) {
	g.Data[row*g.Width+col] = v
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.Height)
	for r := range rows {
		rows[r] = append([]float64(nil), g.Data[r*g.Width:(r+1)*g.Width]...)
	}
	return rows
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// maskNoData replaces every pixel equal to nodata with NaN.
func (g *Grid) maskNoData(nodata float64, ok bool) {
	if !ok || math.IsNaN(nodata) {
		return
	}
	for i, v := range g.Data {
		if v == nodata {
			g.Data[i] = math.NaN()
		}
	}
}
