package raster

import (
	"fmt"
	"math"
)

// Transform is an affine mapping from pixel space to geographic space,
// stored in GDAL geotransform order:
//
//	x = X0 + col*XRes + row*XSkew
//	y = Y0 + col*YSkew + row*YRes
//
// For a north-up raster XSkew and YSkew are zero and YRes is negative.
type Transform struct {
	X0    float64 `json:"x0"`
	XRes  float64 `json:"x_res"`
	XSkew float64 `json:"x_skew"`
	Y0    float64 `json:"y0"`
	YSkew float64 `json:"y_skew"`
	YRes  float64 `json:"y_res"`
}

// Identity maps pixel coordinates onto themselves, with rows growing downward.
var Identity = Transform{XRes: 1, YRes: 1}

// NorthUp builds the transform of an unrotated grid whose top-left corner is
// at (originX, originY) with square-ish cells of the given size.
func NorthUp(originX, originY, cellW, cellH float64) Transform {
	return Transform{X0: originX, XRes: cellW, Y0: originY, YRes: -cellH}
}

// FromGDAL converts a GDAL geotransform array.
func FromGDAL(gt [6]float64) Transform {
	return Transform{X0: gt[0], XRes: gt[1], XSkew: gt[2], Y0: gt[3], YSkew: gt[4], YRes: gt[5]}
}

// GDAL returns the transform as a GDAL geotransform array.
func (t Transform) GDAL() [6]float64 {
	return [6]float64{t.X0, t.XRes, t.XSkew, t.Y0, t.YSkew, t.YRes}
}

// Apply maps a (possibly fractional) pixel position to geographic coordinates.
func (t Transform) Apply(col, row float64) (x, y float64) {
	return t.X0 + col*t.XRes + row*t.XSkew, t.Y0 + col*t.YSkew + row*t.YRes
}

func (t Transform) determinant() float64 {
	return t.XRes*t.YRes - t.XSkew*t.YSkew
}

// Invert maps geographic coordinates back to fractional pixel coordinates.
func (t Transform) Invert(x, y float64) (col, row float64, err error) {
	det := t.determinant()
	if det == 0 || math.IsNaN(det) {
		return 0, 0, fmt.Errorf("transform %v is not invertible", t.GDAL())
	}
	dx, dy := x-t.X0, y-t.Y0
	col = (dx*t.YRes - dy*t.XSkew) / det
	row = (dy*t.XRes - dx*t.YSkew) / det
	return col, row, nil
}

// Translate returns the transform of a grid whose origin sits at pixel
// (col, row) of t.
func (t Transform) Translate(col, row float64) Transform {
	out := t
	out.X0, out.Y0 = t.Apply(col, row)
	return out
}

// Scale returns the transform of a grid whose pixels are sx times wider and
// sy times taller than t's, sharing the same origin.
func (t Transform) Scale(sx, sy float64) Transform {
	return Transform{
		X0:    t.X0,
		XRes:  t.XRes * sx,
		XSkew: t.XSkew * sy,
		Y0:    t.Y0,
		YSkew: t.YSkew * sx,
		YRes:  t.YRes * sy,
	}
}
