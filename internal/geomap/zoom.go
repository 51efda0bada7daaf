package geomap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	maxFitZoom = 18
	// fitTiles is how many web-mercator tiles a fitted extent may span per axis.
	fitTiles = 3
	// Web mercator stops short of the poles.
	maxLat = 85.05112878
)

// FitZoom returns the deepest zoom level, up to 18, at which b spans no
// more than three tiles along either axis.
func FitZoom(b orb.Bound) int {
	nw := orb.Point{b.Min[0], clampLat(b.Max[1])}
	se := orb.Point{b.Max[0], clampLat(b.Min[1])}

	for z := maxFitZoom; z > 0; z-- {
		tl := maptile.At(nw, maptile.Zoom(z))
		br := maptile.At(se, maptile.Zoom(z))
		if int64(br.X)-int64(tl.X) < fitTiles && int64(br.Y)-int64(tl.Y) < fitTiles {
			return z
		}
	}
	return 0
}

func clampLat(lat float64) float64 {
	if lat > maxLat {
		return maxLat
	}
	if lat < -maxLat {
		return -maxLat
	}
	return lat
}
