package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/sturgmap/sturgmap/internal/raster"
)

// ErrUnknownRamp is returned by LookupRamp for names it does not know.
var ErrUnknownRamp = errors.New("unknown color ramp")

// Ramp maps the unit interval onto a sequence of color stops.
type Ramp struct {
	Name  string
	stops []colorful.Color
}

var ramps = map[string]Ramp{
	"gray":    mustRamp("gray", "#000000", "#ffffff"),
	"viridis": mustRamp("viridis", "#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"ndvi":    mustRamp("ndvi", "#a50026", "#f46d43", "#ffffbf", "#a6d96a", "#006837"),
	"terrain": mustRamp("terrain", "#00a600", "#e6e600", "#eab64e", "#eeb99f", "#f2f2f2"),
}

func mustRamp(name string, hexes ...string) Ramp {
	r := Ramp{Name: name}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("ramp %s: %v", name, err))
		}
		r.stops = append(r.stops, c)
	}
	return r
}

// LookupRamp returns the named ramp.
func LookupRamp(name string) (Ramp, error) {
	r, ok := ramps[name]
	if !ok {
		return Ramp{}, fmt.Errorf("%q (have %v): %w", name, RampNames(), ErrUnknownRamp)
	}
	return r, nil
}

// RampNames lists the available ramps in alphabetical order.
func RampNames() []string {
	names := make([]string, 0, len(ramps))
	for n := range ramps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// At returns the ramp color at position t, clamped to [0, 1].
func (r Ramp) At(t float64) color.NRGBA {
	if math.IsNaN(t) || t <= 0 {
		t = 0
	}
	if t >= 1 {
		t = 1
	}

	seg := t * float64(len(r.stops)-1)
	i := int(seg)
	if i >= len(r.stops)-1 {
		i = len(r.stops) - 2
	}
	c := r.stops[i].BlendLab(r.stops[i+1], seg-float64(i)).Clamped()
	red, green, blue := c.RGB255()
	return color.NRGBA{R: red, G: green, B: blue, A: 255}
}

// Colorize paints a grid through ramp, stretching [lo, hi] onto the full
// ramp. Values outside the range clamp to the end colors. NaN pixels are
// transparent. When lo == hi every valid pixel gets the ramp's midpoint.
func Colorize(g *raster.Grid, ramp Ramp, lo, hi float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	span := hi - lo

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			t := 0.5
			if span != 0 {
				t = (v - lo) / span
			}
			img.SetNRGBA(x, y, ramp.At(t))
		}
	}
	return img
}
