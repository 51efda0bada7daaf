package geomap

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/sturgmap/sturgmap/internal/imaging"
	"github.com/sturgmap/sturgmap/internal/raster"
)

// ErrNotGeographic is returned for rasters whose extent is not in
// longitude/latitude degrees.
var ErrNotGeographic = errors.New("raster extent is not in geographic coordinates")

// RasterOptions controls how a raster is drawn.
type RasterOptions struct {
	// Band is 1-based; zero means band 1.
	Band int
	// Ramp names a color ramp; empty means "gray".
	Ramp string
	// Min and Max override the stretch taken from the band's statistics.
	Min, Max *float64
	// Opacity in (0, 1]; zero means opaque.
	Opacity float64
	// ZoomToLayer moves the initial view onto the raster.
	ZoomToLayer bool
	// MaxSize bounds the overlay image; zero means imaging.DefaultMaxSize.
	MaxSize int
}

// AddRaster renders a band of ds as an image overlay.
func (m *Map) AddRaster(ds raster.Dataset, name string, opts *RasterOptions) error {
	if opts == nil {
		opts = &RasterOptions{}
	}
	band := opts.Band
	if band == 0 {
		band = 1
	}

	meta := raster.Describe(ds)
	b := meta.Bounds()
	if !geographic(b) {
		return fmt.Errorf("%q bounds %v: %w", name, b, ErrNotGeographic)
	}

	g, err := raster.ReadBand(ds, band)
	if err != nil {
		return err
	}
	p, err := imaging.Preview(g, imaging.PreviewOptions{
		Ramp:    opts.Ramp,
		Min:     opts.Min,
		Max:     opts.Max,
		MaxSize: opts.MaxSize,
	})
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", name, err)
	}

	if err := m.Add(&ImageOverlay{name: name, URL: p.DataURL(), Extent: b, Opacity: opts.Opacity}); err != nil {
		return err
	}
	if opts.ZoomToLayer {
		m.ZoomTo(b)
	}
	return nil
}

// AddRasterFile opens a raster with raster.Open and adds it. An empty name
// uses the file path.
func (m *Map) AddRasterFile(path, name string, opts *RasterOptions) error {
	ds, err := raster.Open(path)
	if err != nil {
		return err
	}
	defer ds.Close()
	if name == "" {
		name = path
	}
	return m.AddRaster(ds, name, opts)
}

func geographic(b orb.Bound) bool {
	return b.Min[0] >= -180 && b.Max[0] <= 180 && b.Min[1] >= -90 && b.Max[1] <= 90
}
