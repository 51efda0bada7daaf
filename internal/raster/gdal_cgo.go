//go:build cgo && gdal

package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerDrivers sync.Once

// gdalAvailable reports whether this build can open rasters through GDAL.
const gdalAvailable = true

// gdalDataset reads pixels lazily through a GDAL dataset handle.
type gdalDataset struct {
	ds        *godal.Dataset
	bands     []godal.Band
	width     int
	height    int
	transform Transform
	crs       string
}

// openGDAL opens any raster format GDAL understands, GeoTIFF included.
func openGDAL(path string) (Dataset, error) {
	registerDrivers.Do(godal.RegisterAll)

	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, fmt.Errorf("gdal open %s: %w", path, err)
	}

	st := ds.Structure()
	t := Identity
	if gt, err := ds.GeoTransform(); err == nil {
		t = FromGDAL(gt)
	}

	return &gdalDataset{
		ds:        ds,
		bands:     ds.Bands(),
		width:     st.SizeX,
		height:    st.SizeY,
		transform: t,
		crs:       ds.Projection(),
	}, nil
}

func (g *gdalDataset) Driver() string       { return "GDAL" }
func (g *gdalDataset) Width() int           { return g.width }
func (g *gdalDataset) Height() int          { return g.height }
func (g *gdalDataset) BandCount() int       { return len(g.bands) }
func (g *gdalDataset) Transform() Transform { return g.transform }
func (g *gdalDataset) CRS() string          { return g.crs }
func (g *gdalDataset) Close() error         { return g.ds.Close() }

func (g *gdalDataset) NoData(band int) (float64, bool) {
	if band < 1 || band > len(g.bands) {
		return 0, false
	}
	return g.bands[band-1].NoData()
}

// ReadWindow reads one band as float64; GDAL converts the native data type.
func (g *gdalDataset) ReadWindow(band int, w Window) (*Grid, error) {
	if err := checkBand(g, band); err != nil {
		return nil, err
	}
	if err := validWindow(g, w); err != nil {
		return nil, err
	}
	out := NewGrid(w.Width, w.Height)
	if err := g.bands[band-1].Read(w.ColOff, w.RowOff, out.Data, w.Width, w.Height); err != nil {
		return nil, fmt.Errorf("gdal read band %d window %s: %w", band, w, err)
	}
	out.maskNoData(g.NoData(band))
	return out, nil
}
