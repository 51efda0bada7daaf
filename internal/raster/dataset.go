package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Dataset is an open, readable raster. Bands are numbered from 1.
type Dataset interface {
	// Driver names the backend that opened the dataset, e.g. "GTiff" or "AAIGrid".
	Driver() string
	Width() int
	Height() int
	BandCount() int
	Transform() Transform
	// CRS is the dataset's coordinate reference system as WKT, or "" when unknown.
	CRS() string
	// NoData returns the declared nodata value of a band, if any.
	NoData(band int) (float64, bool)
	// ReadWindow reads one band restricted to w. Nodata pixels come back as NaN.
	ReadWindow(band int, w Window) (*Grid, error)
	Close() error
}

// Metadata describes the pixel grid of a dataset or an operation result.
type Metadata struct {
	Driver    string    `json:"driver"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Count     int       `json:"count"`
	Transform Transform `json:"transform"`
	CRS       string    `json:"crs,omitempty"`
	NoData    *float64  `json:"nodata,omitempty"`
}

// Bounds returns the geographic extent of the grid.
func (m Metadata) Bounds() orb.Bound {
	return WindowBounds(Window{Width: m.Width, Height: m.Height}, m.Transform)
}

// Describe collects a dataset's metadata. NoData reflects band 1 and is left
// nil when the band uses NaN, which readers already produce for nodata.
func Describe(ds Dataset) Metadata {
	m := Metadata{
		Driver:    ds.Driver(),
		Width:     ds.Width(),
		Height:    ds.Height(),
		Count:     ds.BandCount(),
		Transform: ds.Transform(),
		CRS:       ds.CRS(),
	}
	if ds.BandCount() > 0 {
		if nd, ok := ds.NoData(1); ok && !math.IsNaN(nd) {
			m.NoData = &nd
		}
	}
	return m
}

// Result is the output of an operation that derives a new grid.
type Result struct {
	Bands []*Grid  `json:"-"`
	Meta  Metadata `json:"metadata"`
}

// Dataset wraps the result so it can be fed into further operations.
func (r *Result) Dataset() *MemDataset {
	ds := &MemDataset{
		driver:    "MEM",
		bands:     r.Bands,
		transform: r.Meta.Transform,
		crs:       r.Meta.CRS,
	}
	if len(r.Bands) > 0 {
		ds.width, ds.height = r.Bands[0].Width, r.Bands[0].Height
	}
	return ds
}

func checkBand(ds Dataset, band int) error {
	if band < 1 || band > ds.BandCount() {
		return fmt.Errorf("band %d of %d: %w", band, ds.BandCount(), ErrInvalidBand)
	}
	return nil
}

func fullWindow(ds Dataset) Window {
	return Window{Width: ds.Width(), Height: ds.Height()}
}

// ReadBand reads an entire band.
func ReadBand(ds Dataset, band int) (*Grid, error) {
	if err := checkBand(ds, band); err != nil {
		return nil, err
	}
	return ds.ReadWindow(band, fullWindow(ds))
}

// readAll reads every band restricted to w.
func readAll(ds Dataset, w Window) ([]*Grid, error) {
	bands := make([]*Grid, 0, ds.BandCount())
	for b := 1; b <= ds.BandCount(); b++ {
		g, err := ds.ReadWindow(b, w)
		if err != nil {
			return nil, fmt.Errorf("failed to read band %d: %w", b, err)
		}
		bands = append(bands, g)
	}
	return bands, nil
}

// validWindow rejects windows that fall outside ds. Backends call it before
// touching pixel storage.
func validWindow(ds Dataset, w Window) error {
	if w.Empty() || w.Intersect(fullWindow(ds)) != w {
		return fmt.Errorf("window %s outside %dx%d raster: %w", w, ds.Width(), ds.Height(), ErrInvalidBounds)
	}
	return nil
}
