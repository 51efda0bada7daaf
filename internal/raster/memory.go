package raster

import "fmt"

// MemDataset is a Dataset held entirely in memory.
type MemDataset struct {
	driver    string
	width     int
	height    int
	bands     []*Grid
	transform Transform
	crs       string
	nodata    map[int]float64
}

// NewMemDataset builds an in-memory dataset from equally sized bands.
func NewMemDataset(t Transform, bands ...*Grid) (*MemDataset, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("in-memory dataset needs at least one band")
	}
	for i, b := range bands[1:] {
		if !b.SameShape(bands[0]) {
			return nil, fmt.Errorf("band %d is %dx%d, band 1 is %dx%d: %w",
				i+2, b.Width, b.Height, bands[0].Width, bands[0].Height, ErrShapeMismatch)
		}
	}
	return &MemDataset{
		driver:    "MEM",
		width:     bands[0].Width,
		height:    bands[0].Height,
		bands:     bands,
		transform: t,
	}, nil
}

// SetCRS records the dataset's coordinate reference system.
func (m *MemDataset) SetCRS(wkt string) { m.crs = wkt }

// SetNoData declares a nodata value for a band.
func (m *MemDataset) SetNoData(band int, v float64) {
	if m.nodata == nil {
		m.nodata = make(map[int]float64)
	}
	m.nodata[band] = v
}

func (m *MemDataset) Driver() string       { return m.driver }
func (m *MemDataset) Width() int           { return m.width }
func (m *MemDataset) Height() int          { return m.height }
func (m *MemDataset) BandCount() int       { return len(m.bands) }
func (m *MemDataset) Transform() Transform { return m.transform }
func (m *MemDataset) CRS() string          { return m.crs }
func (m *MemDataset) Close() error         { return nil }

func (m *MemDataset) NoData(band int) (float64, bool) {
	v, ok := m.nodata[band]
	return v, ok
}

// ReadWindow copies the requested block out of the band.
func (m *MemDataset) ReadWindow(band int, w Window) (*Grid, error) {
	if err := checkBand(m, band); err != nil {
		return nil, err
	}
	if err := validWindow(m, w); err != nil {
		return nil, err
	}
	src := m.bands[band-1]
	out := NewGrid(w.Width, w.Height)
	for r := 0; r < w.Height; r++ {
		start := (w.RowOff+r)*src.Width + w.ColOff
		copy(out.Data[r*w.Width:(r+1)*w.Width], src.Data[start:start+w.Width])
	}
	out.maskNoData(m.NoData(band))
	return out, nil
}
