package raster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OpenASCIIGrid reads an ESRI ASCII grid file.
func OpenASCIIGrid(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASCII grid: %w", err)
	}
	defer f.Close()

	ds, err := ReadASCIIGrid(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ds, nil
}

// ReadASCIIGrid parses an ESRI ASCII grid (AAIGrid) into memory.
//
// The header accepts ncols, nrows, xllcorner|xllcenter, yllcorner|yllcenter,
// cellsize (or dx and dy) and an optional NODATA_value, in any order and any
// letter case. The lower-left reference is converted to a north-up transform
// anchored at the top-left corner.
func ReadASCIIGrid(r io.Reader) (Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	header := make(map[string]float64)
	var first string
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key
			break
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("header key %q has no value", key)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("header %s: %w", key, err)
		}
		header[key] = v
	}

	ncols, nrows := int(header["ncols"]), int(header["nrows"])
	if ncols <= 0 || nrows <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", ncols, nrows)
	}

	dx, dy := header["cellsize"], header["cellsize"]
	if v, ok := header["dx"]; ok {
		dx = v
	}
	if v, ok := header["dy"]; ok {
		dy = v
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("invalid cell size %vx%v", dx, dy)
	}

	var xll, yll float64
	switch {
	case hasKey(header, "xllcorner"):
		xll = header["xllcorner"]
	case hasKey(header, "xllcenter"):
		xll = header["xllcenter"] - dx/2
	default:
		return nil, fmt.Errorf("missing xllcorner/xllcenter")
	}
	switch {
	case hasKey(header, "yllcorner"):
		yll = header["yllcorner"]
	case hasKey(header, "yllcenter"):
		yll = header["yllcenter"] - dy/2
	default:
		return nil, fmt.Errorf("missing yllcorner/yllcenter")
	}

	g := NewGrid(ncols, nrows)
	i := 0
	if first != "" {
		v, _ := strconv.ParseFloat(first, 64)
		g.Data[0] = v
		i = 1
	}
	for ; i < len(g.Data) && sc.Scan(); i++ {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		g.Data[i] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if i < len(g.Data) {
		return nil, fmt.Errorf("got %d values, want %d", i, len(g.Data))
	}

	mem, err := NewMemDataset(NorthUp(xll, yll+float64(nrows)*dy, dx, dy), g)
	if err != nil {
		return nil, err
	}
	mem.driver = "AAIGrid"
	if nd, ok := header["nodata_value"]; ok {
		mem.SetNoData(1, nd)
	}
	return mem, nil
}

func hasKey(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}
