package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// worldFileCandidates lists the sidecar names checked for an image, in order.
func worldFileCandidates(path string) []string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	lower := strings.ToLower(ext)

	var short string
	if len(lower) >= 3 {
		// .tif -> .tfw, .png -> .pgw, .jpg -> .jgw
		short = "." + lower[1:2] + lower[len(lower)-1:] + "w"
	}

	cands := []string{}
	if short != "" {
		cands = append(cands, base+short)
	}
	return append(cands, path+"w", base+".wld")
}

// ReadWorldFile parses the six-line world file format (A, D, B, E, C, F).
// C and F name the center of the top-left pixel; the returned transform is
// anchored at its corner.
func ReadWorldFile(path string) (Transform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Transform{}, err
	}
	defer f.Close()

	var v []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(v) < 6 {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		x, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return Transform{}, fmt.Errorf("world file %s line %d: %w", path, len(v)+1, err)
		}
		v = append(v, x)
	}
	if err := sc.Err(); err != nil {
		return Transform{}, err
	}
	if len(v) < 6 {
		return Transform{}, fmt.Errorf("world file %s has %d values, want 6", path, len(v))
	}

	a, d, b, e, c, fy := v[0], v[1], v[2], v[3], v[4], v[5]
	return Transform{
		X0:    c - a/2 - b/2,
		XRes:  a,
		XSkew: b,
		Y0:    fy - d/2 - e/2,
		YSkew: d,
		YRes:  e,
	}, nil
}

// OpenWorldFile decodes a TIFF, PNG or JPEG image and georeferences it with
// its world file. Without a world file the image cannot be placed on the map
// and ErrMissingDependency is returned, since only GDAL could read embedded
// GeoTIFF tags.
func OpenWorldFile(path string) (Dataset, error) {
	var t Transform
	found := false
	for _, cand := range worldFileCandidates(path) {
		if _, err := os.Stat(cand); err != nil {
			continue
		}
		wt, err := ReadWorldFile(cand)
		if err != nil {
			return nil, err
		}
		t, found = wt, true
		break
	}
	if !found {
		return nil, fmt.Errorf("%s has no world file and GDAL support is not compiled in: %w",
			path, ErrMissingDependency)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s is not a PNG, JPEG or TIFF image: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	mem, err := NewMemDataset(t, imageBands(img)...)
	if err != nil {
		return nil, err
	}
	mem.driver = strings.ToUpper(format)
	return mem, nil
}

// imageBands splits a decoded image into float bands. Grayscale images give
// one band, everything else gives R, G and B. Fully transparent pixels become
// NaN in every band.
func imageBands(img image.Image) []*Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		g := NewGrid(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Set(x, y, float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return []*Grid{g}
	case *image.Gray16:
		g := NewGrid(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Set(x, y, float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return []*Grid{g}
	}

	deep := false
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64:
		deep = true
	}

	r, g, b := NewGrid(w, h), NewGrid(w, h), NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			if c.A == 0 {
				r.Set(x, y, math.NaN())
				g.Set(x, y, math.NaN())
				b.Set(x, y, math.NaN())
				continue
			}
			if deep {
				r.Set(x, y, float64(c.R))
				g.Set(x, y, float64(c.G))
				b.Set(x, y, float64(c.B))
			} else {
				r.Set(x, y, float64(c.R>>8))
				g.Set(x, y, float64(c.G>>8))
				b.Set(x, y, float64(c.B>>8))
			}
		}
	}
	return []*Grid{r, g, b}
}
