package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/sturgmap/sturgmap/internal/raster"
)

// DefaultMaxSize bounds the longer side of a preview in pixels.
const DefaultMaxSize = 1024

// PreviewOptions controls how a band is rendered.
type PreviewOptions struct {
	// Ramp names the color ramp; empty means "gray".
	Ramp string

	// Min and Max set the stretch. A nil bound is taken from the band's statistics.
	Min *float64
	Max *float64

	// MaxSize shrinks the image so neither side exceeds it. Zero means DefaultMaxSize.
	MaxSize int

	// MinSize enlarges small images by an integer factor until the longer side
	// reaches it. Zero disables enlarging.
	MinSize int
}

// PreviewResult contains the rendered PNG.
type PreviewResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Ramp        string  `json:"ramp"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// DataURL returns the image as a data: URL suitable for an <img> or a map overlay.
func (p *PreviewResult) DataURL() string {
	return "data:" + p.MimeType + ";base64," + p.ImageBase64
}

// Render colorizes and resizes a band according to opts.
func Render(g *raster.Grid, opts PreviewOptions) (image.Image, float64, float64, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, 0, 0, fmt.Errorf("cannot render empty %dx%d grid", g.Width, g.Height)
	}

	name := opts.Ramp
	if name == "" {
		name = "gray"
	}
	ramp, err := LookupRamp(name)
	if err != nil {
		return nil, 0, 0, err
	}

	lo, hi := stretch(g, opts.Min, opts.Max)
	var img image.Image = Colorize(g, ramp, lo, hi)

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	longest := max(g.Width, g.Height)
	switch {
	case longest > maxSize:
		img = imaging.Fit(img, maxSize, maxSize, imaging.Linear)
	case opts.MinSize > 0 && longest < opts.MinSize:
		k := int(math.Ceil(float64(opts.MinSize) / float64(longest)))
		img = imaging.Resize(img, g.Width*k, g.Height*k, imaging.NearestNeighbor)
	}
	return img, lo, hi, nil
}

// Preview renders a band and returns it as base64-encoded PNG.
func Preview(g *raster.Grid, opts PreviewOptions) (*PreviewResult, error) {
	img, lo, hi, err := Render(g, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	ramp := opts.Ramp
	if ramp == "" {
		ramp = "gray"
	}
	return &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Ramp:        ramp,
		Min:         lo,
		Max:         hi,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// stretch resolves the value range, filling missing bounds from the band.
// A band with no valid pixels stretches over [0, 1].
func stretch(g *raster.Grid, lo, hi *float64) (float64, float64) {
	if lo != nil && hi != nil {
		return *lo, *hi
	}
	s := raster.GridStatistics(g)
	vmin, vmax := s.Min, s.Max
	if s.Valid == 0 {
		vmin, vmax = 0, 1
	}
	if lo != nil {
		vmin = *lo
	}
	if hi != nil {
		vmax = *hi
	}
	return vmin, vmax
}
