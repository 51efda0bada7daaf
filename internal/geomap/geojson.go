package geomap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// VectorOptions styles a GeoJSON or shapefile layer. Nil styles fall back
// to DefaultStyle and DefaultHoverStyle.
type VectorOptions struct {
	Style      Style
	HoverStyle Style
}

func (o *VectorOptions) styles() (Style, Style) {
	style, hover := DefaultStyle(), DefaultHoverStyle()
	if o == nil {
		return style, hover
	}
	if o.Style != nil {
		style = o.Style
	}
	if o.HoverStyle != nil {
		hover = o.HoverStyle
	}
	return style, hover
}

// AddGeoJSON adds a feature collection as a vector layer.
func (m *Map) AddGeoJSON(fc *geojson.FeatureCollection, name string, opts *VectorOptions) error {
	if fc == nil {
		return fmt.Errorf("geojson layer %q has no data", name)
	}
	style, hover := opts.styles()
	return m.Add(&GeoJSONLayer{name: name, Data: fc, Style: style, HoverStyle: hover})
}

// AddGeoJSONFile reads a GeoJSON document from disk and adds it. An empty
// name uses the file path.
func (m *Map) AddGeoJSONFile(path, name string, opts *VectorOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	fc, err := ParseGeoJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if name == "" {
		name = path
	}
	return m.AddGeoJSON(fc, name, opts)
}

// ParseGeoJSON decodes a FeatureCollection, a single Feature or a bare
// geometry, always returning a FeatureCollection.
func ParseGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "FeatureCollection":
		return geojson.UnmarshalFeatureCollection(data)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		fc := geojson.NewFeatureCollection()
		return fc.Append(f), nil
	case "":
		return nil, fmt.Errorf("missing geojson type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		fc := geojson.NewFeatureCollection()
		return fc.Append(geojson.NewFeature(g.Geometry())), nil
	}
}
