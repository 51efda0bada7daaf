package geomap

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer is something drawn on the map.
type Layer interface {
	Name() string
	// Kind is "tile", "geojson" or "image".
	Kind() string
	// Bounds is the layer's extent; ok is false for world-covering layers.
	Bounds() (b orb.Bound, ok bool)
	// script returns a JavaScript expression that constructs the Leaflet layer.
	script() (string, error)
}

// Style is a Leaflet path style, e.g. {"color": "green", "weight": 1}.
type Style map[string]interface{}

// DefaultStyle is applied to vector layers added without a style.
func DefaultStyle() Style {
	return Style{"color": "green", "weight": 1, "fillOpacity": 0}
}

// DefaultHoverStyle is applied on mouse-over to vector layers added without one.
func DefaultHoverStyle() Style {
	return Style{"fillColor": "#00ff00", "fillOpacity": 0.5}
}

// TileOptions are optional settings for a tile layer.
type TileOptions struct {
	Attribution string  `json:"attribution,omitempty"`
	MaxZoom     int     `json:"maxZoom,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// TileLayer is an XYZ tile layer such as a basemap.
type TileLayer struct {
	TileOptions
	name string
	URL  string
}

func (l *TileLayer) Name() string              { return l.name }
func (l *TileLayer) Kind() string              { return "tile" }
func (l *TileLayer) Bounds() (orb.Bound, bool) { return orb.Bound{}, false }

func (l *TileLayer) script() (string, error) {
	url, err := jsonString(l.URL)
	if err != nil {
		return "", err
	}
	opts, err := jsonString(l.TileOptions)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("L.tileLayer(%s, %s)", url, opts), nil
}

// GeoJSONLayer draws a feature collection.
type GeoJSONLayer struct {
	name       string
	Data       *geojson.FeatureCollection
	Style      Style
	HoverStyle Style
}

func (l *GeoJSONLayer) Name() string { return l.name }
func (l *GeoJSONLayer) Kind() string { return "geojson" }

// Bounds is the union of all feature geometries.
func (l *GeoJSONLayer) Bounds() (orb.Bound, bool) {
	var b orb.Bound
	ok := false
	for _, f := range l.Data.Features {
		if f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if !ok {
			b, ok = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, ok
}

func (l *GeoJSONLayer) script() (string, error) {
	data, err := l.Data.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode %q: %w", l.name, err)
	}
	style, err := jsonString(l.Style)
	if err != nil {
		return "", err
	}
	hover, err := jsonString(l.HoverStyle)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function () {
  var style = %s, hover = %s;
  var layer = L.geoJSON(%s, {style: function () { return style; }});
  layer.eachLayer(function (l) {
    if (!l.setStyle) { return; }
    l.on("mouseover", function () { l.setStyle(hover); });
    l.on("mouseout", function () { layer.resetStyle(l); });
  });
  return layer;
})()`, style, hover, data), nil
}

// ImageOverlay stretches a picture over a geographic rectangle.
type ImageOverlay struct {
	name    string
	URL     string
	Extent  orb.Bound
	Opacity float64
}

func (l *ImageOverlay) Name() string              { return l.name }
func (l *ImageOverlay) Kind() string              { return "image" }
func (l *ImageOverlay) Bounds() (orb.Bound, bool) { return l.Extent, true }

func (l *ImageOverlay) script() (string, error) {
	url, err := jsonString(l.URL)
	if err != nil {
		return "", err
	}
	opacity := l.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	// Leaflet bounds are [[south, west], [north, east]].
	return fmt.Sprintf(`L.imageOverlay(%s, [[%g, %g], [%g, %g]], {opacity: %g, className: "pixelated"})`,
		url, l.Extent.Min[1], l.Extent.Min[0], l.Extent.Max[1], l.Extent.Max[0], opacity), nil
}

// jsonString encodes v for embedding in a script. encoding/json escapes
// <, > and & so the result cannot close the surrounding <script> element.
func jsonString(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
