package geomap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
)

// Default view, matching a world overview centered slightly north of the equator.
const (
	DefaultLat  = 20.0
	DefaultLon  = 0.0
	DefaultZoom = 2
)

var (
	// ErrUnknownBasemap is returned by AddBasemap for names not in the registry.
	ErrUnknownBasemap = errors.New("unknown basemap")

	// ErrDuplicateLayer is returned when a layer name is already taken.
	ErrDuplicateLayer = errors.New("layer name already in use")
)

// Map is a Leaflet map under construction. It is safe for concurrent use.
type Map struct {
	mu            sync.RWMutex
	title         string
	center        orb.Point
	zoom          int
	layersControl bool
	layers        []Layer
}

// Option configures a new Map.
type Option func(*Map)

// WithCenter sets the initial view center.
func WithCenter(lat, lon float64) Option {
	return func(m *Map) { m.center = orb.Point{lon, lat} }
}

// WithZoom sets the initial zoom level.
func WithZoom(zoom int) Option {
	return func(m *Map) { m.zoom = zoom }
}

// WithTitle sets the HTML page title.
func WithTitle(title string) Option {
	return func(m *Map) { m.title = title }
}

// WithoutLayersControl hides the layer switcher.
func WithoutLayersControl() Option {
	return func(m *Map) { m.layersControl = false }
}

// New creates an empty map with a layers control.
func New(opts ...Option) *Map {
	m := &Map{
		title:         "sturgmap",
		center:        orb.Point{DefaultLon, DefaultLat},
		zoom:          DefaultZoom,
		layersControl: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Center returns the view center as orb.Point{lon, lat}.
func (m *Map) Center() orb.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.center
}

// Zoom returns the initial zoom level.
func (m *Map) Zoom() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zoom
}

// SetView moves the initial view.
func (m *Map) SetView(center orb.Point, zoom int) {
	m.mu.Lock()
	m.center, m.zoom = center, zoom
	m.mu.Unlock()
}

// Add appends a layer. Layer names must be unique within a map.
func (m *Map) Add(l Layer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.layers {
		if existing.Name() == l.Name() {
			return fmt.Errorf("%q: %w", l.Name(), ErrDuplicateLayer)
		}
	}
	m.layers = append(m.layers, l)
	return nil
}

// Remove drops the named layer and reports whether it existed.
func (m *Map) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.layers {
		if l.Name() == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Layers returns the layers in drawing order.
func (m *Map) Layers() []Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Layer(nil), m.layers...)
}

// Bounds is the union of every data layer's extent. ok is false when no
// layer has an extent (tile layers cover the whole world and do not count).
func (m *Map) Bounds() (b orb.Bound, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		lb, has := l.Bounds()
		if !has {
			continue
		}
		if !ok {
			b, ok = lb, true
			continue
		}
		b = b.Union(lb)
	}
	return b, ok
}

// ZoomTo centers the view on b at the deepest zoom that still shows all of it.
func (m *Map) ZoomTo(b orb.Bound) {
	m.SetView(b.Center(), FitZoom(b))
}

// AddTileLayer adds an XYZ tile layer.
func (m *Map) AddTileLayer(url, name string, opts *TileOptions) error {
	if url == "" {
		return fmt.Errorf("tile layer %q needs a URL", name)
	}
	l := &TileLayer{name: name, URL: url}
	if opts != nil {
		l.TileOptions = *opts
	}
	return m.Add(l)
}

// AddBasemap adds a well-known basemap by its provider name, e.g.
// "OpenStreetMap.Mapnik" or "Esri.WorldImagery".
func (m *Map) AddBasemap(name string) error {
	b, ok := LookupBasemap(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownBasemap)
	}
	opts := TileOptions{Attribution: b.Attribution, MaxZoom: b.MaxZoom}
	return m.AddTileLayer(b.URL, name, &opts)
}
