package geomap

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

//go:embed templates/map.html.tmpl
var pageSource string

var page = template.Must(template.New("map").Parse(pageSource))

type pageLayer struct {
	Name   string
	Script template.JS
}

type pageData struct {
	Title         string
	Lat, Lon      float64
	Zoom          int
	LayersControl bool
	Layers        []pageLayer
}

// WriteHTML renders the map as a standalone Leaflet page.
func (m *Map) WriteHTML(w io.Writer) error {
	m.mu.RLock()
	data := pageData{
		Title:         m.title,
		Lat:           m.center[1],
		Lon:           m.center[0],
		Zoom:          m.zoom,
		LayersControl: m.layersControl,
		Layers:        make([]pageLayer, 0, len(m.layers)),
	}
	layers := append([]Layer(nil), m.layers...)
	m.mu.RUnlock()

	for _, l := range layers {
		js, err := l.script()
		if err != nil {
			return fmt.Errorf("layer %q: %w", l.Name(), err)
		}
		data.Layers = append(data.Layers, pageLayer{Name: l.Name(), Script: template.JS(js)})
	}
	return page.Execute(w, data)
}

// SaveHTML writes the page to path, creating parent directories.
func (m *Map) SaveHTML(path string) error {
	var buf bytes.Buffer
	if err := m.WriteHTML(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
