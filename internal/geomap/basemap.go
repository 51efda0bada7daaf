package geomap

import "sort"

// Basemap describes a public XYZ tile provider.
type Basemap struct {
	URL         string
	Attribution string
	MaxZoom     int
}

const (
	osmAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	esriAttribution  = "Tiles &copy; Esri"
	cartoAttribution = osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`
)

var basemaps = map[string]Basemap{
	"OpenStreetMap.Mapnik": {
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution,
		MaxZoom:     19,
	},
	"OpenStreetMap.HOT": {
		URL:         "https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png",
		Attribution: osmAttribution + ", Humanitarian OpenStreetMap Team",
		MaxZoom:     19,
	},
	"OpenTopoMap": {
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution + ", SRTM | &copy; OpenTopoMap (CC-BY-SA)",
		MaxZoom:     17,
	},
	"Esri.WorldImagery": {
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: esriAttribution + " &mdash; Source: Esri, Maxar, Earthstar Geographics",
		MaxZoom:     18,
	},
	"Esri.WorldStreetMap": {
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Street_Map/MapServer/tile/{z}/{y}/{x}",
		Attribution: esriAttribution,
		MaxZoom:     18,
	},
	"Esri.WorldTopoMap": {
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Topo_Map/MapServer/tile/{z}/{y}/{x}",
		Attribution: esriAttribution,
		MaxZoom:     18,
	},
	"CartoDB.Positron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png",
		Attribution: cartoAttribution,
		MaxZoom:     20,
	},
	"CartoDB.DarkMatter": {
		URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png",
		Attribution: cartoAttribution,
		MaxZoom:     20,
	},
}

// LookupBasemap returns the named provider.
func LookupBasemap(name string) (Basemap, bool) {
	b, ok := basemaps[name]
	return b, ok
}

// BasemapNames lists the registry in alphabetical order.
func BasemapNames() []string {
	names := make([]string, 0, len(basemaps))
	for n := range basemaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
