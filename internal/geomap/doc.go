// Package geomap builds interactive Leaflet maps from local geodata.
//
// A Map collects layers (basemaps, XYZ tile layers, GeoJSON and shapefile
// vectors, and raster image overlays) and renders them into a single
// self-contained HTML page. The browser does the drawing; this package only
// prepares data and the page that wires it to Leaflet.
//
// # Coordinates
//
// Layer data must already be in WGS84 longitude/latitude. Shapefiles and
// rasters are not reprojected. Map centers follow orb's convention of
// orb.Point{lon, lat}.
//
// # Usage
//
//	m := geomap.New(geomap.WithCenter(40, -100), geomap.WithZoom(4))
//	if err := m.AddBasemap("Esri.WorldImagery"); err != nil {
//	    return err
//	}
//	if err := m.AddShapefile("countries.shp", "countries", nil); err != nil {
//	    return err
//	}
//	return m.SaveHTML("map.html")
package geomap
