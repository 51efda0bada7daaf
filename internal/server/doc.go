// Package server implements the MCP (Model Context Protocol) server for raster
// analysis and web map building.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Raster Information:
//   - raster_info: Driver, size, bands, geotransform, CRS, nodata and bounds
//
// Raster Transformations:
//   - raster_crop: Crop to geographic bounds
//   - raster_resample: Bilinear resampling by a scale factor
//   - raster_ndvi: Normalized difference of two bands
//
// Raster Analysis:
//   - raster_statistics: Min, max, mean and standard deviation
//   - raster_histogram: Equal-width histogram
//   - raster_preview: Colorized PNG quicklook
//
// Map Building:
//   - map_reset: Start a new map
//   - map_list_layers: Describe the current map
//   - map_add_basemap, map_add_tile_layer: Tile layers
//   - map_add_geojson, map_add_shapefile: Vector layers
//   - map_add_raster: Raster image overlay
//   - map_save_html: Write the map as a Leaflet page
//
// # Datasets
//
// Opened rasters are cached by path for the lifetime of the process.
// Crop, resample and NDVI results are kept in the same cache under the key
// returned as "saved_as" (either chosen by the caller or generated as
// "mem:<tool>-<n>"), and any tool taking a path accepts such a key. This is
// how operations are chained, e.g. crop a scene, compute NDVI on the crop,
// then drape the NDVI on the map.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed or missing arguments and unknown tools,
//     -32000 for failures while running a tool, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(config.Default(), "dev")
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server failed")
//	}
package server
