package server

import "github.com/sturgmap/sturgmap/internal/geomap"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty describes the dataset argument shared by raster tools. Keys
// returned in a previous result's "saved_as" are accepted as well.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Path to a raster file (GeoTIFF, ESRI ASCII grid, or PNG/JPEG/TIFF with a world file), or a saved_as key from an earlier result",
}

var saveAsProperty = map[string]interface{}{
	"type":        "string",
	"description": "Key under which to keep the result for later tools. Generated when omitted.",
}

var bandProperty = map[string]interface{}{
	"type":        "integer",
	"description": "1-based band index (default 1)",
	"default":     1,
	"minimum":     1,
}

var styleProperties = map[string]interface{}{
	"style": map[string]interface{}{
		"type":        "object",
		"description": `Leaflet path style. Default {"color": "green", "weight": 1, "fillOpacity": 0}`,
	},
	"hover_style": map[string]interface{}{
		"type":        "object",
		"description": `Style applied on mouse-over. Default {"fillColor": "#00ff00", "fillOpacity": 0.5}`,
	},
}

func withStyles(props map[string]interface{}) map[string]interface{} {
	for k, v := range styleProperties {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Raster Information
		{
			Name:        "raster_info",
			Description: "Open a raster and return its driver, size, band count, geotransform, CRS, nodata value and bounds [minx, miny, maxx, maxy].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Raster Transformations
		{
			Name:        "raster_crop",
			Description: "Crop every band of a raster to geographic bounds given in the raster's own coordinate system. Bounds that only partly overlap are clipped to the raster.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"bounds": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"minItems":    4,
						"maxItems":    4,
						"description": "[minx, miny, maxx, maxy]",
					},
					"save_as": saveAsProperty,
				},
				"required": []string{"path", "bounds"},
			},
		},
		{
			Name:        "raster_resample",
			Description: "Resample every band by a scale factor with bilinear interpolation. 2 doubles the width and height; 0.5 halves them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"factor": map[string]interface{}{
						"type":             "number",
						"description":      "Scale factor, must be positive",
						"exclusiveMinimum": 0,
					},
					"save_as": saveAsProperty,
				},
				"required": []string{"path", "factor"},
			},
		},
		{
			Name:        "raster_ndvi",
			Description: "Compute NDVI = (NIR - Red) / (NIR + Red) from two bands. Pixels where NIR + Red is zero are nodata (NaN, reported as null).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"nir_band": map[string]interface{}{
						"type":        "integer",
						"description": "1-based index of the near-infrared band",
						"minimum":     1,
					},
					"red_band": map[string]interface{}{
						"type":        "integer",
						"description": "1-based index of the red band",
						"minimum":     1,
					},
					"save_as": saveAsProperty,
				},
				"required": []string{"path", "nir_band", "red_band"},
			},
		},

		// Raster Analysis
		{
			Name:        "raster_statistics",
			Description: "Min, max, mean and population standard deviation of a band, ignoring nodata and NaN. Values are null when no pixel is valid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"band": bandProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_histogram",
			Description: "Histogram of a band's valid pixels with equal-width bins. Returns counts and bins+1 edges.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"band": bandProperty,
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Number of bins (default from server configuration, normally 50)",
						"minimum":     1,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_preview",
			Description: "Render a band as a colorized PNG and return it as base64. Optionally write it to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"band": bandProperty,
					"ramp": map[string]interface{}{
						"type":        "string",
						"description": "Color ramp (default gray)",
						"enum":        []string{"gray", "ndvi", "terrain", "viridis"},
					},
					"min": map[string]interface{}{
						"type":        "number",
						"description": "Value mapped to the start of the ramp (default band minimum)",
					},
					"max": map[string]interface{}{
						"type":        "number",
						"description": "Value mapped to the end of the ramp (default band maximum)",
					},
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest side of the image in pixels",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Also save the PNG to this path",
					},
				},
				"required": []string{"path"},
			},
		},

		// Map Building
		{
			Name:        "map_reset",
			Description: "Start a new, empty map. Unset arguments use the server defaults.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"center_lat": map[string]interface{}{"type": "number", "minimum": -90, "maximum": 90},
					"center_lon": map[string]interface{}{"type": "number", "minimum": -180, "maximum": 180},
					"zoom":       map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 22},
					"title":      map[string]interface{}{"type": "string"},
				},
			},
		},
		{
			Name:        "map_list_layers",
			Description: "Describe the current map: view center, zoom, layers and the combined extent of data layers.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "map_add_basemap",
			Description: "Add a well-known basemap such as OpenStreetMap.Mapnik or Esri.WorldImagery.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Basemap provider name",
						"enum":        geomap.BasemapNames(),
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "map_add_tile_layer",
			Description: "Add an XYZ tile layer from a URL template such as https://tile.example.com/{z}/{x}/{y}.png.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url":         map[string]interface{}{"type": "string", "description": "Tile URL template"},
					"name":        map[string]interface{}{"type": "string", "description": "Layer name"},
					"attribution": map[string]interface{}{"type": "string"},
					"max_zoom":    map[string]interface{}{"type": "integer"},
					"opacity":     map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				},
				"required": []string{"url", "name"},
			},
		},
		{
			Name:        "map_add_geojson",
			Description: "Add a GeoJSON file (FeatureCollection, Feature or geometry) in longitude/latitude as a vector layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withStyles(map[string]interface{}{
					"path": map[string]interface{}{"type": "string", "description": "Path to the GeoJSON file"},
					"name": map[string]interface{}{"type": "string", "description": "Layer name (default: the path)"},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "map_add_shapefile",
			Description: "Add an ESRI shapefile in longitude/latitude as a vector layer. Attribute fields become feature properties.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withStyles(map[string]interface{}{
					"path": map[string]interface{}{"type": "string", "description": "Path to the .shp file"},
					"name": map[string]interface{}{"type": "string", "description": "Layer name (default: the path)"},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "map_add_raster",
			Description: "Drape a raster band over the map as a colorized image. The raster must be in longitude/latitude.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"name":    map[string]interface{}{"type": "string", "description": "Layer name (default: the path)"},
					"band":    bandProperty,
					"ramp":    map[string]interface{}{"type": "string", "enum": []string{"gray", "ndvi", "terrain", "viridis"}},
					"min":     map[string]interface{}{"type": "number"},
					"max":     map[string]interface{}{"type": "number"},
					"opacity": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
					"zoom_to_layer": map[string]interface{}{
						"type":        "boolean",
						"description": "Center the map on the raster (default true)",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "map_save_html",
			Description: "Write the map as a standalone Leaflet HTML page. Relative paths are resolved against the configured output directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{"type": "string", "description": "Output .html path"},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
