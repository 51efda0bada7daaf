package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/sturgmap/sturgmap/internal/geomap"
	"github.com/sturgmap/sturgmap/internal/imaging"
	"github.com/sturgmap/sturgmap/internal/raster"
)

// errInvalidArgs marks argument problems, reported as JSON-RPC invalid params.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_info", "map_add_basemap").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602; tool execution errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if errors.Is(err, errInvalidArgs) {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if err != nil {
		log.Debug().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads datasets from the cache as needed
//  4. Calls the appropriate raster/imaging/geomap function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Raster Information
	case "raster_info":
		return s.handleRasterInfo(args)

	// Raster Transformations
	case "raster_crop":
		return s.handleRasterCrop(args)
	case "raster_resample":
		return s.handleRasterResample(args)
	case "raster_ndvi":
		return s.handleRasterNDVI(args)

	// Raster Analysis
	case "raster_statistics":
		return s.handleRasterStatistics(args)
	case "raster_histogram":
		return s.handleRasterHistogram(args)
	case "raster_preview":
		return s.handleRasterPreview(args)

	// Map Building
	case "map_reset":
		return s.handleMapReset(args)
	case "map_list_layers":
		return s.handleMapListLayers(args)
	case "map_add_basemap":
		return s.handleMapAddBasemap(args)
	case "map_add_tile_layer":
		return s.handleMapAddTileLayer(args)
	case "map_add_geojson":
		return s.handleMapAddGeoJSON(args)
	case "map_add_shapefile":
		return s.handleMapAddShapefile(args)
	case "map_add_raster":
		return s.handleMapAddRaster(args)
	case "map_save_html":
		return s.handleMapSaveHTML(args)

	default:
		return nil, fmt.Errorf("unknown tool %q: %w", name, errInvalidArgs)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

func checkArg(ok bool, format string, a ...interface{}) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), errInvalidArgs)
}

// === Raster Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

// datasetResult describes a derived dataset kept in the cache.
type datasetResult struct {
	SavedAs  string          `json:"saved_as"`
	Metadata raster.Metadata `json:"metadata"`
	Bounds   [4]float64      `json:"bounds"`
}

func (s *Server) dataset(path string) (raster.Dataset, error) {
	if err := checkArg(path != "", "path is required"); err != nil {
		return nil, err
	}
	return s.cache.Load(path)
}

// keep stores a derived result in the cache so later calls can refer to it.
func (s *Server) keep(res *raster.Result, key, prefix string) *datasetResult {
	if key == "" {
		s.saved++
		key = fmt.Sprintf("mem:%s-%d", prefix, s.saved)
	}
	s.cache.Put(key, res.Dataset())
	b := res.Meta.Bounds()
	return &datasetResult{
		SavedAs:  key,
		Metadata: res.Meta,
		Bounds:   [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
	}
}

func (s *Server) handleRasterInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.Path != "", "path is required"); err != nil {
		return nil, err
	}
	return raster.LoadInfo(s.cache, a.Path)
}

type rasterCropArgs struct {
	Path   string    `json:"path"`
	Bounds []float64 `json:"bounds"`
	SaveAs string    `json:"save_as"`
}

func (s *Server) handleRasterCrop(args json.RawMessage) (interface{}, error) {
	var a rasterCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(len(a.Bounds) == 4, "bounds needs 4 numbers, got %d", len(a.Bounds)); err != nil {
		return nil, err
	}
	ds, err := s.dataset(a.Path)
	if err != nil {
		return nil, err
	}
	b := orb.Bound{Min: orb.Point{a.Bounds[0], a.Bounds[1]}, Max: orb.Point{a.Bounds[2], a.Bounds[3]}}
	res, err := raster.Crop(ds, b)
	if err != nil {
		return nil, err
	}
	return s.keep(res, a.SaveAs, "crop"), nil
}

type rasterResampleArgs struct {
	Path   string  `json:"path"`
	Factor float64 `json:"factor"`
	SaveAs string  `json:"save_as"`
}

func (s *Server) handleRasterResample(args json.RawMessage) (interface{}, error) {
	var a rasterResampleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ds, err := s.dataset(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := raster.Resample(ds, a.Factor)
	if err != nil {
		return nil, err
	}
	return s.keep(res, a.SaveAs, "resample"), nil
}

type rasterNDVIArgs struct {
	Path    string `json:"path"`
	NIRBand int    `json:"nir_band"`
	RedBand int    `json:"red_band"`
	SaveAs  string `json:"save_as"`
}

func (s *Server) handleRasterNDVI(args json.RawMessage) (interface{}, error) {
	var a rasterNDVIArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.NIRBand > 0 && a.RedBand > 0, "nir_band and red_band are required"); err != nil {
		return nil, err
	}
	ds, err := s.dataset(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := raster.DatasetNDVI(ds, a.NIRBand, a.RedBand)
	if err != nil {
		return nil, err
	}
	out := s.keep(res, a.SaveAs, "ndvi")
	return map[string]interface{}{
		"saved_as":   out.SavedAs,
		"metadata":   out.Metadata,
		"bounds":     out.Bounds,
		"statistics": raster.GridStatistics(res.Bands[0]),
	}, nil
}

type rasterBandArgs struct {
	Path string `json:"path"`
	Band int    `json:"band"`
	Bins int    `json:"bins"`
}

func (s *Server) band(a rasterBandArgs) (*raster.Grid, error) {
	if a.Band == 0 {
		a.Band = 1
	}
	ds, err := s.dataset(a.Path)
	if err != nil {
		return nil, err
	}
	return raster.ReadBand(ds, a.Band)
}

func (s *Server) handleRasterStatistics(args json.RawMessage) (interface{}, error) {
	var a rasterBandArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	g, err := s.band(a)
	if err != nil {
		return nil, err
	}
	return raster.GridStatistics(g), nil
}

func (s *Server) handleRasterHistogram(args json.RawMessage) (interface{}, error) {
	var a rasterBandArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Bins == 0 {
		a.Bins = s.cfg.Bins
	}
	g, err := s.band(a)
	if err != nil {
		return nil, err
	}
	return raster.GridHistogram(g, a.Bins)
}

type rasterPreviewArgs struct {
	Path       string   `json:"path"`
	Band       int      `json:"band"`
	Ramp       string   `json:"ramp"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	MaxSize    int      `json:"max_size"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleRasterPreview(args json.RawMessage) (interface{}, error) {
	var a rasterPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = s.cfg.PreviewMaxSize
	}
	g, err := s.band(rasterBandArgs{Path: a.Path, Band: a.Band})
	if err != nil {
		return nil, err
	}

	opts := imaging.PreviewOptions{Ramp: a.Ramp, Min: a.Min, Max: a.Max, MaxSize: a.MaxSize}
	if a.OutputPath != "" {
		img, _, _, err := imaging.Render(g, opts)
		if err != nil {
			return nil, err
		}
		if err := imaging.SavePNG(s.outputPath(a.OutputPath), img); err != nil {
			return nil, err
		}
	}
	return imaging.Preview(g, opts)
}

// === Map Handlers ===

type mapResetArgs struct {
	CenterLat *float64 `json:"center_lat"`
	CenterLon *float64 `json:"center_lon"`
	Zoom      *int     `json:"zoom"`
	Title     string   `json:"title"`
}

func (s *Server) handleMapReset(args json.RawMessage) (interface{}, error) {
	var a mapResetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	lat, lon, zoom := s.cfg.CenterLat, s.cfg.CenterLon, s.cfg.Zoom
	if a.CenterLat != nil {
		lat = *a.CenterLat
	}
	if a.CenterLon != nil {
		lon = *a.CenterLon
	}
	if a.Zoom != nil {
		zoom = *a.Zoom
	}
	if err := checkArg(lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180, "center %g,%g out of range", lat, lon); err != nil {
		return nil, err
	}
	if err := checkArg(zoom >= 0 && zoom <= 22, "zoom %d out of range", zoom); err != nil {
		return nil, err
	}

	opts := []geomap.Option{geomap.WithCenter(lat, lon), geomap.WithZoom(zoom)}
	if a.Title != "" {
		opts = append(opts, geomap.WithTitle(a.Title))
	}
	s.m = geomap.New(opts...)
	return s.mapSummary(), nil
}

type layerSummary struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Bounds *[4]float64 `json:"bounds,omitempty"`
}

type mapSummary struct {
	Center [2]float64     `json:"center"`
	Zoom   int            `json:"zoom"`
	Layers []layerSummary `json:"layers"`
	Bounds *[4]float64    `json:"bounds,omitempty"`
}

func boundArray(b orb.Bound, ok bool) *[4]float64 {
	if !ok {
		return nil
	}
	return &[4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

func (s *Server) mapSummary() *mapSummary {
	c := s.m.Center()
	sum := &mapSummary{
		Center: [2]float64{c.Lat(), c.Lon()},
		Zoom:   s.m.Zoom(),
		Layers: []layerSummary{},
		Bounds: boundArray(s.m.Bounds()),
	}
	for _, l := range s.m.Layers() {
		sum.Layers = append(sum.Layers, layerSummary{Name: l.Name(), Kind: l.Kind(), Bounds: boundArray(l.Bounds())})
	}
	return sum
}

func (s *Server) handleMapListLayers(args json.RawMessage) (interface{}, error) {
	return s.mapSummary(), nil
}

type mapAddBasemapArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleMapAddBasemap(args json.RawMessage) (interface{}, error) {
	var a mapAddBasemapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.m.AddBasemap(a.Name); err != nil {
		if errors.Is(err, geomap.ErrUnknownBasemap) {
			return nil, fmt.Errorf("%w (available: %v)", err, geomap.BasemapNames())
		}
		return nil, err
	}
	return s.mapSummary(), nil
}

type mapAddTileLayerArgs struct {
	URL         string  `json:"url"`
	Name        string  `json:"name"`
	Attribution string  `json:"attribution"`
	MaxZoom     int     `json:"max_zoom"`
	Opacity     float64 `json:"opacity"`
}

func (s *Server) handleMapAddTileLayer(args json.RawMessage) (interface{}, error) {
	var a mapAddTileLayerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.URL != "" && a.Name != "", "url and name are required"); err != nil {
		return nil, err
	}
	opts := &geomap.TileOptions{Attribution: a.Attribution, MaxZoom: a.MaxZoom, Opacity: a.Opacity}
	if err := s.m.AddTileLayer(a.URL, a.Name, opts); err != nil {
		return nil, err
	}
	return s.mapSummary(), nil
}

type mapAddVectorArgs struct {
	Path       string       `json:"path"`
	Name       string       `json:"name"`
	Style      geomap.Style `json:"style"`
	HoverStyle geomap.Style `json:"hover_style"`
}

func (s *Server) handleMapAddGeoJSON(args json.RawMessage) (interface{}, error) {
	var a mapAddVectorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.Path != "", "path is required"); err != nil {
		return nil, err
	}
	opts := &geomap.VectorOptions{Style: a.Style, HoverStyle: a.HoverStyle}
	if err := s.m.AddGeoJSONFile(a.Path, a.Name, opts); err != nil {
		return nil, err
	}
	return s.mapSummary(), nil
}

func (s *Server) handleMapAddShapefile(args json.RawMessage) (interface{}, error) {
	var a mapAddVectorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.Path != "", "path is required"); err != nil {
		return nil, err
	}
	opts := &geomap.VectorOptions{Style: a.Style, HoverStyle: a.HoverStyle}
	if err := s.m.AddShapefile(a.Path, a.Name, opts); err != nil {
		return nil, err
	}
	return s.mapSummary(), nil
}

type mapAddRasterArgs struct {
	Path        string   `json:"path"`
	Name        string   `json:"name"`
	Band        int      `json:"band"`
	Ramp        string   `json:"ramp"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Opacity     float64  `json:"opacity"`
	ZoomToLayer *bool    `json:"zoom_to_layer"`
}

func (s *Server) handleMapAddRaster(args json.RawMessage) (interface{}, error) {
	var a mapAddRasterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ds, err := s.dataset(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = a.Path
	}
	opts := &geomap.RasterOptions{
		Band:        a.Band,
		Ramp:        a.Ramp,
		Min:         a.Min,
		Max:         a.Max,
		Opacity:     a.Opacity,
		ZoomToLayer: a.ZoomToLayer == nil || *a.ZoomToLayer,
		MaxSize:     s.cfg.PreviewMaxSize,
	}
	if err := s.m.AddRaster(ds, a.Name, opts); err != nil {
		return nil, err
	}
	return s.mapSummary(), nil
}

type mapSaveHTMLArgs struct {
	Path string `json:"path"`
}

func (s *Server) outputPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.cfg.OutputDir, p)
}

func (s *Server) handleMapSaveHTML(args json.RawMessage) (interface{}, error) {
	var a mapSaveHTMLArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := checkArg(a.Path != "", "path is required"); err != nil {
		return nil, err
	}
	path := s.outputPath(a.Path)
	if err := s.m.SaveHTML(path); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("layers", len(s.m.Layers())).Msg("saved map")
	return map[string]interface{}{
		"path":   path,
		"layers": len(s.m.Layers()),
	}, nil
}
