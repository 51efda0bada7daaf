package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sturgmap/sturgmap/internal/config"
)

// elevation is a 3x2 ESRI ASCII grid with one nodata cell.
const elevation = `ncols 3
nrows 2
xllcorner 100
yllcorner 200
cellsize 10
NODATA_value -9999
1 2 3
4 -9999 6
`

// lonlat is a 4x3 grid in degrees, covering lon -10..-6 and lat 47..50.
const lonlat = `ncols 4
nrows 3
xllcorner -10
yllcorner 47
cellsize 1
1 2 3 4
5 6 7 8
9 10 11 12
`

const parcels = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"id":1},"geometry":{"type":"Point","coordinates":[-8,48]}}]}`

// writeFixture writes content into a fresh temp dir and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	s := New(cfg, "test")
	t.Cleanup(s.Close)
	return s
}

// callTool runs a tools/call request and decodes the text content into result.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, result interface{}) *MCPError {
	t.Helper()

	params, _ := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if result != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), result); err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
	}
	return nil
}

func mustCall(t *testing.T, s *Server, name string, args map[string]interface{}, result interface{}) {
	t.Helper()
	if e := callTool(t, s, name, args, result); e != nil {
		t.Fatalf("%s failed: %s (%v)", name, e.Message, e.Data)
	}
}

func expectError(t *testing.T, s *Server, name string, args map[string]interface{}, code int, contains string) {
	t.Helper()
	e := callTool(t, s, name, args, nil)
	if e == nil {
		t.Fatalf("%s: expected error", name)
	}
	if e.Code != code {
		t.Errorf("%s: code got %d, want %d", name, e.Code, code)
	}
	if data, _ := e.Data.(string); !strings.Contains(data, contains) {
		t.Errorf("%s: error %q does not mention %q", name, data, contains)
	}
}

type infoResult struct {
	Path     string `json:"path"`
	Metadata struct {
		Driver string   `json:"driver"`
		Width  int      `json:"width"`
		Height int      `json:"height"`
		Count  int      `json:"count"`
		NoData *float64 `json:"nodata"`
	} `json:"metadata"`
	Bounds        [4]float64 `json:"bounds"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	SavedAs       string     `json:"saved_as"`
}

type statsResult struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Mean  *float64 `json:"mean"`
	Valid int      `json:"valid"`
	Total int      `json:"total"`
}

func TestRasterInfo(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var got infoResult
	mustCall(t, s, "raster_info", map[string]interface{}{"path": path}, &got)

	if got.Metadata.Driver != "AAIGrid" || got.Metadata.Width != 3 || got.Metadata.Height != 2 {
		t.Errorf("metadata: got %+v", got.Metadata)
	}
	if got.Metadata.NoData == nil || *got.Metadata.NoData != -9999 {
		t.Errorf("nodata: got %v", got.Metadata.NoData)
	}
	if got.Bounds != [4]float64{100, 200, 130, 220} {
		t.Errorf("bounds: got %v", got.Bounds)
	}
	if got.FileSizeBytes != int64(len(elevation)) {
		t.Errorf("file size: got %d", got.FileSizeBytes)
	}
}

func TestRasterInfo_Errors(t *testing.T) {
	s := newTestServer(t)

	expectError(t, s, "raster_info", map[string]interface{}{}, codeInvalidParams, "path is required")
	expectError(t, s, "raster_info", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.asc")}, codeToolFailed, "none.asc")
}

func TestRasterCrop_ThenStatistics(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var crop infoResult
	mustCall(t, s, "raster_crop", map[string]interface{}{
		"path":    path,
		"bounds":  []float64{110, 200, 130, 220},
		"save_as": "east",
	}, &crop)

	if crop.SavedAs != "east" {
		t.Errorf("saved_as: got %q", crop.SavedAs)
	}
	if crop.Metadata.Width != 2 || crop.Metadata.Height != 2 {
		t.Errorf("crop size: got %dx%d, want 2x2", crop.Metadata.Width, crop.Metadata.Height)
	}
	if crop.Bounds != [4]float64{110, 200, 130, 220} {
		t.Errorf("crop bounds: got %v", crop.Bounds)
	}

	var stats statsResult
	mustCall(t, s, "raster_statistics", map[string]interface{}{"path": "east"}, &stats)
	// Cells 2, 3 and 6; the nodata cell is skipped.
	if stats.Valid != 3 || stats.Total != 4 {
		t.Errorf("valid/total: got %d/%d, want 3/4", stats.Valid, stats.Total)
	}
	if *stats.Min != 2 || *stats.Max != 6 {
		t.Errorf("min/max: got %v/%v, want 2/6", *stats.Min, *stats.Max)
	}
}

func TestRasterCrop_GeneratedKey(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var a, b infoResult
	mustCall(t, s, "raster_crop", map[string]interface{}{"path": path, "bounds": []float64{100, 200, 120, 220}}, &a)
	mustCall(t, s, "raster_crop", map[string]interface{}{"path": path, "bounds": []float64{100, 200, 110, 210}}, &b)

	if !strings.HasPrefix(a.SavedAs, "mem:crop-") || a.SavedAs == b.SavedAs {
		t.Errorf("generated keys: got %q and %q", a.SavedAs, b.SavedAs)
	}
}

func TestRasterCrop_Errors(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	expectError(t, s, "raster_crop", map[string]interface{}{"path": path, "bounds": []float64{1, 2, 3}}, codeInvalidParams, "4 numbers")
	expectError(t, s, "raster_crop", map[string]interface{}{"path": path, "bounds": []float64{0, 0, 10, 10}}, codeToolFailed, "do not intersect")
	expectError(t, s, "raster_crop", map[string]interface{}{"path": path, "bounds": "everything"}, codeInvalidParams, "invalid arguments")
}

func TestRasterResample(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var got infoResult
	mustCall(t, s, "raster_resample", map[string]interface{}{"path": path, "factor": 2}, &got)
	if got.Metadata.Width != 6 || got.Metadata.Height != 4 {
		t.Errorf("size: got %dx%d, want 6x4", got.Metadata.Width, got.Metadata.Height)
	}
	if got.Bounds != [4]float64{100, 200, 130, 220} {
		t.Errorf("resampling must keep the extent, got %v", got.Bounds)
	}

	expectError(t, s, "raster_resample", map[string]interface{}{"path": path, "factor": 0}, codeToolFailed, "scale factor")
	expectError(t, s, "raster_resample", map[string]interface{}{"path": path, "factor": -1}, codeToolFailed, "scale factor")
}

func TestRasterNDVI(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var got struct {
		SavedAs    string      `json:"saved_as"`
		Statistics statsResult `json:"statistics"`
	}
	mustCall(t, s, "raster_ndvi", map[string]interface{}{"path": path, "nir_band": 1, "red_band": 1}, &got)

	// Identical bands give zero everywhere except the nodata cell.
	if got.Statistics.Valid != 5 || *got.Statistics.Min != 0 || *got.Statistics.Max != 0 {
		t.Errorf("statistics: got %+v", got.Statistics)
	}

	expectError(t, s, "raster_ndvi", map[string]interface{}{"path": path, "nir_band": 2, "red_band": 1}, codeToolFailed, "band")
	expectError(t, s, "raster_ndvi", map[string]interface{}{"path": path}, codeInvalidParams, "nir_band")
}

func TestRasterStatistics_BadBand(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	expectError(t, s, "raster_statistics", map[string]interface{}{"path": path, "band": 2}, codeToolFailed, "band 2 of 1")
}

func TestRasterHistogram(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var got struct {
		Counts []int     `json:"counts"`
		Edges  []float64 `json:"edges"`
	}
	mustCall(t, s, "raster_histogram", map[string]interface{}{"path": path}, &got)
	if len(got.Counts) != 50 || len(got.Edges) != 51 {
		t.Errorf("default bins: got %d counts, %d edges", len(got.Counts), len(got.Edges))
	}

	mustCall(t, s, "raster_histogram", map[string]interface{}{"path": path, "bins": 5}, &got)
	if len(got.Counts) != 5 {
		t.Fatalf("bins: got %d", len(got.Counts))
	}
	total := 0
	for _, c := range got.Counts {
		total += c
	}
	if total != 5 {
		t.Errorf("counts sum: got %d, want 5", total)
	}
	if got.Edges[0] != 1 || got.Edges[5] != 6 {
		t.Errorf("edges: got %v", got.Edges)
	}

	expectError(t, s, "raster_histogram", map[string]interface{}{"path": path, "bins": -3}, codeToolFailed, "bin count")
}

func TestRasterPreview(t *testing.T) {
	s := newTestServer(t)
	path := writeFixture(t, "dem.asc", elevation)

	var got struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Ramp        string `json:"ramp"`
		MimeType    string `json:"mime_type"`
		ImageBase64 string `json:"image_base64"`
	}
	mustCall(t, s, "raster_preview", map[string]interface{}{
		"path":        path,
		"ramp":        "terrain",
		"output_path": "dem.png",
	}, &got)

	if got.MimeType != "image/png" || got.ImageBase64 == "" || got.Ramp != "terrain" {
		t.Errorf("preview: got %+v", got)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Errorf("size: got %dx%d, want 3x2", got.Width, got.Height)
	}
	if _, err := os.Stat(filepath.Join(s.cfg.OutputDir, "dem.png")); err != nil {
		t.Errorf("output_path not written: %v", err)
	}

	expectError(t, s, "raster_preview", map[string]interface{}{"path": path, "ramp": "plasma"}, codeToolFailed, "plasma")
}

type summaryResult struct {
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
	Layers []struct {
		Name   string      `json:"name"`
		Kind   string      `json:"kind"`
		Bounds *[4]float64 `json:"bounds"`
	} `json:"layers"`
	Bounds *[4]float64 `json:"bounds"`
}

func TestMapWorkflow(t *testing.T) {
	s := newTestServer(t)
	rasterPath := writeFixture(t, "lonlat.asc", lonlat)
	geojsonPath := writeFixture(t, "parcels.geojson", parcels)

	var sum summaryResult
	mustCall(t, s, "map_reset", map[string]interface{}{"title": "survey", "zoom": 3}, &sum)
	if sum.Zoom != 3 || sum.Center != [2]float64{20, 0} || len(sum.Layers) != 0 {
		t.Errorf("reset: got %+v", sum)
	}

	mustCall(t, s, "map_add_basemap", map[string]interface{}{"name": "Esri.WorldImagery"}, nil)
	mustCall(t, s, "map_add_tile_layer", map[string]interface{}{
		"url":  "https://tiles.example.com/{z}/{x}/{y}.png",
		"name": "custom",
	}, nil)
	mustCall(t, s, "map_add_geojson", map[string]interface{}{"path": geojsonPath, "name": "parcels"}, nil)
	mustCall(t, s, "map_add_raster", map[string]interface{}{"path": rasterPath, "name": "dem", "ramp": "viridis"}, &sum)

	if len(sum.Layers) != 4 {
		t.Fatalf("layers: got %d, want 4", len(sum.Layers))
	}
	kinds := []string{"tile", "tile", "geojson", "image"}
	for i, l := range sum.Layers {
		if l.Kind != kinds[i] {
			t.Errorf("layer %d kind: got %s, want %s", i, l.Kind, kinds[i])
		}
	}
	// Raster layers zoom the map onto themselves by default.
	if sum.Center != [2]float64{48.5, -8} {
		t.Errorf("center: got %v", sum.Center)
	}
	if sum.Bounds == nil || *sum.Bounds != [4]float64{-10, 47, -6, 50} {
		t.Errorf("bounds: got %v", sum.Bounds)
	}

	var listed summaryResult
	mustCall(t, s, "map_list_layers", nil, &listed)
	if len(listed.Layers) != 4 {
		t.Errorf("list: got %d layers", len(listed.Layers))
	}

	var saved struct {
		Path   string `json:"path"`
		Layers int    `json:"layers"`
	}
	mustCall(t, s, "map_save_html", map[string]interface{}{"path": "maps/survey.html"}, &saved)
	if saved.Path != filepath.Join(s.cfg.OutputDir, "maps", "survey.html") || saved.Layers != 4 {
		t.Errorf("save: got %+v", saved)
	}
	html, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("read map: %v", err)
	}
	if !strings.Contains(string(html), "<title>survey</title>") {
		t.Error("map page is missing its title")
	}
}

func TestMapAddRaster_Derived(t *testing.T) {
	s := newTestServer(t)
	rasterPath := writeFixture(t, "lonlat.asc", lonlat)

	mustCall(t, s, "raster_crop", map[string]interface{}{
		"path":    rasterPath,
		"bounds":  []float64{-9, 48, -7, 50},
		"save_as": "core",
	}, nil)

	var sum summaryResult
	mustCall(t, s, "map_add_raster", map[string]interface{}{"path": "core", "zoom_to_layer": false}, &sum)
	if sum.Layers[0].Name != "core" {
		t.Errorf("name defaults to the path, got %q", sum.Layers[0].Name)
	}
	if sum.Zoom != 2 {
		t.Errorf("zoom_to_layer false must keep the view, got zoom %d", sum.Zoom)
	}
}

func TestMapErrors(t *testing.T) {
	s := newTestServer(t)
	projected := writeFixture(t, "dem.asc", elevation)

	expectError(t, s, "map_add_basemap", map[string]interface{}{"name": "Nope"}, codeToolFailed, "OpenStreetMap.Mapnik")
	expectError(t, s, "map_add_tile_layer", map[string]interface{}{"name": "x"}, codeInvalidParams, "url")
	expectError(t, s, "map_add_geojson", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.geojson")}, codeToolFailed, "none.geojson")
	expectError(t, s, "map_add_shapefile", map[string]interface{}{}, codeInvalidParams, "path")
	expectError(t, s, "map_add_raster", map[string]interface{}{"path": projected}, codeToolFailed, "geographic")
	expectError(t, s, "map_reset", map[string]interface{}{"zoom": 40}, codeInvalidParams, "zoom")
	expectError(t, s, "map_save_html", map[string]interface{}{}, codeInvalidParams, "path")

	mustCall(t, s, "map_add_basemap", map[string]interface{}{"name": "OpenTopoMap"}, nil)
	expectError(t, s, "map_add_basemap", map[string]interface{}{"name": "OpenTopoMap"}, codeToolFailed, "already in use")
}

func TestUnknownTool(t *testing.T) {
	s := newTestServer(t)
	expectError(t, s, "image_load", map[string]interface{}{}, codeInvalidParams, "unknown tool")
}
