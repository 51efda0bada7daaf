package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open opens a raster file, picking a backend by extension.
//
// ESRI ASCII grids (.asc) are parsed natively. Every other format goes to
// GDAL when the binary was built with cgo and the gdal tag. Without GDAL, TIFF, PNG and JPEG
// files can still be opened if a world file sits next to them; anything
// else fails with ErrMissingDependency.
func Open(path string) (Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".asc" {
		return OpenASCIIGrid(path)
	}

	if !gdalAvailable {
		switch ext {
		case ".tif", ".tiff", ".png", ".jpg", ".jpeg":
			return OpenWorldFile(path)
		}
	}
	return openGDAL(path)
}
