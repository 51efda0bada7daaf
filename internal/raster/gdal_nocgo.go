//go:build !(cgo && gdal)

package raster

import "fmt"

const gdalAvailable = false

func openGDAL(path string) (Dataset, error) {
	return nil, fmt.Errorf("opening %s requires GDAL; build with cgo and -tags gdal: %w", path, ErrMissingDependency)
}
