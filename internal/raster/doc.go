// Package raster provides georeferenced raster operations for the map server.
//
// A raster is a grid of pixel values tied to the ground by an affine
// transform. This package opens rasters from disk (GDAL, ESRI ASCII grids,
// or plain images with a world file), and derives new grids from them:
// windowed crops, bilinear resampling, NDVI, and summary statistics.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner of the
// top-left pixel:
//   - Col increases rightward, Row increases downward
//   - A Window covers [ColOff, ColOff+Width) x [RowOff, RowOff+Height)
//
// Geographic coordinates are whatever the dataset's CRS says they are. The
// package never reprojects.
//
// # Metadata
//
// Every operation that changes the pixel grid returns a Result whose Metadata
// carries a transform recomputed for the new grid, so that pixel (0,0) of the
// result still lands on the right spot on the ground. A Result can be wrapped
// back into a Dataset with Result.Dataset to chain operations.
//
// # No-Data
//
// NaN is the universal sentinel. Readers translate a band's declared nodata
// value to NaN, NDVI yields NaN where NIR+Red is zero, and statistics skip
// NaN pixels.
//
// # Error Handling
//
// Functions return wrapped sentinel errors; test them with errors.Is:
//   - ErrInvalidBounds: crop bounds do not intersect the raster
//   - ErrInvalidScale: resample factor is not a positive finite number
//   - ErrMissingDependency: the file needs a backend this build lacks
//   - ErrUnsupportedFormat: an image next to a world file could not be decoded
//   - ErrShapeMismatch, ErrInvalidBand, ErrInvalidBins
//
// # Thread Safety
//
// DatasetCache is safe for concurrent use. Operations are stateless, but a
// single Dataset should not be read from several goroutines at once; GDAL
// handles are not goroutine-safe.
package raster
