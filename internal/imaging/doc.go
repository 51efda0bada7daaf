// Package imaging turns raster bands into pictures.
//
// Raster values are floating point and have no inherent color. This package
// stretches a band between two values, maps it through a color ramp, and
// encodes the result as PNG for the map overlay and the preview tool.
//
// # Color Ramps
//
// Ramps are lists of color stops blended in CIE L*a*b* space, which keeps
// perceived brightness changing smoothly between stops:
//   - gray: black to white
//   - viridis: perceptually uniform purple-green-yellow
//   - ndvi: red (bare) through yellow to green (dense vegetation)
//   - terrain: green lowlands to pale peaks
//
// # Transparency
//
// NaN pixels, which is how the raster package marks nodata, are rendered
// fully transparent so basemaps show through on the map.
//
// # Sizing
//
// Large rasters are shrunk to fit PreviewOptions.MaxSize with a linear
// filter. Small rasters can be enlarged to PreviewOptions.MinSize with
// nearest-neighbour sampling so individual cells stay crisp.
package imaging
