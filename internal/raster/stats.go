package raster

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bucket count used when the caller has no preference.
const DefaultBins = 50

// Statistics summarises the valid pixels of a band.
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	// Valid is the number of pixels that are neither NaN nor nodata.
	Valid int `json:"valid"`
	Total int `json:"total"`
}

// MarshalJSON writes NaN statistics as null.
func (s Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"min":   jsonFloat(s.Min),
		"max":   jsonFloat(s.Max),
		"mean":  jsonFloat(s.Mean),
		"std":   jsonFloat(s.StdDev),
		"valid": s.Valid,
		"total": s.Total,
	})
}

func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// BasicStatistics computes min, max, mean and population standard deviation
// of band 1. NaN, infinite and nodata pixels are ignored; when no valid pixel remains
// every statistic is NaN.
func BasicStatistics(ds Dataset) (Statistics, error) {
	g, err := ReadBand(ds, 1)
	if err != nil {
		return Statistics{}, err
	}
	return GridStatistics(g), nil
}

// GridStatistics is BasicStatistics for a grid already in memory.
func GridStatistics(g *Grid) Statistics {
	vals := validValues(g)
	s := Statistics{Valid: len(vals), Total: len(g.Data)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev = nan, nan, nan, nan
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.StdDev = stat.PopMeanStdDev(vals, nil)
	return s
}

// HistogramResult holds bucket counts and their edges. Edges has one more
// element than Counts; bucket i covers [Edges[i], Edges[i+1]) except the last,
// which also includes its upper edge.
type HistogramResult struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// Histogram counts band 1's valid pixels in bins equal-width buckets spanning
// [min, max]. A constant band spans [v-0.5, v+0.5]; so does any band whose
// range is too narrow to hold bins distinct edges, widened further for very
// large magnitudes. A band with no valid pixels yields all-zero counts over [0, 1].
func Histogram(ds Dataset, bins int) (*HistogramResult, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram with %d bins: %w", bins, ErrInvalidBins)
	}
	g, err := ReadBand(ds, 1)
	if err != nil {
		return nil, err
	}
	return GridHistogram(g, bins)
}

// GridHistogram is Histogram for a grid already in memory.
func GridHistogram(g *Grid, bins int) (*HistogramResult, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram with %d bins: %w", bins, ErrInvalidBins)
	}

	vals := validValues(g)
	sort.Float64s(vals)

	lo, hi := 0.0, 1.0
	if len(vals) > 0 {
		lo, hi = vals[0], vals[len(vals)-1]
	}
	edges, ok := histogramEdges(lo, hi, bins)
	if !ok {
		// Constant band, or a range too narrow for bins distinct edges.
		mid := lo/2 + hi/2
		pad := math.Max(0.5, math.Abs(mid)*1e-9)
		lo, hi = mid-pad, mid+pad
		if edges, ok = histogramEdges(lo, hi, bins); !ok {
			return nil, fmt.Errorf("cannot split [%g, %g] into %d buckets: %w", lo, hi, bins, ErrInvalidBins)
		}
	}

	// gonum buckets are half-open; nudge the last divider so max lands in the last bucket.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	raw := stat.Histogram(nil, dividers, vals, nil)
	counts := make([]int, bins)
	for i, c := range raw {
		counts[i] = int(c)
	}
	return &HistogramResult{Counts: counts, Edges: edges}, nil
}

// histogramEdges splits [lo, hi] into bins equal steps. The step is taken from
// hi/bins - lo/bins so ranges near the float64 limits do not overflow. ok is
// false unless the edges are finite and strictly increasing.
func histogramEdges(lo, hi float64, bins int) ([]float64, bool) {
	step := hi/float64(bins) - lo/float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi
	for i, e := range edges {
		if math.IsInf(e, 0) || math.IsNaN(e) {
			return nil, false
		}
		if i > 0 && e <= edges[i-1] {
			return nil, false
		}
	}
	return edges, true
}

func validValues(g *Grid) []float64 {
	vals := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	return vals
}
