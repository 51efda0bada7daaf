package raster

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicStatistics_Constant(t *testing.T) {
	ds := constantDataset(t, 4, 4, 10)

	s, err := BasicStatistics(ds)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 10.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 16, s.Valid)
	assert.Equal(t, 16, s.Total)
}

func TestBasicStatistics_PopulationStdDev(t *testing.T) {
	g, err := GridFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	ds, err := NewMemDataset(Identity, g)
	require.NoError(t, err)

	s, err := BasicStatistics(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Mean)
	assert.InDelta(t, math.Sqrt(1.25), s.StdDev, 1e-12)
}

func TestBasicStatistics_SkipsNoDataAndNaN(t *testing.T) {
	g, err := GridFromRows([][]float64{{-9999, 2, math.NaN()}, {4, -9999, 6}})
	require.NoError(t, err)
	ds, err := NewMemDataset(Identity, g)
	require.NoError(t, err)
	ds.SetNoData(1, -9999)

	s, err := BasicStatistics(ds)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Valid)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.Equal(t, 4.0, s.Mean)
}

func TestBasicStatistics_NoValidPixels(t *testing.T) {
	ds := constantDataset(t, 2, 2, math.NaN())

	s, err := BasicStatistics(ds)
	require.NoError(t, err)
	assert.Zero(t, s.Valid)
	assert.True(t, math.IsNaN(s.Min))
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.StdDev))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":null,"max":null,"mean":null,"std":null,"valid":0,"total":4}`, string(b))
}

func TestBasicStatistics_FirstBandOnly(t *testing.T) {
	ds, err := NewMemDataset(Identity, Filled(2, 2, 1), Filled(2, 2, 100))
	require.NoError(t, err)

	s, err := BasicStatistics(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Max)
}

func TestHistogram(t *testing.T) {
	g := NewGrid(10, 1)
	for i := range g.Data {
		g.Data[i] = float64(i)
	}
	ds, err := NewMemDataset(Identity, g)
	require.NoError(t, err)

	h, err := Histogram(ds, 10)
	require.NoError(t, err)
	require.Len(t, h.Counts, 10)
	require.Len(t, h.Edges, 11)
	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 9.0, h.Edges[10])
	for i, c := range h.Counts {
		assert.Equal(t, 1, c, "bucket %d", i)
	}
}

func TestHistogram_MaxLandsInLastBucket(t *testing.T) {
	g, err := GridFromRows([][]float64{{0, 0, 10, 10, 10}})
	require.NoError(t, err)

	h, err := GridHistogram(g, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 0, 0, 3}, h.Counts)
}

func TestHistogram_DefaultBinsSumToValid(t *testing.T) {
	ds := rampDataset(t, 10, 10)
	ds.SetNoData(1, 55)

	h, err := Histogram(ds, DefaultBins)
	require.NoError(t, err)
	require.Len(t, h.Counts, DefaultBins)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 99, total)
}

func TestHistogram_Constant(t *testing.T) {
	ds := constantDataset(t, 4, 4, 10)

	h, err := Histogram(ds, DefaultBins)
	require.NoError(t, err)
	assert.Equal(t, 9.5, h.Edges[0])
	assert.Equal(t, 10.5, h.Edges[DefaultBins])

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 16, total)
}

func TestHistogram_ExtremeRange(t *testing.T) {
	g, err := GridFromRows([][]float64{{-1e308, 0, 1e308}})
	require.NoError(t, err)

	h, err := GridHistogram(g, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1, 1}, h.Counts)
	assert.Equal(t, -1e308, h.Edges[0])
	assert.Equal(t, 0.0, h.Edges[2])
	assert.Equal(t, 1e308, h.Edges[4])
}

func TestHistogram_NarrowRangeIsWidened(t *testing.T) {
	next := math.Nextafter(1, 2)
	g, err := GridFromRows([][]float64{{1, next, next}})
	require.NoError(t, err)

	h, err := GridHistogram(g, DefaultBins)
	require.NoError(t, err)
	require.Len(t, h.Edges, DefaultBins+1)
	for i := 1; i < len(h.Edges); i++ {
		assert.Less(t, h.Edges[i-1], h.Edges[i], "edge %d", i)
	}
	assert.LessOrEqual(t, h.Edges[0], 1.0)
	assert.GreaterOrEqual(t, h.Edges[DefaultBins], next)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 3, total)
}

func TestHistogram_LargeConstant(t *testing.T) {
	g, err := GridFromRows([][]float64{{1e300, 1e300}})
	require.NoError(t, err)

	h, err := GridHistogram(g, 10)
	require.NoError(t, err)
	assert.Less(t, h.Edges[0], 1e300)
	assert.Greater(t, h.Edges[10], 1e300)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 2, total)
}

func TestHistogram_InvalidBins(t *testing.T) {
	ds := constantDataset(t, 2, 2, 1)
	for _, bins := range []int{0, -3} {
		_, err := Histogram(ds, bins)
		require.ErrorIs(t, err, ErrInvalidBins)
	}
}
