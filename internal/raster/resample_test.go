package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Dimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		factor        float64
	}{
		{"halve", 4, 4, 0.5},
		{"double", 3, 5, 2},
		{"non-integer up", 3, 3, 1.5},
		{"non-integer down", 10, 7, 0.33},
		{"identity", 6, 2, 1},
		{"tiny keeps one pixel", 3, 3, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := constantDataset(t, tt.width, tt.height, 3)
			res, err := Resample(ds, tt.factor)
			require.NoError(t, err)

			wantW := math.Max(1, math.Round(float64(tt.width)*tt.factor))
			wantH := math.Max(1, math.Round(float64(tt.height)*tt.factor))
			assert.InDelta(t, wantW, float64(res.Meta.Width), 1)
			assert.InDelta(t, wantH, float64(res.Meta.Height), 1)
			assert.Equal(t, res.Meta.Width, res.Bands[0].Width)
			assert.Equal(t, res.Meta.Height, res.Bands[0].Height)

			// Extent is preserved regardless of rounding.
			x0, y0 := ds.Transform().Apply(float64(tt.width), float64(tt.height))
			x1, y1 := res.Meta.Transform.Apply(float64(res.Meta.Width), float64(res.Meta.Height))
			assert.InDelta(t, x0, x1, 1e-9)
			assert.InDelta(t, y0, y1, 1e-9)

			for _, v := range res.Bands[0].Data {
				assert.InDelta(t, 3.0, v, 1e-12)
			}
		})
	}
}

func TestResample_TransformUsesDimensionRatio(t *testing.T) {
	ds := rampDataset(t, 3, 3)
	res, err := Resample(ds, 1.5)
	require.NoError(t, err)

	require.Equal(t, 5, res.Meta.Width)
	assert.InDelta(t, 10*3.0/5.0, res.Meta.Transform.XRes, 1e-12)
	assert.InDelta(t, -10*3.0/5.0, res.Meta.Transform.YRes, 1e-12)
	assert.Equal(t, 100.0, res.Meta.Transform.X0)
	assert.Equal(t, 200.0, res.Meta.Transform.Y0)
}

func TestResample_InvalidScale(t *testing.T) {
	ds := constantDataset(t, 4, 4, 1)
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Resample(ds, f)
		require.ErrorIs(t, err, ErrInvalidScale, "factor %v", f)
	}
}

func TestResample_TooLarge(t *testing.T) {
	ds := constantDataset(t, 4, 4, 1)
	for _, f := range []float64{1e300, 1e5, math.MaxFloat64} {
		_, err := Resample(ds, f)
		require.ErrorIs(t, err, ErrInvalidScale, "factor %v", f)
	}

	res, err := Resample(ds, 100)
	require.NoError(t, err)
	assert.Equal(t, 400, res.Meta.Width)
	assert.Equal(t, 400, res.Meta.Height)
}

func TestBilinear_Upsample(t *testing.T) {
	src, err := GridFromRows([][]float64{{0, 10}})
	require.NoError(t, err)

	out := Bilinear(src, 4, 1)
	assert.InDeltaSlice(t, []float64{0, 2.5, 7.5, 10}, out.Data, 1e-12)
}

func TestBilinear_Downsample(t *testing.T) {
	src, err := GridFromRows([][]float64{
		{0, 1, 2, 3},
		{0, 1, 2, 3},
		{0, 1, 2, 3},
		{0, 1, 2, 3},
	})
	require.NoError(t, err)

	out := Bilinear(src, 2, 2)
	assert.InDeltaSlice(t, []float64{0.5, 2.5, 0.5, 2.5}, out.Data, 1e-12)
}

func TestBilinear_SkipsNaN(t *testing.T) {
	src, err := GridFromRows([][]float64{{math.NaN(), 10}})
	require.NoError(t, err)

	out := Bilinear(src, 4, 1)
	assert.True(t, math.IsNaN(out.Data[0]))
	assert.Equal(t, 10.0, out.Data[1])
	assert.Equal(t, 10.0, out.Data[3])
}
