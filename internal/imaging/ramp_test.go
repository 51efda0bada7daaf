package imaging

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sturgmap/sturgmap/internal/raster"
)

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1, "red")
	assert.InDelta(t, want.G, got.G, 1, "green")
	assert.InDelta(t, want.B, got.B, 1, "blue")
	assert.Equal(t, want.A, got.A, "alpha")
}

func TestLookupRamp(t *testing.T) {
	for _, name := range RampNames() {
		r, err := LookupRamp(name)
		require.NoError(t, err)
		assert.Equal(t, name, r.Name)
	}

	_, err := LookupRamp("rainbow")
	require.ErrorIs(t, err, ErrUnknownRamp)
}

func TestRampNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"gray", "ndvi", "terrain", "viridis"}, RampNames())
}

func TestRamp_Endpoints(t *testing.T) {
	gray, err := LookupRamp("gray")
	require.NoError(t, err)

	assertNear(t, color.NRGBA{0, 0, 0, 255}, gray.At(0))
	assertNear(t, color.NRGBA{255, 255, 255, 255}, gray.At(1))
	assertNear(t, color.NRGBA{0, 0, 0, 255}, gray.At(-5))
	assertNear(t, color.NRGBA{255, 255, 255, 255}, gray.At(7))
	assertNear(t, color.NRGBA{0, 0, 0, 255}, gray.At(math.NaN()))

	viridis, err := LookupRamp("viridis")
	require.NoError(t, err)
	assertNear(t, color.NRGBA{0x44, 0x01, 0x54, 255}, viridis.At(0))
	assertNear(t, color.NRGBA{0xfd, 0xe7, 0x25, 255}, viridis.At(1))
	// Exactly on an interior stop.
	assertNear(t, color.NRGBA{0x21, 0x91, 0x8c, 255}, viridis.At(0.5))
}

func TestRamp_Monotonic(t *testing.T) {
	gray, err := LookupRamp("gray")
	require.NoError(t, err)

	prev := -1
	for i := 0; i <= 10; i++ {
		c := gray.At(float64(i) / 10)
		assert.Greater(t, int(c.R), prev)
		prev = int(c.R)
	}
}

func TestColorize(t *testing.T) {
	g, err := raster.GridFromRows([][]float64{{0, 5, 10, math.NaN()}})
	require.NoError(t, err)
	gray, _ := LookupRamp("gray")

	img := Colorize(g, gray, 0, 10)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())

	assertNear(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
	assertNear(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(2, 0))
	assert.Equal(t, uint8(0), img.NRGBAAt(3, 0).A, "NaN must be transparent")

	mid := img.NRGBAAt(1, 0)
	assert.Greater(t, mid.R, uint8(50))
	assert.Less(t, mid.R, uint8(200))
}

func TestColorize_ConstantUsesMidpoint(t *testing.T) {
	gray, _ := LookupRamp("gray")
	img := Colorize(raster.Filled(2, 2, 3), gray, 3, 3)
	assertNear(t, gray.At(0.5), img.NRGBAAt(1, 1))
}
