package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(v float64) *float64 { return &v }

func TestGenerator_Generate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "summary.png")

	g, err := NewGenerator(path)
	require.NoError(t, err)

	assert.False(t, g.Exists())
	assert.Equal(t, path, g.Path())

	top := []models.Country{
		{Name: "Nigeria", EstimatedGdp: ptrFloat(2.5e11)},
		{Name: "Germany", EstimatedGdp: ptrFloat(1.3e11)},
		{Name: "Unrated", EstimatedGdp: nil},
	}

	err = g.Generate(195, top, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, g.Exists())

	// output must be a decodable PNG of the expected canvas size
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, canvasWidth, img.Bounds().Dx())
	assert.Equal(t, canvasHeight, img.Bounds().Dy())
}

func TestFormatGdp(t *testing.T) {
	assert.Equal(t, "N/A", formatGdp(nil))
	// scientific notation keeps large estimates within the canvas width
	assert.Equal(t, "2.50e+11", formatGdp(ptrFloat(2.5e11)))
	assert.Equal(t, "0.00e+00", formatGdp(ptrFloat(0)))
}

func TestGenerator_OverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")

	g, err := NewGenerator(path)
	require.NoError(t, err)

	require.NoError(t, g.Generate(1, nil, time.Now()))
	first, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, g.Generate(2, nil, time.Now()))
	second, err := os.Stat(path)
	require.NoError(t, err)

	// regenerated in place, same artifact path
	assert.Equal(t, first.Name(), second.Name())
}
