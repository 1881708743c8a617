package mapconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/mapconfig"
)

func TestParseMinimal(t *testing.T) {
	cfg, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains-$x-$y-$z.png",
		"data-tile-base-zoom": "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "Plains-$x-$y-$z.png", cfg.TileTemplate)
	assert.Equal(t, 5, cfg.TileBaseZoom)
	assert.Equal(t, [2]float64{256, 256}, cfg.TileSize)
	assert.Nil(t, cfg.Bounds)
	assert.Nil(t, cfg.ZoomRange)
	assert.Equal(t, "Data:Plains-$x-$y-$z.json", cfg.MarkerPage)
	assert.Nil(t, cfg.InitLoc)
	assert.Nil(t, cfg.InitZoom)
}

func TestParseFull(t *testing.T) {
	cfg, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains-$x-$y-$z.png",
		"data-tile-base-zoom": "5",
		"data-tile-size":      "512,512",
		"data-bounds":         "4096,2048",
		"data-zoom-range":     "1,7",
		"data-marker":         "Data:PlainsMarkers.json",
		"data-init-loc":       "100,200",
		"data-init-zoom":      "3",
	})
	require.NoError(t, err)

	assert.Equal(t, [2]float64{512, 512}, cfg.TileSize)
	require.NotNil(t, cfg.Bounds)
	assert.Equal(t, [2]float64{4096, 2048}, *cfg.Bounds)
	require.NotNil(t, cfg.ZoomRange)
	assert.Equal(t, [2]float64{1, 7}, *cfg.ZoomRange)
	assert.Equal(t, "Data:PlainsMarkers.json", cfg.MarkerPage)
	require.NotNil(t, cfg.InitLoc)
	require.NotNil(t, cfg.InitLoc.Point)
	assert.Equal(t, geo.Point{X: 100, Y: 200}, *cfg.InitLoc.Point)
	require.NotNil(t, cfg.InitZoom)
	assert.Equal(t, 3, *cfg.InitZoom)
}

func TestParseMissingRequired(t *testing.T) {
	_, err := mapconfig.Parse(map[string]string{
		"data-tile-base-zoom": "5",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-tile-template")

	_, err = mapconfig.Parse(map[string]string{
		"data-tile-template": "Plains-$x-$y-$z.png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-tile-base-zoom")
}

func TestParseBadBaseZoom(t *testing.T) {
	_, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains-$x-$y-$z.png",
		"data-tile-base-zoom": "lots",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-tile-base-zoom")
}

func TestParseInitLocTag(t *testing.T) {
	cfg, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains-$x-$y-$z.png",
		"data-tile-base-zoom": "5",
		"data-init-loc":       "spawn",
	})
	require.NoError(t, err)

	require.NotNil(t, cfg.InitLoc)
	assert.Nil(t, cfg.InitLoc.Point)
	assert.Equal(t, "spawn", cfg.InitLoc.Tag)
}

func TestParseMalformedPairsIgnored(t *testing.T) {
	cfg, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains-$x-$y-$z.png",
		"data-tile-base-zoom": "5",
		"data-tile-size":      "512",       // not a pair
		"data-bounds":         "wide,tall", // not numbers
	})
	require.NoError(t, err)

	assert.Equal(t, [2]float64{256, 256}, cfg.TileSize, "malformed size falls back to the default")
	assert.Nil(t, cfg.Bounds)
}

func TestDefaultMarkerPageWithoutExtension(t *testing.T) {
	cfg, err := mapconfig.Parse(map[string]string{
		"data-tile-template":  "Plains",
		"data-tile-base-zoom": "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Data:Plains.json", cfg.MarkerPage)
}
