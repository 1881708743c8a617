// Package mapconfig parses a map's configuration from the data-*
// attributes of its host element.
package mapconfig

import (
	"strconv"
	"strings"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/geo"
)

// Attribute names recognized on the host element.
const (
	AttrTileTemplate = "data-tile-template"
	AttrTileBaseZoom = "data-tile-base-zoom"
	AttrTileSize     = "data-tile-size"
	AttrBounds       = "data-bounds"
	AttrZoomRange    = "data-zoom-range"
	AttrMarker       = "data-marker"
	AttrInitLoc      = "data-init-loc"
	AttrInitZoom     = "data-init-zoom"
)

// InitLoc is the optional initial focus: either a map-space point or the
// tag of a marker to center on once the document is loaded.
type InitLoc struct {
	Point *geo.Point
	Tag   string
}

// Config is a map's parsed configuration.
type Config struct {
	TileTemplate string       // tile filename pattern with $x/$y/$z placeholders
	TileBaseZoom int          // zoom level at which one tile pixel is one map unit
	TileSize     [2]float64   // tile pixel size, defaults to 256x256
	Bounds       *[2]float64  // map extent in map space, nil for unbounded
	ZoomRange    *[2]float64  // min,max zoom, nil for the viewport default
	MarkerPage   string       // wiki page holding the marker document
	InitLoc      *InitLoc     // optional initial focus
	InitZoom     *int         // zoom for the initial focus
}

// Parse reads a config from the host element's attributes. Missing or
// malformed required attributes fail with a ConfigError naming the
// attribute.
func Parse(attrs map[string]string) (*Config, error) {
	cfg := &Config{TileSize: [2]float64{256, 256}}

	cfg.TileTemplate = strings.TrimSpace(attrs[AttrTileTemplate])
	if cfg.TileTemplate == "" {
		return nil, errors.NewConfigError(AttrTileTemplate, "attribute is required", nil)
	}

	baseZoom, ok := attrs[AttrTileBaseZoom]
	if !ok || strings.TrimSpace(baseZoom) == "" {
		return nil, errors.NewConfigError(AttrTileBaseZoom, "attribute is required", nil)
	}
	zoom, err := strconv.Atoi(strings.TrimSpace(baseZoom))
	if err != nil {
		return nil, errors.NewConfigError(AttrTileBaseZoom, "not a whole number", err)
	}
	cfg.TileBaseZoom = zoom

	if pair, ok := numPair(attrs[AttrTileSize]); ok {
		cfg.TileSize = pair
	}
	if pair, ok := numPair(attrs[AttrBounds]); ok {
		cfg.Bounds = &pair
	}
	if pair, ok := numPair(attrs[AttrZoomRange]); ok {
		cfg.ZoomRange = &pair
	}

	cfg.MarkerPage = strings.TrimSpace(attrs[AttrMarker])
	if cfg.MarkerPage == "" {
		cfg.MarkerPage = defaultMarkerPage(cfg.TileTemplate)
	}

	if loc := strings.TrimSpace(attrs[AttrInitLoc]); loc != "" {
		if pair, ok := numPair(loc); ok {
			cfg.InitLoc = &InitLoc{Point: &geo.Point{X: pair[0], Y: pair[1]}}
		} else {
			cfg.InitLoc = &InitLoc{Tag: loc}
		}
	}

	if z := strings.TrimSpace(attrs[AttrInitZoom]); z != "" {
		if initZoom, err := strconv.Atoi(z); err == nil {
			cfg.InitZoom = &initZoom
		}
	}

	return cfg, nil
}

// defaultMarkerPage derives the marker page from a tile pattern: the
// pattern minus its extension, under the Data namespace.
func defaultMarkerPage(tileTemplate string) string {
	base := tileTemplate
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return "Data:" + base + ".json"
}

// numPair parses a "number,number" attribute value.
func numPair(value string) ([2]float64, bool) {
	a, b, found := strings.Cut(strings.TrimSpace(value), ",")
	if !found {
		return [2]float64{}, false
	}
	first, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
	second, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err1 != nil || err2 != nil {
		return [2]float64{}, false
	}
	return [2]float64{first, second}, true
}
