// Package markers owns the authoritative in-memory marker model for one map
// instance: validation of untrusted remote data, the ordered registry of
// marker records, and change notifications for the presentation layer.
package markers

import (
	"encoding/json"
	"fmt"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/geo"
)

// MarkerInfo is the persisted unit: one marker's position and metadata.
type MarkerInfo struct {
	// Coords is the marker position in map space.
	Coords geo.Point `json:"coords"`

	// Tag is an optional human label, also used as the lookup key for
	// "fly to named marker on load". Tags are not required to be unique;
	// lookup is first-match.
	Tag string `json:"tag,omitempty"`

	// Tooltip is optional rich-text popup content. Supports wiki links
	// and literal newlines; see pkg/wikitext.
	Tooltip string `json:"tooltip,omitempty"`

	// MarkerImage is an optional icon filename resolved against the
	// wiki's media index. Empty means the default icon.
	MarkerImage string `json:"markerImage,omitempty"`
}

// Document is the wire shape of a marker page's JSON content.
type Document struct {
	Markers []MarkerInfo `json:"markers"`
}

// Patch carries a partial update to a marker. Nil fields are left unchanged.
type Patch struct {
	Coords      *geo.Point
	Tag         *string
	Tooltip     *string
	MarkerImage *string
}

// rawMarker mirrors MarkerInfo with enough looseness to tell an absent
// field from a present-but-wrong one.
type rawMarker struct {
	Coords *struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	} `json:"coords"`
	Tag         *string `json:"tag"`
	Tooltip     *string `json:"tooltip"`
	MarkerImage *string `json:"markerImage"`
}

// validateMarker checks one raw document entry against the MarkerInfo shape:
// coords present with numeric x/y, the string fields absent-or-string.
// Returns a typed validation error describing the first problem found.
func validateMarker(raw json.RawMessage) (MarkerInfo, error) {
	var rm rawMarker
	if err := json.Unmarshal(raw, &rm); err != nil {
		return MarkerInfo{}, errors.NewValidationError("", string(raw), "entry is not a marker object")
	}

	if rm.Coords == nil {
		return MarkerInfo{}, errors.NewValidationError("coords", string(raw), "missing coords")
	}
	if rm.Coords.X == nil || rm.Coords.Y == nil {
		return MarkerInfo{}, errors.NewValidationError("coords", string(raw), "coords must carry numeric x and y")
	}

	info := MarkerInfo{
		Coords: geo.Point{X: *rm.Coords.X, Y: *rm.Coords.Y},
	}
	if rm.Tag != nil {
		info.Tag = *rm.Tag
	}
	if rm.Tooltip != nil {
		info.Tooltip = *rm.Tooltip
	}
	if rm.MarkerImage != nil {
		info.MarkerImage = *rm.MarkerImage
	}
	return info, nil
}

// ParseDocument parses raw page content into the valid marker set without
// touching a registry. Tooling uses it to lint marker documents offline.
func ParseDocument(raw json.RawMessage) (valid []MarkerInfo, dropped []error, err error) {
	return parseDocument(raw)
}

// parseDocument parses raw page content into the valid marker set. Invalid
// entries are dropped and reported back for per-entry diagnostics.
func parseDocument(raw json.RawMessage) (valid []MarkerInfo, dropped []error, err error) {
	var doc struct {
		Markers []json.RawMessage `json:"markers"`
	}
	if unmarshalErr := json.Unmarshal(raw, &doc); unmarshalErr != nil {
		return nil, nil, errors.NewParseError("json", "marker document", "content is not a marker document", unmarshalErr)
	}
	if doc.Markers == nil {
		return nil, nil, errors.NewParseError("json", "marker document", "markers is not an array", nil)
	}

	for i, entry := range doc.Markers {
		info, validateErr := validateMarker(entry)
		if validateErr != nil {
			dropped = append(dropped, fmt.Errorf("entry %d: %w", i, validateErr))
			continue
		}
		valid = append(valid, info)
	}
	return valid, dropped, nil
}
