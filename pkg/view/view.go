// Package view defines the capability surface the embedding page must
// provide and the presenter that projects marker state onto it.
//
// The library never draws anything itself. The host supplies a Viewport
// (the map widget) and a Container (the page element the map lives in);
// everything visual goes through those two interfaces, so the core stays
// testable with fakes.
package view

import (
	"fmt"
	"html"

	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/icons"
)

// Marker carries everything the viewport needs to draw one marker.
type Marker struct {
	At        geo.Coord
	Icon      icons.Icon
	Popup     string // rendered HTML, empty means no popup
	Draggable bool
}

// Viewport is the host map widget. Handles returned by AddMarker are
// opaque to the library and round-trip through the marker registry.
//
// Implementations are driven from the single edit-session goroutine and
// need not be safe for concurrent use.
type Viewport interface {
	// AddMarker draws a marker and returns the host's handle for it.
	AddMarker(m Marker) any
	// RemoveMarker tears a marker down.
	RemoveMarker(handle any)
	// MoveMarker repositions a marker.
	MoveMarker(handle any, at geo.Coord)
	// SetIcon swaps a marker's icon.
	SetIcon(handle any, icon icons.Icon)
	// SetPopup rebinds a marker's popup HTML; empty unbinds it.
	SetPopup(handle any, popupHTML string)
	// SetDraggable toggles drag interaction on a marker.
	SetDraggable(handle any, draggable bool)
	// SetVisible shows or hides a marker without destroying it.
	SetVisible(handle any, visible bool)
	// FlyTo animates the view to a location and zoom level. A negative
	// zoom keeps the current level.
	FlyTo(at geo.Coord, zoom int)
}

// Container is the page element hosting the map. Attributes carries the
// element's data-* configuration; ShowError replaces the map with an
// error message when initialization fails.
type Container interface {
	Attributes() map[string]string
	ShowError(errorHTML string)
}

// ErrorHTML formats an initialization failure the way the wiki's script
// error renderer does, so page tooling that watches for script errors
// picks it up.
func ErrorHTML(err error) string {
	return fmt.Sprintf(`<span class="scribunto-error" id="mw-scribunto-error-0">%s</span>`,
		html.EscapeString(err.Error()))
}
