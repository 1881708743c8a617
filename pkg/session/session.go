// Package session runs the edit loop for one map instance.
//
// User gestures arrive as intents on a channel and are applied by a single
// controller goroutine, so registry and presenter state never see
// concurrent mutation. The controller tracks edit mode and the dirty flag
// and drives the save protocol against the wiki.
package session

import (
	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/markers"
)

// Intent is a user gesture queued for the controller. Intents are applied
// in submission order.
type Intent interface {
	intent()
}

// CreateMarker asks for a new marker at a map-space point, normally from
// the map's context menu.
type CreateMarker struct {
	At geo.Point
}

// EditMarker opens the attribute editor for the marker behind a viewport
// handle.
type EditMarker struct {
	Handle any
}

// DragMarker reports a drag end: the marker behind the handle now sits at
// the given viewport location.
type DragMarker struct {
	Handle any
	To     geo.Coord
}

// RemoveMarker deletes the marker behind a viewport handle.
type RemoveMarker struct {
	Handle any
}

// EnableEdit switches edit mode on: markers become draggable and the
// creation menu starts responding.
type EnableEdit struct{}

// DisableEdit switches edit mode off.
type DisableEdit struct{}

// Save writes the current marker set back to the wiki page.
type Save struct{}

// ShowMarkers makes all markers visible.
type ShowMarkers struct{}

// HideMarkers hides all markers without discarding them.
type HideMarkers struct{}

func (CreateMarker) intent() {}
func (EditMarker) intent()   {}
func (DragMarker) intent()   {}
func (RemoveMarker) intent() {}
func (EnableEdit) intent()   {}
func (DisableEdit) intent()  {}
func (Save) intent()         {}
func (ShowMarkers) intent()  {}
func (HideMarkers) intent()  {}

// Prompter collects input from the user. Implementations may block; they
// are called from the controller goroutine only.
type Prompter interface {
	// EditMarker shows the attribute editor pre-filled with info and
	// returns the edited attributes, or ok=false if the user cancelled.
	EditMarker(info markers.MarkerInfo) (edited markers.MarkerInfo, ok bool)
	// ConfirmSave asks the user to confirm writing back to the wiki.
	ConfirmSave() bool
}

// Notifier surfaces save results to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
