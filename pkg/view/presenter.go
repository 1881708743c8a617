package view

import (
	"context"

	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/icons"
	"github.com/huijiwiki/wikimap/pkg/markers"
	"github.com/huijiwiki/wikimap/pkg/wikitext"
)

// Presenter mirrors the marker registry onto the viewport. It subscribes
// to registry change notifications and applies only the side effects the
// field-level diff calls for: a tooltip edit rebinds the popup, an image
// edit re-resolves the icon, a drag moves the marker. Nothing else is
// touched.
type Presenter struct {
	ctx      context.Context
	viewport Viewport
	proj     geo.Projection
	icons    *icons.Resolver

	draggable bool
}

// NewPresenter wires a presenter to a viewport. The context is used for
// icon metadata fetches triggered by marker changes.
func NewPresenter(ctx context.Context, vp Viewport, proj geo.Projection, resolver *icons.Resolver) *Presenter {
	return &Presenter{
		ctx:      ctx,
		viewport: vp,
		proj:     proj,
		icons:    resolver,
	}
}

// Bind subscribes the presenter to a registry's change notifications.
func (p *Presenter) Bind(reg *markers.Registry) {
	reg.OnAdded(p.markerAdded)
	reg.OnUpdated(p.markerUpdated)
	reg.OnRemoved(p.markerRemoved)
}

func (p *Presenter) markerAdded(rec *markers.Record) {
	info := rec.Info()
	handle := p.viewport.AddMarker(Marker{
		At:        p.proj.Coord(info.Coords),
		Icon:      p.icons.Resolve(p.ctx, info.MarkerImage),
		Popup:     renderPopup(info.Tooltip),
		Draggable: p.draggable,
	})
	rec.SetHandle(handle)
}

func (p *Presenter) markerUpdated(rec *markers.Record, ch markers.Change) {
	handle := rec.Handle()
	if handle == nil {
		return
	}
	info := rec.Info()
	if ch.Coords {
		p.viewport.MoveMarker(handle, p.proj.Coord(info.Coords))
	}
	if ch.Image {
		p.viewport.SetIcon(handle, p.icons.Resolve(p.ctx, info.MarkerImage))
	}
	if ch.Tooltip {
		p.viewport.SetPopup(handle, renderPopup(info.Tooltip))
	}
}

func (p *Presenter) markerRemoved(rec *markers.Record) {
	if handle := rec.Handle(); handle != nil {
		p.viewport.RemoveMarker(handle)
	}
}

// Populate preloads icon metadata for the registry's markers in one
// batch and draws them all. Call once after the registry is loaded and
// before Bind, so the initial set is drawn here rather than marker by
// marker through the added hook.
func (p *Presenter) Populate(reg *markers.Registry) {
	records := reg.Records()
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if img := rec.Info().MarkerImage; img != "" {
			names = append(names, img)
		}
	}
	p.icons.Preload(p.ctx, names)

	for _, rec := range records {
		p.markerAdded(rec)
	}
}

// SetEditable toggles drag interaction on every drawn marker. New markers
// pick up the current setting.
func (p *Presenter) SetEditable(reg *markers.Registry, editable bool) {
	p.draggable = editable
	for _, rec := range reg.Records() {
		if handle := rec.Handle(); handle != nil {
			p.viewport.SetDraggable(handle, editable)
		}
	}
}

// SetVisible shows or hides every drawn marker.
func (p *Presenter) SetVisible(reg *markers.Registry, visible bool) {
	for _, rec := range reg.Records() {
		if handle := rec.Handle(); handle != nil {
			p.viewport.SetVisible(handle, visible)
		}
	}
}

// FocusOn flies the viewport to a map-space point.
func (p *Presenter) FocusOn(pt geo.Point, zoom int) {
	p.viewport.FlyTo(p.proj.Coord(pt), zoom)
}

func renderPopup(tooltip string) string {
	if tooltip == "" {
		return ""
	}
	return wikitext.RenderTooltip(tooltip)
}
