package view_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/icons"
	"github.com/huijiwiki/wikimap/pkg/markers"
	"github.com/huijiwiki/wikimap/pkg/view"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// fakeViewport records every drawing call it receives.
type fakeViewport struct {
	next    int
	markers map[int]view.Marker
	ops     []string
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{markers: make(map[int]view.Marker)}
}

func (v *fakeViewport) AddMarker(m view.Marker) any {
	v.next++
	v.markers[v.next] = m
	v.ops = append(v.ops, fmt.Sprintf("add %d", v.next))
	return v.next
}

func (v *fakeViewport) RemoveMarker(h any) {
	delete(v.markers, h.(int))
	v.ops = append(v.ops, fmt.Sprintf("remove %d", h))
}

func (v *fakeViewport) MoveMarker(h any, at geo.Coord) {
	m := v.markers[h.(int)]
	m.At = at
	v.markers[h.(int)] = m
	v.ops = append(v.ops, fmt.Sprintf("move %d", h))
}

func (v *fakeViewport) SetIcon(h any, ic icons.Icon) {
	m := v.markers[h.(int)]
	m.Icon = ic
	v.markers[h.(int)] = m
	v.ops = append(v.ops, fmt.Sprintf("icon %d", h))
}

func (v *fakeViewport) SetPopup(h any, popupHTML string) {
	m := v.markers[h.(int)]
	m.Popup = popupHTML
	v.markers[h.(int)] = m
	v.ops = append(v.ops, fmt.Sprintf("popup %d", h))
}

func (v *fakeViewport) SetDraggable(h any, draggable bool) {
	m := v.markers[h.(int)]
	m.Draggable = draggable
	v.markers[h.(int)] = m
	v.ops = append(v.ops, fmt.Sprintf("drag %d", h))
}

func (v *fakeViewport) SetVisible(h any, visible bool) {
	v.ops = append(v.ops, fmt.Sprintf("visible %d %t", h, visible))
}

func (v *fakeViewport) FlyTo(at geo.Coord, zoom int) {
	v.ops = append(v.ops, fmt.Sprintf("flyto %.1f,%.1f z%d", at.Lat, at.Lng, zoom))
}

type noMedia struct{}

func (noMedia) FetchMediaMetadata(context.Context, []string) (map[string]*wiki.MediaInfo, error) {
	return map[string]*wiki.MediaInfo{}, nil
}

func newPresenter(vp view.Viewport) *view.Presenter {
	return view.NewPresenter(context.Background(), vp, geo.NewProjection(5), icons.NewResolver(noMedia{}))
}

func TestPresenterDrawsCreatedMarkers(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	newPresenter(vp).Bind(reg)

	rec := reg.Create(markers.MarkerInfo{
		Coords:  geo.Point{X: 64, Y: 32},
		Tooltip: "A [[Cave]] entrance",
	})

	require.Len(t, vp.markers, 1)
	require.NotNil(t, rec.Handle())
	drawn := vp.markers[rec.Handle().(int)]
	assert.Equal(t, geo.Coord{Lat: -1, Lng: 2}, drawn.At)
	assert.Contains(t, drawn.Popup, `<a href="/wiki/Cave">Cave</a>`)
	assert.Equal(t, icons.Default(), drawn.Icon)
}

func TestPresenterAppliesOnlyChangedFields(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	newPresenter(vp).Bind(reg)

	rec := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 1, Y: 1}, Tooltip: "old"})
	vp.ops = nil

	tooltip := "new text"
	reg.Update(rec, markers.Patch{Tooltip: &tooltip})

	handle := rec.Handle().(int)
	assert.Equal(t, []string{fmt.Sprintf("popup %d", handle)}, vp.ops,
		"a tooltip edit must not touch icon or position")
	assert.Equal(t, "new text", vp.markers[handle].Popup)
}

func TestPresenterMovesOnCoordChange(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	newPresenter(vp).Bind(reg)

	rec := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 0, Y: 0}})
	vp.ops = nil

	at := geo.Point{X: 96, Y: 64}
	reg.Update(rec, markers.Patch{Coords: &at})

	handle := rec.Handle().(int)
	assert.Equal(t, []string{fmt.Sprintf("move %d", handle)}, vp.ops)
	assert.Equal(t, geo.Coord{Lat: -2, Lng: 3}, vp.markers[handle].At)
}

func TestPresenterRemovesMarkers(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	newPresenter(vp).Bind(reg)

	rec := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 1, Y: 1}})
	reg.Remove(rec)

	assert.Empty(t, vp.markers)
	assert.Nil(t, rec.Handle())
}

func TestPresenterPopulateDrawsLoadedMarkers(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	p := newPresenter(vp)

	raw := []byte(`{"markers":[
		{"coords":{"x":1,"y":2},"tag":"a"},
		{"coords":{"x":3,"y":4},"tag":"b"}
	]}`)
	_, err := reg.LoadFrom(raw, "")
	require.NoError(t, err)

	// The presenter is bound after the initial load; Populate draws the
	// loaded set in one pass, then Bind picks up later changes.
	require.Empty(t, vp.markers)
	p.Populate(reg)
	p.Bind(reg)
	assert.Len(t, vp.markers, 2)

	rec := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 5, Y: 6}})
	assert.Len(t, vp.markers, 3)
	assert.NotNil(t, rec.Handle())
}

func TestPresenterSetEditable(t *testing.T) {
	vp := newFakeViewport()
	reg := markers.NewRegistry()
	p := newPresenter(vp)
	p.Bind(reg)

	rec := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 1, Y: 1}})
	p.SetEditable(reg, true)
	assert.True(t, vp.markers[rec.Handle().(int)].Draggable)

	// Markers created while editable come up draggable.
	rec2 := reg.Create(markers.MarkerInfo{Coords: geo.Point{X: 2, Y: 2}})
	assert.True(t, vp.markers[rec2.Handle().(int)].Draggable)

	p.SetEditable(reg, false)
	assert.False(t, vp.markers[rec.Handle().(int)].Draggable)
	assert.False(t, vp.markers[rec2.Handle().(int)].Draggable)
}

func TestPresenterFocusOn(t *testing.T) {
	vp := newFakeViewport()
	p := newPresenter(vp)

	p.FocusOn(geo.Point{X: 64, Y: 32}, 3)
	assert.Equal(t, []string{"flyto -1.0,2.0 z3"}, vp.ops)
}

func TestErrorHTML(t *testing.T) {
	out := view.ErrorHTML(assert.AnError)
	assert.Contains(t, out, `class="scribunto-error"`)
	assert.Contains(t, out, `id="mw-scribunto-error-0"`)
	assert.Contains(t, out, assert.AnError.Error())
}
