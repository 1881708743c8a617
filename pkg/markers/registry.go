package markers

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/logging"
)

// Record pairs one MarkerInfo with its presentation handle. The registry
// exclusively owns the marker data; the presentation layer only ever holds
// the handle.
type Record struct {
	id     uuid.UUID
	info   MarkerInfo
	handle any // opaque identity token from the viewport
}

// ID returns the record's identity for logging and lookup.
func (r *Record) ID() string {
	return r.id.String()
}

// Info returns a copy of the record's marker data.
func (r *Record) Info() MarkerInfo {
	return r.info
}

// Handle returns the presentation handle attached to this record.
func (r *Record) Handle() any {
	return r.handle
}

// SetHandle attaches the presentation handle. Called once by the
// presentation layer when the visual marker is created.
func (r *Record) SetHandle(h any) {
	r.handle = h
}

// Change reports which MarkerInfo fields an update touched. The
// presentation layer uses it to avoid redundant side effects: icons are
// only re-fetched when the image changed, popups only rebound when the
// tooltip changed.
type Change struct {
	Coords  bool
	Tag     bool
	Tooltip bool
	Image   bool
}

// Any reports whether the update changed anything at all.
func (c Change) Any() bool {
	return c.Coords || c.Tag || c.Tooltip || c.Image
}

// Hook function types for registry change notifications.
type (
	// AddedHook is called after a record joins the registry.
	AddedHook func(*Record)

	// UpdatedHook is called after a record's info changed, with the
	// field-level diff.
	UpdatedHook func(*Record, Change)

	// RemovedHook is called after a record left the registry, while its
	// handle is still attached so the visual marker can be torn down.
	RemovedHook func(*Record)
)

// Registry is the ordered, authoritative collection of marker records for
// one map instance. Insertion order is load/creation order and is only
// meaningful for display.
//
// The registry is not safe for concurrent use; all mutations must come
// from the map's single edit-session controller.
type Registry struct {
	records []*Record

	onAdded   []AddedHook
	onUpdated []UpdatedHook
	onRemoved []RemovedHook
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnAdded registers a callback for record creation.
func (g *Registry) OnAdded(fn AddedHook) {
	g.onAdded = append(g.onAdded, fn)
}

// OnUpdated registers a callback for record updates.
func (g *Registry) OnUpdated(fn UpdatedHook) {
	g.onUpdated = append(g.onUpdated, fn)
}

// OnRemoved registers a callback for record removal.
func (g *Registry) OnRemoved(fn RemovedHook) {
	g.onRemoved = append(g.onRemoved, fn)
}

// LoadFrom validates raw page content and populates the registry. Invalid
// entries are dropped with a per-entry debug log; a load that produces zero
// valid entries fails with ErrEmptyDocument so the caller can tell "empty"
// from "everything got filtered".
//
// When initTag is non-empty, the first validated entry whose tag matches it
// becomes the initial focus point.
func (g *Registry) LoadFrom(raw json.RawMessage, initTag string) (focus *geo.Point, err error) {
	valid, dropped, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	for _, dropErr := range dropped {
		logging.Debug().Err(dropErr).Msg("Dropped invalid marker entry")
	}

	if len(valid) == 0 {
		return nil, errors.ErrEmptyDocument
	}

	for _, info := range valid {
		record := &Record{id: uuid.New(), info: info}
		g.records = append(g.records, record)

		if focus == nil && initTag != "" && info.Tag == initTag {
			coords := info.Coords
			focus = &coords
		}

		for _, hook := range g.onAdded {
			hook(record)
		}
	}

	logging.Info().
		Int("loaded", len(valid)).
		Int("dropped", len(dropped)).
		Msg("Loaded marker document")

	return focus, nil
}

// Create allocates a new record for the given info and appends it to the
// collection.
func (g *Registry) Create(info MarkerInfo) *Record {
	record := &Record{id: uuid.New(), info: info}
	g.records = append(g.records, record)

	logging.Debug().Str("record", record.ID()).Str("tag", info.Tag).Msg("Created marker")

	for _, hook := range g.onAdded {
		hook(record)
	}
	return record
}

// Update merges non-nil patch fields into the record's info and notifies
// listeners with the field-level diff. Fields equal to their current value
// produce no change flag and therefore no presentation side effect.
func (g *Registry) Update(record *Record, patch Patch) Change {
	var change Change

	if patch.Coords != nil && *patch.Coords != record.info.Coords {
		record.info.Coords = *patch.Coords
		change.Coords = true
	}
	if patch.Tag != nil && *patch.Tag != record.info.Tag {
		record.info.Tag = *patch.Tag
		change.Tag = true
	}
	if patch.Tooltip != nil && *patch.Tooltip != record.info.Tooltip {
		record.info.Tooltip = *patch.Tooltip
		change.Tooltip = true
	}
	if patch.MarkerImage != nil && *patch.MarkerImage != record.info.MarkerImage {
		record.info.MarkerImage = *patch.MarkerImage
		change.Image = true
	}

	if change.Any() {
		logging.Debug().Str("record", record.ID()).
			Bool("coords", change.Coords).
			Bool("tooltip", change.Tooltip).
			Bool("image", change.Image).
			Msg("Updated marker")

		for _, hook := range g.onUpdated {
			hook(record, change)
		}
	}

	return change
}

// Remove deletes the record from the collection and notifies listeners so
// the presentation handle can be detached.
func (g *Registry) Remove(record *Record) {
	for i, r := range g.records {
		if r == record {
			g.records = append(g.records[:i], g.records[i+1:]...)

			logging.Debug().Str("record", record.ID()).Msg("Removed marker")

			for _, hook := range g.onRemoved {
				hook(record)
			}
			return
		}
	}
}

// Find returns the record whose presentation handle equals h, or nil.
func (g *Registry) Find(h any) *Record {
	for _, r := range g.records {
		if r.handle == h {
			return r
		}
	}
	return nil
}

// Records returns the records in collection order. The returned slice is a
// copy; the records themselves are shared.
func (g *Registry) Records() []*Record {
	out := make([]*Record, len(g.records))
	copy(out, g.records)
	return out
}

// Len returns the number of records.
func (g *Registry) Len() int {
	return len(g.records)
}

// SerializeAll produces the document JSON for the current collection in
// order, suitable for saving back to the wiki.
func (g *Registry) SerializeAll() (json.RawMessage, error) {
	doc := Document{Markers: make([]MarkerInfo, 0, len(g.records))}
	for _, r := range g.records {
		doc.Markers = append(doc.Markers, r.info)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapParse("json", "marker document", err)
	}
	return out, nil
}
