package session

import (
	"context"
	"sync/atomic"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/logging"
	"github.com/huijiwiki/wikimap/pkg/markers"
)

// DefaultSummary is the edit summary used when the config leaves it empty.
const DefaultSummary = "Update map markers"

// defaultQueueSize bounds the intent backlog. Gestures arrive one at a
// time, so a small buffer is plenty.
const defaultQueueSize = 16

// Presenter is the slice of the presentation layer the controller drives.
type Presenter interface {
	SetEditable(reg *markers.Registry, editable bool)
	SetVisible(reg *markers.Registry, visible bool)
}

// Saver writes a marker document back to its wiki page.
type Saver interface {
	SaveDocument(ctx context.Context, name, content, summary string) error
}

// Config assembles a controller's collaborators.
type Config struct {
	Registry   *markers.Registry
	Presenter  Presenter
	Projection geo.Projection
	Saver      Saver
	Prompter   Prompter
	Notifier   Notifier
	Page       string // wiki page the marker document saves to
	Summary    string // edit summary, DefaultSummary when empty
	QueueSize  int    // intent buffer, defaultQueueSize when zero
}

// Controller owns all marker mutation for one map. Every intent is
// handled on the controller goroutine; the only state exposed to other
// goroutines is the edit-mode and dirty flags.
type Controller struct {
	cfg Config

	editMode atomic.Bool
	dirty    atomic.Bool
	onDirty  []func(bool)

	intents chan Intent
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewController validates the config and builds a stopped controller.
func NewController(cfg Config) (*Controller, error) {
	switch {
	case cfg.Registry == nil:
		return nil, errors.NewValidationError("registry", nil, "is required")
	case cfg.Presenter == nil:
		return nil, errors.NewValidationError("presenter", nil, "is required")
	case cfg.Projection.Scale() == 0:
		return nil, errors.NewValidationError("projection", nil, "is required")
	case cfg.Saver == nil:
		return nil, errors.NewValidationError("saver", nil, "is required")
	case cfg.Prompter == nil:
		return nil, errors.NewValidationError("prompter", nil, "is required")
	case cfg.Notifier == nil:
		return nil, errors.NewValidationError("notifier", nil, "is required")
	case cfg.Page == "":
		return nil, errors.NewValidationError("page", "", "is required")
	}
	if cfg.Summary == "" {
		cfg.Summary = DefaultSummary
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Controller{
		cfg:     cfg,
		intents: make(chan Intent, cfg.QueueSize),
		done:    make(chan struct{}),
	}, nil
}

// OnDirtyChanged registers a callback for dirty-flag transitions, e.g. to
// enable a save button. Register before Start; callbacks run on the
// controller goroutine.
func (c *Controller) OnDirtyChanged(fn func(bool)) {
	c.onDirty = append(c.onDirty, fn)
}

// EditModeEnabled reports whether edit mode is on. Safe to call from any
// goroutine; the context-menu guard uses it to decide whether to open.
func (c *Controller) EditModeEnabled() bool {
	return c.editMode.Load()
}

// Dirty reports whether there are unsaved marker changes.
func (c *Controller) Dirty() bool {
	return c.dirty.Load()
}

// Start launches the intent loop. The loop stops when ctx is cancelled or
// Close is called.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.loop(ctx)
}

// Close stops the intent loop and waits for it to exit. A controller
// that was never started closes immediately.
func (c *Controller) Close() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

// Submit queues an intent for the controller. It reports false once the
// loop has stopped.
func (c *Controller) Submit(it Intent) bool {
	// The buffered send below could still win a race against a closed
	// done channel, so check it first.
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.intents <- it:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) loop(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case it := <-c.intents:
			c.handle(ctx, it)
		}
	}
}

func (c *Controller) handle(ctx context.Context, it Intent) {
	switch it := it.(type) {
	case EnableEdit:
		c.editMode.Store(true)
		c.cfg.Presenter.SetEditable(c.cfg.Registry, true)
		logging.Ctx(ctx).Debug().Msg("Edit mode enabled")
	case DisableEdit:
		c.editMode.Store(false)
		c.cfg.Presenter.SetEditable(c.cfg.Registry, false)
		logging.Ctx(ctx).Debug().Msg("Edit mode disabled")
	case CreateMarker:
		c.createMarker(ctx, it)
	case EditMarker:
		c.editMarker(ctx, it)
	case DragMarker:
		c.dragMarker(ctx, it)
	case RemoveMarker:
		c.removeMarker(ctx, it)
	case Save:
		c.save(ctx)
	case ShowMarkers:
		c.cfg.Presenter.SetVisible(c.cfg.Registry, true)
	case HideMarkers:
		c.cfg.Presenter.SetVisible(c.cfg.Registry, false)
	}
}

func (c *Controller) createMarker(ctx context.Context, it CreateMarker) {
	if !c.editMode.Load() {
		return
	}
	info, ok := c.cfg.Prompter.EditMarker(markers.MarkerInfo{Coords: it.At})
	if !ok {
		return
	}
	// The editor sets attributes; position comes from the gesture.
	info.Coords = it.At
	c.cfg.Registry.Create(info)
	c.setDirty(true)
}

func (c *Controller) editMarker(ctx context.Context, it EditMarker) {
	rec := c.cfg.Registry.Find(it.Handle)
	if rec == nil {
		logging.Ctx(ctx).Warn().Msg("Edit intent for unknown marker handle")
		return
	}
	edited, ok := c.cfg.Prompter.EditMarker(rec.Info())
	if !ok {
		return
	}
	change := c.cfg.Registry.Update(rec, markers.Patch{
		Tag:         &edited.Tag,
		Tooltip:     &edited.Tooltip,
		MarkerImage: &edited.MarkerImage,
	})
	if change.Any() {
		c.setDirty(true)
	}
}

func (c *Controller) dragMarker(ctx context.Context, it DragMarker) {
	rec := c.cfg.Registry.Find(it.Handle)
	if rec == nil {
		logging.Ctx(ctx).Warn().Msg("Drag intent for unknown marker handle")
		return
	}
	at := c.cfg.Projection.Point(it.To)
	change := c.cfg.Registry.Update(rec, markers.Patch{Coords: &at})
	if change.Any() {
		c.setDirty(true)
	}
}

func (c *Controller) removeMarker(ctx context.Context, it RemoveMarker) {
	rec := c.cfg.Registry.Find(it.Handle)
	if rec == nil {
		logging.Ctx(ctx).Warn().Msg("Remove intent for unknown marker handle")
		return
	}
	c.cfg.Registry.Remove(rec)
	c.setDirty(true)
}

// save writes the full marker document back to the wiki. On failure the
// dirty flag stays set and the local state is kept as is, so the user can
// retry without losing edits.
func (c *Controller) save(ctx context.Context) {
	if !c.dirty.Load() {
		logging.Ctx(ctx).Debug().Msg("Save requested with no unsaved changes")
		return
	}
	if !c.cfg.Prompter.ConfirmSave() {
		return
	}

	content, err := c.cfg.Registry.SerializeAll()
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Marker serialization failed")
		c.cfg.Notifier.Error("Could not serialize markers: " + err.Error())
		return
	}

	if err := c.cfg.Saver.SaveDocument(ctx, c.cfg.Page, string(content), c.cfg.Summary); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("page", c.cfg.Page).Msg("Marker save failed")
		c.cfg.Notifier.Error("Save failed: " + err.Error())
		return
	}

	c.setDirty(false)
	logging.Ctx(ctx).Info().Str("page", c.cfg.Page).Msg("Saved marker document")
	c.cfg.Notifier.Success("Markers saved")
}

func (c *Controller) setDirty(v bool) {
	if c.dirty.Swap(v) == v {
		return
	}
	for _, fn := range c.onDirty {
		fn(v)
	}
}
