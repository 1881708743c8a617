// Package wikimap embeds interactive marker maps in wiki pages.
//
// A map is configured through data-* attributes on its host element,
// loads its marker document from a wiki Data page, and lets editors
// place, edit, drag, and remove markers before saving the document back
// through the wiki's API. The host supplies the drawing surface via the
// view package's capability interfaces; everything else lives here.
package wikimap

import (
	"context"

	"github.com/google/uuid"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/geo"
	"github.com/huijiwiki/wikimap/pkg/icons"
	"github.com/huijiwiki/wikimap/pkg/logging"
	"github.com/huijiwiki/wikimap/pkg/mapconfig"
	"github.com/huijiwiki/wikimap/pkg/markers"
	"github.com/huijiwiki/wikimap/pkg/session"
	"github.com/huijiwiki/wikimap/pkg/tiles"
	"github.com/huijiwiki/wikimap/pkg/view"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// Map is one embedded map instance.
type Map interface {
	// Init parses the host element's configuration, loads the marker
	// document, draws the initial state, and starts the edit session.
	Init(ctx context.Context) error

	// Submit queues a user gesture for the edit session.
	Submit(it session.Intent) bool

	// EditModeEnabled reports whether edit mode is on; the host's
	// context-menu guard checks it before offering "add marker".
	EditModeEnabled() bool

	// Dirty reports whether there are unsaved marker changes.
	Dirty() bool

	// OnDirtyChanged registers a callback for dirty-flag transitions.
	// Register before Init.
	OnDirtyChanged(fn func(bool))

	// Registry exposes the marker collection, e.g. for listing markers
	// in page tooling. Mutate only through Submit.
	Registry() *markers.Registry

	// Tiles returns the tile source once Init has run, nil before.
	Tiles() *tiles.Source

	// Config returns the parsed map configuration once Init has run,
	// nil before.
	Config() *mapconfig.Config

	// Close stops the edit session.
	Close()
}

// wikimap is the internal implementation of the Map interface.
type wikimap struct {
	id        string
	config    *config
	container view.Container
	viewport  view.Viewport

	registry   *markers.Registry
	dirtyHooks []func(bool)

	// Populated by Init.
	mapCfg     *mapconfig.Config
	tileSource *tiles.Source
	presenter  *view.Presenter
	controller *session.Controller
}

// New creates a map bound to a host container and viewport. Call Init to
// bring it up.
func New(container view.Container, viewport view.Viewport, opts ...Option) (Map, error) {
	if container == nil {
		return nil, errors.NewValidationError("container", nil, "is required")
	}
	if viewport == nil {
		return nil, errors.NewValidationError("viewport", nil, "is required")
	}

	m := &wikimap{
		config:    defaultConfig(),
		container: container,
		viewport:  viewport,
		registry:  markers.NewRegistry(),
	}
	if err := m.options(opts...); err != nil {
		return nil, err
	}

	if m.config.wiki == nil {
		m.config.wiki = wiki.New(m.config.endpoint, wiki.WithSourcePage(m.config.sourcePage))
	}
	if m.id == "" {
		m.id = uuid.NewString()
	}
	return m, nil
}

// Init runs the startup sequence, mirroring what happens when the page's
// map element comes into view.
func (m *wikimap) Init(ctx context.Context) error {
	ctx = logging.WithMapID(ctx, m.id)
	log := logging.Ctx(ctx)

	// Step 1: Parse configuration from the host element.
	cfg, err := mapconfig.Parse(m.container.Attributes())
	if err != nil {
		log.Error().Err(err).Msg("Map configuration invalid")
		m.container.ShowError(view.ErrorHTML(err))
		return err
	}
	m.mapCfg = cfg

	// Step 2: Build the projection and tile source.
	proj := geo.NewProjection(cfg.TileBaseZoom)
	m.tileSource = tiles.NewSource(cfg.TileTemplate, m.config.tilePrefix)

	resolver := icons.NewResolver(m.config.wiki)
	m.presenter = view.NewPresenter(ctx, m.viewport, proj, resolver)

	// Step 3: Apply the configured initial focus, if it is a point.
	initZoom := -1
	if cfg.InitZoom != nil {
		initZoom = *cfg.InitZoom
	}
	if cfg.InitLoc != nil && cfg.InitLoc.Point != nil {
		m.presenter.FocusOn(*cfg.InitLoc.Point, initZoom)
	}

	// Step 4: Load the marker document. Failures leave the map usable
	// with an empty marker set.
	initTag := ""
	if cfg.InitLoc != nil {
		initTag = cfg.InitLoc.Tag
	}
	if focus, err := m.loadMarkers(ctx, initTag); err != nil {
		log.Warn().Err(err).Str("page", cfg.MarkerPage).Msg("Marker document unavailable")
	} else if focus != nil {
		m.presenter.FocusOn(*focus, initZoom)
	}
	m.presenter.Bind(m.registry)

	// Step 5: Start the edit session.
	controller, err := session.NewController(session.Config{
		Registry:   m.registry,
		Presenter:  m.presenter,
		Projection: proj,
		Saver:      m.config.wiki,
		Prompter:   m.config.prompter,
		Notifier:   m.config.notifier,
		Page:       cfg.MarkerPage,
		Summary:    m.config.summary,
	})
	if err != nil {
		return err
	}
	for _, fn := range m.dirtyHooks {
		controller.OnDirtyChanged(fn)
	}
	m.controller = controller
	m.controller.Start(ctx)

	log.Info().Str("page", cfg.MarkerPage).Int("markers", m.registry.Len()).Msg("Map initialized")
	return nil
}

// loadMarkers fetches and validates the marker document and draws the
// surviving markers. Returns the initial focus point when the configured
// tag matched.
func (m *wikimap) loadMarkers(ctx context.Context, initTag string) (*geo.Point, error) {
	doc, err := m.config.wiki.FetchDocument(ctx, m.mapCfg.MarkerPage)
	if err != nil {
		return nil, err
	}
	focus, err := m.registry.LoadFrom(doc.Content, initTag)
	if err != nil {
		return nil, err
	}
	m.presenter.Populate(m.registry)
	return focus, nil
}

func (m *wikimap) Submit(it session.Intent) bool {
	if m.controller == nil {
		return false
	}
	return m.controller.Submit(it)
}

func (m *wikimap) EditModeEnabled() bool {
	return m.controller != nil && m.controller.EditModeEnabled()
}

func (m *wikimap) Dirty() bool {
	return m.controller != nil && m.controller.Dirty()
}

func (m *wikimap) OnDirtyChanged(fn func(bool)) {
	m.dirtyHooks = append(m.dirtyHooks, fn)
}

func (m *wikimap) Registry() *markers.Registry { return m.registry }

func (m *wikimap) Tiles() *tiles.Source { return m.tileSource }

func (m *wikimap) Config() *mapconfig.Config { return m.mapCfg }

func (m *wikimap) Close() {
	if m.controller != nil {
		m.controller.Close()
	}
}
