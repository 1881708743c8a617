// Package app provides the application context and dependency management
// for the wikimap CLI: configuration, logging, and lazily constructed
// wiki clients shared by the commands.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/huijiwiki/wikimap/internal/mapsfile"
	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// App represents the wikimap CLI with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily loaded collaborators
	mu    sync.Mutex
	maps  *mapsfile.File
	wikis map[string]*wiki.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		wikis:   make(map[string]*wiki.Client),
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Maps loads the map-definition file once and caches it.
func (a *App) Maps() (*mapsfile.File, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.maps != nil {
		return a.maps, nil
	}
	f, err := mapsfile.Load(a.config.MapsFile)
	if err != nil {
		return nil, err
	}
	a.maps = f
	return f, nil
}

// MapByName resolves a map definition from the maps file.
func (a *App) MapByName(name string) (*mapsfile.Definition, *mapsfile.File, error) {
	f, err := a.Maps()
	if err != nil {
		return nil, nil, err
	}
	def := f.Find(name)
	if def == nil {
		return nil, nil, errors.NewNotFoundError("map", name)
	}
	return def, f, nil
}

// WikiClient returns a client for the given endpoint, creating it on
// first use. An empty endpoint falls back to the configured one.
func (a *App) WikiClient(endpoint string) (*wiki.Client, error) {
	if endpoint == "" {
		endpoint = a.config.Endpoint
	}
	if endpoint == "" {
		return nil, errors.NewConfigError("endpoint", "no wiki endpoint configured", nil)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if client, ok := a.wikis[endpoint]; ok {
		return client, nil
	}

	var opts []wiki.Option
	if a.config.Token != "" {
		opts = append(opts, wiki.WithToken(a.config.Token))
	}
	if a.config.SourcePage != "" {
		opts = append(opts, wiki.WithSourcePage(a.config.SourcePage))
	}
	client := wiki.New(endpoint, opts...)
	a.wikis[endpoint] = client
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
