package wikimap

import (
	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/logging"
	"github.com/huijiwiki/wikimap/pkg/markers"
	"github.com/huijiwiki/wikimap/pkg/session"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// Option is a function that configures a Map instance.
type Option func(*config) error

// config holds construction-time settings for a map.
type config struct {
	endpoint   string
	sourcePage string
	tilePrefix string
	summary    string
	wiki       *wiki.Client
	prompter   session.Prompter
	notifier   session.Notifier
}

func defaultConfig() *config {
	return &config{
		endpoint: wiki.DefaultEndpoint,
		prompter: nopPrompter{},
		notifier: logNotifier{},
	}
}

// WithEndpoint sets the wiki's api.php URL. Defaults to the same-origin
// path used when embedded in a page.
func WithEndpoint(endpoint string) Option {
	return func(c *config) error {
		if endpoint == "" {
			return errors.NewValidationError("endpoint", endpoint, "must not be empty")
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithWikiClient supplies a preconfigured wiki client, replacing the one
// built from WithEndpoint.
func WithWikiClient(client *wiki.Client) Option {
	return func(c *config) error {
		c.wiki = client
		return nil
	}
}

// WithSourcePage records the page the map is embedded in; it is appended
// to edit summaries for attribution.
func WithSourcePage(page string) Option {
	return func(c *config) error {
		c.sourcePage = page
		return nil
	}
}

// WithTilePrefix sets the wiki's static-storage prefix used to build tile
// and upload URLs.
func WithTilePrefix(prefix string) Option {
	return func(c *config) error {
		c.tilePrefix = prefix
		return nil
	}
}

// WithSummary overrides the edit summary used when saving markers.
func WithSummary(summary string) Option {
	return func(c *config) error {
		c.summary = summary
		return nil
	}
}

// WithPrompter supplies the host's marker editor and save confirmation
// dialogs. Without one, edit gestures are accepted but always cancel.
func WithPrompter(p session.Prompter) Option {
	return func(c *config) error {
		c.prompter = p
		return nil
	}
}

// WithNotifier supplies the host's notice surface for save results.
func WithNotifier(n session.Notifier) Option {
	return func(c *config) error {
		c.notifier = n
		return nil
	}
}

// options applies the options to the config.
func (m *wikimap) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m.config); err != nil {
			return err
		}
	}
	return nil
}

// nopPrompter cancels every dialog. Maps without a host prompter stay
// read-only in practice.
type nopPrompter struct{}

func (nopPrompter) EditMarker(info markers.MarkerInfo) (markers.MarkerInfo, bool) {
	return info, false
}

func (nopPrompter) ConfirmSave() bool { return false }

// logNotifier routes notices to the log when the host has no notice UI.
type logNotifier struct{}

func (logNotifier) Success(msg string) { logging.Info().Msg(msg) }
func (logNotifier) Error(msg string)   { logging.Error().Msg(msg) }
