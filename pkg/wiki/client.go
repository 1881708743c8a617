// Package wiki provides a client for the wiki content API.
//
// The wiki is used as a remote document store: a named page holds one JSON
// blob, read as the latest revision and written as a new revision with a
// change summary. Writes are optimistic and non-transactional; the client
// performs a single attempt and reports structured failures.
package wiki

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"

	"github.com/huijiwiki/wikimap/internal/transport"
	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/logging"
)

// DefaultEndpoint is the conventional api.php path when the client runs
// embedded in a wiki page.
const DefaultEndpoint = "/api.php"

// Client talks to one wiki's content API.
type Client struct {
	transport *transport.Client

	// sourcePage names the page embedding the map; save summaries carry it.
	sourcePage string

	mu    sync.Mutex
	token string // cached CSRF token
}

// Option configures a Client.
type Option func(*config)

type config struct {
	timeout    time.Duration
	sourcePage string
	token      string
}

// WithTimeout sets the per-request timeout. Defaults to 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithSourcePage records the page the map is embedded in, appended to save
// summaries so page history shows where an edit came from.
func WithSourcePage(page string) Option {
	return func(c *config) { c.sourcePage = page }
}

// WithToken seeds the CSRF token instead of fetching it lazily. Used when
// the embedding environment already holds one.
func WithToken(token string) Option {
	return func(c *config) { c.token = token }
}

// New creates a wiki client for the given api.php endpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		transport:  transport.New(endpoint, cfg.timeout),
		sourcePage: cfg.sourcePage,
		token:      cfg.token,
	}
}

// FetchDocument reads the latest revision of a named page and returns its
// content parsed as JSON. Missing pages and pages without revisions fail
// with a not-found error; unparseable content fails as malformed.
func (c *Client) FetchDocument(ctx context.Context, name string) (*Document, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "revisions")
	params.Set("titles", name)
	params.Set("rvprop", "content|timestamp")
	params.Set("rvlimit", "1")

	var env apiEnvelope
	if err := c.get(ctx, params, &env); err != nil {
		return nil, err
	}

	page := firstPageWithRevision(env.Query)
	if page == nil {
		return nil, errors.NewNotFoundError("page", name)
	}

	rev := page.Revisions[0]
	content := json.RawMessage(rev.Content)
	if !json.Valid(content) {
		return nil, errors.NewParseError("json", name, "revision content is not valid JSON", errors.ErrMalformed)
	}

	logging.Ctx(ctx).Debug().
		Str("page", name).
		Time("revised", rev.Timestamp.Time).
		Int("bytes", len(content)).
		Msg("Fetched document")

	return &Document{Name: name, Content: content, Revised: rev.Timestamp}, nil
}

// SaveDocument writes content as a new revision of the named page with the
// given change summary. One attempt, no retry; the caller decides whether
// to re-prompt the user.
func (c *Client) SaveDocument(ctx context.Context, name, content, summary string) error {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return err
	}

	if c.sourcePage != "" {
		summary += " - via " + c.sourcePage
	}

	form := url.Values{}
	form.Set("action", "edit")
	form.Set("format", "json")
	form.Set("formatversion", "2")
	form.Set("contentformat", "application/json")
	form.Set("title", name)
	form.Set("text", content)
	form.Set("summary", summary)
	form.Set("minor", "true")
	form.Set("token", token)

	var env apiEnvelope
	if err := c.post(ctx, form, &env); err != nil {
		return err
	}

	if env.Edit == nil || env.Edit.Result != "Success" {
		result := "no result"
		if env.Edit != nil {
			result = env.Edit.Result
		}
		return errors.NewAPIError("editfailed", "edit was not accepted: "+result, c.transport.Endpoint())
	}

	logging.Ctx(ctx).Info().
		Str("page", name).
		Str("summary", summary).
		Msg("Saved document revision")

	return nil
}

// FetchMediaMetadata performs a batch lookup of uploaded file dimensions and
// URLs. Every requested name is present in the result; missing files map to
// nil rather than failing the lookup.
func (c *Client) FetchMediaMetadata(ctx context.Context, names []string) (map[string]*MediaInfo, error) {
	result := make(map[string]*MediaInfo, len(names))
	if len(names) == 0 {
		return result, nil
	}

	titles := make([]string, len(names))
	for i, n := range names {
		titles[i] = "File:" + n
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "imageinfo")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("iiprop", "url|dimensions")

	var env apiEnvelope
	if err := c.get(ctx, params, &env); err != nil {
		return nil, err
	}

	// The API normalizes titles (case, underscores); map response titles
	// back to the names the caller asked for.
	byTitle := make(map[string]string, len(names))
	for i, title := range titles {
		byTitle[title] = names[i]
	}
	if env.Query != nil {
		for _, norm := range env.Query.Normalized {
			if original, ok := byTitle[norm.From]; ok {
				byTitle[norm.To] = original
			}
		}
	}

	for _, n := range names {
		result[n] = nil
	}

	if env.Query != nil {
		now := utc.Now()
		for _, page := range env.Query.Pages {
			name, ok := byTitle[page.Title]
			if !ok || page.Missing || len(page.ImageInfo) == 0 {
				continue
			}
			info := page.ImageInfo[0]
			result[name] = &MediaInfo{
				URL:     info.URL,
				Width:   info.Width,
				Height:  info.Height,
				Fetched: now,
			}
		}
	}

	return result, nil
}

// CSRFToken returns the cached write token, fetching one if necessary.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("meta", "tokens")
	params.Set("type", "csrf")

	var env apiEnvelope
	if err := c.get(ctx, params, &env); err != nil {
		return "", err
	}

	if env.Query == nil || env.Query.Tokens == nil || env.Query.Tokens.CSRFToken == "" {
		return "", errors.NewAPIError("notoken", "no CSRF token in response", c.transport.Endpoint())
	}

	c.mu.Lock()
	c.token = env.Query.Tokens.CSRFToken
	c.mu.Unlock()

	return env.Query.Tokens.CSRFToken, nil
}

// get issues a GET request and decodes the envelope, surfacing API-level
// errors as typed failures.
func (c *Client) get(ctx context.Context, params url.Values, env *apiEnvelope) error {
	body, err := c.transport.Get(ctx, params)
	if err != nil {
		return err
	}
	return c.decode(body, env)
}

// post issues a form POST and decodes the envelope.
func (c *Client) post(ctx context.Context, form url.Values, env *apiEnvelope) error {
	body, err := c.transport.PostForm(ctx, form)
	if err != nil {
		return err
	}
	return c.decode(body, env)
}

func (c *Client) decode(body []byte, env *apiEnvelope) error {
	if err := json.Unmarshal(body, env); err != nil {
		return errors.WrapParse("json", c.transport.Endpoint(), err)
	}
	if env.Error != nil {
		return errors.NewAPIError(env.Error.Code, env.Error.Info, c.transport.Endpoint())
	}
	return nil
}

// firstPageWithRevision picks the first non-missing page carrying at least
// one revision.
func firstPageWithRevision(q *apiQuery) *apiPage {
	if q == nil {
		return nil
	}
	for i := range q.Pages {
		page := &q.Pages[i]
		if !page.Missing && len(page.Revisions) > 0 {
			return page
		}
	}
	return nil
}
