package icons_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huijiwiki/wikimap/pkg/icons"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// stubFetcher serves canned media metadata and records every fetch.
type stubFetcher struct {
	mu    sync.Mutex
	media map[string]*wiki.MediaInfo
	err   error
	calls [][]string
}

func (s *stubFetcher) FetchMediaMetadata(_ context.Context, names []string) (map[string]*wiki.MediaInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, names)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]*wiki.MediaInfo, len(names))
	for _, name := range names {
		out[name] = s.media[name]
	}
	return out, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestDefault(t *testing.T) {
	icon := icons.Default()
	assert.Contains(t, icon.URL, "Marker-icon.png")
	assert.Equal(t, [2]float64{15, 24.6}, icon.Size)
	assert.Equal(t, [2]float64{7.5, 24.6}, icon.Anchor)
	assert.Equal(t, [2]float64{0, -24.6}, icon.PopupAnchor)
	assert.Equal(t, [2]float64{7.5, -18}, icon.TooltipAnchor)

	// Repeated calls return the same value.
	assert.Equal(t, icon, icons.Default())
}

func TestResolveCustomIcon(t *testing.T) {
	fetcher := &stubFetcher{media: map[string]*wiki.MediaInfo{
		"Cave.png": {URL: "https://static.example/Cave.png", Width: 32, Height: 48},
	}}
	r := icons.NewResolver(fetcher)

	icon := r.Resolve(context.Background(), "Cave.png")
	assert.Equal(t, "https://static.example/Cave.png", icon.URL)
	assert.Equal(t, [2]float64{32, 48}, icon.Size)
	assert.Equal(t, [2]float64{16, 24}, icon.Anchor)
	assert.Equal(t, [2]float64{0, -24}, icon.PopupAnchor)
	assert.Equal(t, [2]float64{16, 0}, icon.TooltipAnchor)
}

func TestResolveEmptyName(t *testing.T) {
	fetcher := &stubFetcher{}
	r := icons.NewResolver(fetcher)

	icon := r.Resolve(context.Background(), "")
	assert.Equal(t, icons.Default(), icon)
	assert.Zero(t, fetcher.callCount(), "empty name should not hit the API")
}

func TestResolveMissingFallsBack(t *testing.T) {
	fetcher := &stubFetcher{media: map[string]*wiki.MediaInfo{}}
	r := icons.NewResolver(fetcher)

	icon := r.Resolve(context.Background(), "Nope.png")
	assert.Equal(t, icons.Default(), icon)
}

func TestResolveErrorFallsBack(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	r := icons.NewResolver(fetcher)

	icon := r.Resolve(context.Background(), "Cave.png")
	assert.Equal(t, icons.Default(), icon)
}

func TestResolveCaches(t *testing.T) {
	fetcher := &stubFetcher{media: map[string]*wiki.MediaInfo{
		"Cave.png": {URL: "https://static.example/Cave.png", Width: 32, Height: 48},
	}}
	r := icons.NewResolver(fetcher)

	first := r.Resolve(context.Background(), "Cave.png")
	second := r.Resolve(context.Background(), "Cave.png")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.callCount(), "second resolve should be served from cache")
}

func TestPreloadBatches(t *testing.T) {
	fetcher := &stubFetcher{media: map[string]*wiki.MediaInfo{
		"A.png": {URL: "https://static.example/A.png", Width: 10, Height: 10},
		"B.png": {URL: "https://static.example/B.png", Width: 20, Height: 20},
	}}
	r := icons.NewResolver(fetcher)

	r.Preload(context.Background(), []string{"A.png", "B.png", "", "A.png"})
	require.Equal(t, 1, fetcher.callCount())
	assert.ElementsMatch(t, []string{"A.png", "B.png"}, fetcher.calls[0])

	// Preloaded names resolve without further fetches.
	icon := r.Resolve(context.Background(), "B.png")
	assert.Equal(t, "https://static.example/B.png", icon.URL)
	assert.Equal(t, 1, fetcher.callCount())

	// Already requested names are skipped on the next preload.
	r.Preload(context.Background(), []string{"A.png", "B.png"})
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPreloadFailureIsRetryable(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	r := icons.NewResolver(fetcher)

	r.Preload(context.Background(), []string{"A.png"})
	require.Equal(t, 1, fetcher.callCount())

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.media = map[string]*wiki.MediaInfo{
		"A.png": {URL: "https://static.example/A.png", Width: 10, Height: 10},
	}
	fetcher.mu.Unlock()

	r.Preload(context.Background(), []string{"A.png"})
	assert.Equal(t, 2, fetcher.callCount(), "failed preload should not poison the cache")
}
