// Package icons resolves marker icons against the wiki's media index.
//
// A marker may name an uploaded file as its icon; resolution fetches the
// file's URL and dimensions and derives the icon geometry from them. Missing
// files and fetch failures fall back to the shared default icon, never to an
// error: icon resolution must not block marker creation.
package icons

import (
	"context"
	"sync"

	"github.com/huijiwiki/wikimap/pkg/logging"
	"github.com/huijiwiki/wikimap/pkg/wiki"
)

// Icon describes a marker icon for the host mapping library: image URL,
// pixel size, and the anchor offsets popups and tooltips hang from.
type Icon struct {
	URL           string
	Size          [2]float64
	Anchor        [2]float64
	PopupAnchor   [2]float64
	TooltipAnchor [2]float64
}

// Default icon geometry, shared by every map instance on a page.
var (
	defaultOnce sync.Once
	defaultIcon Icon
)

// Default returns the process-wide default marker icon. Construction is
// lazy and idempotent; the icon is immutable data, so sharing it across
// map instances is safe.
func Default() Icon {
	defaultOnce.Do(func() {
		defaultIcon = Icon{
			URL:           "https://huiji-public.huijistatic.com/warframe/uploads/7/7a/Marker-icon.png",
			Size:          [2]float64{15, 24.6},
			Anchor:        [2]float64{7.5, 24.6},
			PopupAnchor:   [2]float64{0, -24.6},
			TooltipAnchor: [2]float64{7.5, -18},
		}
	})
	return defaultIcon
}

// MediaFetcher is the slice of the wiki client the resolver needs.
type MediaFetcher interface {
	FetchMediaMetadata(ctx context.Context, names []string) (map[string]*wiki.MediaInfo, error)
}

// Resolver caches media metadata by filename and builds icons from it.
// Safe for concurrent use: icon resolution is the one path that runs
// outside the edit-session loop.
type Resolver struct {
	client MediaFetcher

	mu        sync.Mutex
	cache     map[string]*wiki.MediaInfo // resolved files
	requested map[string]bool            // preload in flight or already attempted
}

// NewResolver creates a resolver backed by the given media fetcher.
func NewResolver(client MediaFetcher) *Resolver {
	return &Resolver{
		client:    client,
		cache:     make(map[string]*wiki.MediaInfo),
		requested: make(map[string]bool),
	}
}

// Preload batch-fetches metadata for the given filenames, skipping names
// already cached or requested. Failures leave the names retryable.
func (r *Resolver) Preload(ctx context.Context, names []string) {
	r.mu.Lock()
	var toLoad []string
	for _, name := range names {
		if name == "" || r.requested[name] {
			continue
		}
		r.requested[name] = true
		toLoad = append(toLoad, name)
	}
	r.mu.Unlock()

	if len(toLoad) == 0 {
		return
	}

	metadata, err := r.client.FetchMediaMetadata(ctx, toLoad)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("count", len(toLoad)).Msg("Icon preload failed")
		r.mu.Lock()
		for _, name := range toLoad {
			delete(r.requested, name)
		}
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	for name, info := range metadata {
		if info != nil {
			r.cache[name] = info
		}
	}
	r.mu.Unlock()
}

// Resolve returns the icon for a marker image filename. An empty name, a
// missing file, or a fetch failure resolves to the default icon.
func (r *Resolver) Resolve(ctx context.Context, name string) Icon {
	if name == "" {
		return Default()
	}

	r.mu.Lock()
	info, ok := r.cache[name]
	r.mu.Unlock()
	if ok {
		return fromMediaInfo(info)
	}

	metadata, err := r.client.FetchMediaMetadata(ctx, []string{name})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("file", name).Msg("Icon resolution failed")
		return Default()
	}

	info = metadata[name]
	if info == nil {
		logging.Ctx(ctx).Debug().Str("file", name).Msg("Icon file missing, using default")
		return Default()
	}

	r.mu.Lock()
	r.cache[name] = info
	r.mu.Unlock()

	return fromMediaInfo(info)
}

// fromMediaInfo derives icon geometry from file dimensions: anchored at the
// center, popup above, tooltip to the right.
func fromMediaInfo(info *wiki.MediaInfo) Icon {
	w := float64(info.Width)
	h := float64(info.Height)
	return Icon{
		URL:           info.URL,
		Size:          [2]float64{w, h},
		Anchor:        [2]float64{w / 2, h / 2},
		PopupAnchor:   [2]float64{0, -h / 2},
		TooltipAnchor: [2]float64{w / 2, 0},
	}
}
