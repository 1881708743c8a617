// Package tiles resolves tile filenames and wiki static-file URLs.
//
// Tile images are uploaded to the wiki as ordinary files named after a
// template like "Tiles-$x-$y-$z.png". The static file store shards uploads
// into directories derived from the md5 hex digest of the filename.
package tiles

import (
	"crypto/md5" //nolint:gosec // the upload store shards paths by md5, not a security use
	"encoding/hex"
	"strconv"
	"strings"
)

// DefaultPattern is the tile filename template used when a map does not
// configure its own.
const DefaultPattern = "Tiles-$x-$y-$z.png"

// StaticBaseURL is the public static-file host for wiki uploads.
const StaticBaseURL = "https://huiji-public.huijistatic.com"

// Source produces tile URLs for integer tile coordinates. It satisfies the
// host library's custom tile-source capability.
type Source struct {
	pattern string
	prefix  string
}

// NewSource creates a tile source for the given filename pattern and wiki
// prefix. An empty pattern falls back to DefaultPattern.
func NewSource(pattern, wikiPrefix string) *Source {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Source{pattern: pattern, prefix: wikiPrefix}
}

// Pattern returns the tile filename template.
func (s *Source) Pattern() string {
	return s.pattern
}

// Filename substitutes tile coordinates into the filename template.
func (s *Source) Filename(x, y, z int) string {
	r := strings.NewReplacer(
		"$x", strconv.Itoa(x),
		"$y", strconv.Itoa(y),
		"$z", strconv.Itoa(z),
	)
	return r.Replace(s.pattern)
}

// URL returns the full static-store URL for the tile at the given
// coordinates and zoom.
func (s *Source) URL(x, y, z int) string {
	return FileURL(s.prefix, s.Filename(x, y, z))
}

// FileURL resolves an uploaded file's public URL. The store shards files
// into <h>/<hh>/ directories taken from the md5 hex digest of the name.
func FileURL(wikiPrefix, filename string) string {
	sum := md5.Sum([]byte(filename)) //nolint:gosec
	digest := hex.EncodeToString(sum[:])

	return strings.Join([]string{
		StaticBaseURL + "/" + wikiPrefix + "/uploads",
		digest[:1],
		digest[:2],
		filename,
	}, "/")
}
