// Package mapsfile reads the CLI's map-definition file.
//
// The file describes the wiki to talk to and the maps it hosts, so
// commands can refer to a map by name instead of repeating pages and
// tile patterns on every invocation.
package mapsfile

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/huijiwiki/wikimap/pkg/errors"
)

// DefaultPath is where commands look for the file when --maps is not set.
const DefaultPath = "maps.yaml"

// Wiki identifies the wiki the maps belong to.
type Wiki struct {
	Endpoint string `yaml:"endpoint"` // api.php URL
	Prefix   string `yaml:"prefix"`   // static-storage prefix for uploads
}

// Definition describes one map.
type Definition struct {
	Name         string `yaml:"name"`
	MarkerPage   string `yaml:"marker"`
	TileTemplate string `yaml:"tile-template"`
	BaseZoom     int    `yaml:"base-zoom"`
}

// File is a parsed map-definition file.
type File struct {
	Wiki Wiki         `yaml:"wiki"`
	Maps []Definition `yaml:"maps"`
}

// Load reads and validates a map-definition file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("maps", "reading map definitions", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	if f.Wiki.Endpoint == "" {
		return nil, errors.NewConfigError("wiki.endpoint", "is required", nil)
	}
	seen := make(map[string]bool, len(f.Maps))
	for i := range f.Maps {
		def := &f.Maps[i]
		if def.Name == "" {
			return nil, errors.NewConfigError("maps.name", "every map needs a name", nil)
		}
		if seen[def.Name] {
			return nil, errors.NewConfigError("maps.name", "duplicate map name "+def.Name, nil)
		}
		seen[def.Name] = true
		if def.MarkerPage == "" {
			return nil, errors.NewConfigError("maps.marker", "map "+def.Name+" needs a marker page", nil)
		}
	}
	return &f, nil
}

// Find returns the definition with the given name, or nil.
func (f *File) Find(name string) *Definition {
	for i := range f.Maps {
		if f.Maps[i].Name == name {
			return &f.Maps[i]
		}
	}
	return nil
}
