// Package basemap holds the fixed table of tile providers a map can use as
// its background.
package basemap

import (
	"fmt"
	"slices"
)

// Provider describes one raster tile source.
type Provider struct {
	Key         string `json:"key" yaml:"-" doc:"Provider key" example:"streets"`
	Name        string `json:"name" yaml:"name" doc:"Display name" example:"Streets"`
	URL         string `json:"url" yaml:"url" doc:"Tile URL template with {s}{z}{x}{y} placeholders"`
	Attribution string `json:"attribution" yaml:"attribution" doc:"Attribution HTML"`
	MinZoom     int    `json:"minZoom" yaml:"minZoom" doc:"Minimum zoom level"`
	MaxZoom     int    `json:"maxZoom" yaml:"maxZoom" doc:"Maximum zoom level"`
}

// ClampZoom bounds z to the provider's zoom range.
func (p Provider) ClampZoom(z int) int {
	if z < p.MinZoom {
		return p.MinZoom
	}
	if p.MaxZoom > 0 && z > p.MaxZoom {
		return p.MaxZoom
	}
	return z
}

// DefaultKey is the provider used when a key is unknown.
const DefaultKey = "streets"

var builtin = []Provider{
	{
		Key:         "streets",
		Name:        "Streets",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
		MaxZoom:     19,
	},
	{
		Key:         "terrain",
		Name:        "Terrain",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "Map data: &copy; OpenStreetMap contributors, SRTM | Map style: &copy; OpenTopoMap (CC-BY-SA)",
		MaxZoom:     17,
	},
	{
		Key:         "toner",
		Name:        "Toner",
		URL:         "https://{s}.tile.stamen.com/toner/{z}/{x}/{y}.png",
		Attribution: "Map tiles by Stamen Design, under CC BY 3.0. Data &copy; OpenStreetMap contributors",
		MaxZoom:     20,
	},
}

// Table maps provider keys to providers.
type Table struct {
	providers  map[string]Provider
	order      []string
	defaultKey string
}

// Default returns the built-in table.
func Default() *Table {
	t := &Table{providers: make(map[string]Provider), defaultKey: DefaultKey}
	for _, p := range builtin {
		t.Set(p)
	}
	return t
}

// File is the YAML layout of extra providers in the settings file.
type File struct {
	Default   string              `yaml:"default"`
	Providers map[string]Provider `yaml:"providers"`
}

// Merge adds the providers of f to t and applies its default key.
func (t *Table) Merge(f File) error {
	keys := make([]string, 0, len(f.Providers))
	for k := range f.Providers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		p := f.Providers[k]
		if p.URL == "" {
			return fmt.Errorf("provider %q: url is required", k)
		}
		p.Key = k
		t.Set(p)
	}
	if f.Default != "" {
		if _, ok := t.providers[f.Default]; !ok {
			return fmt.Errorf("default provider %q is not defined", f.Default)
		}
		t.defaultKey = f.Default
	}
	return nil
}

// Set adds or replaces a provider.
func (t *Table) Set(p Provider) {
	if p.Name == "" {
		p.Name = p.Key
	}
	if _, exists := t.providers[p.Key]; !exists {
		t.order = append(t.order, p.Key)
	}
	t.providers[p.Key] = p
}

// Has reports whether key names a provider.
func (t *Table) Has(key string) bool {
	_, ok := t.providers[key]
	return ok
}

// DefaultKey returns the fallback provider key.
func (t *Table) DefaultKey() string {
	return t.defaultKey
}

// Resolve returns key if it is known and the default key otherwise.
func (t *Table) Resolve(key string) string {
	if t.Has(key) {
		return key
	}
	return t.defaultKey
}

// Lookup returns the provider for key, falling back to the default provider.
// The second result is the key actually used.
func (t *Table) Lookup(key string) (Provider, string) {
	resolved := t.Resolve(key)
	return t.providers[resolved], resolved
}

// List returns the providers in insertion order.
func (t *Table) List() []Provider {
	out := make([]Provider, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.providers[k])
	}
	return out
}
