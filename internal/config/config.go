// Package config reads the optional YAML settings file of the editor.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
)

// Store backends for the quick-save slot.
const (
	StoreFile   = "file"
	StoreDuckDB = "duckdb"
)

// Settings is the settings file layout.
//
//	basemaps:
//	  default: streets
//	  providers:
//	    carto: {name: Carto, url: "https://...", attribution: "...", maxZoom: 20}
//	embed:
//	  leafletVersion: 1.9.4
//	  height: 420px
//	persistence:
//	  store: file
//	  persistView: false
type Settings struct {
	Basemaps    basemap.File    `yaml:"basemaps"`
	Embed       snippet.Options `yaml:"embed"`
	Persistence Persistence     `yaml:"persistence"`
}

// Persistence selects the quick-save backend and policy.
type Persistence struct {
	Store       string `yaml:"store"`
	PersistView *bool  `yaml:"persistView"`
}

// Load reads the settings file at path. An empty path or a missing file
// yields zero settings, which mean built-in defaults everywhere.
func Load(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) validate() error {
	switch s.Persistence.Store {
	case "", StoreFile, StoreDuckDB:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", s.Persistence.Store, StoreFile, StoreDuckDB)
	}
	return nil
}

// Providers builds the tile provider table: built-ins plus the configured
// extras.
func (s Settings) Providers() (*basemap.Table, error) {
	t := basemap.Default()
	if err := t.Merge(s.Basemaps); err != nil {
		return nil, err
	}
	return t, nil
}
