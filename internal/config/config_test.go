package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapmaker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
basemaps:
  default: carto
  providers:
    carto:
      name: Carto Light
      url: https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png
      attribution: "&copy; CARTO"
      maxZoom: 20
embed:
  leafletVersion: 1.9.3
  height: 300px
persistence:
  store: duckdb
  persistView: true
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.9.3", s.Embed.LeafletVersion)
	assert.Equal(t, "300px", s.Embed.Height)
	assert.Equal(t, StoreDuckDB, s.Persistence.Store)
	require.NotNil(t, s.Persistence.PersistView)
	assert.True(t, *s.Persistence.PersistView)

	table, err := s.Providers()
	require.NoError(t, err)
	assert.True(t, table.Has("carto"))
	assert.True(t, table.Has("streets"))
	assert.Equal(t, "carto", table.DefaultKey())
}

func TestLoadMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)

	s, err = Load("")
	require.NoError(t, err)
	table, err := s.Providers()
	require.NoError(t, err)
	assert.Equal(t, "streets", table.DefaultKey())
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "persistence: [oops"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "persistence:\n  store: redis\n"))
	assert.ErrorContains(t, err, "unknown store")

	s, err := Load(writeFile(t, "basemaps:\n  default: ghost\n"))
	require.NoError(t, err)
	_, err = s.Providers()
	assert.Error(t, err)
}
