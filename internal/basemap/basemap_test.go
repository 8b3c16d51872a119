package basemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableHasRequiredKeys(t *testing.T) {
	table := Default()
	for _, key := range []string{"streets", "terrain", "toner"} {
		assert.True(t, table.Has(key), key)
	}
	assert.Equal(t, "streets", table.DefaultKey())
	assert.Len(t, table.List(), 3)
}

func TestLookupFallsBackToDefault(t *testing.T) {
	table := Default()

	p, key := table.Lookup("watercolor")
	assert.Equal(t, "streets", key)
	assert.Contains(t, p.URL, "openstreetmap")

	p, key = table.Lookup("terrain")
	assert.Equal(t, "terrain", key)
	assert.Equal(t, 17, p.MaxZoom)
}

func TestClampZoom(t *testing.T) {
	p := Provider{MinZoom: 0, MaxZoom: 17}
	assert.Equal(t, 0, p.ClampZoom(-3))
	assert.Equal(t, 17, p.ClampZoom(30))
	assert.Equal(t, 5, p.ClampZoom(5))
}

func TestMerge(t *testing.T) {
	table := Default()
	err := table.Merge(File{
		Default: "carto",
		Providers: map[string]Provider{
			"carto":   {Name: "Carto Light", URL: "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png", MaxZoom: 20},
			"streets": {URL: "https://tiles.example.com/{z}/{x}/{y}.png"},
		},
	})
	require.NoError(t, err)
	assert.True(t, table.Has("carto"))
	assert.Equal(t, "carto", table.DefaultKey())
	assert.Equal(t, "carto", table.Resolve("nope"))

	p, _ := table.Lookup("streets")
	assert.Equal(t, "https://tiles.example.com/{z}/{x}/{y}.png", p.URL)
	assert.Equal(t, "streets", p.Name)
	assert.Len(t, table.List(), 4)
}

func TestMergeRequiresURL(t *testing.T) {
	err := Default().Merge(File{Providers: map[string]Provider{"blank": {Name: "Blank"}}})
	assert.Error(t, err)
}

func TestMergeRejectsUnknownDefault(t *testing.T) {
	table := Default()
	err := table.Merge(File{Default: "ghost"})
	assert.Error(t, err)
}
