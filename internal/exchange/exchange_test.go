package exchange

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

func sample() *mapconfig.Config {
	c := mapconfig.NewConfig()
	c.Meta = mapconfig.Meta{
		Title:       "Coffee crawl",
		Description: "Best <espresso> & more",
		Center:      mapconfig.LatLng{Lat: 40.7128, Lng: -74.006},
		Zoom:        13,
		BaseLayer:   "terrain",
	}
	c.Markers = append(c.Markers, &mapconfig.Marker{
		Common: mapconfig.Common{ID: "marker-1a2b3c4d", Title: "Cafe", Visible: true},
		Lat:    40, Lng: -73, Color: "#e11d48",
	})
	c.Polygons = append(c.Polygons, &mapconfig.Polygon{
		Common:      mapconfig.Common{ID: "polygon-00000001", Title: "Park"},
		Coordinates: []mapconfig.Coord{{1, 2}, {3, 4}, {5, 6}},
		AreaStyle:   mapconfig.AreaStyle{StrokeColor: "#2563eb", FillColor: "#93c5fd", StrokeWeight: 2, FillOpacity: 0.4},
	})
	c.Rectangles = append(c.Rectangles, &mapconfig.Rectangle{
		Common: mapconfig.Common{ID: "rectangle-2", Visible: true},
		Bounds: [2]mapconfig.Coord{{39, -74}, {40, -73}},
	})
	c.Circles = append(c.Circles, &mapconfig.Circle{
		Common: mapconfig.Common{ID: "circle-3", Visible: false},
		Center: mapconfig.LatLng{Lat: 0.5, Lng: 0.25},
		Radius: 123.456,
	})
	c.Polylines = append(c.Polylines, &mapconfig.Polyline{
		Common:      mapconfig.Common{ID: "polyline-4", Visible: true},
		Coordinates: []mapconfig.Coord{{0, 0}, {1, 1}},
		Color:       "#22c55e", Weight: 4, DashArray: "6, 6",
	})
	return c
}

func TestRoundTrip(t *testing.T) {
	for name, c := range map[string]*mapconfig.Config{
		"populated": sample(),
		"empty":     mapconfig.NewConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := Marshal(c)
			require.NoError(t, err)
			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, c, got)

			data, err = MarshalIndent(c)
			require.NoError(t, err)
			got, err = Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, c, got)
		})
	}
}

func TestEmptyCollectionsEncodeAsArrays(t *testing.T) {
	data, err := Marshal(mapconfig.NewConfig())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"meta": {"title":"Untitled map","description":"","center":{"lat":0,"lng":0},"zoom":2,"baseLayer":"streets"},
		"markers": [], "polygons": [], "polylines": [], "circles": [], "rectangles": []
	}`, string(data))
}

func TestUnmarshalPartial(t *testing.T) {
	got, err := Unmarshal([]byte(`{"meta":{"title":"Trip","center":{"lat":10,"lng":20}},"markers":[{"id":"m1","lat":1,"lng":2}]}`))
	require.NoError(t, err)

	assert.Equal(t, "Trip", got.Meta.Title)
	assert.Equal(t, mapconfig.DefaultZoom, got.Meta.Zoom)
	assert.Equal(t, mapconfig.DefaultBaseLayer, got.Meta.BaseLayer)
	assert.Equal(t, mapconfig.LatLng{Lat: 10, Lng: 20}, got.Meta.Center)

	require.Len(t, got.Markers, 1)
	assert.True(t, got.Markers[0].Visible)
	assert.NotNil(t, got.Polygons)
	assert.Empty(t, got.Polygons)
	assert.NotNil(t, got.Rectangles)
	assert.NotNil(t, got.Circles)
	assert.NotNil(t, got.Polylines)
}

func TestUnmarshalMissingMeta(t *testing.T) {
	got, err := Unmarshal([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, mapconfig.NewConfig(), got)

	got, err = Unmarshal([]byte(`{"meta":null,"circles":null}`))
	require.NoError(t, err)
	assert.Equal(t, mapconfig.NewConfig(), got)
}

func TestUnmarshalVisibleFalse(t *testing.T) {
	got, err := Unmarshal([]byte(`{"circles":[{"id":"c","center":{"lat":1,"lng":1},"radius":5,"visible":false}]}`))
	require.NoError(t, err)
	require.Len(t, got.Circles, 1)
	assert.False(t, got.Circles[0].Visible)
}

func TestUnmarshalMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":        `{"meta":`,
		"array":           `[]`,
		"null":            `null`,
		"string":          `"map"`,
		"meta not object": `{"meta":"x"}`,
		"collection type": `{"markers":{"id":"m"}}`,
		"record type":     `{"polygons":[{"coordinates":"nope"}]}`,
		"duplicate ids":   `{"markers":[{"id":"a"}],"polylines":[{"id":"a"}]}`,
		"zero radius":     `{"circles":[{"id":"c","center":{"lat":1,"lng":1},"radius":0}]}`,
		"negative radius": `{"circles":[{"id":"c","center":{"lat":1,"lng":1},"radius":-5}]}`,
		"missing radius":  `{"circles":[{"id":"c","center":{"lat":1,"lng":1}}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestUnmarshalKeepsMissingIDs(t *testing.T) {
	got, err := Unmarshal([]byte(`{"markers":[{"lat":1,"lng":1},{"lat":2,"lng":2}]}`))
	require.NoError(t, err)
	require.Len(t, got.Markers, 2)
	assert.Empty(t, got.Markers[0].ID)
	assert.Empty(t, got.Markers[1].ID)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Coffee-crawl.json", FileName("Coffee crawl"))
	assert.Equal(t, "a-b-c.json", FileName("a  b\tc"))
	assert.Equal(t, "map.json", FileName(""))
	assert.Equal(t, `attachment; filename="quoted-name.json"`, ContentDisposition(`"quoted" name`))
}

func TestToGeoJSON(t *testing.T) {
	fc := ToGeoJSON(sample())
	require.Len(t, fc.Features, 5)

	marker := fc.Features[0]
	assert.Equal(t, orb.Point{-73, 40}, marker.Geometry)
	assert.Equal(t, "Cafe", marker.Properties["title"])
	assert.Equal(t, "marker", marker.Properties["kind"])

	poly := fc.Features[1].Geometry.(orb.Polygon)
	require.Len(t, poly, 1)
	assert.True(t, poly[0].Closed())
	assert.Len(t, poly[0], 4)

	rect := fc.Features[2].Geometry.(orb.Polygon)
	assert.Equal(t, orb.Bound{Min: orb.Point{-74, 39}, Max: orb.Point{-73, 40}}, rect.Bound())

	circle := fc.Features[3]
	assert.Equal(t, orb.Point{0.25, 0.5}, circle.Geometry)
	assert.Equal(t, 123.456, circle.Properties["radius"])
	assert.Equal(t, false, circle.Properties["visible"])

	line := fc.Features[4].Geometry.(orb.LineString)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}}, line)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}
