package shapes

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

func drawn() map[mapconfig.Kind]draw.Layer {
	return map[mapconfig.Kind]draw.Layer{
		mapconfig.KindMarker:    draw.NewMarker(draw.LatLng(40, -73)),
		mapconfig.KindPolygon:   draw.NewPolygon(orb.Ring{{-73, 40}, {-72, 40}, {-72, 41}}),
		mapconfig.KindRectangle: draw.NewRectangle(orb.Bound{Min: orb.Point{-74, 39}, Max: orb.Point{-73, 40}}),
		mapconfig.KindCircle:    draw.NewCircle(draw.LatLng(51.5, -0.12), 250),
		mapconfig.KindPolyline:  draw.NewPolyline(orb.LineString{{0, 0}, {1, 1}, {2, 0}}),
	}
}

func TestExtractDefaults(t *testing.T) {
	for k, l := range drawn() {
		t.Run(string(k), func(t *testing.T) {
			rec, err := Extract(k, l, string(k)+"-1", 3)
			require.NoError(t, err)
			assert.Equal(t, k, rec.Kind())
			assert.Equal(t, string(k)+"-1", rec.Base().ID)
			assert.Equal(t, k.Label()+" 3", rec.Base().Title)
			assert.Empty(t, rec.Base().Description)
			assert.True(t, rec.Base().Visible)
			if a := mapconfig.Area(rec); a != nil {
				assert.Equal(t, DefaultAreaStyle(k), *a)
			}
		})
	}
}

func TestExtractGeometry(t *testing.T) {
	l := drawn()

	rec, err := Extract(mapconfig.KindMarker, l[mapconfig.KindMarker], "m", 1)
	require.NoError(t, err)
	m := rec.(*mapconfig.Marker)
	assert.Equal(t, 40.0, m.Lat)
	assert.Equal(t, -73.0, m.Lng)
	assert.Equal(t, DefaultMarkerColor, m.Color)

	rec, err = Extract(mapconfig.KindRectangle, l[mapconfig.KindRectangle], "r", 1)
	require.NoError(t, err)
	assert.Equal(t, [2]mapconfig.Coord{{39, -74}, {40, -73}}, rec.(*mapconfig.Rectangle).Bounds)

	rec, err = Extract(mapconfig.KindPolygon, l[mapconfig.KindPolygon], "p", 1)
	require.NoError(t, err)
	assert.Equal(t, []mapconfig.Coord{{40, -73}, {40, -72}, {41, -72}}, rec.(*mapconfig.Polygon).Coordinates)

	rec, err = Extract(mapconfig.KindPolyline, l[mapconfig.KindPolyline], "l", 1)
	require.NoError(t, err)
	pl := rec.(*mapconfig.Polyline)
	assert.Equal(t, DefaultPolylineColor, pl.Color)
	assert.Equal(t, float64(DefaultPolylineWidth), pl.Weight)
	assert.Empty(t, pl.DashArray)
}

func TestExtractKeepsAppliedStyle(t *testing.T) {
	p := draw.NewPolygon(orb.Ring{{0, 0}, {1, 0}, {1, 1}})
	p.SetStyle(draw.PathStyle{Color: "#111111", Weight: 5, FillColor: "#222222", FillOpacity: 0.9})

	rec, err := Extract(mapconfig.KindPolygon, p, "p", 1)
	require.NoError(t, err)
	assert.Equal(t, mapconfig.AreaStyle{StrokeColor: "#111111", FillColor: "#222222", StrokeWeight: 5, FillOpacity: 0.9},
		rec.(*mapconfig.Polygon).AreaStyle)
}

func TestExtractDegenerateGeometry(t *testing.T) {
	p := draw.NewPolygon(orb.Ring{{0, 0}})
	rec, err := Extract(mapconfig.KindPolygon, p, "p", 1)
	require.NoError(t, err)
	assert.Len(t, rec.(*mapconfig.Polygon).Coordinates, 1)
}

func TestExtractMismatch(t *testing.T) {
	_, err := Extract(mapconfig.KindCircle, draw.NewMarker(orb.Point{}), "x", 1)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Extract(mapconfig.KindCircle, nil, "x", 1)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRoundTrip(t *testing.T) {
	for k, l := range drawn() {
		t.Run(string(k), func(t *testing.T) {
			rec, err := Extract(k, l, "id", 1)
			require.NoError(t, err)
			require.NoError(t, Apply(rec, l))

			fresh, err := Rehydrate(rec)
			require.NoError(t, err)
			assert.Equal(t, l, fresh)

			again, err := Extract(k, fresh, "id", 1)
			require.NoError(t, err)
			assert.Equal(t, rec, again)
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	rec := &mapconfig.Circle{
		Common:    mapconfig.Common{ID: "c", Title: "Zone <A>", Visible: true},
		Center:    mapconfig.LatLng{Lat: 1, Lng: 2},
		Radius:    100,
		AreaStyle: DefaultAreaStyle(mapconfig.KindCircle),
	}
	l, err := Rehydrate(rec)
	require.NoError(t, err)
	before := *l.(*draw.Circle)

	require.NoError(t, Apply(rec, l))
	require.NoError(t, Apply(rec, l))
	assert.Equal(t, before, *l.(*draw.Circle))
	assert.Equal(t, "<strong>Zone &lt;A&gt;</strong><br/><span></span>", l.Popup())
}

func TestApplyMismatch(t *testing.T) {
	rec := &mapconfig.Marker{Common: mapconfig.Common{ID: "m"}}
	err := Apply(rec, draw.NewCircle(orb.Point{}, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestUpdateGeometryKeepsStyle(t *testing.T) {
	c := draw.NewCircle(draw.LatLng(0, 0), 10)
	rec, err := Extract(mapconfig.KindCircle, c, "c", 1)
	require.NoError(t, err)
	circle := rec.(*mapconfig.Circle)
	circle.StrokeColor = "#000000"
	circle.Title = "Kept"

	c.SetLatLng(draw.LatLng(5, 6))
	c.SetRadius(99)
	require.NoError(t, UpdateGeometry(rec, c))

	assert.Equal(t, mapconfig.LatLng{Lat: 5, Lng: 6}, circle.Center)
	assert.Equal(t, 99.0, circle.Radius)
	assert.Equal(t, "#000000", circle.StrokeColor)
	assert.Equal(t, "Kept", circle.Title)
}

func TestMarkerIcon(t *testing.T) {
	rec := &mapconfig.Marker{Common: mapconfig.Common{ID: "m", Title: "Cafe"}, Lat: 40, Lng: -73, Color: "#e11d48"}
	l, err := Rehydrate(rec)
	require.NoError(t, err)

	icon := l.(*draw.Marker).Icon()
	require.NotNil(t, icon)
	assert.Equal(t, MarkerIconClass, icon.ClassName)
	assert.Equal(t, MarkerIconSize, icon.Size)
	assert.Contains(t, icon.HTML, "background:#e11d48")
	assert.Contains(t, icon.HTML, "rgba(225,29,72,0.25)")
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;&amp;&quot;&#39;", EscapeHTML(`<script>&"'`))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestPopupHTML(t *testing.T) {
	assert.Equal(t, "<strong>Untitled layer</strong><br/><span>a &amp; b</span>",
		PopupHTML(&mapconfig.Common{Description: "a & b"}))
}

func TestHexToRGBA(t *testing.T) {
	tests := []struct {
		hex   string
		alpha float64
		want  string
	}{
		{"#e11d48", 0.25, "rgba(225,29,72,0.25)"},
		{"#fff", 1, "rgba(255,255,255,1)"},
		{"0f172a", 0.5, "rgba(15,23,42,0.5)"},
		{"nonsense", 0.25, "rgba(0,0,0,0.25)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HexToRGBA(tt.hex, tt.alpha), tt.hex)
	}
}

func TestSafeColor(t *testing.T) {
	assert.Equal(t, "#abc", SafeColor("#abc", "#000"))
	assert.Equal(t, "#000", SafeColor(`red;" onload="x`, "#000"))
	assert.Equal(t, "#000", SafeColor("", "#000"))
	assert.Contains(t, MarkerIconHTML(`"><script>`), DefaultMarkerColor)
}
