package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *service.Controller) {
	t.Helper()
	n := 0
	ctrl := service.New(service.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewID: func(k mapconfig.Kind) string {
			n++
			return fmt.Sprintf("%s-%08d", k, n)
		},
	})
	cfg := huma.DefaultConfig("Test", "1.0.0")
	cfg.Transformers = append(cfg.Transformers, humastar.LinkTransformer())
	_, api := humatest.New(t, cfg)
	RegisterRoutes(api, &Services{Map: ctrl, Snippet: snippet.New(snippet.Options{})})
	NewInfoHandler(ctrl, "file", nil).RegisterRoutes(api)
	return api, ctrl
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", decode[HealthBody](t, resp.Body).Status)
}

func TestInfo(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)
	info := decode[InfoBody](t, resp.Body)
	assert.Equal(t, "plat-mapmaker", info.Name)
	assert.Equal(t, "file", info.Store)
	assert.Nil(t, info.SavedAt)
	assert.Equal(t, []string{"streets", "terrain", "toner"}, info.BaseLayers)
}

func TestDrawAndGetLayer(t *testing.T) {
	api, ctrl := newTestAPI(t)

	resp := api.Post("/api/v1/layers/draw", map[string]any{
		"kind":    "marker",
		"latlngs": [][2]float64{{40, -73}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := decode[struct {
		Kind  mapconfig.Kind   `json:"kind"`
		Layer mapconfig.Marker `json:"layer"`
	}](t, resp.Body)
	assert.Equal(t, mapconfig.KindMarker, created.Kind)
	assert.Equal(t, "marker-00000001", created.Layer.ID)
	assert.Equal(t, "Marker 1", created.Layer.Title)
	assert.Equal(t, 40.0, created.Layer.Lat)

	resp = api.Get("/api/v1/layers/marker-00000001")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/api/v1/layers")
	layers := decode[[]LayerSummary](t, resp.Body)
	require.Len(t, layers, 1)
	assert.True(t, layers[0].Visible)
	assert.Equal(t, 1, ctrl.View().Rendered)
}

func TestDrawInvalidGeometry(t *testing.T) {
	api, ctrl := newTestAPI(t)

	resp := api.Post("/api/v1/layers/draw", map[string]any{
		"kind":    "polygon",
		"latlngs": [][2]float64{{0, 0}, {1, 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Zero(t, ctrl.View().Layers)
}

func TestLayerNotFound(t *testing.T) {
	api, _ := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/layers/nope").Code)
	assert.Equal(t, http.StatusNotFound, api.Delete("/api/v1/layers/nope").Code)
	assert.Equal(t, http.StatusNotFound, api.Post("/api/v1/layers/nope/toggle").Code)
	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/layers/nope/bounds").Code)
}

func TestPutLayerForm(t *testing.T) {
	api, _ := newTestAPI(t)
	api.Post("/api/v1/layers/draw", map[string]any{
		"kind":    "circle",
		"latlngs": [][2]float64{{51.5, -0.12}},
		"radius":  250,
	})

	resp := api.Put("/api/v1/layers/circle-00000001", map[string]any{
		"kind":   "circle",
		"fields": map[string]string{"title": "Zone", "radius": "500", "fillOpacity": "abc"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	got := decode[struct {
		Layer mapconfig.Circle `json:"layer"`
	}](t, resp.Body)
	assert.Equal(t, "Zone", got.Layer.Title)
	assert.Equal(t, 500.0, got.Layer.Radius)
	assert.Equal(t, 0.25, got.Layer.FillOpacity)

	resp = api.Put("/api/v1/layers/circle-00000001", map[string]any{
		"kind":   "marker",
		"fields": map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestToggleAndDelete(t *testing.T) {
	api, ctrl := newTestAPI(t)
	api.Post("/api/v1/layers/draw", map[string]any{
		"kind":    "polyline",
		"latlngs": [][2]float64{{0, 0}, {1, 1}},
	})

	resp := api.Post("/api/v1/layers/polyline-00000001/toggle")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[ToggleBody](t, resp.Body).Visible)
	assert.Equal(t, 0, ctrl.View().Rendered)
	assert.Equal(t, 1, ctrl.View().Layers)

	resp = api.Delete("/api/v1/layers/polyline-00000001")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, ctrl.View().Layers)
}

func TestReshapeAndBounds(t *testing.T) {
	api, _ := newTestAPI(t)
	api.Post("/api/v1/layers/draw", map[string]any{
		"kind":    "rectangle",
		"latlngs": [][2]float64{{0, 0}, {1, 1}},
	})

	resp := api.Post("/api/v1/layers/rectangle-00000001/geometry", map[string]any{
		"latlngs": [][2]float64{{10, 20}, {12, 24}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/layers/rectangle-00000001/bounds")
	require.Equal(t, http.StatusOK, resp.Code)
	b := decode[BoundsBody](t, resp.Body)
	assert.Equal(t, mapconfig.Coord{10, 20}, b.SouthWest)
	assert.Equal(t, mapconfig.Coord{12, 24}, b.NorthEast)
}

func TestMapMetaAndBaseLayer(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Patch("/api/v1/map/meta", map[string]any{"title": "Coffee crawl"})
	require.Equal(t, http.StatusOK, resp.Code)
	meta := decode[mapconfig.Meta](t, resp.Body)
	assert.Equal(t, "Coffee crawl", meta.Title)

	resp = api.Put("/api/v1/map/base-layer", map[string]any{"key": "mars"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "streets", decode[BaseLayerBody](t, resp.Body).Key)

	resp = api.Post("/api/v1/map/view", map[string]any{"center": map[string]float64{"lat": 1, "lng": 2}, "zoom": 30})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 19, decode[service.ViewState](t, resp.Body).Zoom)
}

func TestExportImport(t *testing.T) {
	api, ctrl := newTestAPI(t)
	api.Patch("/api/v1/map/meta", map[string]any{"title": "My Map"})
	api.Post("/api/v1/layers/draw", map[string]any{"kind": "marker", "latlngs": [][2]float64{{1, 2}}})

	resp := api.Get("/api/v1/map/export")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="My-Map.json"`, resp.Header().Get("Content-Disposition"))
	exported := resp.Body.String()

	api.Post("/api/v1/map/reset")
	assert.Zero(t, ctrl.View().Layers)

	resp = api.Post("/api/v1/map/import", "Content-Type: application/json", strings.NewReader(exported))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1, ctrl.View().Layers)
	assert.Equal(t, "My Map", ctrl.Config().Meta.Title)

	resp = api.Post("/api/v1/map/import", "Content-Type: application/json", strings.NewReader(`{"markers": 5}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, 1, ctrl.View().Layers)
}

func TestEmbedAndGeoJSON(t *testing.T) {
	api, _ := newTestAPI(t)
	api.Post("/api/v1/layers/draw", map[string]any{"kind": "marker", "latlngs": [][2]float64{{40, -73}}})

	resp := api.Get("/api/v1/map/embed")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, decode[EmbedBody](t, resp.Body).Code, `"latlng":[40,-73]`)

	resp = api.Get("/api/v1/map/geojson")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/geo+json", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Body.String(), `"FeatureCollection"`)
}

func TestBasemaps(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/api/v1/basemaps")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]map[string]any](t, resp.Body), 3)
}

func TestLayerActionLinks(t *testing.T) {
	api, _ := newTestAPI(t)
	api.Post("/api/v1/layers/draw", map[string]any{"kind": "marker", "latlngs": [][2]float64{{1, 2}}})

	resp := api.Get("/api/v1/layers/marker-00000001")
	links := resp.Header().Values("Link")
	assert.Contains(t, links, `</api/v1/layers/marker-00000001>; rel="self"`)
	assert.Contains(t, links, `</api/v1/layers/marker-00000001/toggle>; rel="hide"; method="POST"; title="Hide layer"`)

	api.Post("/api/v1/layers/marker-00000001/toggle")
	links = api.Get("/api/v1/layers/marker-00000001").Header().Values("Link")
	assert.Contains(t, links, `</api/v1/layers/marker-00000001/toggle>; rel="show"; method="POST"; title="Show layer"`)
}
