package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
)

func newServer(t *testing.T) (*Server, *service.Controller) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := service.New(service.Options{Logger: log})
	s, err := New(Config{Host: "localhost", Port: "8086", Store: "file", Logger: log}, ctrl, snippet.New(snippet.Options{}))
	require.NoError(t, err)
	return s, ctrl
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRootRedirects(t *testing.T) {
	s, _ := newServer(t)
	w := get(s, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/editor", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)
}

func TestEditorPage(t *testing.T) {
	s, ctrl := newServer(t)
	title := "Coffee <crawl>"
	ctrl.UpdateMeta(t.Context(), &title, nil)

	w := get(s, "/editor")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Coffee &lt;crawl&gt;")
	assert.Contains(t, body, `value="streets" selected`)
	assert.Contains(t, body, "/api/v1/editor/events")
}

func TestOpenAPIListsRoutes(t *testing.T) {
	s, _ := newServer(t)
	paths := s.API().OpenAPI().Paths
	for _, p := range []string{
		"/health",
		"/api/v1/info",
		"/api/v1/map/export",
		"/api/v1/layers/draw",
		"/api/v1/editor/layers",
		"/api/v1/editor/events",
	} {
		assert.Contains(t, paths, p)
	}
}

func TestHealthServed(t *testing.T) {
	s, _ := newServer(t)
	w := get(s, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}
