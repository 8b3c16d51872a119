// Package server wires the map controller, the REST API and the editor UI
// onto one HTTP mux.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-mapmaker/internal/api"
	"github.com/joeblew999/plat-mapmaker/internal/api/editor"
	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
	"github.com/joeblew999/plat-mapmaker/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host string
	Port string
	// Store names the quick-save backend reported by /api/v1/info.
	Store   string
	SavedAt api.SavedAtFunc
	// FragmentsDir loads the editor fragments from disk instead of the
	// embedded copies, so they can be edited without a rebuild.
	FragmentsDir string
	Logger       *slog.Logger
}

// Server is the map editor HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	ctrl     *service.Controller
	snippet  *snippet.Generator
	renderer *templates.Renderer
	log      *slog.Logger
}

// New creates a new map editor server around ctrl.
func New(cfg Config, ctrl *service.Controller, gen *snippet.Generator) (*Server, error) {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-mapmaker API", api.Version)
	humaConfig.Info.Description = "Map annotation editor: draw, style and export map layers and embed snippets."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, humastar.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	var (
		renderer *templates.Renderer
		err      error
	)
	if cfg.FragmentsDir != "" {
		renderer, err = templates.NewFromDir(cfg.FragmentsDir)
	} else {
		renderer, err = templates.New()
	}
	if err != nil {
		return nil, fmt.Errorf("load fragments: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		ctrl:     ctrl,
		snippet:  gen,
		renderer: renderer,
		log:      log,
	}
	s.routes()
	return s, nil
}

// API returns the Huma API, e.g. to dump the OpenAPI document.
func (s *Server) API() huma.API { return s.humaAPI }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// REST API (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, &api.Services{Map: s.ctrl, Snippet: s.snippet})
	api.NewInfoHandler(s.ctrl, s.config.Store, s.config.SavedAt).RegisterRoutes(s.humaAPI)

	// Editor SSE routes (Huma + Datastar)
	editor.NewLayerHandler(s.ctrl, s.renderer).RegisterRoutes(s.humaAPI)
	editor.NewMapHandler(s.ctrl, s.snippet, s.renderer).RegisterRoutes(s.humaAPI)
	editor.NewEventHandler(s.ctrl, s.renderer).RegisterRoutes(s.humaAPI)

	// Page routes
	s.mux.HandleFunc("/editor", s.handleEditor)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/editor", http.StatusFound)
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	if s.config.FragmentsDir != "" {
		if err := s.renderer.Reload(s.config.FragmentsDir); err != nil {
			s.log.Warn("fragment reload failed", "dir", s.config.FragmentsDir, "error", err)
		}
	}

	current := s.ctrl.Config().Meta
	var options []humastar.SelectOptionData
	for _, p := range s.ctrl.Providers().List() {
		options = append(options, humastar.SelectOptionData{Value: p.Key, Label: p.Name, Selected: p.Key == current.BaseLayer})
	}

	html, err := s.renderer.Render("editor-page", map[string]any{
		"Title":      current.Title,
		"BaseLayers": options,
	})
	if err != nil {
		s.log.Error("render editor page", "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
