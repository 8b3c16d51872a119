package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-mapmaker/internal/service"
)

// SavedAtFunc reports when the quick-save slot was last written.
type SavedAtFunc func(ctx context.Context) (time.Time, error)

type InfoHandler struct {
	ctrl    *service.Controller
	store   string
	savedAt SavedAtFunc
}

// NewInfoHandler creates an info handler. savedAt may be nil when the store
// does not track write times.
func NewInfoHandler(ctrl *service.Controller, store string, savedAt SavedAtFunc) *InfoHandler {
	return &InfoHandler{ctrl: ctrl, store: store, savedAt: savedAt}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name       string     `json:"name" doc:"Service name"`
	Version    string     `json:"version" doc:"Service version"`
	Store      string     `json:"store" doc:"Quick-save backend" example:"file"`
	SavedAt    *time.Time `json:"saved_at,omitempty" doc:"Last quick-save write, when known"`
	Layers     int        `json:"layers" doc:"Layers in the current map"`
	BaseLayers []string   `json:"base_layers" doc:"Available tile providers"`
	Features   []string   `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	body := InfoBody{
		Name:     "plat-mapmaker",
		Version:  Version,
		Store:    h.store,
		Layers:   h.ctrl.View().Layers,
		Features: []string{"editor", "export", "import", "embed", "geojson"},
	}
	for _, p := range h.ctrl.Providers().List() {
		body.BaseLayers = append(body.BaseLayers, p.Key)
	}
	if h.savedAt != nil {
		if t, err := h.savedAt(ctx); err == nil && !t.IsZero() {
			body.SavedAt = &t
		}
	}
	return &struct{ Body InfoBody }{Body: body}, nil
}
