package editor

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
	"github.com/joeblew999/plat-mapmaker/internal/templates"
)

// MapHandler serves the map-wide editor actions: base layer, view, reset
// and the embed snippet.
type MapHandler struct {
	humastar.Handler
	ctrl    *service.Controller
	snippet *snippet.Generator
	layers  *LayerHandler
}

// NewMapHandler creates a map handler.
func NewMapHandler(ctrl *service.Controller, gen *snippet.Generator, renderer *templates.Renderer) *MapHandler {
	return &MapHandler{
		Handler: humastar.Handler{Renderer: renderer},
		ctrl:    ctrl,
		snippet: gen,
		layers:  NewLayerHandler(ctrl, renderer),
	}
}

func (h *MapHandler) RegisterRoutes(api huma.API) {
	huma.Put(api, "/api/v1/editor/base-layer/{key}", h.BaseLayer, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/view", h.View, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/reset", h.Reset, huma.OperationTags("editor"))
	huma.Get(api, "/api/v1/editor/embed", h.Embed, huma.OperationTags("editor"))
}

// BaseLayerOptions lists the providers with the current one selected.
func (h *MapHandler) BaseLayerOptions() []humastar.SelectOptionData {
	current := h.ctrl.Config().Meta.BaseLayer
	var opts []humastar.SelectOptionData
	for _, p := range h.ctrl.Providers().List() {
		opts = append(opts, humastar.SelectOptionData{Value: p.Key, Label: p.Name, Selected: p.Key == current})
	}
	return opts
}

// BaseLayerInput selects a provider.
type BaseLayerInput struct {
	Key string `path:"key" doc:"Tile provider key"`
}

func (h *MapHandler) BaseLayer(ctx context.Context, input *BaseLayerInput) (*huma.StreamResponse, error) {
	key := h.ctrl.OnBaseLayerChange(ctx, input.Key)
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.RenderSelect(h.BaseLayerOptions()), "select[name=baseLayer]")
		sse.Signals(map[string]any{"baseLayer": key})
		sse.DispatchCustomEvent("base-layer-changed", map[string]any{"key": key, "url": h.ctrl.View().TileURL})
	}), nil
}

// View applies the manual lat/lng/zoom inputs, sent as signals.
func (h *MapHandler) View(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	lat, _ := signals.Text("lat")
	lng, _ := signals.Text("lng")
	zoom, _ := signals.Text("zoom")
	moved := h.ctrl.ApplyViewInputs(ctx, lat, lng, zoom)
	v := h.ctrl.View()
	return h.Stream(func(sse humastar.SSE) {
		if !moved {
			sse.Error("Latitude and longitude must be numbers")
			return
		}
		sse.Signals(map[string]any{"lat": v.Center.Lat, "lng": v.Center.Lng, "zoom": v.Zoom})
		sse.DispatchCustomEvent("view-changed", v)
	}), nil
}

func (h *MapHandler) Reset(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	h.ctrl.Reset(ctx)
	meta := h.ctrl.Config().Meta
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.layers.LayerList(), "#layer-list")
		sse.Patch("", "#layer-editor")
		sse.Patch(h.RenderSelect(h.BaseLayerOptions()), "select[name=baseLayer]")
		sse.Signals(map[string]any{
			"title":       meta.Title,
			"description": meta.Description,
			"embed":       "",
		})
		sse.Success("Started a new map")
	}), nil
}

func (h *MapHandler) Embed(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	code, err := h.snippet.Generate(h.ctrl.Config(), h.ctrl.Providers())
	if err != nil {
		return nil, huma.Error500InternalServerError("Generating embed code failed", err)
	}
	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(map[string]any{"embed": code})
		sse.Success(fmt.Sprintf("Embed code ready (%d bytes)", len(code)))
	}), nil
}
