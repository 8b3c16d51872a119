package editor

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/templates"
)

// LayerHandler serves the layer list and the layer edit form.
type LayerHandler struct {
	humastar.Handler
	ctrl *service.Controller
}

// NewLayerHandler creates a layer handler.
func NewLayerHandler(ctrl *service.Controller, renderer *templates.Renderer) *LayerHandler {
	return &LayerHandler{Handler: humastar.Handler{Renderer: renderer}, ctrl: ctrl}
}

func (h *LayerHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/layers", h.ListLayers, huma.OperationTags("editor"))
	huma.Get(api, "/api/v1/editor/layers/{id}/form", h.EditForm, huma.OperationTags("editor"))
	huma.Put(api, "/api/v1/editor/layers/{id}", h.SubmitForm, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/layers/{id}/toggle", h.Toggle, huma.OperationTags("editor"))
	huma.Delete(api, "/api/v1/editor/layers/{id}", h.DeleteLayer, huma.OperationTags("editor"))
}

// LayerList renders the grouped layer list.
func (h *LayerHandler) LayerList() string {
	return h.RenderList("layer-group", layerGroups(h.ctrl.Config()), EmptyLayers)
}

func (h *LayerHandler) ListLayers(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.LayerList(), "#layer-list")
	}), nil
}

// LayerIDInput addresses one layer.
type LayerIDInput struct {
	ID string `path:"id" doc:"Layer ID"`
}

func (h *LayerHandler) EditForm(ctx context.Context, input *LayerIDInput) (*huma.StreamResponse, error) {
	rec, err := h.ctrl.Record(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Layer not found: " + input.ID)
	}
	bounds, _ := h.ctrl.Focus(input.ID)
	return h.Stream(func(sse humastar.SSE) {
		html, err := h.Renderer.Render("layer-form", layerForm(rec))
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(html, "#layer-editor")
		sse.DispatchCustomEvent("layer-focus", map[string]any{
			"id":     input.ID,
			"bounds": [2][2]float64{{bounds.Min.Lat(), bounds.Min.Lon()}, {bounds.Max.Lat(), bounds.Max.Lon()}},
		})
	}), nil
}

// SubmitFormInput carries the edit form, either url-encoded or as signals.
type SubmitFormInput struct {
	ID          string `path:"id" doc:"Layer ID"`
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

// Form decodes the submission. The kind travels in the "kind" field.
func (i *SubmitFormInput) Form() (mapconfig.Kind, service.Form, error) {
	var kind string
	form := service.Form{}

	mt, _, _ := mime.ParseMediaType(i.ContentType)
	if mt == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(i.RawBody))
		if err != nil {
			return "", nil, err
		}
		for name := range values {
			form[name] = values.Get(name)
		}
		kind = values.Get("kind")
	} else {
		signals, err := humastar.ParseSignals(i.RawBody)
		if err != nil {
			return "", nil, err
		}
		form = formFromSignals(signals)
		kind = signals.String("kind")
	}
	delete(form, "kind")

	k, err := mapconfig.ParseKind(kind)
	if err != nil {
		return "", nil, err
	}
	return k, form, nil
}

func (h *LayerHandler) SubmitForm(ctx context.Context, input *SubmitFormInput) (*huma.StreamResponse, error) {
	k, form, err := input.Form()
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid form: " + err.Error())
	}
	rec, err := h.ctrl.OnFormSubmit(ctx, k, input.ID, form)
	switch {
	case errors.Is(err, mapconfig.ErrNotFound):
		return nil, huma.Error404NotFound("Layer not found: " + input.ID)
	case errors.Is(err, service.ErrKindMismatch):
		return nil, huma.Error400BadRequest(err.Error())
	case err != nil:
		return nil, huma.Error500InternalServerError("Saving layer failed", err)
	}
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch("", "#layer-editor")
		sse.Patch(h.LayerList(), "#layer-list")
		sse.Success(fmt.Sprintf("Saved '%s'", rec.Base().Title))
	}), nil
}

func (h *LayerHandler) Toggle(ctx context.Context, input *LayerIDInput) (*huma.StreamResponse, error) {
	visible, err := h.ctrl.OnVisibilityToggle(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Layer not found: " + input.ID)
	}
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.LayerList(), "#layer-list")
		sse.DispatchCustomEvent("layer-changed", map[string]any{
			"action": "toggled", "id": input.ID, "visible": visible,
		})
	}), nil
}

func (h *LayerHandler) DeleteLayer(ctx context.Context, input *LayerIDInput) (*huma.StreamResponse, error) {
	if err := h.ctrl.DeleteLayer(ctx, input.ID); err != nil {
		return nil, huma.Error404NotFound("Layer not found: " + input.ID)
	}
	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.LayerList(), "#layer-list")
		sse.Patch("", "#layer-editor")
		sse.Success("Layer deleted")
		sse.DispatchCustomEvent("layer-changed", map[string]any{
			"action": "deleted", "id": input.ID,
		})
	}), nil
}
