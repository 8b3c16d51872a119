package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/templates"
)

// EventHandler streams controller change events to the Datastar UI via SSE.
type EventHandler struct {
	humastar.Handler
	ctrl   *service.Controller
	layers *LayerHandler
}

// NewEventHandler creates a new event handler.
func NewEventHandler(ctrl *service.Controller, renderer *templates.Renderer) *EventHandler {
	return &EventHandler{
		Handler: humastar.Handler{Renderer: renderer},
		ctrl:    ctrl,
		layers:  NewLayerHandler(ctrl, renderer),
	}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/events", h.Events,
		huma.OperationTags("editor"),
	)
}

func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		bus := h.ctrl.Bus()
		ch := bus.Subscribe()
		defer bus.Unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				h.send(sse, ev)
			}
		}
	}), nil
}

func (h *EventHandler) send(sse humastar.SSE, ev service.Event) {
	switch ev.Resource {
	case service.ResourceLayers, service.ResourceMap:
		sse.Patch(h.layers.LayerList(), "#layer-list")
	case service.ResourceNotice:
		html, err := h.Renderer.Render("notice", map[string]string{"Level": "warning", "Message": ev.Message})
		if err == nil {
			sse.Append(html, "#notices")
		}
	}
	sse.DispatchCustomEvent("resource-changed", map[string]any{
		"resource": ev.Resource,
		"action":   ev.Action,
		"id":       ev.ID,
	})
}
