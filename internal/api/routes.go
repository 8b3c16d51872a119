// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/exchange"
	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
)

// Version is reported by the health and info endpoints.
const Version = "0.1.0"

// Services holds the dependencies of the API handlers.
type Services struct {
	Map     *service.Controller
	Snippet *snippet.Generator
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Layer ID" example:"marker-1a2b3c4d"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

type MapBody struct {
	Meta mapconfig.Meta    `json:"meta" doc:"Map metadata"`
	View service.ViewState `json:"view" doc:"Rendered view"`
}

type MetaPatch struct {
	Title       *string `json:"title,omitempty" doc:"New map title"`
	Description *string `json:"description,omitempty" doc:"New map description"`
}

type BaseLayerBody struct {
	Key string `json:"key" doc:"Tile provider key; unknown keys fall back to the default" example:"terrain"`
}

type ViewBody struct {
	Center mapconfig.LatLng `json:"center" doc:"View center"`
	Zoom   int              `json:"zoom" minimum:"0" doc:"Zoom level; clamped to the provider's maximum"`
}

type EmbedBody struct {
	Code string `json:"code" doc:"Standalone HTML snippet"`
}

type LayerSummary struct {
	ID      string         `json:"id" doc:"Layer ID"`
	Kind    mapconfig.Kind `json:"kind" doc:"Shape kind"`
	Title   string         `json:"title" doc:"Layer title"`
	Visible bool           `json:"visible" doc:"Whether the layer is rendered"`
}

type LayerBody struct {
	Kind  mapconfig.Kind `json:"kind" doc:"Shape kind"`
	Layer any            `json:"layer" doc:"The layer record, shaped by kind"`
}

type DrawBody struct {
	Kind string `json:"kind" enum:"marker,polygon,rectangle,circle,polyline" doc:"Shape kind"`
	service.Geometry
}

type FormBody struct {
	Kind   string       `json:"kind" enum:"marker,polygon,rectangle,circle,polyline" doc:"Kind the layer is expected to be"`
	Fields service.Form `json:"fields" doc:"Form values by field name; invalid values keep the previous value"`
}

type ToggleBody struct {
	ID      string `json:"id" doc:"Layer ID"`
	Visible bool   `json:"visible" doc:"Visibility after the toggle"`
}

type BoundsBody struct {
	SouthWest mapconfig.Coord `json:"southWest" doc:"[lat, lng] of the south-west corner"`
	NorthEast mapconfig.Coord `json:"northEast" doc:"[lat, lng] of the north-east corner"`
}

type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type ImportInput struct {
	RawBody []byte
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterMap registers map document routes.
func (h *APIHandler) RegisterMap(api huma.API) {
	huma.Get(api, "/api/v1/map", h.GetMap, huma.OperationTags("map"))
	huma.Patch(api, "/api/v1/map/meta", h.PatchMeta, huma.OperationTags("map"))
	huma.Put(api, "/api/v1/map/base-layer", h.PutBaseLayer, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/map/view", h.PostView, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/map/reset", h.Reset, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/map/export", h.Export, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/map/import", h.Import, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/map/embed", h.Embed, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/map/geojson", h.GeoJSON, huma.OperationTags("map"))
}

// RegisterBasemaps registers tile provider routes.
func (h *APIHandler) RegisterBasemaps(api huma.API) {
	huma.Get(api, "/api/v1/basemaps", h.GetBasemaps, huma.OperationTags("map"))
}

// RegisterLayers registers layer routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers/draw", h.DrawLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/layers/{id}", h.PutLayer, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/layers/{id}", h.DeleteLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers/{id}/geometry", h.ReshapeLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers/{id}/toggle", h.ToggleLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}/bounds", h.GetBounds, huma.OperationTags("layers"))
}

// apiError maps domain errors onto HTTP status codes.
func apiError(err error) error {
	switch {
	case errors.Is(err, mapconfig.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, mapconfig.ErrUnknownKind), errors.Is(err, service.ErrKindMismatch):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, draw.ErrGeometry), errors.Is(err, exchange.ErrMalformed):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	return huma.Error500InternalServerError("internal error", err)
}

var layerActions = []humastar.ActionDef{
	{Rel: "edit", Pattern: "/api/v1/layers/%s", Method: "PUT", Title: "Edit layer"},
	{Rel: "reshape", Pattern: "/api/v1/layers/%s/geometry", Method: "POST", Title: "Move or reshape"},
	{Rel: "bounds", Pattern: "/api/v1/layers/%s/bounds", Method: "GET", Title: "Fit view"},
	{Rel: "delete", Pattern: "/api/v1/layers/%s", Method: "DELETE", Title: "Delete layer"},
}

// Actions lists what can be done with the layer next. The toggle action
// depends on the current visibility.
func (b LayerBody) Actions() []humastar.Action {
	rec, ok := b.Layer.(mapconfig.Record)
	if !ok {
		return nil
	}
	id := rec.Base().ID
	toggle := humastar.ActionDef{Rel: "hide", Pattern: "/api/v1/layers/%s/toggle", Method: "POST", Title: "Hide layer"}
	if !rec.Base().Visible {
		toggle.Rel, toggle.Title = "show", "Show layer"
	}
	return humastar.ActionsFor(id, append([]humastar.ActionDef{toggle}, layerActions...)...)
}

func layerBody(rec mapconfig.Record) *struct{ Body LayerBody } {
	return &struct{ Body LayerBody }{Body: LayerBody{Kind: rec.Kind(), Layer: rec}}
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

func (h *APIHandler) GetMap(ctx context.Context, input *struct{}) (*struct{ Body MapBody }, error) {
	return &struct{ Body MapBody }{Body: MapBody{
		Meta: h.svc.Map.Config().Meta,
		View: h.svc.Map.View(),
	}}, nil
}

func (h *APIHandler) PatchMeta(ctx context.Context, input *struct{ Body MetaPatch }) (*struct{ Body mapconfig.Meta }, error) {
	meta := h.svc.Map.UpdateMeta(ctx, input.Body.Title, input.Body.Description)
	return &struct{ Body mapconfig.Meta }{Body: meta}, nil
}

func (h *APIHandler) PutBaseLayer(ctx context.Context, input *struct{ Body BaseLayerBody }) (*struct{ Body BaseLayerBody }, error) {
	key := h.svc.Map.OnBaseLayerChange(ctx, input.Body.Key)
	return &struct{ Body BaseLayerBody }{Body: BaseLayerBody{Key: key}}, nil
}

func (h *APIHandler) PostView(ctx context.Context, input *struct{ Body ViewBody }) (*struct{ Body service.ViewState }, error) {
	h.svc.Map.OnViewChange(ctx, input.Body.Center, input.Body.Zoom)
	return &struct{ Body service.ViewState }{Body: h.svc.Map.View()}, nil
}

func (h *APIHandler) Reset(ctx context.Context, input *struct{}) (*struct{ Body MessageBody }, error) {
	h.svc.Map.Reset(ctx)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Map reset"}}, nil
}

func (h *APIHandler) Export(ctx context.Context, input *struct{}) (*ExportOutput, error) {
	data, _, err := h.svc.Map.Export()
	if err != nil {
		return nil, apiError(err)
	}
	return &ExportOutput{
		ContentType:        "application/json",
		ContentDisposition: exchange.ContentDisposition(h.svc.Map.Config().Meta.Title),
		Body:               data,
	}, nil
}

func (h *APIHandler) Import(ctx context.Context, input *ImportInput) (*struct{ Body MapBody }, error) {
	if err := h.svc.Map.Load(ctx, input.RawBody); err != nil {
		return nil, apiError(err)
	}
	return h.GetMap(ctx, nil)
}

func (h *APIHandler) Embed(ctx context.Context, input *struct{}) (*struct{ Body EmbedBody }, error) {
	code, err := h.svc.Snippet.Generate(h.svc.Map.Config(), h.svc.Map.Providers())
	if err != nil {
		return nil, apiError(err)
	}
	return &struct{ Body EmbedBody }{Body: EmbedBody{Code: code}}, nil
}

func (h *APIHandler) GeoJSON(ctx context.Context, input *struct{}) (*GeoJSONOutput, error) {
	data, err := exchange.ToGeoJSON(h.svc.Map.Config()).MarshalJSON()
	if err != nil {
		return nil, apiError(err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}

func (h *APIHandler) GetBasemaps(ctx context.Context, input *struct{}) (*struct{ Body []basemap.Provider }, error) {
	return &struct{ Body []basemap.Provider }{Body: h.svc.Map.Providers().List()}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*struct{ Body []LayerSummary }, error) {
	out := []LayerSummary{}
	for _, rec := range h.svc.Map.Config().Records() {
		b := rec.Base()
		out = append(out, LayerSummary{ID: b.ID, Kind: rec.Kind(), Title: b.Title, Visible: b.Visible})
	}
	return &struct{ Body []LayerSummary }{Body: out}, nil
}

func (h *APIHandler) DrawLayer(ctx context.Context, input *struct{ Body DrawBody }) (*struct{ Body LayerBody }, error) {
	k, err := mapconfig.ParseKind(input.Body.Kind)
	if err != nil {
		return nil, apiError(err)
	}
	rec, err := h.svc.Map.DrawShape(ctx, k, input.Body.Geometry)
	if err != nil {
		return nil, apiError(err)
	}
	return layerBody(rec), nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*struct{ Body LayerBody }, error) {
	rec, err := h.svc.Map.Record(input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return layerBody(rec), nil
}

func (h *APIHandler) PutLayer(ctx context.Context, input *struct {
	IDInput
	Body FormBody
}) (*struct{ Body LayerBody }, error) {
	k, err := mapconfig.ParseKind(input.Body.Kind)
	if err != nil {
		return nil, apiError(err)
	}
	rec, err := h.svc.Map.OnFormSubmit(ctx, k, input.ID, input.Body.Fields)
	if err != nil {
		return nil, apiError(err)
	}
	return layerBody(rec), nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Map.DeleteLayer(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

func (h *APIHandler) ReshapeLayer(ctx context.Context, input *struct {
	IDInput
	Body service.Geometry
}) (*struct{ Body LayerBody }, error) {
	rec, err := h.svc.Map.ReshapeLayer(ctx, input.ID, input.Body)
	if err != nil {
		return nil, apiError(err)
	}
	return layerBody(rec), nil
}

func (h *APIHandler) ToggleLayer(ctx context.Context, input *IDInput) (*struct{ Body ToggleBody }, error) {
	visible, err := h.svc.Map.OnVisibilityToggle(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &struct{ Body ToggleBody }{Body: ToggleBody{ID: input.ID, Visible: visible}}, nil
}

func (h *APIHandler) GetBounds(ctx context.Context, input *IDInput) (*struct{ Body BoundsBody }, error) {
	b, err := h.svc.Map.Focus(input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &struct{ Body BoundsBody }{Body: BoundsBody{
		SouthWest: mapconfig.Coord{b.Min.Lat(), b.Min.Lon()},
		NorthEast: mapconfig.Coord{b.Max.Lat(), b.Max.Lon()},
	}}, nil
}

// RegisterRoutes registers every REST route on api.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}
