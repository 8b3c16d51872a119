package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/exchange"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/registry"
)

// Controller owns one map document together with its registry and live
// shapes. Every exported method runs to completion under the controller's
// lock, so store, registry and rendered group agree between calls.
type Controller struct {
	mu sync.Mutex

	cfg  *mapconfig.Config
	reg  *registry.Registry
	view *draw.Map

	providers   *basemap.Table
	snapshots   Snapshots
	bus         *EventBus
	log         *slog.Logger
	newID       func(mapconfig.Kind) string
	persistView bool
}

// New creates a controller holding a fresh default document.
func New(opts Options) *Controller {
	c := &Controller{
		cfg:         mapconfig.NewConfig(),
		reg:         registry.New(),
		view:        draw.NewMap(),
		providers:   opts.Providers,
		snapshots:   opts.Snapshots,
		bus:         opts.Bus,
		log:         opts.Logger,
		newID:       opts.NewID,
		persistView: opts.PersistView,
	}
	if c.providers == nil {
		c.providers = basemap.Default()
	}
	if c.bus == nil {
		c.bus = NewEventBus()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.newID == nil {
		c.newID = NewID
	}
	c.cfg.Meta.BaseLayer = c.providers.DefaultKey()
	c.syncView()
	return c
}

// NewID returns "<kind>-" followed by eight random hex characters.
func NewID(k mapconfig.Kind) string {
	return string(k) + "-" + uuid.NewString()[:8]
}

// Bus returns the event bus change events are published on.
func (c *Controller) Bus() *EventBus { return c.bus }

// Providers returns the tile provider table.
func (c *Controller) Providers() *basemap.Table { return c.providers }

// Config returns a copy of the current document.
func (c *Controller) Config() *mapconfig.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Clone()
}

// Record returns a copy of the record with the given id.
func (c *Controller) Record(id string) (mapconfig.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.cfg.Find(id)
	if !ok {
		return nil, mapconfig.ErrNotFound
	}
	return mapconfig.CloneRecord(rec), nil
}

// Focus returns the area to fit the view to when editing a layer.
func (c *Controller) Focus(id string) (orb.Bound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.reg.Get(id)
	if !ok {
		return orb.Bound{}, mapconfig.ErrNotFound
	}
	return draw.Bounds(e.Layer), nil
}

// View reports the rendered state: center, zoom, base tile layer and the
// number of shapes currently drawn.
func (c *Controller) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := ViewState{
		Center:   mapconfig.LatLng{Lat: c.view.Center.Lat(), Lng: c.view.Center.Lon()},
		Zoom:     c.view.Zoom,
		Rendered: c.view.Drawn.Len(),
		Layers:   c.reg.Len(),
	}
	if c.view.Base != nil {
		v.TileURL = c.view.Base.URL
	}
	return v
}

// ViewState is a read-only summary of the rendered map.
type ViewState struct {
	Center   mapconfig.LatLng `json:"center"`
	Zoom     int              `json:"zoom"`
	TileURL  string           `json:"tileUrl"`
	Rendered int              `json:"rendered" doc:"Shapes currently drawn"`
	Layers   int              `json:"layers" doc:"Registered layers, hidden ones included"`
}

// syncView points the rendered map at the document's base layer and view.
func (c *Controller) syncView() {
	p, key := c.providers.Lookup(c.cfg.Meta.BaseLayer)
	c.cfg.Meta.BaseLayer = key
	c.cfg.Meta.Zoom = p.ClampZoom(c.cfg.Meta.Zoom)
	c.view.SetBaseLayer(&draw.TileLayer{URL: p.URL, Attribution: p.Attribution, MaxZoom: p.MaxZoom})
	c.view.SetView(draw.LatLng(c.cfg.Meta.Center.Lat, c.cfg.Meta.Center.Lng), c.cfg.Meta.Zoom)
}

// persist snapshots the document. Failures are reported as notices and never
// undo the mutation that triggered them.
func (c *Controller) persist(ctx context.Context, updateStorage bool) {
	if !updateStorage || c.snapshots == nil {
		return
	}
	data, err := exchange.Marshal(c.cfg)
	if err == nil {
		err = c.snapshots.Save(ctx, data)
	}
	if err != nil {
		c.log.Warn("quick-save failed", "error", err)
		c.bus.Publish(Event{Resource: ResourceNotice, Action: ActionFailed, Message: "Could not save map locally: " + err.Error()})
	}
}

func (c *Controller) publish(resource, action, id string) {
	c.bus.Publish(Event{Resource: resource, Action: action, ID: id})
}
