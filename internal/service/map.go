package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/exchange"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/registry"
	"github.com/joeblew999/plat-mapmaker/internal/shapes"
	"github.com/joeblew999/plat-mapmaker/internal/store"
)

// OnBaseLayerChange swaps the background tiles. Unknown keys fall back to
// the default provider. It returns the key in use.
func (c *Controller) OnBaseLayerChange(ctx context.Context, key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.providers.Has(key) {
		c.log.Info("unknown base layer, using default", "key", key, "default", c.providers.DefaultKey())
	}
	c.cfg.Meta.BaseLayer = key
	c.syncView()
	c.persist(ctx, true)
	c.publish(ResourceMap, ActionUpdated, "")
	return c.cfg.Meta.BaseLayer
}

// OnViewChange records a pan or zoom. The quick-save is only written when
// the controller persists view changes.
func (c *Controller) OnViewChange(ctx context.Context, center mapconfig.LatLng, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.Meta.Center = center
	c.cfg.Meta.Zoom = zoom
	c.syncView()
	c.persist(ctx, c.persistView)
}

// ApplyViewInputs moves the view from the manual lat/lng/zoom inputs. Nothing
// happens unless both coordinates parse to finite values with the latitude
// inside [-90, 90]; a zoom that does not parse keeps
// the current zoom. It reports whether the view moved.
func (c *Controller) ApplyViewInputs(ctx context.Context, lat, lng, zoom string) bool {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return false
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return false
	}
	if !finite(la) || !finite(ln) || la < -90 || la > 90 {
		return false
	}
	c.mu.Lock()
	z := c.cfg.Meta.Zoom
	c.mu.Unlock()
	if n, err := strconv.Atoi(strings.TrimSpace(zoom)); err == nil && n != 0 {
		z = n
	}
	c.OnViewChange(ctx, mapconfig.LatLng{Lat: la, Lng: ln}, z)
	return true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// UpdateMeta sets the map title and description. Nil leaves a field as is.
func (c *Controller) UpdateMeta(ctx context.Context, title, description *string) mapconfig.Meta {
	c.mu.Lock()
	defer c.mu.Unlock()

	if title != nil {
		c.cfg.Meta.Title = *title
	}
	if description != nil {
		c.cfg.Meta.Description = *description
	}
	c.persist(ctx, true)
	c.publish(ResourceMap, ActionUpdated, "")
	return c.cfg.Meta
}

// Reset starts a new map: every layer is dropped and the metadata, view and
// base layer return to their defaults.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Drawn.Clear()
	c.reg.Clear()
	c.cfg.Clear()
	c.cfg.Meta.BaseLayer = c.providers.DefaultKey()
	c.syncView()
	c.persist(ctx, true)
	c.publish(ResourceMap, ActionReset, "")
}

// Load replaces the document with a serialized one and rebuilds every live
// shape from it. On error the current document, registry and rendering are
// left exactly as they were.
func (c *Controller) Load(ctx context.Context, data []byte) error {
	next, err := exchange.Unmarshal(data)
	if err != nil {
		c.log.Warn("import rejected", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	used := make(map[string]struct{}, next.Len())
	for _, rec := range next.Records() {
		used[rec.Base().ID] = struct{}{}
	}
	reg := registry.New()
	group := draw.NewGroup()
	for _, rec := range next.Records() {
		base := rec.Base()
		if base.ID == "" {
			base.ID = c.freshID(rec.Kind(), used)
		}
		l, err := shapes.Rehydrate(rec)
		if err != nil {
			return fmt.Errorf("%w: %v", exchange.ErrMalformed, err)
		}
		reg.Put(base.ID, l, rec.Kind())
		if base.Visible {
			group.Add(l)
		}
	}

	if !c.providers.Has(next.Meta.BaseLayer) {
		c.log.Info("imported base layer unknown, using default", "key", next.Meta.BaseLayer)
	}
	c.cfg.Replace(next)
	c.reg = reg
	c.view.Drawn = group
	c.syncView()

	c.persist(ctx, true)
	c.publish(ResourceMap, ActionLoaded, "")
	return nil
}

func (c *Controller) freshID(k mapconfig.Kind, used map[string]struct{}) string {
	for {
		id := c.newID(k)
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			return id
		}
	}
}

// Restore loads the quick-save, if any. An empty slot keeps the default map.
func (c *Controller) Restore(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}
	data, err := c.snapshots.Load(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore quick-save: %w", err)
	}
	return c.Load(ctx, data)
}

// Export returns the indented document and its download file name.
func (c *Controller) Export() ([]byte, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := exchange.MarshalIndent(c.cfg)
	if err != nil {
		return nil, "", err
	}
	return data, exchange.FileName(c.cfg.Meta.Title), nil
}
