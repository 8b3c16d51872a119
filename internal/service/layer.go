package service

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/shapes"
)

// OnShapeDrawn commits a freshly drawn shape: it gets an id and a record
// with default title and palette, is registered, restyled from the record
// and rendered. The returned copy of the record pre-fills the edit prompt.
// On error nothing is added.
func (c *Controller) OnShapeDrawn(ctx context.Context, k mapconfig.Kind, l draw.Layer) (mapconfig.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", mapconfig.ErrUnknownKind, k)
	}
	if l == nil || l.Kind() != k {
		return nil, fmt.Errorf("drawn %s: %w", k, ErrKindMismatch)
	}
	if id, ok := c.reg.Lookup(l); ok {
		return nil, fmt.Errorf("%w as %q", ErrAlreadyRegistered, id)
	}

	id := c.newID(k)
	for _, taken := c.cfg.Find(id); taken; _, taken = c.cfg.Find(id) {
		id = c.newID(k)
	}
	rec, err := shapes.Extract(k, l, id, c.reg.Len()+1)
	if err != nil {
		return nil, err
	}
	if err := shapes.Apply(rec, l); err != nil {
		return nil, err
	}
	if err := c.cfg.Add(rec); err != nil {
		return nil, err
	}
	c.reg.Put(id, l, k)
	c.view.Drawn.Add(l)

	c.persist(ctx, true)
	c.publish(ResourceLayers, ActionCreated, id)
	return mapconfig.CloneRecord(rec), nil
}

// DrawShape creates a live shape from client geometry and commits it as
// OnShapeDrawn does.
func (c *Controller) DrawShape(ctx context.Context, k mapconfig.Kind, g Geometry) (mapconfig.Record, error) {
	l, err := draw.New(k, points(g.LatLngs), g.Radius)
	if err != nil {
		return nil, err
	}
	return c.OnShapeDrawn(ctx, k, l)
}

// OnShapeEdited re-reads the geometry of an edited shape into its record.
// Style and metadata are untouched. Shapes that were never registered are
// ignored and reported as false.
func (c *Controller) OnShapeEdited(ctx context.Context, l draw.Layer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shapeEdited(ctx, l)
}

func (c *Controller) shapeEdited(ctx context.Context, l draw.Layer) bool {
	id, ok := c.reg.Lookup(l)
	if !ok {
		c.log.Debug("edit for unregistered shape ignored")
		return false
	}
	rec, ok := c.cfg.Find(id)
	if !ok {
		c.log.Debug("edit for shape without record ignored", "id", id)
		return false
	}
	if err := shapes.UpdateGeometry(rec, l); err != nil {
		c.log.Debug("edit ignored", "id", id, "error", err)
		return false
	}
	c.persist(ctx, true)
	c.publish(ResourceLayers, ActionUpdated, id)
	return true
}

// ReshapeLayer moves or reshapes the live shape of id, as a drag or vertex
// edit would, then records the new geometry.
func (c *Controller) ReshapeLayer(ctx context.Context, id string, g Geometry) (mapconfig.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.reg.Get(id)
	if !ok {
		return nil, mapconfig.ErrNotFound
	}
	if err := draw.Reshape(e.Layer, points(g.LatLngs), g.Radius); err != nil {
		return nil, err
	}
	c.shapeEdited(ctx, e.Layer)
	rec, _ := c.cfg.Find(id)
	return mapconfig.CloneRecord(rec), nil
}

// OnShapeDeleted removes a deleted shape's record, registry entry and
// rendering. Unregistered shapes are ignored and reported as false.
func (c *Controller) OnShapeDeleted(ctx context.Context, l draw.Layer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.reg.Lookup(l)
	if !ok {
		c.log.Debug("delete for unregistered shape ignored")
		return false
	}
	c.remove(ctx, id)
	return true
}

// DeleteLayer removes the layer with the given id.
func (c *Controller) DeleteLayer(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.reg.Get(id); !ok {
		return mapconfig.ErrNotFound
	}
	c.remove(ctx, id)
	return nil
}

func (c *Controller) remove(ctx context.Context, id string) {
	c.cfg.Remove(id)
	if e, ok := c.reg.Remove(id); ok {
		c.view.Drawn.Remove(e.Layer)
	}
	c.persist(ctx, true)
	c.publish(ResourceLayers, ActionDeleted, id)
}

// OnFormSubmit writes the edit form of layer id into its record and
// re-renders the shape. Fields that fail validation keep their previous
// value; the rest of the submission still applies.
func (c *Controller) OnFormSubmit(ctx context.Context, k mapconfig.Kind, id string, f Form) (mapconfig.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.find(k, id)
	if err != nil {
		return nil, err
	}
	if bad := f.Rejected(k); len(bad) > 0 {
		c.log.Info("form fields kept previous values", "id", id, "fields", bad)
	}
	applyForm(rec, f)

	if e, ok := c.reg.Get(id); ok {
		if err := shapes.Apply(rec, e.Layer); err != nil {
			return nil, err
		}
	}
	c.persist(ctx, true)
	c.publish(ResourceLayers, ActionUpdated, id)
	return mapconfig.CloneRecord(rec), nil
}

// OnVisibilityToggle flips the visible flag of id and adds or removes its
// shape from the rendered group. The record stays in the document.
func (c *Controller) OnVisibilityToggle(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.cfg.Find(id)
	if !ok {
		return false, mapconfig.ErrNotFound
	}
	base := rec.Base()
	base.Visible = !base.Visible

	if e, ok := c.reg.Get(id); ok {
		if base.Visible {
			c.view.Drawn.Add(e.Layer)
		} else {
			c.view.Drawn.Remove(e.Layer)
		}
	}
	c.persist(ctx, true)
	action := ActionHidden
	if base.Visible {
		action = ActionShown
	}
	c.publish(ResourceLayers, action, id)
	return base.Visible, nil
}

// find returns the record of id, which must be of kind k.
func (c *Controller) find(k mapconfig.Kind, id string) (mapconfig.Record, error) {
	if rec, ok := c.cfg.FindKind(k, id); ok {
		return rec, nil
	}
	if rec, ok := c.cfg.Find(id); ok {
		return nil, fmt.Errorf("%s is a %s, not a %s: %w", id, rec.Kind(), k, ErrKindMismatch)
	}
	return nil, mapconfig.ErrNotFound
}

func points(cs []mapconfig.Coord) []orb.Point {
	out := make([]orb.Point, len(cs))
	for i, c := range cs {
		out[i] = draw.LatLng(c.Lat(), c.Lng())
	}
	return out
}
