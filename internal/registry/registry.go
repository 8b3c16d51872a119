// Package registry indexes live shapes by layer id and back. It is the only
// link between a drawn shape and its record; shapes carry no id themselves.
package registry

import (
	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// Entry is what the registry holds for one id.
type Entry struct {
	Layer draw.Layer
	Kind  mapconfig.Kind
}

// Registry is a bidirectional id <-> shape map. It is not safe for
// concurrent use; the controller owning it serializes access.
type Registry struct {
	byID    map[string]Entry
	byLayer map[draw.Layer]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byID:    make(map[string]Entry),
		byLayer: make(map[draw.Layer]string),
	}
}

// Put registers l under id, replacing any previous entry for either side.
func (r *Registry) Put(id string, l draw.Layer, k mapconfig.Kind) {
	r.Remove(id)
	if old, ok := r.byLayer[l]; ok {
		delete(r.byID, old)
	}
	r.byID[id] = Entry{Layer: l, Kind: k}
	r.byLayer[l] = id
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Lookup returns the id a live shape is registered under.
func (r *Registry) Lookup(l draw.Layer) (string, bool) {
	if l == nil {
		return "", false
	}
	id, ok := r.byLayer[l]
	return id, ok
}

// Remove drops id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) (Entry, bool) {
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	delete(r.byID, id)
	delete(r.byLayer, e.Layer)
	return e, true
}

// Len returns the number of registered layers.
func (r *Registry) Len() int { return len(r.byID) }

// Clear drops every entry.
func (r *Registry) Clear() {
	clear(r.byID)
	clear(r.byLayer)
}
