package draw

import (
	"slices"

	"github.com/paulmach/orb"
)

// Group is the set of shapes currently rendered on the map.
type Group struct {
	layers []Layer
}

// NewGroup returns an empty group.
func NewGroup() *Group { return &Group{} }

// Add renders l. Adding a rendered layer is a no-op.
func (g *Group) Add(l Layer) {
	if g.Has(l) {
		return
	}
	g.layers = append(g.layers, l)
}

// Remove stops rendering l.
func (g *Group) Remove(l Layer) {
	if i := slices.Index(g.layers, l); i >= 0 {
		g.layers = slices.Delete(g.layers, i, i+1)
	}
}

// Has reports whether l is rendered.
func (g *Group) Has(l Layer) bool {
	return slices.Contains(g.layers, l)
}

// Clear removes every layer.
func (g *Group) Clear() { g.layers = nil }

// Len returns the number of rendered layers.
func (g *Group) Len() int { return len(g.layers) }

// Layers returns the rendered layers in insertion order.
func (g *Group) Layers() []Layer { return slices.Clone(g.layers) }

// TileLayer is the background raster layer.
type TileLayer struct {
	URL         string
	Attribution string
	MaxZoom     int
}

// Map is the map view: center, zoom, background and drawn shapes.
type Map struct {
	Center orb.Point
	Zoom   int
	Base   *TileLayer
	Drawn  *Group
}

// NewMap returns a map with an empty layer group.
func NewMap() *Map {
	return &Map{Drawn: NewGroup()}
}

// SetView moves the view.
func (m *Map) SetView(center orb.Point, zoom int) {
	m.Center = center
	m.Zoom = zoom
}

// SetBaseLayer swaps the background layer.
func (m *Map) SetBaseLayer(t *TileLayer) {
	m.Base = t
}
