// Package draw models the drawing library the editor talks to: live shapes
// with their geometry, style and popup, the rendered layer group and the map
// view. Geometry uses orb types, so X is longitude and Y is latitude.
package draw

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// Layer is a live drawable shape.
type Layer interface {
	Kind() mapconfig.Kind
	Popup() string
	BindPopup(html string)
}

// LatLng builds an orb point from latitude and longitude.
func LatLng(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// PathStyle is the style of vector shapes.
type PathStyle struct {
	Color       string
	Weight      float64
	FillColor   string
	FillOpacity float64
	DashArray   string
}

// Icon is a marker icon built from raw HTML.
type Icon struct {
	ClassName string
	HTML      string
	Size      [2]int
}

type popup struct {
	html string
}

func (p *popup) Popup() string         { return p.html }
func (p *popup) BindPopup(html string) { p.html = html }

type path struct {
	popup
	style PathStyle
}

// Style returns the applied style.
func (p *path) Style() PathStyle { return p.style }

// SetStyle replaces the style.
func (p *path) SetStyle(s PathStyle) { p.style = s }

// Marker is a point shape with an icon.
type Marker struct {
	popup
	latlng orb.Point
	icon   *Icon
}

// NewMarker returns a marker at p.
func NewMarker(p orb.Point) *Marker { return &Marker{latlng: p} }

func (*Marker) Kind() mapconfig.Kind { return mapconfig.KindMarker }

func (m *Marker) LatLng() orb.Point     { return m.latlng }
func (m *Marker) SetLatLng(p orb.Point) { m.latlng = p }
func (m *Marker) Icon() *Icon           { return m.icon }
func (m *Marker) SetIcon(i *Icon)       { m.icon = i }

// Polygon is a closed shape. The ring is kept exactly as given.
type Polygon struct {
	path
	ring orb.Ring
}

// NewPolygon returns a polygon over ring.
func NewPolygon(ring orb.Ring) *Polygon { return &Polygon{ring: ring} }

func (*Polygon) Kind() mapconfig.Kind { return mapconfig.KindPolygon }

func (p *Polygon) LatLngs() orb.Ring        { return p.ring }
func (p *Polygon) SetLatLngs(ring orb.Ring) { p.ring = ring }

// Rectangle is an axis-aligned box.
type Rectangle struct {
	path
	bound orb.Bound
}

// NewRectangle returns a rectangle covering b.
func NewRectangle(b orb.Bound) *Rectangle { return &Rectangle{bound: b} }

func (*Rectangle) Kind() mapconfig.Kind { return mapconfig.KindRectangle }

func (r *Rectangle) Bounds() orb.Bound     { return r.bound }
func (r *Rectangle) SetBounds(b orb.Bound) { r.bound = b }

// Circle has a radius in meters.
type Circle struct {
	path
	center orb.Point
	radius float64
}

// NewCircle returns a circle around center.
func NewCircle(center orb.Point, radius float64) *Circle {
	return &Circle{center: center, radius: radius}
}

func (*Circle) Kind() mapconfig.Kind { return mapconfig.KindCircle }

func (c *Circle) LatLng() orb.Point     { return c.center }
func (c *Circle) SetLatLng(p orb.Point) { c.center = p }
func (c *Circle) Radius() float64       { return c.radius }
func (c *Circle) SetRadius(r float64)   { c.radius = r }

// Polyline is an open path.
type Polyline struct {
	path
	line orb.LineString
}

// NewPolyline returns a polyline through line.
func NewPolyline(line orb.LineString) *Polyline { return &Polyline{line: line} }

func (*Polyline) Kind() mapconfig.Kind { return mapconfig.KindPolyline }

func (p *Polyline) LatLngs() orb.LineString         { return p.line }
func (p *Polyline) SetLatLngs(line orb.LineString) { p.line = line }

// Bounds returns the area a view has to cover to show l. Circle radii are
// converted from meters.
func Bounds(l Layer) orb.Bound {
	switch s := l.(type) {
	case *Marker:
		return s.latlng.Bound()
	case *Polygon:
		return s.ring.Bound()
	case *Rectangle:
		return s.bound
	case *Circle:
		return geo.NewBoundAroundPoint(s.center, s.radius)
	case *Polyline:
		return s.line.Bound()
	}
	return orb.Bound{}
}
