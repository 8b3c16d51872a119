// Package mapconfig holds the map document: metadata plus the five ordered
// collections of annotation records.
package mapconfig

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownKind is returned for a shape kind outside the supported set.
	ErrUnknownKind = errors.New("unknown shape kind")
)

// Kind names a shape kind. The string value doubles as the id prefix.
type Kind string

const (
	KindMarker    Kind = "marker"
	KindPolygon   Kind = "polygon"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindPolyline  Kind = "polyline"
)

// Kinds lists every kind in layer-list order.
func Kinds() []Kind {
	return []Kind{KindMarker, KindPolygon, KindRectangle, KindCircle, KindPolyline}
}

// ParseKind resolves a kind name, accepting the plural collection name too.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMarker, KindPolygon, KindRectangle, KindCircle, KindPolyline:
		return true
	}
	return false
}

// Label returns the capitalized kind name used in generated titles.
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Collection returns the JSON key of the collection holding this kind.
func (k Kind) Collection() string {
	return string(k) + "s"
}

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat" doc:"Latitude" example:"40.0"`
	Lng float64 `json:"lng" doc:"Longitude" example:"-73.0"`
}

// Coord is a [lat, lng] pair as stored in vertex lists.
type Coord [2]float64

// Lat returns the latitude.
func (c Coord) Lat() float64 { return c[0] }

// Lng returns the longitude.
func (c Coord) Lng() float64 { return c[1] }

// Meta is the document metadata.
type Meta struct {
	Title       string `json:"title" doc:"Map title" example:"Coffee crawl"`
	Description string `json:"description" doc:"Map description"`
	Center      LatLng `json:"center" doc:"View center"`
	Zoom        int    `json:"zoom" minimum:"0" maximum:"22" doc:"View zoom level" example:"2"`
	BaseLayer   string `json:"baseLayer" doc:"Tile provider key" example:"streets"`
}

// Default metadata values for a fresh map.
const (
	DefaultTitle     = "Untitled map"
	DefaultZoom      = 2
	DefaultBaseLayer = "streets"
)

// DefaultMeta returns the startup metadata.
func DefaultMeta() Meta {
	return Meta{
		Title:     DefaultTitle,
		Center:    LatLng{},
		Zoom:      DefaultZoom,
		BaseLayer: DefaultBaseLayer,
	}
}

// Common carries the fields every record kind shares.
type Common struct {
	ID          string `json:"id" doc:"Stable layer identifier" example:"marker-1a2b3c4d"`
	Title       string `json:"title" doc:"Layer title" example:"Cafe"`
	Description string `json:"description" doc:"Layer description"`
	Visible     bool   `json:"visible" doc:"Whether the layer is rendered"`
}

// Base returns the shared fields.
func (c *Common) Base() *Common { return c }

// AreaStyle is the style of a filled shape.
type AreaStyle struct {
	StrokeColor  string  `json:"strokeColor" doc:"Stroke color (CSS)" example:"#2563eb"`
	FillColor    string  `json:"fillColor" doc:"Fill color (CSS)" example:"#93c5fd"`
	StrokeWeight float64 `json:"strokeWeight" doc:"Stroke weight in pixels" example:"2"`
	FillOpacity  float64 `json:"fillOpacity" minimum:"0" maximum:"1" doc:"Fill opacity (0-1)" example:"0.4"`
}

// Record is one annotation. The set of implementations is closed: Marker,
// Polygon, Rectangle, Circle and Polyline.
type Record interface {
	Kind() Kind
	Base() *Common
	record()
}

// Marker is a point annotation.
type Marker struct {
	Common
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Color string  `json:"color" example:"#e11d48"`
}

// Polygon is a closed ring; the first vertex is not repeated at the end.
type Polygon struct {
	Common
	Coordinates []Coord `json:"coordinates"`
	AreaStyle
}

// Rectangle is stored as [southwest, northeast].
type Rectangle struct {
	Common
	Bounds [2]Coord `json:"bounds"`
	AreaStyle
}

// Circle has its radius in meters.
type Circle struct {
	Common
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
	AreaStyle
}

// Polyline is an open path.
type Polyline struct {
	Common
	Coordinates []Coord `json:"coordinates"`
	Color       string  `json:"color" example:"#22c55e"`
	Weight      float64 `json:"weight" example:"4"`
	DashArray   string  `json:"dashArray" example:"6, 6"`
}

func (*Marker) Kind() Kind    { return KindMarker }
func (*Polygon) Kind() Kind   { return KindPolygon }
func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Circle) Kind() Kind    { return KindCircle }
func (*Polyline) Kind() Kind  { return KindPolyline }

func (*Marker) record()    {}
func (*Polygon) record()   {}
func (*Rectangle) record() {}
func (*Circle) record()    {}
func (*Polyline) record()  {}

// Area returns the style of filled kinds, or nil for markers and polylines.
func Area(r Record) *AreaStyle {
	switch rec := r.(type) {
	case *Polygon:
		return &rec.AreaStyle
	case *Rectangle:
		return &rec.AreaStyle
	case *Circle:
		return &rec.AreaStyle
	}
	return nil
}

// New returns an empty record of the given kind with visible set, ready to
// be decoded into.
func New(k Kind) (Record, error) {
	common := Common{Visible: true}
	switch k {
	case KindMarker:
		return &Marker{Common: common}, nil
	case KindPolygon:
		return &Polygon{Common: common, Coordinates: []Coord{}}, nil
	case KindRectangle:
		return &Rectangle{Common: common}, nil
	case KindCircle:
		return &Circle{Common: common}, nil
	case KindPolyline:
		return &Polyline{Common: common, Coordinates: []Coord{}}, nil
	}
	return nil, ErrUnknownKind
}
