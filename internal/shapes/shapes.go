// Package shapes converts between live drawn shapes and annotation records.
//
// Extract reads a shape into a fresh record, UpdateGeometry copies only the
// geometry of a shape into an existing record, and Rehydrate/Apply go the
// other way, building or restyling a shape from a record.
package shapes

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// ErrShapeMismatch is returned when a shape does not match the record kind.
var ErrShapeMismatch = errors.New("shape does not match kind")

// Default palette.
const (
	DefaultMarkerColor   = "#e11d48"
	DefaultPolylineColor = "#22c55e"
	DefaultPolylineWidth = 4
)

var areaDefaults = map[mapconfig.Kind]mapconfig.AreaStyle{
	mapconfig.KindPolygon:   {StrokeColor: "#2563eb", FillColor: "#93c5fd", StrokeWeight: 2, FillOpacity: 0.4},
	mapconfig.KindRectangle: {StrokeColor: "#0f172a", FillColor: "#a5b4fc", StrokeWeight: 2, FillOpacity: 0.3},
	mapconfig.KindCircle:    {StrokeColor: "#0ea5e9", FillColor: "#67e8f9", StrokeWeight: 2, FillOpacity: 0.25},
}

// DefaultAreaStyle returns the palette of a filled kind.
func DefaultAreaStyle(k mapconfig.Kind) mapconfig.AreaStyle {
	return areaDefaults[k]
}

// Title returns the generated title of the n-th layer of kind k.
func Title(k mapconfig.Kind, n int) string {
	return fmt.Sprintf("%s %d", k.Label(), n)
}

// Extract reads l into a new record with id and the sequential title for n.
// A style already applied to the shape is kept; an unstyled shape gets the
// kind's palette. Geometry is stored exactly as the shape has it.
func Extract(k mapconfig.Kind, l draw.Layer, id string, n int) (mapconfig.Record, error) {
	if l == nil || l.Kind() != k {
		return nil, fmt.Errorf("extracting %s: %w", k, ErrShapeMismatch)
	}
	common := mapconfig.Common{ID: id, Title: Title(k, n), Visible: true}

	switch s := l.(type) {
	case *draw.Marker:
		p := s.LatLng()
		return &mapconfig.Marker{Common: common, Lat: p.Lat(), Lng: p.Lon(), Color: DefaultMarkerColor}, nil
	case *draw.Polygon:
		return &mapconfig.Polygon{
			Common:      common,
			Coordinates: pointsToCoords(s.LatLngs()),
			AreaStyle:   areaStyleOf(k, s.Style()),
		}, nil
	case *draw.Rectangle:
		return &mapconfig.Rectangle{
			Common:    common,
			Bounds:    boundToCoords(s.Bounds()),
			AreaStyle: areaStyleOf(k, s.Style()),
		}, nil
	case *draw.Circle:
		p := s.LatLng()
		return &mapconfig.Circle{
			Common:    common,
			Center:    mapconfig.LatLng{Lat: p.Lat(), Lng: p.Lon()},
			Radius:    s.Radius(),
			AreaStyle: areaStyleOf(k, s.Style()),
		}, nil
	case *draw.Polyline:
		rec := &mapconfig.Polyline{
			Common:      common,
			Coordinates: pointsToCoords(s.LatLngs()),
			Color:       DefaultPolylineColor,
			Weight:      DefaultPolylineWidth,
		}
		if st := s.Style(); st != (draw.PathStyle{}) {
			rec.Color, rec.Weight, rec.DashArray = st.Color, st.Weight, st.DashArray
		}
		return rec, nil
	}
	return nil, fmt.Errorf("extracting %T: %w", l, ErrShapeMismatch)
}

// UpdateGeometry copies the geometry of l into rec. Style and metadata are
// left alone.
func UpdateGeometry(rec mapconfig.Record, l draw.Layer) error {
	if l == nil || l.Kind() != rec.Kind() {
		return fmt.Errorf("updating %s: %w", rec.Kind(), ErrShapeMismatch)
	}
	switch r := rec.(type) {
	case *mapconfig.Marker:
		p := l.(*draw.Marker).LatLng()
		r.Lat, r.Lng = p.Lat(), p.Lon()
	case *mapconfig.Polygon:
		r.Coordinates = pointsToCoords(l.(*draw.Polygon).LatLngs())
	case *mapconfig.Rectangle:
		r.Bounds = boundToCoords(l.(*draw.Rectangle).Bounds())
	case *mapconfig.Circle:
		c := l.(*draw.Circle)
		p := c.LatLng()
		r.Center = mapconfig.LatLng{Lat: p.Lat(), Lng: p.Lon()}
		r.Radius = c.Radius()
	case *mapconfig.Polyline:
		r.Coordinates = pointsToCoords(l.(*draw.Polyline).LatLngs())
	default:
		return fmt.Errorf("updating %T: %w", rec, mapconfig.ErrUnknownKind)
	}
	return nil
}

// Rehydrate builds a new live shape from rec and applies its style and popup.
func Rehydrate(rec mapconfig.Record) (draw.Layer, error) {
	var l draw.Layer
	switch r := rec.(type) {
	case *mapconfig.Marker:
		l = draw.NewMarker(draw.LatLng(r.Lat, r.Lng))
	case *mapconfig.Polygon:
		l = draw.NewPolygon(coordsToRing(r.Coordinates))
	case *mapconfig.Rectangle:
		l = draw.NewRectangle(coordsToBound(r.Bounds))
	case *mapconfig.Circle:
		l = draw.NewCircle(draw.LatLng(r.Center.Lat, r.Center.Lng), r.Radius)
	case *mapconfig.Polyline:
		l = draw.NewPolyline(coordsToLine(r.Coordinates))
	default:
		return nil, fmt.Errorf("rehydrating %T: %w", rec, mapconfig.ErrUnknownKind)
	}
	if err := Apply(rec, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply positions and styles l from rec and binds the popup. Applying the
// same record twice leaves the shape unchanged.
func Apply(rec mapconfig.Record, l draw.Layer) error {
	if l == nil || l.Kind() != rec.Kind() {
		return fmt.Errorf("applying %s: %w", rec.Kind(), ErrShapeMismatch)
	}
	switch r := rec.(type) {
	case *mapconfig.Marker:
		m := l.(*draw.Marker)
		m.SetIcon(&draw.Icon{ClassName: MarkerIconClass, HTML: MarkerIconHTML(r.Color), Size: MarkerIconSize})
		m.SetLatLng(draw.LatLng(r.Lat, r.Lng))
	case *mapconfig.Polygon:
		p := l.(*draw.Polygon)
		p.SetStyle(areaPathStyle(r.AreaStyle))
		p.SetLatLngs(coordsToRing(r.Coordinates))
	case *mapconfig.Rectangle:
		b := l.(*draw.Rectangle)
		b.SetStyle(areaPathStyle(r.AreaStyle))
		b.SetBounds(coordsToBound(r.Bounds))
	case *mapconfig.Circle:
		c := l.(*draw.Circle)
		c.SetStyle(areaPathStyle(r.AreaStyle))
		c.SetLatLng(draw.LatLng(r.Center.Lat, r.Center.Lng))
		c.SetRadius(r.Radius)
	case *mapconfig.Polyline:
		p := l.(*draw.Polyline)
		p.SetStyle(draw.PathStyle{Color: r.Color, Weight: r.Weight, DashArray: r.DashArray})
		p.SetLatLngs(coordsToLine(r.Coordinates))
	default:
		return fmt.Errorf("applying %T: %w", rec, mapconfig.ErrUnknownKind)
	}
	l.BindPopup(PopupHTML(rec.Base()))
	return nil
}

func areaStyleOf(k mapconfig.Kind, st draw.PathStyle) mapconfig.AreaStyle {
	if st == (draw.PathStyle{}) {
		return DefaultAreaStyle(k)
	}
	return mapconfig.AreaStyle{
		StrokeColor:  st.Color,
		FillColor:    st.FillColor,
		StrokeWeight: st.Weight,
		FillOpacity:  st.FillOpacity,
	}
}

func areaPathStyle(a mapconfig.AreaStyle) draw.PathStyle {
	return draw.PathStyle{
		Color:       a.StrokeColor,
		Weight:      a.StrokeWeight,
		FillColor:   a.FillColor,
		FillOpacity: a.FillOpacity,
	}
}

func pointsToCoords[P ~[]orb.Point](pts P) []mapconfig.Coord {
	out := make([]mapconfig.Coord, len(pts))
	for i, p := range pts {
		out[i] = mapconfig.Coord{p.Lat(), p.Lon()}
	}
	return out
}

func coordsToPoints(cs []mapconfig.Coord) []orb.Point {
	out := make([]orb.Point, len(cs))
	for i, c := range cs {
		out[i] = draw.LatLng(c.Lat(), c.Lng())
	}
	return out
}

func coordsToRing(cs []mapconfig.Coord) orb.Ring { return orb.Ring(coordsToPoints(cs)) }

func coordsToLine(cs []mapconfig.Coord) orb.LineString { return orb.LineString(coordsToPoints(cs)) }

func boundToCoords(b orb.Bound) [2]mapconfig.Coord {
	return [2]mapconfig.Coord{
		{b.Min.Lat(), b.Min.Lon()},
		{b.Max.Lat(), b.Max.Lon()},
	}
}

func coordsToBound(cs [2]mapconfig.Coord) orb.Bound {
	return orb.Bound{
		Min: draw.LatLng(cs[0].Lat(), cs[0].Lng()),
		Max: draw.LatLng(cs[1].Lat(), cs[1].Lng()),
	}
}
