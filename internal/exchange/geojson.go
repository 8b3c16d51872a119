package exchange

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// ToGeoJSON projects every record onto a feature collection. Circles become
// points with a radius property and rectangles become polygons. Style and
// metadata travel as properties.
func ToGeoJSON(c *mapconfig.Config) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range c.Records() {
		fc.Append(feature(rec))
	}
	return fc
}

func feature(rec mapconfig.Record) *geojson.Feature {
	var f *geojson.Feature
	switch r := rec.(type) {
	case *mapconfig.Marker:
		f = geojson.NewFeature(point(r.Lat, r.Lng))
		f.Properties["color"] = r.Color
	case *mapconfig.Polygon:
		f = geojson.NewFeature(orb.Polygon{closed(line(r.Coordinates))})
		areaProps(f, r.AreaStyle)
	case *mapconfig.Rectangle:
		b := orb.Bound{Min: point(r.Bounds[0].Lat(), r.Bounds[0].Lng()), Max: point(r.Bounds[1].Lat(), r.Bounds[1].Lng())}
		f = geojson.NewFeature(b.ToPolygon())
		areaProps(f, r.AreaStyle)
	case *mapconfig.Circle:
		f = geojson.NewFeature(point(r.Center.Lat, r.Center.Lng))
		f.Properties["radius"] = r.Radius
		areaProps(f, r.AreaStyle)
	case *mapconfig.Polyline:
		f = geojson.NewFeature(orb.LineString(line(r.Coordinates)))
		f.Properties["color"] = r.Color
		f.Properties["weight"] = r.Weight
		f.Properties["dashArray"] = r.DashArray
	}
	base := rec.Base()
	f.ID = base.ID
	f.Properties["id"] = base.ID
	f.Properties["kind"] = string(rec.Kind())
	f.Properties["title"] = base.Title
	f.Properties["description"] = base.Description
	f.Properties["visible"] = base.Visible
	return f
}

func areaProps(f *geojson.Feature, a mapconfig.AreaStyle) {
	f.Properties["strokeColor"] = a.StrokeColor
	f.Properties["fillColor"] = a.FillColor
	f.Properties["strokeWeight"] = a.StrokeWeight
	f.Properties["fillOpacity"] = a.FillOpacity
}

func point(lat, lng float64) orb.Point { return orb.Point{lng, lat} }

func line(cs []mapconfig.Coord) []orb.Point {
	out := make([]orb.Point, len(cs))
	for i, c := range cs {
		out[i] = point(c.Lat(), c.Lng())
	}
	return out
}

// closed returns the ring with its first vertex repeated at the end, as
// GeoJSON requires. Stored rings never repeat it.
func closed(pts []orb.Point) orb.Ring {
	ring := orb.Ring(pts)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}
