package draw

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// ErrGeometry is returned when points cannot form a shape of the kind.
var ErrGeometry = errors.New("invalid geometry")

// New creates a shape the way a drawing gesture would: one point for markers
// and circles, two opposite corners for rectangles, at least three vertices
// for polygons and two for polylines.
func New(k mapconfig.Kind, pts []orb.Point, radius float64) (Layer, error) {
	if err := check(k, pts, radius); err != nil {
		return nil, err
	}
	switch k {
	case mapconfig.KindMarker:
		return NewMarker(pts[0]), nil
	case mapconfig.KindPolygon:
		return NewPolygon(openRing(pts)), nil
	case mapconfig.KindRectangle:
		return NewRectangle(orb.MultiPoint(pts).Bound()), nil
	case mapconfig.KindCircle:
		return NewCircle(pts[0], radius), nil
	case mapconfig.KindPolyline:
		return NewPolyline(orb.LineString(slices.Clone(pts))), nil
	}
	return nil, fmt.Errorf("%w: %q", mapconfig.ErrUnknownKind, k)
}

// Reshape moves or reshapes an existing shape, as a drag or vertex edit
// would. A zero radius leaves a circle's radius unchanged.
func Reshape(l Layer, pts []orb.Point, radius float64) error {
	if l == nil {
		return fmt.Errorf("%w: no shape", ErrGeometry)
	}
	if radius == 0 && l.Kind() == mapconfig.KindCircle {
		radius = l.(*Circle).Radius()
	}
	if err := check(l.Kind(), pts, radius); err != nil {
		return err
	}
	switch s := l.(type) {
	case *Marker:
		s.SetLatLng(pts[0])
	case *Polygon:
		s.SetLatLngs(openRing(pts))
	case *Rectangle:
		s.SetBounds(orb.MultiPoint(pts).Bound())
	case *Circle:
		s.SetLatLng(pts[0])
		s.SetRadius(radius)
	case *Polyline:
		s.SetLatLngs(orb.LineString(slices.Clone(pts)))
	}
	return nil
}

func check(k mapconfig.Kind, pts []orb.Point, radius float64) error {
	want := map[mapconfig.Kind]int{
		mapconfig.KindMarker:    1,
		mapconfig.KindPolygon:   3,
		mapconfig.KindRectangle: 2,
		mapconfig.KindCircle:    1,
		mapconfig.KindPolyline:  2,
	}
	n, ok := want[k]
	if !ok {
		return fmt.Errorf("%w: %q", mapconfig.ErrUnknownKind, k)
	}
	if len(pts) < n {
		return fmt.Errorf("%w: %s needs at least %d points, got %d", ErrGeometry, k, n, len(pts))
	}
	for _, p := range pts {
		if !(p.Lat() >= -90 && p.Lat() <= 90) || math.IsNaN(p.Lon()) || math.IsInf(p.Lon(), 0) {
			return fmt.Errorf("%w: point %v out of range", ErrGeometry, p)
		}
	}
	if k == mapconfig.KindCircle && (!(radius > 0) || math.IsInf(radius, 0)) {
		return fmt.Errorf("%w: radius must be positive", ErrGeometry)
	}
	return nil
}

// openRing drops a repeated closing vertex; rings are stored open.
func openRing(pts []orb.Point) orb.Ring {
	ring := orb.Ring(slices.Clone(pts))
	if len(ring) > 3 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	return ring
}
