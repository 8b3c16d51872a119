package mapconfig

import "fmt"

// Config is the whole map document. Field order matches the file format.
type Config struct {
	Meta       Meta         `json:"meta"`
	Markers    []*Marker    `json:"markers"`
	Polygons   []*Polygon   `json:"polygons"`
	Polylines  []*Polyline  `json:"polylines"`
	Circles    []*Circle    `json:"circles"`
	Rectangles []*Rectangle `json:"rectangles"`
}

// NewConfig returns a document with default metadata and empty collections.
func NewConfig() *Config {
	return &Config{
		Meta:       DefaultMeta(),
		Markers:    []*Marker{},
		Polygons:   []*Polygon{},
		Polylines:  []*Polyline{},
		Circles:    []*Circle{},
		Rectangles: []*Rectangle{},
	}
}

// Len returns the total number of records.
func (c *Config) Len() int {
	return len(c.Markers) + len(c.Polygons) + len(c.Rectangles) + len(c.Circles) + len(c.Polylines)
}

// Records returns every record in layer-list order: markers, polygons,
// rectangles, circles, polylines.
func (c *Config) Records() []Record {
	out := make([]Record, 0, c.Len())
	for _, r := range c.Markers {
		out = append(out, r)
	}
	for _, r := range c.Polygons {
		out = append(out, r)
	}
	for _, r := range c.Rectangles {
		out = append(out, r)
	}
	for _, r := range c.Circles {
		out = append(out, r)
	}
	for _, r := range c.Polylines {
		out = append(out, r)
	}
	return out
}

// Find returns the record with the given id.
func (c *Config) Find(id string) (Record, bool) {
	for _, r := range c.Records() {
		if r.Base().ID == id {
			return r, true
		}
	}
	return nil, false
}

// FindKind returns the record with the given id inside the collection of k.
func (c *Config) FindKind(k Kind, id string) (Record, bool) {
	var found Record
	switch k {
	case KindMarker:
		found = findIn(c.Markers, id)
	case KindPolygon:
		found = findIn(c.Polygons, id)
	case KindRectangle:
		found = findIn(c.Rectangles, id)
	case KindCircle:
		found = findIn(c.Circles, id)
	case KindPolyline:
		found = findIn(c.Polylines, id)
	}
	return found, found != nil
}

// Add appends r to the collection matching its kind.
func (c *Config) Add(r Record) error {
	switch rec := r.(type) {
	case *Marker:
		c.Markers = append(c.Markers, rec)
	case *Polygon:
		c.Polygons = append(c.Polygons, rec)
	case *Rectangle:
		c.Rectangles = append(c.Rectangles, rec)
	case *Circle:
		c.Circles = append(c.Circles, rec)
	case *Polyline:
		c.Polylines = append(c.Polylines, rec)
	default:
		return fmt.Errorf("adding %T: %w", r, ErrUnknownKind)
	}
	return nil
}

// Remove deletes the record with the given id from its collection, keeping
// the order of the remaining records.
func (c *Config) Remove(id string) (Record, bool) {
	if r, ok := removeFrom(&c.Markers, id); ok {
		return r, true
	}
	if r, ok := removeFrom(&c.Polygons, id); ok {
		return r, true
	}
	if r, ok := removeFrom(&c.Rectangles, id); ok {
		return r, true
	}
	if r, ok := removeFrom(&c.Circles, id); ok {
		return r, true
	}
	if r, ok := removeFrom(&c.Polylines, id); ok {
		return r, true
	}
	return nil, false
}

// Clear empties every collection and restores default metadata.
func (c *Config) Clear() {
	*c = *NewConfig()
}

// Replace swaps the whole document for other.
func (c *Config) Replace(other *Config) {
	*c = *other
	c.fillNil()
}

// fillNil turns nil collections into empty ones so they encode as [].
func (c *Config) fillNil() {
	if c.Markers == nil {
		c.Markers = []*Marker{}
	}
	if c.Polygons == nil {
		c.Polygons = []*Polygon{}
	}
	if c.Polylines == nil {
		c.Polylines = []*Polyline{}
	}
	if c.Circles == nil {
		c.Circles = []*Circle{}
	}
	if c.Rectangles == nil {
		c.Rectangles = []*Rectangle{}
	}
}

func findIn[T Record](items []T, id string) Record {
	for _, it := range items {
		if it.Base().ID == id {
			return it
		}
	}
	return nil
}

func removeFrom[T Record](items *[]T, id string) (Record, bool) {
	for i, it := range *items {
		if it.Base().ID == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return it, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the document.
func (c *Config) Clone() *Config {
	out := &Config{
		Meta:       c.Meta,
		Markers:    make([]*Marker, 0, len(c.Markers)),
		Polygons:   make([]*Polygon, 0, len(c.Polygons)),
		Polylines:  make([]*Polyline, 0, len(c.Polylines)),
		Circles:    make([]*Circle, 0, len(c.Circles)),
		Rectangles: make([]*Rectangle, 0, len(c.Rectangles)),
	}
	for _, r := range c.Markers {
		m := *r
		out.Markers = append(out.Markers, &m)
	}
	for _, r := range c.Polygons {
		p := *r
		p.Coordinates = append([]Coord{}, r.Coordinates...)
		out.Polygons = append(out.Polygons, &p)
	}
	for _, r := range c.Polylines {
		p := *r
		p.Coordinates = append([]Coord{}, r.Coordinates...)
		out.Polylines = append(out.Polylines, &p)
	}
	for _, r := range c.Circles {
		cc := *r
		out.Circles = append(out.Circles, &cc)
	}
	for _, r := range c.Rectangles {
		rr := *r
		out.Rectangles = append(out.Rectangles, &rr)
	}
	return out
}

// CloneRecord returns a deep copy of r.
func CloneRecord(r Record) Record {
	switch rec := r.(type) {
	case *Marker:
		m := *rec
		return &m
	case *Polygon:
		p := *rec
		p.Coordinates = append([]Coord{}, rec.Coordinates...)
		return &p
	case *Rectangle:
		rr := *rec
		return &rr
	case *Circle:
		c := *rec
		return &c
	case *Polyline:
		p := *rec
		p.Coordinates = append([]Coord{}, rec.Coordinates...)
		return &p
	}
	return nil
}
