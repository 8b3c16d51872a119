// Package service keeps the map document, the layer registry and the live
// shapes consistent. All editing enters through a Controller.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// ErrKindMismatch is returned when an id or shape belongs to another kind
// than the one requested.
var ErrKindMismatch = errors.New("kind mismatch")

// ErrAlreadyRegistered is returned when a drawn shape is reported twice.
var ErrAlreadyRegistered = errors.New("shape already registered")

// Snapshots is the local quick-save slot.
type Snapshots interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	// Providers is the tile provider table. Defaults to basemap.Default().
	Providers *basemap.Table
	// Snapshots receives the document on every persisting mutation. Nil
	// disables quick-save.
	Snapshots Snapshots
	// Bus receives change events. Nil creates a private bus.
	Bus    *EventBus
	Logger *slog.Logger
	// NewID generates layer ids. Defaults to "<kind>-<8 hex>".
	NewID func(mapconfig.Kind) string
	// PersistView also writes the quick-save on pure pan/zoom changes.
	PersistView bool
}

// Form holds submitted layer form values by field name. Absent fields keep
// their current value.
type Form map[string]string

// Form field names.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldColor        = "color"
	FieldStrokeColor  = "strokeColor"
	FieldFillColor    = "fillColor"
	FieldStrokeWeight = "strokeWeight"
	FieldFillOpacity  = "fillOpacity"
	FieldRadius       = "radius"
	FieldWeight       = "weight"
	FieldDashArray    = "dashArray"
)

// Geometry is a shape outline as sent by a client: vertices as [lat, lng]
// pairs plus a radius in meters for circles.
type Geometry struct {
	LatLngs []mapconfig.Coord `json:"latlngs" minItems:"1" doc:"Vertices as [lat, lng] pairs; rectangles take two opposite corners"`
	Radius  float64           `json:"radius,omitempty" minimum:"0" doc:"Circle radius in meters"`
}
