package editor

import (
	"strconv"

	"github.com/joeblew999/plat-mapmaker/internal/humastar"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/service"
)

// EmptyLayers is shown when the map has no layers.
const EmptyLayers = "No layers yet. Add one from the toolbar."

var groups = []struct {
	kind  mapconfig.Kind
	label string
	icon  string
}{
	{mapconfig.KindMarker, "Points", "•"},
	{mapconfig.KindPolygon, "Zones", "⬠"},
	{mapconfig.KindRectangle, "Rectangles", "▭"},
	{mapconfig.KindCircle, "Circles", "◉"},
	{mapconfig.KindPolyline, "Lines", "⟍"},
}

// LayerGroup is one section of the layer list.
type LayerGroup struct {
	Key   string
	Label string
	Icon  string
	Items []LayerItem
}

// LayerItem is one row of the layer list.
type LayerItem struct {
	ID      string
	Title   string
	Kind    mapconfig.Kind
	Icon    string
	Visible bool
}

// layerGroups groups the records of cfg by kind, skipping empty groups.
func layerGroups(cfg *mapconfig.Config) []any {
	byKind := make(map[mapconfig.Kind][]LayerItem)
	for _, rec := range cfg.Records() {
		byKind[rec.Kind()] = append(byKind[rec.Kind()], LayerItem{
			ID:      rec.Base().ID,
			Title:   rec.Base().Title,
			Kind:    rec.Kind(),
			Visible: rec.Base().Visible,
		})
	}
	var out []any
	for _, g := range groups {
		items := byKind[g.kind]
		if len(items) == 0 {
			continue
		}
		for i := range items {
			items[i].Icon = g.icon
		}
		out = append(out, LayerGroup{Key: g.kind.Collection(), Label: g.label, Icon: g.icon, Items: items})
	}
	return out
}

// LayerForm is the edit form of one layer.
type LayerForm struct {
	ID          string
	Kind        mapconfig.Kind
	Title       string
	Description string
	Fields      []FormField
}

// FormField is one kind-specific input.
type FormField struct {
	Name  string
	Label string
	Type  string
	Value string
	Min   string
	Max   string
	Step  string
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// layerForm pre-fills the edit form from rec.
func layerForm(rec mapconfig.Record) LayerForm {
	base := rec.Base()
	f := LayerForm{ID: base.ID, Kind: rec.Kind(), Title: base.Title, Description: base.Description}

	if a := mapconfig.Area(rec); a != nil {
		stroke := a.StrokeColor
		if stroke == "" {
			stroke = "#111827"
		}
		f.Fields = append(f.Fields,
			FormField{Name: service.FieldStrokeColor, Label: "Stroke color", Type: "color", Value: stroke},
			FormField{Name: service.FieldFillColor, Label: "Fill color", Type: "color", Value: a.FillColor},
			FormField{Name: service.FieldStrokeWeight, Label: "Stroke weight", Type: "number", Value: num(a.StrokeWeight), Min: "1", Max: "12"},
			FormField{Name: service.FieldFillOpacity, Label: "Fill opacity (0-1)", Type: "number", Value: num(a.FillOpacity), Min: "0", Max: "1", Step: "0.05"},
		)
	}
	switch r := rec.(type) {
	case *mapconfig.Marker:
		f.Fields = append(f.Fields, FormField{Name: service.FieldColor, Label: "Icon color", Type: "color", Value: r.Color})
	case *mapconfig.Circle:
		f.Fields = append(f.Fields, FormField{Name: service.FieldRadius, Label: "Radius (meters)", Type: "number", Value: num(r.Radius)})
	case *mapconfig.Polyline:
		f.Fields = append(f.Fields,
			FormField{Name: service.FieldColor, Label: "Line color", Type: "color", Value: r.Color},
			FormField{Name: service.FieldWeight, Label: "Weight", Type: "number", Value: num(r.Weight), Min: "1", Max: "12"},
			FormField{Name: service.FieldDashArray, Label: "Dash pattern (e.g. 6, 6)", Type: "text", Value: r.DashArray},
		)
	}
	return f
}

// formFromSignals collects the layer form fields present in signals.
func formFromSignals(s humastar.Signals) service.Form {
	f := service.Form{}
	for _, name := range []string{
		service.FieldTitle, service.FieldDescription, service.FieldColor,
		service.FieldStrokeColor, service.FieldFillColor, service.FieldStrokeWeight,
		service.FieldFillOpacity, service.FieldRadius, service.FieldWeight, service.FieldDashArray,
	} {
		if v, ok := s.Text(name); ok {
			f[name] = v
		}
	}
	return f
}
