package snippet

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/draw"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
	"github.com/joeblew999/plat-mapmaker/internal/shapes"
)

// Payload is the data the embed script replays.
type Payload struct {
	Container string           `json:"container"`
	Center    mapconfig.LatLng `json:"center"`
	Zoom      int              `json:"zoom"`
	Tiles     Tiles            `json:"tiles"`
	Layers    []Layer          `json:"layers"`
}

// Tiles is the inlined copy of the map's tile provider.
type Tiles struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom,omitempty"`
}

// Layer is one visible shape in Leaflet terms: positions are [lat, lng].
type Layer struct {
	Kind    mapconfig.Kind `json:"kind"`
	LatLng  *[2]float64    `json:"latlng,omitempty"`
	LatLngs [][2]float64   `json:"latlngs,omitempty"`
	Radius  float64        `json:"radius,omitempty"`
	Style   *Style         `json:"style,omitempty"`
	Icon    *Icon          `json:"icon,omitempty"`
	Popup   string         `json:"popup"`
}

// Style holds Leaflet path options.
type Style struct {
	Color       string   `json:"color"`
	Weight      float64  `json:"weight"`
	FillColor   string   `json:"fillColor,omitempty"`
	FillOpacity *float64 `json:"fillOpacity,omitempty"`
	DashArray   string   `json:"dashArray,omitempty"`
}

// Icon holds Leaflet divIcon options.
type Icon struct {
	ClassName string `json:"className"`
	HTML      string `json:"html"`
	Size      [2]int `json:"size"`
}

// BuildPayload projects the visible records of cfg. Each record goes through
// the same rehydration as in the editor, so styles, icons and escaped popups
// match what the editor shows.
func BuildPayload(cfg *mapconfig.Config, providers *basemap.Table) (*Payload, error) {
	provider, _ := providers.Lookup(cfg.Meta.BaseLayer)
	p := &Payload{
		Center: cfg.Meta.Center,
		Zoom:   provider.ClampZoom(cfg.Meta.Zoom),
		Tiles: Tiles{
			URL:         provider.URL,
			Attribution: provider.Attribution,
			MaxZoom:     provider.MaxZoom,
		},
		Layers: []Layer{},
	}
	for _, rec := range cfg.Records() {
		if !rec.Base().Visible {
			continue
		}
		l, err := shapes.Rehydrate(rec)
		if err != nil {
			return nil, err
		}
		p.Layers = append(p.Layers, project(l))
	}
	return p, nil
}

func project(l draw.Layer) Layer {
	out := Layer{Kind: l.Kind(), Popup: l.Popup()}
	switch s := l.(type) {
	case *draw.Marker:
		out.LatLng = latlng(s.LatLng().Lat(), s.LatLng().Lon())
		if icon := s.Icon(); icon != nil {
			out.Icon = &Icon{ClassName: icon.ClassName, HTML: icon.HTML, Size: icon.Size}
		}
	case *draw.Polygon:
		out.LatLngs = latlngs(s.LatLngs())
		out.Style = areaStyle(s.Style())
	case *draw.Rectangle:
		b := s.Bounds()
		out.LatLngs = [][2]float64{{b.Min.Lat(), b.Min.Lon()}, {b.Max.Lat(), b.Max.Lon()}}
		out.Style = areaStyle(s.Style())
	case *draw.Circle:
		out.LatLng = latlng(s.LatLng().Lat(), s.LatLng().Lon())
		out.Radius = s.Radius()
		out.Style = areaStyle(s.Style())
	case *draw.Polyline:
		st := s.Style()
		out.LatLngs = latlngs(s.LatLngs())
		out.Style = &Style{Color: st.Color, Weight: st.Weight, DashArray: st.DashArray}
	}
	return out
}

func areaStyle(st draw.PathStyle) *Style {
	opacity := st.FillOpacity
	return &Style{Color: st.Color, Weight: st.Weight, FillColor: st.FillColor, FillOpacity: &opacity}
}

func latlng(lat, lng float64) *[2]float64 {
	return &[2]float64{lat, lng}
}

func latlngs[P ~[]orb.Point](pts P) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.Lat(), p.Lon()}
	}
	return out
}
