// Package snippet generates the standalone embed code for a map: a container
// div, the Leaflet assets and a script that replays the visible layers.
//
// The map is turned into a plain data payload first and then rendered through
// one fixed template. The payload enters the script only as JSON, so user
// text can never leave its string literal.
package snippet

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/joeblew999/plat-mapmaker/internal/basemap"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

//go:embed snippet.tmpl
var files embed.FS

var tmpl = template.Must(template.New("snippet.tmpl").Funcs(template.FuncMap{
	"script": scriptJSON,
}).ParseFS(files, "snippet.tmpl"))

// scriptJSON encodes v for use inside a <script> element. encoding/json
// escapes <, >, &, U+2028 and U+2029, so "</script>" cannot appear.
func scriptJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Defaults for Options.
const (
	DefaultLeafletVersion = "1.9.4"
	DefaultHeight         = "420px"
)

// Options tunes the generated markup.
type Options struct {
	LeafletVersion string `yaml:"leafletVersion"`
	CSSURL         string `yaml:"cssUrl"`
	JSURL          string `yaml:"jsUrl"`
	Height         string `yaml:"height"`
}

func (o Options) withDefaults() Options {
	if o.LeafletVersion == "" {
		o.LeafletVersion = DefaultLeafletVersion
	}
	if o.CSSURL == "" {
		o.CSSURL = fmt.Sprintf("https://unpkg.com/leaflet@%s/dist/leaflet.css", o.LeafletVersion)
	}
	if o.JSURL == "" {
		o.JSURL = fmt.Sprintf("https://unpkg.com/leaflet@%s/dist/leaflet.js", o.LeafletVersion)
	}
	if o.Height == "" {
		o.Height = DefaultHeight
	}
	return o
}

// Generator renders embed snippets.
type Generator struct {
	opts Options
	now  func() time.Time
}

// New creates a generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts.withDefaults(), now: time.Now}
}

type view struct {
	ContainerID string
	Height      string
	CSSURL      string
	JSURL       string
	Payload     *Payload
}

// Generate renders the snippet for cfg. Every call gets a new container id.
func (g *Generator) Generate(cfg *mapconfig.Config, providers *basemap.Table) (string, error) {
	id := g.containerID()
	p, err := BuildPayload(cfg, providers)
	if err != nil {
		return "", err
	}
	p.Container = id

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, view{
		ContainerID: id,
		Height:      g.opts.Height,
		CSSURL:      g.opts.CSSURL,
		JSURL:       g.opts.JSURL,
		Payload:     p,
	})
	if err != nil {
		return "", fmt.Errorf("render snippet: %w", err)
	}
	return buf.String(), nil
}

func (g *Generator) containerID() string {
	return fmt.Sprintf("map-%d-%s", g.now().UnixMilli(), uuid.NewString()[:8])
}
