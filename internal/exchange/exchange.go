// Package exchange reads and writes map documents: the JSON file format used
// for quick-save and file export, plus a GeoJSON projection.
package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

// ErrMalformed wraps every structural failure while reading a document.
var ErrMalformed = errors.New("malformed map document")

// Marshal encodes the document compactly.
func Marshal(c *mapconfig.Config) ([]byte, error) {
	return json.Marshal(c)
}

// MarshalIndent encodes the document for saving to a file.
func MarshalIndent(c *mapconfig.Config) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal decodes a document. Missing collections come back empty and
// missing metadata fields keep their startup defaults. Records without a
// visible flag are visible. Ids must be unique across the document; records
// without an id are kept and left for the caller to assign.
func Unmarshal(data []byte) (*mapconfig.Config, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}

	cfg := mapconfig.NewConfig()
	if raw, ok := top["meta"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &cfg.Meta); err != nil {
			return nil, fmt.Errorf("%w: meta: %v", ErrMalformed, err)
		}
	}

	seen := make(map[string]struct{})
	for _, k := range mapconfig.Kinds() {
		raw, ok := top[k.Collection()]
		if !ok || isNull(raw) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, k.Collection(), err)
		}
		for i, item := range items {
			rec, err := mapconfig.New(k)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(item, rec); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformed, k.Collection(), i, err)
			}
			if c, ok := rec.(*mapconfig.Circle); ok && !(c.Radius > 0) {
				return nil, fmt.Errorf("%w: %s[%d]: radius must be positive", ErrMalformed, k.Collection(), i)
			}
			if id := rec.Base().ID; id != "" {
				if _, dup := seen[id]; dup {
					return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformed, id)
				}
				seen[id] = struct{}{}
			}
			if err := cfg.Add(rec); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName derives the download name from the map title.
func FileName(title string) string {
	if title == "" {
		title = "map"
	}
	return whitespace.ReplaceAllString(title, "-") + ".json"
}

// ContentDisposition returns the attachment header for a saved document.
func ContentDisposition(title string) string {
	name := strings.NewReplacer(`"`, "", `\`, "").Replace(FileName(title))
	return fmt.Sprintf(`attachment; filename="%s"`, name)
}
