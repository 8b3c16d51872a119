package shapes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

var validate = validator.New()

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters. All user text
// that ends up inside generated markup goes through here.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// PopupHTML renders the popup bound to every shape.
func PopupHTML(c *mapconfig.Common) string {
	title := c.Title
	if title == "" {
		title = "Untitled layer"
	}
	return "<strong>" + EscapeHTML(title) + "</strong><br/><span>" + EscapeHTML(c.Description) + "</span>"
}

// ValidColor reports whether c is a hex color (#rgb, #rgba, #rrggbb or #rrggbbaa).
func ValidColor(c string) bool {
	return validate.Var(c, "required,hexcolor") == nil
}

// SafeColor returns c when it is a hex color and fallback otherwise.
func SafeColor(c, fallback string) string {
	if ValidColor(c) {
		return c
	}
	return fallback
}

// HexToRGBA converts a hex color to an rgba() expression with the given
// alpha. Colors that do not parse come back as black.
func HexToRGBA(hex string, alpha float64) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	}
	var r, g, bl uint64
	if len(h) >= 6 {
		if v, err := strconv.ParseUint(h[:6], 16, 32); err == nil {
			r, g, bl = (v>>16)&255, (v>>8)&255, v&255
		}
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, bl, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// MarkerIconHTML renders the dot used as marker icon. Colors that are not
// hex values are replaced by the default marker color.
func MarkerIconHTML(color string) string {
	c := SafeColor(color, DefaultMarkerColor)
	return fmt.Sprintf(
		`<div style="width:14px;height:14px;border-radius:999px;background:%s;box-shadow:0 0 0 6px %s"></div>`,
		c, HexToRGBA(c, 0.25),
	)
}

// MarkerIconSize is the icon size in pixels.
var MarkerIconSize = [2]int{14, 14}

// MarkerIconClass is the CSS class of marker icons.
const MarkerIconClass = "custom-marker"
