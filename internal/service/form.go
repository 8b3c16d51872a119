package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

var dashPattern = regexp.MustCompile(`^[0-9.,\s]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dasharray", func(fl validator.FieldLevel) bool {
		return dashPattern.MatchString(fl.Field().String())
	})
	return v
}

// Rules for numeric and string fields. A value failing its rule is dropped
// and the record keeps its previous value.
var fieldRules = map[string]string{
	FieldColor:        "hexcolor",
	FieldStrokeColor:  "hexcolor",
	FieldFillColor:    "hexcolor",
	FieldStrokeWeight: "gt=0,lte=100",
	FieldWeight:       "gt=0,lte=100",
	FieldFillOpacity:  "gte=0,lte=1",
	FieldRadius:       "gt=0,lte=20000000",
	FieldDashArray:    "dasharray,max=64",
}

// text returns the value of a free-text field.
func (f Form) text(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// str returns a trimmed string field that passes its rule.
func (f Form) str(name string) (string, bool) {
	v, ok := f[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if validate.Var(v, fieldRules[name]) != nil {
		return "", false
	}
	return v, true
}

// num returns a numeric field that parses and passes its rule.
func (f Form) num(name string) (float64, bool) {
	v, ok := f[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	if validate.Var(n, fieldRules[name]) != nil {
		return 0, false
	}
	return n, true
}

// Rejected lists the submitted fields that were dropped for kind k.
func (f Form) Rejected(k mapconfig.Kind) []string {
	var out []string
	for _, name := range formFields(k) {
		if _, ok := f[name]; !ok {
			continue
		}
		switch name {
		case FieldTitle, FieldDescription:
		case FieldStrokeWeight, FieldWeight, FieldFillOpacity, FieldRadius:
			if _, ok := f.num(name); !ok {
				out = append(out, name)
			}
		default:
			if _, ok := f.str(name); !ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// formFields lists the fields a kind's edit form carries, in form order.
func formFields(k mapconfig.Kind) []string {
	common := []string{FieldTitle, FieldDescription}
	switch k {
	case mapconfig.KindMarker:
		return append(common, FieldColor)
	case mapconfig.KindPolygon, mapconfig.KindRectangle:
		return append(common, FieldStrokeColor, FieldFillColor, FieldStrokeWeight, FieldFillOpacity)
	case mapconfig.KindCircle:
		return append(common, FieldStrokeColor, FieldFillColor, FieldStrokeWeight, FieldFillOpacity, FieldRadius)
	case mapconfig.KindPolyline:
		return append(common, FieldColor, FieldWeight, FieldDashArray)
	}
	return common
}

// applyForm writes every valid field of f into rec. Invalid fields fall back
// to the record's current value; they never fail the submission.
func applyForm(rec mapconfig.Record, f Form) {
	base := rec.Base()
	if v, ok := f.text(FieldTitle); ok {
		base.Title = v
	}
	if v, ok := f.text(FieldDescription); ok {
		base.Description = v
	}

	if a := mapconfig.Area(rec); a != nil {
		if v, ok := f.str(FieldStrokeColor); ok {
			a.StrokeColor = v
		}
		if v, ok := f.str(FieldFillColor); ok {
			a.FillColor = v
		}
		if v, ok := f.num(FieldStrokeWeight); ok {
			a.StrokeWeight = v
		}
		if v, ok := f.num(FieldFillOpacity); ok {
			a.FillOpacity = v
		}
	}

	switch r := rec.(type) {
	case *mapconfig.Marker:
		if v, ok := f.str(FieldColor); ok {
			r.Color = v
		}
	case *mapconfig.Circle:
		if v, ok := f.num(FieldRadius); ok {
			r.Radius = v
		}
	case *mapconfig.Polyline:
		if v, ok := f.str(FieldColor); ok {
			r.Color = v
		}
		if v, ok := f.num(FieldWeight); ok {
			r.Weight = v
		}
		if v, ok := f.str(FieldDashArray); ok {
			r.DashArray = v
		}
	}
}
