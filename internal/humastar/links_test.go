package humastar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionsFor(t *testing.T) {
	actions := ActionsFor("marker-1",
		ActionDef{Rel: "delete", Pattern: "/api/v1/layers/%s", Method: "DELETE", Title: "Delete layer"},
		ActionDef{Rel: "bounds", Pattern: "/api/v1/layers/%s/bounds"},
	)
	assert.Equal(t, []Action{
		{Rel: "delete", Href: "/api/v1/layers/marker-1", Method: "DELETE", Title: "Delete layer"},
		{Rel: "bounds", Href: "/api/v1/layers/marker-1/bounds"},
	}, actions)
}

func TestLinkHeader(t *testing.T) {
	a := Action{Rel: "hide", Href: "/api/v1/layers/x/toggle", Method: "POST", Title: "Hide layer"}
	assert.Equal(t, `</api/v1/layers/x/toggle>; rel="hide"; method="POST"; title="Hide layer"`, a.LinkHeader())
	assert.Equal(t, `</x>; rel="self"`, Action{Rel: "self", Href: "/x"}.LinkHeader())
}

func TestSignalsText(t *testing.T) {
	s, err := ParseSignals([]byte(`{"title":"Cafe","radius":42.5,"visible":true,"empty":null}`))
	if !assert.NoError(t, err) {
		return
	}
	v, ok := s.Text("radius")
	assert.True(t, ok)
	assert.Equal(t, "42.5", v)
	v, _ = s.Text("visible")
	assert.Equal(t, "true", v)
	v, ok = s.Text("empty")
	assert.True(t, ok)
	assert.Empty(t, v)
	_, ok = s.Text("missing")
	assert.False(t, ok)
	assert.Equal(t, "Cafe", s.String("title"))
}
