package dsl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hawtio "github.com/woq-blended/hawtio-integration"
)

func TestBuilder_Routes(t *testing.T) {
	b := New("camel-1")

	b.Route("orders").
		From("jms:queue:orders").
		Choice().
		When("simple", "${header.priority} == 'high'").To("direct:priority").End().
		Otherwise().To("direct:standard").End().
		End().
		Log("processed ${body}")

	b.Route("priority").
		From("direct:priority").
		SetHeader("rush", "constant", "true").
		Bean("shipping", "expedite")

	xml, err := b.XML()
	require.NoError(t, err)
	assert.Contains(t, xml, `<camelContext id="camel-1" xmlns="http://camel.apache.org/schema/spring">`)
	assert.Contains(t, xml, `<simple>${header.priority} == `)
	assert.Contains(t, xml, `<setHeader name="rush">`)
	assert.Contains(t, xml, `<bean ref="shipping" method="expedite"/>`)

	source, err := b.Build()
	require.NoError(t, err)
	ws, err := hawtio.Open(context.Background(), source)
	require.NoError(t, err)

	routes, err := ws.Routes()
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "camel-1_orders", routes[0].Key)
	assert.Equal(t, "jms:queue:orders", routes[0].From)
	assert.Equal(t, "direct:priority", routes[1].From)

	d, err := ws.Diagram(context.Background(), "orders")
	require.NoError(t, err)
	assert.Len(t, d.Nodes, 7)
	assert.Equal(t, "From jms:queue:orders", d.Nodes[0].Label)
}

func TestBuilder_Blocks(t *testing.T) {
	b := New("")
	route := b.Route("").
		From("file:in").
		Split("tokenize", "\n").Attr("streaming", "true").
		Filter("xpath", "/line").ToD("log:${header.n}").End().
		End().
		Step("throttle", "timePeriodMillis", "1000").Leaf("to", "uri", "mock:out").End().
		Leaf("stop")

	assert.Same(t, route, route.End(), "End on a route returns the route")

	xml, err := b.XML()
	require.NoError(t, err)
	assert.NotContains(t, xml, `id=`)
	assert.Contains(t, xml, `<split streaming="true">`)
	assert.Contains(t, xml, `<toD uri="log:${header.n}"/>`)
	assert.Contains(t, xml, `<throttle timePeriodMillis="1000">`)
	assert.Contains(t, xml, `<stop/>`)
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  string
	}{
		{
			name:  "when outside choice",
			build: func(b *Builder) { b.Route("r").From("direct:a").When("simple", "true") },
			want:  "when: must be added to a choice",
		},
		{
			name:  "otherwise outside choice",
			build: func(b *Builder) { b.Route("r").Filter("simple", "true").Otherwise() },
			want:  "otherwise: must be added to a choice",
		},
		{
			name:  "missing language",
			build: func(b *Builder) { b.Route("r").SetBody("", "x") },
			want:  "expression language is required",
		},
		{
			name:  "odd attributes",
			build: func(b *Builder) { b.Route("r").Leaf("to", "uri") },
			want:  "odd number of attribute arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("ctx")
			tt.build(b)
			_, err := b.Build()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
