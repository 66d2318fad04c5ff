package diagram

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
	"github.com/woq-blended/hawtio-integration/pkg/settings"
)

const choiceRoute = `<routes>
  <route id="r1">
    <from uri="direct:start"/>
    <choice>
      <when><simple>${header.a}</simple><to uri="mock:a"/></when>
      <otherwise><to uri="mock:b"/></otherwise>
    </choice>
    <log message="done"/>
  </route>
</routes>`

func parse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

func newTestBuilder(opts ...Option) *Builder {
	cat := schema.Default()
	return NewBuilder(cat, append([]Option{WithIcons(cat)}, opts...)...)
}

func TestBuild_ChoiceFanOut(t *testing.T) {
	d := newTestBuilder().Build(parse(t, choiceRoute), "")

	require.Len(t, d.Nodes, 7)
	types := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		types[i] = n.Type
		assert.Equal(t, i, n.ID)
	}
	assert.Equal(t, []string{"from", "choice", "when", "to", "otherwise", "to", "log"}, types)

	assert.Equal(t, []domain.DiagramLink{
		{Source: 0, Target: 1, Value: 1},
		{Source: 1, Target: 2, Value: 1},
		{Source: 2, Target: 3, Value: 1},
		{Source: 1, Target: 4, Value: 1},
		{Source: 4, Target: 5, Value: 1},
		{Source: 3, Target: 6, Value: 1},
		{Source: 5, Target: 6, Value: 1},
	}, d.Links)
}

func TestBuild_Layout(t *testing.T) {
	d := newTestBuilder().Build(parse(t, choiceRoute), "")

	pos := func(id int) [2]float64 { return [2]float64{d.Nodes[id].X, d.Nodes[id].Y} }
	assert.Equal(t, [2]float64{0, 150}, pos(0))
	assert.Equal(t, [2]float64{0, 300}, pos(1))
	assert.Equal(t, [2]float64{0, 450}, pos(2))
	assert.Equal(t, [2]float64{0, 600}, pos(3))
	assert.Equal(t, [2]float64{150, 450}, pos(4))
	assert.Equal(t, [2]float64{150, 600}, pos(5))
	assert.Equal(t, [2]float64{0, 750}, pos(6))

	seen := make(map[[2]float64]int)
	for _, n := range d.Nodes {
		p := [2]float64{n.X, n.Y}
		if other, dup := seen[p]; dup {
			t.Fatalf("nodes %d and %d share position %v", other, n.ID, p)
		}
		seen[p] = n.ID
	}
}

func TestBuild_LabelsIconsAndRegistries(t *testing.T) {
	d := newTestBuilder().Build(parse(t, choiceRoute), "")

	from := d.Nodes[0]
	assert.Equal(t, "From direct:start", from.Label)
	assert.Equal(t, "Consumes from an endpoint direct:start", from.Tooltip)
	assert.Equal(t, "img/icons/camel/endpoint24.png", from.Icon)
	assert.Equal(t, "r1", from.RID)
	assert.Equal(t, map[string]int{"r1": 0}, d.RouteNodes)

	when := d.Nodes[2]
	assert.Equal(t, "When: ${header.a}", when.Label)
	assert.Equal(t, "When simple ${header.a}", when.Tooltip)

	assert.Equal(t, "from1", from.CID)
	assert.Equal(t, "log7", d.Nodes[6].CID)
	assert.Equal(t, 6, d.CIDs["log7"])
	assert.Equal(t, "img/icons/camel/log24.png", d.Nodes[6].Icon)
}

func TestBuild_SchemeIcon(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r"><from uri="activemq:queue:in"/><to uri="unknownscheme:x"/><to uri="noscheme"/></route>`), "")

	require.Len(t, d.Nodes, 3)
	assert.Equal(t, "img/icons/camel/endpointQueue24.png", d.Nodes[0].Icon)
	assert.Equal(t, "img/icons/camel/endpoint24.png", d.Nodes[1].Icon)
	assert.Equal(t, "img/icons/camel/endpoint24.png", d.Nodes[2].Icon)
}

func TestBuild_LabelTruncation(t *testing.T) {
	long := strings.Repeat("x", 50)
	s := settings.Default()
	s.MaximumLabelWidth = 34

	d := newTestBuilder(WithSettings(s)).Build(parse(t, `<route id="r"><from uri="direct:a"/><log id="`+long+`" customId="true" message="m"/></route>`), "")

	n := d.Nodes[1]
	assert.Equal(t, strings.Repeat("x", 34)+"..", n.Label)
	assert.Equal(t, long+"\n\nLog", n.LabelSummary)
	assert.Contains(t, n.Tooltip, long)
}

func TestBuild_IDLabels(t *testing.T) {
	xml := `<route id="r"><from uri="direct:a"/><to id="t1" uri="mock:a"/><to id="t2" customId="true" uri="mock:b"/></route>`

	d := newTestBuilder().Build(parse(t, xml), "")
	assert.Equal(t, "To mock:a", d.Nodes[1].Label)
	assert.Equal(t, "id: t1", d.Nodes[1].LabelSummary)
	assert.Equal(t, "t2", d.Nodes[2].Label)
	assert.Equal(t, "To mock:b", d.Nodes[2].LabelSummary)

	s := settings.Default()
	s.IgnoreIDForLabel = true
	d = newTestBuilder(WithSettings(s)).Build(parse(t, xml), "")
	assert.Equal(t, "To mock:b", d.Nodes[2].Label)
	assert.Equal(t, "id: t2", d.Nodes[2].LabelSummary)
	assert.Equal(t, "t2", d.Nodes[2].CID)
}

func TestBuild_FirstFromClaimsRoute(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r"><from uri="a:x"/><from uri="b:y"/><to uri="c:z"/></route>`), "")

	require.Len(t, d.Nodes, 3)
	assert.Equal(t, "r", d.Nodes[0].RID)
	assert.Empty(t, d.Nodes[1].RID)
	assert.Equal(t, map[string]int{"r": 0}, d.RouteNodes)
	assert.Equal(t, []domain.DiagramLink{
		{Source: 0, Target: 1, Value: 1},
		{Source: 1, Target: 2, Value: 1},
	}, d.Links)
}

func TestBuild_PlainElementsAreTransparent(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r"><description>text</description><from uri="direct:a"/><to uri="mock:a"/></route>`), "")

	require.Len(t, d.Nodes, 2)
	assert.Equal(t, []domain.DiagramLink{{Source: 0, Target: 1, Value: 1}}, d.Links)
}

func TestBuild_MethodExpressionFold(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r"><from uri="direct:a"/><filter><method ref="checker" method="isValid"/><to uri="mock:a"/></filter></route>`), "")

	assert.Equal(t, "Filter: method checker isValid", d.Nodes[1].Label)
}

func TestBuild_RouteFilterAndSpacing(t *testing.T) {
	xml := `<routes>
  <route id="r1"><from uri="direct:a"/><to uri="mock:a"/></route>
  <route id="r2"><from uri="direct:b"/><to uri="mock:b"/></route>
</routes>`

	d := newTestBuilder().Build(parse(t, xml), "")
	require.Len(t, d.Nodes, 4)
	assert.Equal(t, 0.0, d.Nodes[0].X)
	assert.Equal(t, 600.0, d.Nodes[2].X)
	assert.Equal(t, map[string]int{"r1": 0, "r2": 2}, d.RouteNodes)

	only := newTestBuilder().Build(parse(t, xml), "r2")
	require.Len(t, only.Nodes, 2)
	assert.Equal(t, 0.0, only.Nodes[0].X)
	assert.Equal(t, map[string]int{"r2": 0}, only.RouteNodes)

	assert.Empty(t, newTestBuilder().Build(parse(t, xml), "missing").Nodes)
}

func TestBuild_RoutesNeverOverlap(t *testing.T) {
	s := settings.Default()
	s.DiagramWidth = 300
	xml := `<routes>
  <route id="r1"><from uri="direct:a"/><choice><when><simple>a</simple><to uri="mock:a"/></when><otherwise><to uri="mock:b"/></otherwise></choice></route>
  <route id="r2"><from uri="direct:b"/></route>
</routes>`

	d := newTestBuilder(WithSettings(s)).Build(parse(t, xml), "")
	r2 := d.Nodes[d.RouteNodes["r2"]]
	assert.Equal(t, 300.0, r2.X)
}

func TestBuild_UsesCorrelationIDs(t *testing.T) {
	d := newTestBuilder().Build(parse(t, `<route id="r" _cid="ctx_r"><from _cid="ctx_r_from1" uri="direct:a"/></route>`), "")
	assert.Equal(t, "ctx_r_from1", d.Nodes[0].CID)
	assert.Equal(t, 0, d.CIDs["ctx_r_from1"])
}
