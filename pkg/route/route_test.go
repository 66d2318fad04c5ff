package route

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
)

func parse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func render(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

// shape renders attributes and non-step children, ignoring whitespace.
func shape(c *Classifier, el *etree.Element) string {
	var sb strings.Builder
	sb.WriteString(el.Tag)
	for _, a := range el.Attr {
		if domain.IsInternalKey(a.Key) {
			continue
		}
		sb.WriteString(" " + a.FullKey() + "=" + a.Value)
	}
	if text := strings.TrimSpace(TextContent(el)); text != "" && !hasElementChildren(el) {
		sb.WriteString(" '" + text + "'")
	}
	sb.WriteString("(")
	for _, child := range el.ChildElements() {
		if c.IsStep(child.Tag) {
			continue
		}
		sb.WriteString(shape(c, child) + ";")
	}
	sb.WriteString(")")
	return sb.String()
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(schema.Default())

	tests := []struct {
		tag  string
		want Class
	}{
		{"to", Step},
		{"choice", Step},
		{"simple", Expression},
		{"xpath", Expression},
		{"expression", Expression},
		{"completionSize", Plain},
		{"description", Plain},
		{"somethingForeign", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.tag).Class)
		})
	}

	cls := c.Classify("to")
	require.NotNil(t, cls.Definition)
	assert.Equal(t, "To", cls.Definition.Title)

	var nilClassifier *Classifier
	assert.Equal(t, Expression, nilClassifier.Classify("expression").Class)
	assert.Equal(t, Plain, nilClassifier.Classify("to").Class)
}

func TestDecode_ExpressionSymmetry(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<filter id="f1"><simple>foo</simple><to uri="mock:a"/></filter>`)

	rec := NewDecoder(cat).Decode(el)
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","expression":{"language":"simple","expression":"foo"}}`, string(data))

	out := NewEncoder().Encode(nil, "filter", rec, "")
	assert.Equal(t, "f1", out.SelectAttrValue("id", ""))
	simple := out.SelectElement("simple")
	require.NotNil(t, simple)
	assert.Equal(t, "foo", simple.Text())
	assert.Nil(t, out.SelectAttr("language"))
	assert.Nil(t, out.SelectAttr("expression"))
}

func TestDecode_CompletionSizeAliasing(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<aggregate strategyRef="agg">
  <correlationExpression><header>id</header></correlationExpression>
  <completionSize><simple>${header.size}</simple></completionSize>
  <completionTimeout><constant>1000</constant></completionTimeout>
  <to uri="mock:out"/>
</aggregate>`)

	rec := NewDecoder(cat).Decode(el)
	assert.Equal(t, []string{"strategyRef", "correlationExpression", "completionSizeExpression", "completionTimeoutExpression"}, rec.Keys())
	assert.False(t, rec.Has("completionSize"))

	size := rec.Child("completionSizeExpression")
	lang, text, ok := size.Expression()
	require.True(t, ok)
	assert.Equal(t, "simple", lang)
	assert.Equal(t, "${header.size}", text)

	corr := rec.Child("correlationExpression")
	lang, text, ok = corr.Expression()
	require.True(t, ok)
	assert.Equal(t, "header", lang)
	assert.Equal(t, "id", text)
}

func TestDecode_ContainersDoNotDescend(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<route id="r1" xmlns="http://camel.apache.org/schema/spring"><description>d</description><from uri="direct:a"/></route>`)

	rec := NewDecoder(cat).Decode(el)
	assert.Equal(t, []string{"id", "xmlns"}, rec.Keys())
}

func TestDecode_PlainDetails(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<to uri="mock:a"><description>hello</description><property key="a"/><property key="b"/></to>`)

	rec := NewDecoder(cat).Decode(el)
	assert.Equal(t, "hello", rec.Child("description").String(domain.KeyText))

	props, ok := rec.Get("property")
	require.True(t, ok)
	require.Equal(t, domain.KindList, props.Kind())
	require.Len(t, props.Records(), 2)
	assert.Equal(t, "b", props.Records()[1].String("key"))
}

func TestRoundTrip(t *testing.T) {
	cat := schema.Default()
	c := NewClassifier(cat)

	tests := []struct {
		name string
		xml  string
	}{
		{"attributes only", `<to uri="mock:a" id="to1" pattern="InOnly"/>`},
		{"expression", `<setHeader headerName="foo"><simple>${body}</simple></setHeader>`},
		{"expression with attributes", `<setBody><xpath resultType="java.lang.String">/a/b</xpath></setBody>`},
		{"aggregate", `<aggregate strategyRef="agg"><correlationExpression><header>id</header></correlationExpression><completionSize><simple>5</simple></completionSize><to uri="mock:x"/></aggregate>`},
		{"plain leaf text", `<log message="hi"><description>says hi</description></log>`},
		{"repeated plain", `<marshal><json library="Jackson"/><property key="a"/><property key="b"/></marshal>`},
		{"generic language attribute", `<setHeader name="x"><language language="groovy">1+1</language></setHeader>`},
		{"expression attribute", `<setBody><simple expression="${body}"/></setBody>`},
		{"expression attribute and text", `<setBody><simple expression="${in.body}">${body}</simple></setBody>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := parse(t, tt.xml)
			rec := NewDecoder(cat).Decode(original)

			rebuilt := NewEncoder().Encode(nil, original.Tag, rec, "")
			assert.Equal(t, shape(c, original), shape(c, rebuilt))

			// decoding the rebuilt element yields the same record
			assert.True(t, rec.Equal(NewDecoder(cat).Decode(rebuilt)), "records differ after round trip")
		})
	}
}

func TestEncode_Idempotent(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<marshal id="m">
  <property key="a"/>
  <simple>x</simple>
  <property key="b"/>
</marshal>`)
	original := render(t, el)

	rec := NewDecoder(cat).Decode(el)
	enc := NewEncoder(WithClassifier(NewClassifier(cat)))

	enc.Encode(el, "", rec, "")
	first := render(t, el)
	enc.Encode(el, "", rec, "")
	second := render(t, el)
	enc.Encode(el, "", rec, "")
	third := render(t, el)

	assert.Equal(t, original, first)
	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
	assert.True(t, rec.Equal(NewDecoder(cat).Decode(el)))
}

func TestEncode_IdempotentOnFreshElement(t *testing.T) {
	cat := schema.Default()
	rec := NewDecoder(cat).Decode(parse(t, `<marshal><property key="a"/><property key="b"/></marshal>`))
	enc := NewEncoder()

	el := enc.Encode(nil, "marshal", rec, "")
	first := render(t, el)
	enc.Encode(el, "", rec, "")

	assert.Equal(t, first, render(t, el))
	assert.Len(t, el.SelectElements("property"), 2)
}

func TestEncode_ListAppendsEveryItem(t *testing.T) {
	cat := schema.Default()
	rec := NewDecoder(cat).Decode(parse(t, `<foo><a x="1"/><b/><a x="2"/></foo>`))

	out := NewEncoder().Encode(etree.NewElement("foo"), "", rec, "")

	items := out.SelectElements("a")
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].SelectAttrValue("x", ""))
	assert.Equal(t, "2", items[1].SelectAttrValue("x", ""))
	assert.NotNil(t, out.SelectElement("b"))
}

func TestEncode_ListKeepsPositions(t *testing.T) {
	cat := schema.Default()
	c := NewClassifier(cat)
	el := parse(t, `<foo><a x="1"/><b/><a x="2"/></foo>`)
	want := shape(c, el)

	rec := NewDecoder(cat).Decode(el)
	NewEncoder().Encode(el, "", rec, "")
	assert.Equal(t, "foo(a x=1();b();a x=2();)", shape(c, el))
	assert.Equal(t, want, shape(c, el))

	// an extra item follows the last one of its kind
	items, ok := rec.Get("a")
	require.True(t, ok)
	rec.Set("a", domain.List(append(items.Records(), domain.NewRecord().SetString("x", "3"))...))
	NewEncoder().Encode(el, "", rec, "")
	assert.Equal(t, "foo(a x=1();b();a x=2();a x=3();)", shape(c, el))
}

func TestDecode_LanguageAttributesAreShadowed(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<setHeader name="x"><language language="groovy">1+1</language></setHeader>`)

	rec := NewDecoder(cat).Decode(el)
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","expression":{"language":"language","expression":"1+1","@language":"groovy"}}`, string(data))

	out := NewEncoder().Encode(nil, "setHeader", rec, "")
	lang := out.SelectElement("language")
	require.NotNil(t, lang)
	assert.Equal(t, "groovy", lang.SelectAttrValue("language", ""))
	assert.Equal(t, "1+1", lang.Text())
	assert.Nil(t, lang.SelectAttr("@language"))
}

func TestEncode_Scalars(t *testing.T) {
	el := parse(t, `<to uri="mock:a" id="x" pattern="InOut"/>`)
	rec := domain.NewRecord().
		Set("uri", domain.Scalar("mock:b")).
		Set("id", domain.Absent()).
		Set("pattern", domain.Scalar("")).
		Set("_cid", domain.Scalar("route_to1"))

	NewEncoder().Encode(el, "", rec, "")

	assert.Equal(t, "mock:b", el.SelectAttrValue("uri", ""))
	assert.Nil(t, el.SelectAttr("id"))
	require.NotNil(t, el.SelectAttr("pattern"))
	assert.Equal(t, "", el.SelectAttrValue("pattern", "?"))
	assert.Nil(t, el.SelectAttr("_cid"))
}

func TestEncode_SwitchesLanguage(t *testing.T) {
	cat := schema.Default()
	el := parse(t, `<filter><simple>${body}</simple><to uri="mock:a"/></filter>`)

	rec := NewDecoder(cat).Decode(el)
	rec.Set(domain.KeyExpression, domain.Node(domain.NewExpression("header", "foo")))
	NewEncoder(WithClassifier(NewClassifier(cat))).Encode(el, "", rec, "")

	assert.Nil(t, el.SelectElement("simple"))
	header := el.SelectElement("header")
	require.NotNil(t, header)
	assert.Equal(t, "foo", header.Text())
	assert.NotNil(t, el.SelectElement("to"), "steps are untouched")
}

func TestEncode_ListReplacesInPlace(t *testing.T) {
	el := parse(t, `<marshal><json/><property key="a"/><property key="b"/></marshal>`)
	rec := domain.NewRecord().Set("property", domain.List(
		domain.NewRecord().SetString("key", "c"),
	))

	NewEncoder().Encode(el, "", rec, "")

	children := el.ChildElements()
	require.Len(t, children, 2)
	assert.Equal(t, "json", children[0].Tag)
	assert.Equal(t, "c", children[1].SelectAttrValue("key", ""))
}

func TestStripInternal(t *testing.T) {
	el := parse(t, `<route _cid="r" id="r"><from _cid="r_from1" uri="direct:a"/></route>`)
	out := StripInternal(el)

	assert.NotContains(t, render(t, out), "_cid")
	assert.Equal(t, "r", el.SelectAttrValue("_cid", ""), "original is untouched")
}
