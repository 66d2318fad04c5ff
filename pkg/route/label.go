package route

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// Describe derives the outline label and tooltip of a step element.
//
// An id wins as the label. Otherwise the endpoint uri (without query) is
// used, or failing that the schema title with the text of a leading
// expression child appended. The tooltip starts from the schema tooltip or
// description and collects the positional detail.
func (c *Classifier) Describe(el *etree.Element, def *domain.StepDefinition) (label, tooltip string) {
	label = el.Tag
	if def != nil && def.Title != "" {
		label = def.Title
	}
	tooltip = firstNonEmpty(definitionTooltip(def), label)

	if id := el.SelectAttrValue("id", ""); id != "" {
		return id, tooltip
	}
	if uri := NodeURI(el); uri != "" {
		return StripQuery(uri), tooltip + " " + uri
	}
	if expr := c.leadingExpression(el); expr != "" {
		label += " " + expr
		tooltip += " " + expr
	}
	return label, tooltip
}

// leadingExpression returns the text of el's first child element when it
// is an expression.
func (c *Classifier) leadingExpression(el *etree.Element) string {
	children := el.ChildElements()
	if len(children) == 0 || !c.IsExpression(children[0].Tag) {
		return ""
	}
	first := children[0]
	if text := strings.TrimSpace(TextContent(first)); text != "" {
		return text
	}
	return first.SelectAttrValue(domain.KeyExpression, "")
}

func definitionTooltip(def *domain.StepDefinition) string {
	if def == nil {
		return ""
	}
	return firstNonEmpty(def.Tooltip, def.Description)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
