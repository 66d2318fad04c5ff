package diagram

import (
	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/route"
)

// fold appends an expression child to its parent's label and tooltip.
func fold(parent *domain.DiagramNode, el *etree.Element, lang *domain.LanguageSettings) {
	name := el.Tag
	if lang != nil && lang.Name != "" {
		name = lang.Name
	}
	if text := route.TextContent(el); text != "" {
		parent.Tooltip = parent.Label + " " + name + " " + text
		parent.Label += ": " + appendLabel(el, text, true)
		return
	}
	parent.Label += ": " + appendLabel(el, name, false)
}

// appendLabel adds the bean coordinates of a <method> expression. With
// hasText the bean is already named by the text and only the method is added.
func appendLabel(el *etree.Element, label string, hasText bool) string {
	if el.Tag != "method" {
		return label
	}
	if !hasText {
		for _, attr := range []string{"bean", "ref", "beanType"} {
			if v := el.SelectAttrValue(attr, ""); v != "" {
				label += " " + v
				break
			}
		}
	}
	if method := el.SelectAttrValue("method", ""); method != "" {
		label += " " + method
	}
	return label
}
