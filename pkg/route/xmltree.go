package route

import (
	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// TypeEndpoint is the role-neutral outline type of from and to steps.
const TypeEndpoint = "endpoint"

// StepType returns the outline type of a node: from and to collapse to
// "endpoint" because their role is positional.
func StepType(node *domain.RouteStepNode) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case "from", "to":
		return TypeEndpoint
	}
	return node.Type
}

// TreeWriter regenerates route XML from an outline. Records come from
// node.Record when set, and from the cache otherwise.
type TreeWriter struct {
	cache   *RecordCache
	encoder *Encoder
}

// NewTreeWriter creates a writer.
func NewTreeWriter(cache *RecordCache, enc *Encoder) *TreeWriter {
	return &TreeWriter{cache: cache, encoder: enc}
}

// BuildXML writes the outline rooted at node as XML. When target is nil a
// new element is created for node itself. indent is the indentation of the
// target element.
//
// Endpoint roles are assigned by position: under a route the first
// endpoint becomes "from" and the rest "to"; elsewhere every endpoint is
// "to". Expression nodes are written as elements named after their
// language, with the expression as text.
func (w *TreeWriter) BuildXML(node *domain.RouteStepNode, target *etree.Element, indent string) *etree.Element {
	if node == nil {
		return target
	}
	if target == nil {
		tag := node.Type
		if StepType(node) == TypeEndpoint {
			tag = "from"
		}
		target = w.encoder.Encode(nil, tag, w.record(node), indent)
	}

	parentType := StepType(node)
	fromAssigned := parentType != "route"
	childIndent := IncreaseIndent(indent)
	written := 0

	for _, child := range node.Children {
		name := StepType(child)
		rec := w.record(child)
		if name == "" {
			continue
		}
		if name == TypeEndpoint {
			if fromAssigned {
				name = "to"
			} else {
				name = "from"
				fromAssigned = true
			}
		}

		var text string
		hasText := false
		if name == TagExpression {
			if lang, expr, ok := rec.Expression(); ok {
				name, text, hasText = lang, elementText(rec, expr), true
				rec = rec.Without(domain.KeyLanguage, domain.KeyExpression)
			}
		}

		target.CreateText("\n" + childIndent)
		el := target.CreateElement(newChildTag(target, name))
		if hasText && text != "" {
			el.CreateText(text)
		}
		w.encoder.Encode(el, name, rec, childIndent)
		written++
		w.BuildXML(child, el, childIndent)
	}
	if written > 0 {
		target.CreateText("\n" + indent)
	}
	return target
}

func (w *TreeWriter) record(node *domain.RouteStepNode) *domain.Record {
	if node.Record != nil {
		return node.Record
	}
	if node.Element != nil && w.cache != nil {
		return w.cache.Record(node.Element)
	}
	return domain.NewRecord()
}
