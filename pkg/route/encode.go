package route

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// DefaultIndent is one level of indentation in generated XML.
const DefaultIndent = "  "

// IncreaseIndent returns indent nested one level deeper.
func IncreaseIndent(indent string) string {
	return indent + DefaultIndent
}

// Encoder writes records onto XML elements.
type Encoder struct {
	classifier *Classifier
	logger     *slog.Logger
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithClassifier lets the encoder drop stale language elements when an
// expression switches language. Without it, other language children are
// left in place.
func WithClassifier(c *Classifier) EncoderOption {
	return func(e *Encoder) {
		e.classifier = c
	}
}

// WithEncoderLogger sets the logger used for trace output.
func WithEncoderLogger(logger *slog.Logger) EncoderOption {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// NewEncoder creates an encoder.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode applies rec to target and returns it. When target is nil a new
// detached element named tag is created. indent is the indentation of
// target itself; new children are indented one level deeper.
func (e *Encoder) Encode(target *etree.Element, tag string, rec *domain.Record, indent string) *etree.Element {
	if target == nil {
		target = etree.NewElement(tag)
	}
	childIndent := IncreaseIndent(indent)
	rec.Range(func(key string, v domain.Value) bool {
		e.encodeValue(target, key, v, childIndent)
		return true
	})
	return target
}

func (e *Encoder) encodeValue(el *etree.Element, key string, v domain.Value, childIndent string) {
	switch v.Kind() {
	case domain.KindList:
		// item i takes the place of the i-th same-named child; extra items
		// follow the last one and leftover children are removed
		tag := e.listTag(key, v.Records())
		existing := childrenByTag(el, tag)
		at := &slot{index: len(el.Child)}
		items := v.Records()
		for i, item := range items {
			if i < len(existing) {
				placed := &slot{index: replaceChild(el, existing[i]), bare: true}
				e.encodeNode(el, key, item, childIndent, placed)
				if i == len(existing)-1 {
					at.index = placed.index
				}
				continue
			}
			e.encodeNode(el, key, item, childIndent, at)
		}
		for _, old := range existing[min(len(items), len(existing)):] {
			removeChild(el, old)
		}
	case domain.KindNode:
		e.encodeNode(el, key, v.Record(), childIndent, nil)
	case domain.KindScalar:
		switch {
		case key == domain.KeyText:
			el.SetText(v.String())
		case domain.IsInternalKey(key):
		default:
			el.CreateAttr(strings.TrimPrefix(key, ShadowPrefix), v.String())
		}
	default:
		if key == domain.KeyText {
			el.SetText("")
			return
		}
		el.RemoveAttr(strings.TrimPrefix(key, ShadowPrefix))
	}
}

// listTag is the tag a list stored under key occupies in the XML.
func (e *Encoder) listTag(key string, items []*domain.Record) string {
	if key == domain.KeyExpression && len(items) > 0 {
		if lang, _, ok := items[0].Expression(); ok {
			return lang
		}
	}
	return Unalias(key)
}

// slot is an insertion point among a parent's tokens. List items are
// written where the replaced elements used to be. A bare slot already has
// its indentation in front of it.
type slot struct {
	index int
	bare  bool
}

// encodeNode writes rec as a child of parent stored under key. A non-nil
// slot means list mode: a new child is always created there.
func (e *Encoder) encodeNode(parent *etree.Element, key string, rec *domain.Record, childIndent string, at *slot) {
	appendOnly := at != nil
	lang, text, isExpr := rec.Expression()

	if isExpr && key != domain.KeyExpression {
		// an unwrapped expression stored under a property name, such as
		// completionSizeExpression, goes back inside its wrapper element
		wrapper := e.child(parent, Unalias(key), childIndent, at)
		e.encodeNode(wrapper, domain.KeyExpression, rec, IncreaseIndent(childIndent), nil)
		return
	}

	if !isExpr {
		child := e.child(parent, Unalias(key), childIndent, at)
		e.Encode(child, "", rec, childIndent)
		return
	}

	if !appendOnly {
		e.dropOtherLanguages(parent, lang)
	}
	text = elementText(rec, text)
	existing := childrenByTag(parent, lang)
	var child *etree.Element
	if appendOnly || len(existing) == 0 {
		child = e.create(parent, lang, childIndent, at)
		if text != "" {
			child.CreateText(text)
		}
	} else {
		child = existing[0]
		child.SetText(text)
	}
	e.Encode(child, "", rec.Without(domain.KeyLanguage, domain.KeyExpression), childIndent)
}

// elementText is the text content written for an expression. An expression
// attribute equal to the expression means the element had no text of its own.
func elementText(rec *domain.Record, text string) string {
	if attr, ok := rec.Get(shadowKey(domain.KeyExpression)); ok && attr.String() == text {
		return ""
	}
	return text
}

// child returns the existing child named tag, or creates a new one.
func (e *Encoder) child(parent *etree.Element, tag, childIndent string, at *slot) *etree.Element {
	if at == nil {
		if existing := childrenByTag(parent, tag); len(existing) > 0 {
			return existing[0]
		}
	}
	return e.create(parent, tag, childIndent, at)
}

// create adds a new child preceded by a newline and indentation, at the
// slot when one is given and at the end otherwise.
func (e *Encoder) create(parent *etree.Element, tag, childIndent string, at *slot) *etree.Element {
	tag = newChildTag(parent, tag)
	if at != nil && at.bare {
		child := etree.NewElement(tag)
		parent.InsertChildAt(at.index, child)
		at.index++
		at.bare = false
		return child
	}
	if at == nil || at.index >= len(parent.Child) {
		parent.CreateText("\n" + childIndent)
		child := parent.CreateElement(tag)
		if at != nil {
			at.index = len(parent.Child)
		}
		return child
	}
	child := etree.NewElement(tag)
	parent.InsertChildAt(at.index, etree.NewText("\n"+childIndent))
	parent.InsertChildAt(at.index+1, child)
	at.index += 2
	return child
}

func (e *Encoder) dropOtherLanguages(parent *etree.Element, lang string) {
	if e.classifier == nil {
		return
	}
	for _, child := range parent.ChildElements() {
		if child.Tag == lang || child.Tag == TagExpression {
			continue
		}
		if e.classifier.IsExpression(child.Tag) {
			e.logger.Debug("replacing expression language", "from", child.Tag, "to", lang)
			removeChild(parent, child)
		}
	}
}

// StripInternal returns a copy of el without internal bookkeeping
// attributes such as _cid, at any depth.
func StripInternal(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	out := el.Copy()
	stripInternal(out)
	return out
}

func stripInternal(el *etree.Element) {
	var keep []etree.Attr
	for _, attr := range el.Attr {
		if attr.Space == "" && domain.IsInternalKey(attr.Key) {
			continue
		}
		keep = append(keep, attr)
	}
	el.Attr = keep
	for _, child := range el.ChildElements() {
		stripInternal(child)
	}
}
