package route

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
)

// aliases rename plain children whose names are overloaded between a
// literal option and a nested expression.
var aliases = map[string]string{
	"completionSize":    "completionSizeExpression",
	"completionTimeout": "completionTimeoutExpression",
}

// unaliases is the inverse of aliases.
var unaliases = func() map[string]string {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[v] = k
	}
	return m
}()

// Alias returns the record key used for a plain child tag.
func Alias(tag string) string {
	if a, ok := aliases[tag]; ok {
		return a
	}
	return tag
}

// Unalias returns the element tag for a record key.
func Unalias(key string) string {
	if t, ok := unaliases[key]; ok {
		return t
	}
	return key
}

// Decoder converts XML elements into records.
type Decoder struct {
	classifier *Classifier
	logger     *slog.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderLogger sets the logger used for trace output.
func WithDecoderLogger(logger *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// NewDecoder creates a decoder over the given schema snapshot.
func NewDecoder(lookup ports.SchemaLookup, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		classifier: NewClassifier(lookup),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Classifier returns the classifier shared with the decoder.
func (d *Decoder) Classifier() *Classifier {
	return d.classifier
}

// Decode converts el into a new record.
func (d *Decoder) Decode(el *etree.Element) *domain.Record {
	return d.DecodeInto(el, domain.NewRecord())
}

// DecodeInto copies el into acc and returns acc. A nil element leaves acc
// untouched.
func (d *Decoder) DecodeInto(el *etree.Element, acc *domain.Record) *domain.Record {
	if acc == nil {
		acc = domain.NewRecord()
	}
	if el == nil {
		return acc
	}

	for _, attr := range el.Attr {
		acc.SetString(attr.FullKey(), attr.Value)
	}

	if IsContainer(el.Tag) {
		return acc
	}

	for _, child := range el.ChildElements() {
		cls := d.classifier.Classify(child.Tag)
		switch cls.Class {
		case Expression:
			if child.Tag == TagExpression && hasElementChildren(child) {
				// <expression><simple>..</simple></expression> wraps a real language
				d.decodePlain(acc, child)
				continue
			}
			acc.Set(domain.KeyExpression, domain.Node(d.expression(child)))
		case Plain:
			d.decodePlain(acc, child)
		case Step:
			// nested steps become outline children, not record fields
		}
	}

	if !hasElementChildren(el) {
		if text := strings.TrimSpace(TextContent(el)); text != "" && !acc.Has(domain.KeyText) {
			acc.SetString(domain.KeyText, text)
		}
	}
	return acc
}

// ShadowPrefix marks the record keys of language element attributes that
// share a name with the expression record's own fields, such as the
// language attribute of <language language="groovy">.
const ShadowPrefix = "@"

func shadowKey(attr string) string {
	return ShadowPrefix + attr
}

// expression builds an ExpressionRecord from a language element. Extra
// attributes of the element ride along so they survive a round trip.
func (d *Decoder) expression(el *etree.Element) *domain.Record {
	text := TextContent(el)
	if text == "" {
		text = el.SelectAttrValue(domain.KeyExpression, "")
	}
	rec := domain.NewExpression(el.Tag, text)
	for _, attr := range el.Attr {
		key := attr.FullKey()
		if key == domain.KeyLanguage || key == domain.KeyExpression {
			key = shadowKey(key)
		}
		rec.SetString(key, attr.Value)
	}
	return rec
}

func (d *Decoder) decodePlain(acc *domain.Record, el *etree.Element) {
	nested := d.Decode(el)
	if inner := nested.Child(domain.KeyExpression); inner != nil {
		nested = inner
	}

	key := Alias(el.Tag)
	if el.Tag == TagExpression {
		key = domain.KeyExpression
	}

	// repeated plain children collect into a list
	prev, ok := acc.Get(key)
	switch {
	case !ok:
		acc.Set(key, domain.Node(nested))
	case prev.Kind() == domain.KindList:
		acc.Set(key, domain.List(append(prev.Records(), nested)...))
	case prev.Kind() == domain.KindNode:
		d.logger.Debug("repeated child collected into list", "tag", el.Tag)
		acc.Set(key, domain.List(prev.Record(), nested))
	default:
		acc.Set(key, domain.Node(nested))
	}
}
