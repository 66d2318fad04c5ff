package dsl

import "github.com/beevik/etree"

// StepBuilder provides a fluent API for adding steps to a route or to a block step.
type StepBuilder struct {
	el      *etree.Element
	parent  *StepBuilder
	builder *Builder
}

func (s *StepBuilder) leaf(tag string, attrs ...string) *StepBuilder {
	el := s.el.CreateElement(tag)
	s.setAttrs(el, attrs)
	return s
}

func (s *StepBuilder) block(tag string, attrs ...string) *StepBuilder {
	el := s.el.CreateElement(tag)
	s.setAttrs(el, attrs)
	return &StepBuilder{el: el, parent: s, builder: s.builder}
}

func (s *StepBuilder) setAttrs(el *etree.Element, attrs []string) {
	if len(attrs)%2 != 0 {
		s.builder.fail("%s: odd number of attribute arguments", el.Tag)
		attrs = attrs[:len(attrs)-1]
	}
	for i := 0; i < len(attrs); i += 2 {
		el.CreateAttr(attrs[i], attrs[i+1])
	}
}

// expression appends a language element, e.g. <simple>${body}</simple>.
func (s *StepBuilder) expression(el *etree.Element, language, text string) {
	if language == "" {
		s.builder.fail("%s: expression language is required", el.Tag)
		return
	}
	el.CreateElement(language).SetText(text)
}

// Attr sets an attribute on the route or block step itself.
func (s *StepBuilder) Attr(key, value string) *StepBuilder {
	s.el.CreateAttr(key, value)
	return s
}

// From adds a consumer endpoint.
func (s *StepBuilder) From(uri string) *StepBuilder {
	return s.leaf("from", "uri", uri)
}

// To adds a producer endpoint.
func (s *StepBuilder) To(uri string) *StepBuilder {
	return s.leaf("to", "uri", uri)
}

// ToD adds a dynamic producer endpoint.
func (s *StepBuilder) ToD(uri string) *StepBuilder {
	return s.leaf("toD", "uri", uri)
}

// Log adds a log step.
func (s *StepBuilder) Log(message string) *StepBuilder {
	return s.leaf("log", "message", message)
}

// Bean adds a bean invocation.
func (s *StepBuilder) Bean(ref, method string) *StepBuilder {
	if method == "" {
		return s.leaf("bean", "ref", ref)
	}
	return s.leaf("bean", "ref", ref, "method", method)
}

// SetBody replaces the message body with the value of an expression.
func (s *StepBuilder) SetBody(language, text string) *StepBuilder {
	el := s.el.CreateElement("setBody")
	s.expression(el, language, text)
	return s
}

// SetHeader sets a header to the value of an expression.
func (s *StepBuilder) SetHeader(name, language, text string) *StepBuilder {
	el := s.el.CreateElement("setHeader")
	el.CreateAttr("name", name)
	s.expression(el, language, text)
	return s
}

// Leaf adds any step without children; attrs are key/value pairs.
func (s *StepBuilder) Leaf(tag string, attrs ...string) *StepBuilder {
	return s.leaf(tag, attrs...)
}

// Step opens any block step; attrs are key/value pairs.
func (s *StepBuilder) Step(tag string, attrs ...string) *StepBuilder {
	return s.block(tag, attrs...)
}

// Filter opens a filter block guarded by a predicate.
func (s *StepBuilder) Filter(language, text string) *StepBuilder {
	b := s.block("filter")
	s.expression(b.el, language, text)
	return b
}

// Split opens a split block over the result of an expression.
func (s *StepBuilder) Split(language, text string) *StepBuilder {
	b := s.block("split")
	s.expression(b.el, language, text)
	return b
}

// Choice opens a content based router. Add branches with When and Otherwise.
func (s *StepBuilder) Choice() *StepBuilder {
	return s.block("choice")
}

// When opens a conditional branch. It must be called on a Choice.
func (s *StepBuilder) When(language, text string) *StepBuilder {
	if s.el.Tag != "choice" {
		s.builder.fail("when: must be added to a choice, not %s", s.el.Tag)
	}
	b := s.block("when")
	s.expression(b.el, language, text)
	return b
}

// Otherwise opens the fallback branch. It must be called on a Choice.
func (s *StepBuilder) Otherwise() *StepBuilder {
	if s.el.Tag != "choice" {
		s.builder.fail("otherwise: must be added to a choice, not %s", s.el.Tag)
	}
	return s.block("otherwise")
}

// End closes the current block and returns the enclosing one. On a route it
// returns the route itself.
func (s *StepBuilder) End() *StepBuilder {
	if s.parent == nil {
		return s
	}
	return s.parent
}
