package dsl

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/adapters/memory"
)

// Namespace is the XML namespace of Spring XML route documents.
const Namespace = "http://camel.apache.org/schema/spring"

// Builder manages the document construction.
type Builder struct {
	doc  *etree.Document
	root *etree.Element
	errs []error
}

// New creates a new document builder whose root is a camelContext with the
// given id (no id attribute when empty).
func New(contextID string) *Builder {
	doc := etree.NewDocument()
	root := doc.CreateElement("camelContext")
	if contextID != "" {
		root.CreateAttr("id", contextID)
	}
	root.CreateAttr("xmlns", Namespace)
	return &Builder{doc: doc, root: root}
}

// Route adds a new route to the document.
func (b *Builder) Route(id string) *StepBuilder {
	el := b.root.CreateElement("route")
	if id != "" {
		el.CreateAttr("id", id)
	}
	return &StepBuilder{el: el, builder: b}
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// XML serializes the document, indented by two spaces.
func (b *Builder) XML() (string, error) {
	if err := errors.Join(b.errs...); err != nil {
		return "", err
	}
	doc := b.doc.Copy()
	doc.Indent(2)
	return doc.WriteToString()
}

// Build compiles the document into an in-memory route source.
func (b *Builder) Build() (*memory.Source, error) {
	xml, err := b.XML()
	if err != nil {
		return nil, fmt.Errorf("failed to build route document: %w", err)
	}
	return memory.NewSource(xml), nil
}
