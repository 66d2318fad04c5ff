package route

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
)

// Assembler builds the route outline shown by tree widgets.
type Assembler struct {
	classifier *Classifier
	logger     *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithAssemblerLogger sets the logger used for trace output.
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates an assembler over the given schema snapshot.
func NewAssembler(lookup ports.SchemaLookup, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		classifier: NewClassifier(lookup),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Outlines builds one outline per route found at or below root. Route keys
// are prefixed with rootKey.
func (a *Assembler) Outlines(root *etree.Element, rootKey string) []*domain.RouteStepNode {
	container := &domain.RouteStepNode{Key: rootKey}
	for _, r := range Routes(root) {
		id := firstNonEmpty(r.SelectAttrValue("id", ""), r.Tag)
		key := uniqueKey(container, nil, joinKey(rootKey, SafeID(id)), 0)
		container.Children = append(container.Children, a.Outline(r, key))
	}
	return container.Children
}

// Outline builds the outline of a single route, tagging the route element
// with key as its correlation id.
func (a *Assembler) Outline(r *etree.Element, key string) *domain.RouteStepNode {
	def, _ := a.classifier.Definition(r.Tag)
	label, tooltip := a.classifier.Describe(r, def)
	node := &domain.RouteStepNode{
		Key:     key,
		Type:    r.Tag,
		Label:   label,
		Tooltip: tooltip,
		Icon:    schema.IconPath(def),
		Element: r,
	}
	r.CreateAttr(domain.KeyCID, key)
	node.Children = a.Build(node, r)
	return node
}

// Build creates outline nodes for the step children of el. Non-step
// children are skipped; foreign XML is not an error.
func (a *Assembler) Build(parent *domain.RouteStepNode, el *etree.Element) []*domain.RouteStepNode {
	var nodes []*domain.RouteStepNode
	for _, child := range el.ChildElements() {
		def, ok := a.classifier.Definition(child.Tag)
		if !ok {
			a.logger.Debug("skipping non-step element", "tag", child.Tag)
			continue
		}

		label, tooltip := a.classifier.Describe(child, def)
		id := firstNonEmpty(child.SelectAttrValue("id", ""), child.Tag)
		key := uniqueKey(parent, nodes, parent.Key+"_"+SafeID(id), 1)
		node := &domain.RouteStepNode{
			Key:     key,
			Type:    child.Tag,
			Label:   label,
			Tooltip: tooltip,
			Icon:    schema.IconPath(def),
			Element: child,
		}
		child.CreateAttr(domain.KeyCID, key)
		node.Children = a.Build(node, child)
		nodes = append(nodes, node)
	}
	return nodes
}

// uniqueKey returns base followed by the lowest counter, starting at first,
// that no sibling uses. A zero first tries base on its own before counting
// from 2.
func uniqueKey(parent *domain.RouteStepNode, created []*domain.RouteStepNode, base string, first int) string {
	taken := func(k string) bool {
		for _, n := range created {
			if n.Key == k {
				return true
			}
		}
		if parent != nil {
			for _, n := range parent.Children {
				if n.Key == k {
					return true
				}
			}
		}
		return false
	}
	counter := first
	if first == 0 {
		if !taken(base) {
			return base
		}
		counter = 2
	}
	for {
		k := base + strconv.Itoa(counter)
		if !taken(k) {
			return k
		}
		counter++
	}
}

func joinKey(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// SafeID replaces every character that is not a letter, digit, '-' or '_'
// so the result can serve as a DOM id or tree key.
func SafeID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
