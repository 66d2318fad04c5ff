// Package diagram lays out Camel routes as positioned boxes and links.
//
// The layout is deterministic: steps advance downwards by Delta, choice
// branches fan out to the right, and every branch end links to the step
// that follows the choice. Routes are placed side by side.
package diagram

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
	"github.com/woq-blended/hawtio-integration/pkg/route"
	"github.com/woq-blended/hawtio-integration/pkg/schema"
	"github.com/woq-blended/hawtio-integration/pkg/settings"
)

// Delta is the distance between neighbouring boxes, in both directions.
const Delta = 150.0

// TruncationMarker is appended to labels cut at the maximum width.
const TruncationMarker = ".."

// Builder turns route XML into a Diagram.
type Builder struct {
	classifier *route.Classifier
	icons      ports.IconLookup
	settings   settings.Settings
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithIcons sets the endpoint icon lookup used for from and to steps.
func WithIcons(icons ports.IconLookup) Option {
	return func(b *Builder) {
		b.icons = icons
	}
}

// WithSettings sets label width, id handling and diagram width.
func WithSettings(s settings.Settings) Option {
	return func(b *Builder) {
		b.settings = s
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a builder over the given schema snapshot.
func NewBuilder(lookup ports.SchemaLookup, opts ...Option) *Builder {
	b := &Builder{
		classifier: route.NewClassifier(lookup),
		settings:   settings.Default(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build lays out every route at or below root. When routeID is set only
// that route, and routes without an id, are rendered. Horizontal space is
// divided evenly between the rendered routes, widening as needed so that
// routes never overlap.
func (b *Builder) Build(root *etree.Element, routeID string) *domain.Diagram {
	d := &domain.Diagram{
		RouteNodes: make(map[string]int),
		CIDs:       make(map[string]int),
	}

	var selected []*etree.Element
	for _, r := range route.Routes(root) {
		id := r.SelectAttrValue("id", "")
		if routeID == "" || id == "" || id == routeID {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		return d
	}

	routeDelta := float64(b.settings.DiagramWidth) / float64(len(selected))
	rowX := 0.0
	for _, r := range selected {
		w := &walker{b: b, d: d}
		start := len(d.Nodes)
		w.walk(r, &cursor{
			parentID:  -1,
			parentTag: r.Tag,
			rid:       r.SelectAttrValue("id", ""),
			x:         rowX,
			y:         Delta,
		})
		next := rowX + routeDelta
		if maxX, _, ok := bounds(d, start); ok && maxX+Delta > next {
			next = maxX + Delta
		}
		rowX = next
		b.logger.Debug("route laid out", "route", r.SelectAttrValue("id", ""), "nodes", len(d.Nodes)-start)
	}
	return d
}

// cursor is the traversal state for the children of one element.
type cursor struct {
	// parentID is the node new children link from, or -1.
	parentID int
	// parentNode receives folded expressions; nil when the parent is not a step.
	parentNode *domain.DiagramNode
	parentTag  string
	// rid is the route id, claimed by the first from step.
	rid string
	// x, y is where the next child is placed.
	x, y float64
	// siblings are the nodes the next child links from instead of parentID.
	siblings []int
}

type walker struct {
	b *Builder
	d *domain.Diagram
}

func (w *walker) walk(el *etree.Element, cur *cursor) {
	for _, child := range el.ChildElements() {
		tag := child.Tag
		id := len(w.d.Nodes)
		if tag == "from" && cur.parentID < 0 {
			// from acts as the parent of the steps that follow it
			cur.parentID = id
		}

		cls := w.b.classifier.Classify(tag)
		switch cls.Class {
		case route.Step:
			w.step(child, cls.Definition, cur)
		case route.Expression:
			if cur.parentNode != nil {
				fold(cur.parentNode, child, cls.Language)
			}
		default:
			// plain elements are transparent: their steps join the current
			// sequence, but their expressions do not describe the parent
			parent := cur.parentNode
			cur.parentNode = nil
			w.walk(child, cur)
			cur.parentNode = parent
		}
	}
}

func (w *walker) step(el *etree.Element, def *domain.StepDefinition, cur *cursor) {
	id := len(w.d.Nodes)
	node := w.b.newNode(el, def, id, cur.x, cur.y, len(w.d.Nodes)+1)

	if cur.rid != "" && node.Type == "from" {
		node.RID = cur.rid
		if _, claimed := w.d.RouteNodes[cur.rid]; !claimed {
			w.d.RouteNodes[cur.rid] = id
		}
		cur.rid = ""
	}
	w.d.CIDs[node.CID] = id
	w.d.Nodes = append(w.d.Nodes, node)

	if cur.parentID >= 0 && cur.parentID != id {
		if len(cur.siblings) == 0 || cur.parentTag == "choice" {
			w.link(cur.parentID, id)
		} else {
			for _, s := range cur.siblings {
				w.link(s, id)
			}
			cur.siblings = nil
		}
	}

	sub := &cursor{
		parentID:   id,
		parentNode: node,
		parentTag:  el.Tag,
		x:          cur.x,
		y:          cur.y + Delta,
	}
	w.walk(el, sub)
	maxX, maxY, _ := bounds(w.d, id)

	switch {
	case cur.parentTag == "choice":
		ends := sub.siblings
		if len(ends) == 0 {
			ends = []int{id}
		}
		cur.siblings = append(cur.siblings, ends...)
		cur.x = max(cur.x+Delta, maxX+Delta)
	case el.Tag == "choice":
		cur.siblings = sub.siblings
		if len(cur.siblings) == 0 {
			cur.siblings = []int{id}
		}
		cur.y = max(cur.y+Delta, maxY+Delta)
	default:
		cur.siblings = []int{len(w.d.Nodes) - 1}
		cur.y = max(cur.y+Delta, maxY+Delta)
	}
}

func (w *walker) link(source, target int) {
	w.d.Links = append(w.d.Links, domain.DiagramLink{Source: source, Target: target, Value: 1})
}

// bounds returns the largest coordinates of the nodes from index start on.
func bounds(d *domain.Diagram, start int) (maxX, maxY float64, ok bool) {
	for _, n := range d.Nodes[start:] {
		if !ok || n.X > maxX {
			maxX = n.X
		}
		if !ok || n.Y > maxY {
			maxY = n.Y
		}
		ok = true
	}
	return maxX, maxY, ok
}

// newNode computes the display fields of a step box. seq is used to
// synthesize a correlation id when the element has none.
func (b *Builder) newNode(el *etree.Element, def *domain.StepDefinition, id int, x, y float64, seq int) *domain.DiagramNode {
	tag := el.Tag
	label := tag
	if def != nil && def.Title != "" {
		label = def.Title
	}
	uri := route.NodeURI(el)
	if uri != "" {
		label += " " + route.StripQuery(uri)
	}
	tooltip := label
	if def != nil {
		if def.Tooltip != "" {
			tooltip = def.Tooltip
		} else if def.Description != "" {
			tooltip = def.Description
		}
	}
	if uri != "" {
		tooltip += " " + uri
	}

	elementID := el.SelectAttrValue("id", "")
	summary := label
	if elementID != "" {
		customID := el.SelectAttrValue("customId", "")
		if b.settings.IgnoreIDForLabel || customID == "" || customID == "false" {
			summary = "id: " + elementID
		} else {
			label = elementID
		}
	}

	if limit := b.settings.MaximumLabelWidth; limit > 0 && utf8.RuneCountInString(label) > limit {
		full := label
		if summary != full {
			summary = full + "\n\n" + summary
		}
		label = string([]rune(full)[:limit]) + TruncationMarker
		if !strings.Contains(tooltip, full) {
			tooltip = full + "\n" + tooltip
		}
	}

	icon := schema.IconPath(def)
	if (tag == "from" || tag == "to") && uri != "" && b.icons != nil {
		if scheme := route.Scheme(uri); scheme != "" {
			if found, ok := b.icons.IconFor(scheme); ok {
				icon = found
			}
		}
	}

	cid := el.SelectAttrValue(domain.KeyCID, "")
	if cid == "" {
		cid = elementID
	}
	if cid == "" {
		cid = tag + strconv.Itoa(seq)
	}

	return &domain.DiagramNode{
		ID:           id,
		Label:        label,
		LabelSummary: summary,
		Tooltip:      tooltip,
		X:            x,
		Y:            y,
		Icon:         icon,
		CID:          cid,
		ElementID:    elementID,
		Type:         tag,
		URI:          uri,
	}
}
