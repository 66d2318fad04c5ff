package domain

import "github.com/beevik/etree"

// RouteStepNode is one entry of the route outline shown by a tree widget.
// It is rebuilt whenever the owning route is reloaded.
type RouteStepNode struct {
	Key      string           `json:"key"`
	Type     string           `json:"type"`
	Label    string           `json:"label"`
	Tooltip  string           `json:"tooltip,omitempty"`
	Icon     string           `json:"icon,omitempty"`
	Children []*RouteStepNode `json:"children,omitempty"`

	// Record holds edited properties. When nil the properties are decoded
	// from Element.
	Record *Record `json:"data,omitempty"`

	// Element is the XML the node was built from. New nodes created by an
	// editor may leave it nil.
	Element *etree.Element `json:"-"`
}

// Find returns the first node in the subtree (including n) with the given key.
func (n *RouteStepNode) Find(key string) *RouteStepNode {
	if n == nil {
		return nil
	}
	if n.Key == key {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(key); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the subtree depth-first, parents before children.
func (n *RouteStepNode) Walk(fn func(*RouteStepNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
