package domain

// DiagramNode is a positioned box of the route diagram.
type DiagramNode struct {
	ID           int     `json:"id" expr:"id"`
	Label        string  `json:"label" expr:"label"`
	LabelSummary string  `json:"labelSummary" expr:"summary"`
	Tooltip      string  `json:"tooltip" expr:"tooltip"`
	X            float64 `json:"x" expr:"x"`
	Y            float64 `json:"y" expr:"y"`
	Icon         string  `json:"imageUrl,omitempty" expr:"icon"`
	CID          string  `json:"cid,omitempty" expr:"cid"`
	RID          string  `json:"rid,omitempty" expr:"rid"`
	ElementID    string  `json:"elementId,omitempty" expr:"elementId"`
	Type         string  `json:"type" expr:"step"`
	URI          string  `json:"uri,omitempty" expr:"uri"`
	Selected     bool    `json:"selected,omitempty" expr:"selected"`
}

// DiagramLink is a directed edge between two node ids.
type DiagramLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// Diagram is the result of one diagram build.
type Diagram struct {
	Nodes []*DiagramNode `json:"nodes"`
	Links []DiagramLink  `json:"links"`

	// RouteNodes maps a route id to the id of its anchor node.
	RouteNodes map[string]int `json:"routeNodes,omitempty"`
	// CIDs maps correlation ids to node ids.
	CIDs map[string]int `json:"cids,omitempty"`
}

// Node returns the node with the given id, or nil.
func (d *Diagram) Node(id int) *DiagramNode {
	if d == nil || id < 0 || id >= len(d.Nodes) {
		return nil
	}
	return d.Nodes[id]
}
