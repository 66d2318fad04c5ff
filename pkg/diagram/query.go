package diagram

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// ErrInvalidQuery is returned when a node query does not compile.
var ErrInvalidQuery = errors.New("invalid node query")

// Query is a compiled node filter, such as `step == "to" && uri startsWith "jms:"`.
// Fields are addressed by the expr tags of domain.DiagramNode.
type Query struct {
	source  string
	program *vm.Program
}

// CompileQuery parses a boolean expression over diagram node fields.
func CompileQuery(source string) (*Query, error) {
	program, err := expr.Compile(source, expr.Env(domain.DiagramNode{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidQuery, source, err)
	}
	return &Query{source: source, program: program}, nil
}

// Match reports whether n satisfies the query.
func (q *Query) Match(n *domain.DiagramNode) (bool, error) {
	if n == nil {
		return false, nil
	}
	out, err := expr.Run(q.program, *n)
	if err != nil {
		return false, fmt.Errorf("node query %q: %w", q.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter returns the nodes of d that satisfy the query, in id order.
func (q *Query) Filter(d *domain.Diagram) ([]*domain.DiagramNode, error) {
	if d == nil {
		return nil, nil
	}
	var out []*domain.DiagramNode
	for _, n := range d.Nodes {
		ok, err := q.Match(n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// String returns the query source.
func (q *Query) String() string {
	return q.source
}
