package domain

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindAbsent marks a field with no value. Encoding it removes the attribute.
	KindAbsent Kind = iota
	// KindScalar is a plain string, serialized as an XML attribute.
	KindScalar
	// KindNode is a nested Record, serialized as a child element.
	KindNode
	// KindList is a sequence of Records, serialized as repeated child elements.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindNode:
		return "node"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is one field of a Record: Absent | Scalar(string) | Node(Record) | List([]Record).
// The zero Value is Absent.
type Value struct {
	kind   Kind
	scalar string
	node   *Record
	list   []*Record
}

// Absent returns the empty value.
func Absent() Value { return Value{} }

// Scalar wraps a string. An empty string is still a value, unlike Absent.
func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Node wraps a nested record. A nil record yields Absent.
func Node(r *Record) Value {
	if r == nil {
		return Value{}
	}
	return Value{kind: KindNode, node: r}
}

// List wraps a sequence of records.
func List(items ...*Record) Value {
	return Value{kind: KindList, list: items}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is Absent.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// String returns the scalar text, or "" for any other variant.
func (v Value) String() string {
	if v.kind != KindScalar {
		return ""
	}
	return v.scalar
}

// Record returns the nested record for KindNode, nil otherwise.
func (v Value) Record() *Record {
	if v.kind != KindNode {
		return nil
	}
	return v.node
}

// Records returns the items for KindList, nil otherwise.
func (v Value) Records() []*Record {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindNode:
		return Node(v.node.Clone())
	case KindList:
		items := make([]*Record, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return List(items...)
	default:
		return v
	}
}

// Equal compares two values structurally, including field order of nested records.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindNode:
		return v.node.Equal(o.node)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
