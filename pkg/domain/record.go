package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// InternalPrefix marks bookkeeping keys that never reach the XML as attributes.
	InternalPrefix = "_"

	// KeyExpression holds an ExpressionRecord on a step, and the expression text inside it.
	KeyExpression = "expression"
	// KeyLanguage holds the expression-language name inside an ExpressionRecord.
	KeyLanguage = "language"
	// KeyCID is the back-reference attribute linking an XML element to its outline node.
	KeyCID = "_cid"
	// KeyText holds the text content of a leaf element that is neither a
	// step nor an expression, such as <description>.
	KeyText = "_text"
)

// IsInternalKey reports whether key is reserved bookkeeping.
func IsInternalKey(key string) bool {
	return strings.HasPrefix(key, InternalPrefix)
}

// Record is the generic, insertion-ordered attribute model of one XML element.
// The zero value is not usable; call NewRecord.
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, Value]()}
}

// NewExpression builds an ExpressionRecord {language, expression}.
func NewExpression(language, text string) *Record {
	return NewRecord().
		Set(KeyLanguage, Scalar(language)).
		Set(KeyExpression, Scalar(text))
}

// Set stores v under key. Re-setting an existing key keeps its position.
func (r *Record) Set(key string, v Value) *Record {
	r.fields.Set(key, v)
	return r
}

// SetString is shorthand for Set(key, Scalar(s)).
func (r *Record) SetString(key, s string) *Record {
	return r.Set(key, Scalar(s))
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	return r.fields.Get(key)
}

// String returns the scalar under key, or "".
func (r *Record) String(key string) string {
	v, _ := r.Get(key)
	return v.String()
}

// Child returns the nested record under key, or nil.
func (r *Record) Child(key string) *Record {
	v, _ := r.Get(key)
	return v.Record()
}

// Has reports whether key is present (even if Absent).
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key.
func (r *Record) Delete(key string) {
	r.fields.Delete(key)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	r.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Range calls fn for each field in insertion order until fn returns false.
func (r *Record) Range(fn func(key string, v Value) bool) {
	if r == nil {
		return
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Expression returns the language and text when the record is an ExpressionRecord.
func (r *Record) Expression() (language, text string, ok bool) {
	lang, hasLang := r.Get(KeyLanguage)
	if !hasLang || lang.Kind() != KindScalar || lang.String() == "" {
		return "", "", false
	}
	expr, _ := r.Get(KeyExpression)
	return lang.String(), expr.String(), true
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := NewRecord()
	r.Range(func(key string, v Value) bool {
		out.Set(key, v.Clone())
		return true
	})
	return out
}

// Without returns a copy lacking the given keys.
func (r *Record) Without(keys ...string) *Record {
	out := r.Clone()
	for _, k := range keys {
		out.Delete(k)
	}
	return out
}

// Equal compares field names, order and values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r.Len() == 0 && o.Len() == 0
	}
	if r.Len() != o.Len() {
		return false
	}
	a, b := r.fields.Oldest(), o.fields.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
		a, b = a.Next(), b.Next()
	}
	return true
}

// AsMap converts the record to plain Go values (string, map[string]any, []any).
// Order is lost; use it for query engines, not for re-encoding.
func (r *Record) AsMap() map[string]any {
	out := make(map[string]any, r.Len())
	r.Range(func(key string, v Value) bool {
		out[key] = v.plain()
		return true
	})
	return out
}

func (v Value) plain() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindNode:
		return v.node.AsMap()
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.AsMap()
		}
		return items
	default:
		return nil
	}
}

// MarshalJSON writes the record as an object, keeping field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	first := true
	r.Range(func(key string, v Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var k, val []byte
		if k, err = json.Marshal(key); err != nil {
			return false
		}
		if val, err = v.MarshalJSON(); err != nil {
			return false
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes scalars as strings, nodes as objects, lists as arrays, absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindNode:
		return v.node.MarshalJSON()
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reads an object preserving key order. Numbers and booleans
// become scalars, null becomes Absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	r.fields = decoded.fields
	return nil
}

func decodeObject(dec *json.Decoder) (*Record, error) {
	out := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("record: expected key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("record: field %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Node(rec), nil
		case '[':
			var items []*Record
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if item.Kind() != KindNode {
					return Value{}, fmt.Errorf("list items must be objects")
				}
				items = append(items, item.Record())
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return Scalar(t), nil
	case json.Number:
		return Scalar(t.String()), nil
	case bool:
		if t {
			return Scalar("true"), nil
		}
		return Scalar("false"), nil
	case nil:
		return Absent(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}
