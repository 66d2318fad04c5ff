package domain

import "sort"

// RecordDiff represents the property changes between two records of the same step.
// It is designed to be serialized to JSON for partial updates on the client.
type RecordDiff struct {
	// Changed contains added or modified properties with their new value.
	Changed map[string]Value `json:"changed,omitempty"`
	// Removed lists the properties present before and absent now.
	Removed []string `json:"removed,omitempty"`
}

// Diff calculates the difference between oldRec and newRec.
// If oldRec is nil, every property of newRec is reported as changed.
// The outline back-reference is ignored. Nil is returned when nothing changed.
func Diff(oldRec, newRec *Record) *RecordDiff {
	diff := &RecordDiff{Changed: make(map[string]Value)}

	newRec.Range(func(key string, v Value) bool {
		if key == KeyCID || v.IsAbsent() {
			return true
		}
		old, ok := oldRec.Get(key)
		if !ok || !old.Equal(v) {
			diff.Changed[key] = v
		}
		return true
	})

	oldRec.Range(func(key string, v Value) bool {
		if key == KeyCID || v.IsAbsent() {
			return true
		}
		if cur, ok := newRec.Get(key); !ok || cur.IsAbsent() {
			diff.Removed = append(diff.Removed, key)
		}
		return true
	})

	if diff.IsEmpty() {
		return nil
	}
	if len(diff.Changed) == 0 {
		diff.Changed = nil
	}
	return diff
}

// IsEmpty checks if the diff contains any change.
func (d *RecordDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Removed) == 0)
}

// Keys returns the changed and removed property names, sorted.
func (d *RecordDiff) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Changed)+len(d.Removed))
	for k := range d.Changed {
		keys = append(keys, k)
	}
	keys = append(keys, d.Removed...)
	sort.Strings(keys)
	return keys
}
