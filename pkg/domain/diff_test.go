package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	base := func() *Record {
		return NewRecord().
			SetString(KeyCID, "ctx_orders_log1").
			SetString("message", "hello").
			SetString("loggingLevel", "INFO")
	}

	tests := []struct {
		name        string
		old         *Record
		new         *Record
		wantChanged []string
		wantRemoved []string
		wantNil     bool
	}{
		{
			name:        "initial load",
			old:         nil,
			new:         base(),
			wantChanged: []string{"loggingLevel", "message"},
		},
		{
			name:    "no changes",
			old:     base(),
			new:     base(),
			wantNil: true,
		},
		{
			name:    "cid is ignored",
			old:     base(),
			new:     base().SetString(KeyCID, "other"),
			wantNil: true,
		},
		{
			name:        "modified and added",
			old:         base(),
			new:         base().SetString("message", "bye").SetString("logName", "audit"),
			wantChanged: []string{"logName", "message"},
		},
		{
			name:        "removed",
			old:         base(),
			new:         base().Without("loggingLevel"),
			wantRemoved: []string{"loggingLevel"},
		},
		{
			name:        "absent counts as removed",
			old:         base(),
			new:         base().Set("loggingLevel", Absent()),
			wantRemoved: []string{"loggingLevel"},
		},
		{
			name:        "nested expression",
			old:         NewRecord().Set(KeyExpression, Node(NewExpression("simple", "${body}"))),
			new:         NewRecord().Set(KeyExpression, Node(NewExpression("header", "foo"))),
			wantChanged: []string{KeyExpression},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.old, tt.new)
			if tt.wantNil {
				assert.Nil(t, d)
				assert.True(t, d.IsEmpty())
				return
			}
			require.NotNil(t, d)
			var changed []string
			for k := range d.Changed {
				changed = append(changed, k)
			}
			assert.ElementsMatch(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantRemoved, d.Removed)
		})
	}
}

func TestRecordDiff_KeysAndJSON(t *testing.T) {
	old := NewRecord().SetString("uri", "jms:a").SetString("id", "x")
	d := Diff(old, NewRecord().SetString("uri", "jms:b"))
	require.NotNil(t, d)
	assert.Equal(t, []string{"id", "uri"}, d.Keys())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"changed":{"uri":"jms:b"},"removed":["id"]}`, string(data))

	var nilDiff *RecordDiff
	assert.Nil(t, nilDiff.Keys())
}
