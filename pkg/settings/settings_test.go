package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 34, s.MaximumLabelWidth)
	assert.Equal(t, 5000, s.MaximumTraceOrDebugBodyLength)
	assert.False(t, s.TraceOrDebugIncludeStreams)
	assert.True(t, s.ShowInflightCounter)
	assert.Equal(t, 10, s.RouteMetricMaxSeconds)
	assert.False(t, s.IgnoreIDForLabel)
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		check func(t *testing.T, s Settings)
	}{
		{
			name:  "numeric strings",
			input: map[string]any{"camelMaximumLabelWidth": "20", "camelRouteMetricMaxSeconds": "30"},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, 20, s.MaximumLabelWidth)
				assert.Equal(t, 30, s.RouteMetricMaxSeconds)
			},
		},
		{
			name:  "garbage numbers fall back",
			input: map[string]any{"camelMaximumLabelWidth": "wide", "camelMaximumTraceOrDebugBodyLength": 0},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, DefaultMaximumLabelWidth, s.MaximumLabelWidth)
				assert.Equal(t, DefaultMaximumTraceOrDebugBodyLength, s.MaximumTraceOrDebugBodyLength)
			},
		},
		{
			name:  "boolean spellings",
			input: map[string]any{"camelIgnoreIdForLabel": "yes", "camelShowInflightCounter": "false", "camelHideOptionDocumentation": true},
			check: func(t *testing.T, s Settings) {
				assert.True(t, s.IgnoreIDForLabel)
				assert.False(t, s.ShowInflightCounter)
				assert.True(t, s.HideOptionDocumentation)
			},
		},
		{
			name:  "unknown keys ignored",
			input: map[string]any{"somethingElse": 1},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, Default(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromMap(tt.input)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestFromStrings(t *testing.T) {
	s, err := FromStrings(map[string]string{"camelDiagramWidth": "800"})
	require.NoError(t, err)
	assert.Equal(t, 800, s.DiagramWidth)
}
