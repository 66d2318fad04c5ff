// Package settings holds the user-tunable knobs of the route views.
//
// Values arrive from loosely typed stores (browser-style key/value storage,
// environment, YAML), so decoding is lenient: numeric strings become numbers,
// "true"/"yes"/"1" become booleans, and unusable numbers fall back to defaults.
package settings

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	DefaultMaximumLabelWidth             = 34
	DefaultMaximumTraceOrDebugBodyLength = 5000
	DefaultTraceOrDebugIncludeStreams    = false
	DefaultShowInflightCounter           = true
	DefaultRouteMetricMaxSeconds         = 10
	DefaultDiagramWidth                  = 1200
)

// Settings is the full set of view preferences.
type Settings struct {
	MaximumLabelWidth             int  `mapstructure:"camelMaximumLabelWidth" json:"camelMaximumLabelWidth"`
	IgnoreIDForLabel              bool `mapstructure:"camelIgnoreIdForLabel" json:"camelIgnoreIdForLabel"`
	MaximumTraceOrDebugBodyLength int  `mapstructure:"camelMaximumTraceOrDebugBodyLength" json:"camelMaximumTraceOrDebugBodyLength"`
	TraceOrDebugIncludeStreams    bool `mapstructure:"camelTraceOrDebugIncludeStreams" json:"camelTraceOrDebugIncludeStreams"`
	ShowInflightCounter           bool `mapstructure:"camelShowInflightCounter" json:"camelShowInflightCounter"`
	RouteMetricMaxSeconds         int  `mapstructure:"camelRouteMetricMaxSeconds" json:"camelRouteMetricMaxSeconds"`
	HideOptionDocumentation       bool `mapstructure:"camelHideOptionDocumentation" json:"camelHideOptionDocumentation"`
	HideOptionDefaultValue        bool `mapstructure:"camelHideOptionDefaultValue" json:"camelHideOptionDefaultValue"`
	HideOptionUnusedValue         bool `mapstructure:"camelHideOptionUnusedValue" json:"camelHideOptionUnusedValue"`
	DiagramWidth                  int  `mapstructure:"camelDiagramWidth" json:"camelDiagramWidth"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		MaximumLabelWidth:             DefaultMaximumLabelWidth,
		MaximumTraceOrDebugBodyLength: DefaultMaximumTraceOrDebugBodyLength,
		TraceOrDebugIncludeStreams:    DefaultTraceOrDebugIncludeStreams,
		ShowInflightCounter:           DefaultShowInflightCounter,
		RouteMetricMaxSeconds:         DefaultRouteMetricMaxSeconds,
		DiagramWidth:                  DefaultDiagramWidth,
	}
}

// FromMap overlays the entries of m on top of Default.
// Unknown keys are ignored.
func FromMap(m map[string]any) (Settings, error) {
	s := Default()
	if len(m) == 0 {
		return s, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
		DecodeHook:       lenientHook,
	})
	if err != nil {
		return s, err
	}
	if err := dec.Decode(m); err != nil {
		return Default(), fmt.Errorf("failed to decode settings: %w", err)
	}
	s.normalize()
	return s, nil
}

// FromStrings is FromMap for plain string stores.
func FromStrings(m map[string]string) (Settings, error) {
	raw := make(map[string]any, len(m))
	for k, v := range m {
		raw[k] = v
	}
	return FromMap(raw)
}

// normalize replaces non-positive numbers with defaults.
func (s *Settings) normalize() {
	if s.MaximumLabelWidth <= 0 {
		s.MaximumLabelWidth = DefaultMaximumLabelWidth
	}
	if s.MaximumTraceOrDebugBodyLength <= 0 {
		s.MaximumTraceOrDebugBodyLength = DefaultMaximumTraceOrDebugBodyLength
	}
	if s.RouteMetricMaxSeconds <= 0 {
		s.RouteMetricMaxSeconds = DefaultRouteMetricMaxSeconds
	}
	if s.DiagramWidth <= 0 {
		s.DiagramWidth = DefaultDiagramWidth
	}
}

// lenientHook turns unparseable strings into zero values instead of errors,
// leaving normalize to restore defaults.
func lenientHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	str := strings.TrimSpace(data.(string))
	switch to.Kind() {
	case reflect.Int:
		n, err := strconv.Atoi(str)
		if err != nil {
			return 0, nil
		}
		return n, nil
	case reflect.Bool:
		return ParseBool(str), nil
	}
	return data, nil
}

// ParseBool accepts the usual spellings of true; everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true
	}
	return false
}
