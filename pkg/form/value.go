package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formpredict/pkg/schema"
)

// Value is the untyped input captured for one feature: either free text or a
// pre-typed numeric selection.
type Value struct {
	text     string
	choice   float64
	selected bool
}

// Text wraps free-text input.
func Text(raw string) Value {
	return Value{text: raw}
}

// Selected wraps a numeric choice picked from a closed option set.
func Selected(option float64) Value {
	return Value{choice: option, selected: true}
}

// IsChoice reports whether the value came from a selector.
func (v Value) IsChoice() bool { return v.selected }

// Raw returns the free-text input (empty for selections).
func (v Value) Raw() string { return v.text }

// Choice returns the selected option and whether the value is a selection.
func (v Value) Choice() (float64, bool) { return v.choice, v.selected }

// String renders the value for diagnostics.
func (v Value) String() string {
	if v.selected {
		return schema.FormatOption(v.choice)
	}
	return v.text
}

// Submission maps feature labels to their captured values. One submission
// exists per render cycle and is discarded once validated.
type Submission map[string]Value

// Get returns the value recorded for label.
func (s Submission) Get(label string) (Value, bool) {
	v, ok := s[label]
	return v, ok
}

// ChoiceError reports text given for a choice feature that names none of its
// declared options.
type ChoiceError struct {
	Feature string
	Raw     string
	Options []string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("feature %q: expected one of %s", e.Feature, strings.Join(e.Options, ", "))
}

// Is matches ErrInvalidChoice.
func (e *ChoiceError) Is(target error) bool {
	return target == ErrInvalidChoice
}

// SubmissionFromStrings builds a submission from string inputs keyed by
// feature label or name, as posted by HTML forms or JSON clients. Blank or
// absent choice values are left out so the feature falls back to its default
// option; any other text must name a declared option or a *ChoiceError is
// returned.
func SubmissionFromStrings(s schema.TaskSchema, values map[string]string) (Submission, error) {
	out := make(Submission, len(s.Features))
	for _, feature := range s.Features {
		raw, ok := lookup(values, feature)
		if !ok {
			continue
		}
		if feature.Kind == schema.KindChoice {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			option, ok := matchOption(feature, raw)
			if !ok {
				return nil, &ChoiceError{Feature: featureKey(feature), Raw: raw, Options: feature.OptionLabels()}
			}
			out[feature.Label] = Selected(option)
			continue
		}
		out[feature.Label] = Text(raw)
	}
	return out, nil
}

func featureKey(feature schema.FeatureSpec) string {
	if feature.Name != "" {
		return feature.Name
	}
	return feature.Label
}

func lookup(values map[string]string, feature schema.FeatureSpec) (string, bool) {
	if raw, ok := values[feature.Label]; ok {
		return raw, true
	}
	if feature.Name != "" {
		if raw, ok := values[feature.Name]; ok {
			return raw, true
		}
	}
	return "", false
}

func matchOption(feature schema.FeatureSpec, raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	for i, label := range feature.OptionLabels() {
		if label == trimmed {
			return feature.Options[i], true
		}
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil && feature.HasOption(value) {
		return value, true
	}
	return 0, false
}
