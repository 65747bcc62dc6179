package schema

import (
	"fmt"
	"strconv"
)

// Kind identifies how a feature is captured and coerced.
type Kind string

const (
	// KindInt is a free-text numeric field parsed as a base-10 integer.
	KindInt Kind = "int"
	// KindFloat is a free-text numeric field parsed as a floating point value.
	KindFloat Kind = "float"
	// KindChoice is a closed set of numeric options picked by the user.
	KindChoice Kind = "choice"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInt, KindFloat, KindChoice:
		return true
	default:
		return false
	}
}

// Numeric reports whether the kind is entered as free text.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// FeatureSpec describes a single model input.
type FeatureSpec struct {
	Name         string            `json:"name" yaml:"name"`
	Label        string            `json:"label" yaml:"label"`
	Kind         Kind              `json:"kind" yaml:"kind"`
	Options      []float64         `json:"options,omitempty" yaml:"options,omitempty"`
	DefaultIndex int               `json:"defaultIndex,omitempty" yaml:"default_index,omitempty"`
	Help         string            `json:"help,omitempty" yaml:"help,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// HasOption reports whether value is one of the declared choice options.
func (f FeatureSpec) HasOption(value float64) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

// DefaultOption returns the pre-selected option for choice features.
func (f FeatureSpec) DefaultOption() (float64, bool) {
	if f.Kind != KindChoice || len(f.Options) == 0 {
		return 0, false
	}
	idx := f.DefaultIndex
	if idx < 0 || idx >= len(f.Options) {
		idx = 0
	}
	return f.Options[idx], true
}

// OptionLabels renders the choice options as display strings.
func (f FeatureSpec) OptionLabels() []string {
	out := make([]string, len(f.Options))
	for i, option := range f.Options {
		out[i] = FormatOption(option)
	}
	return out
}

// FormatOption renders a choice option without trailing zeros ("2", "0.5").
func FormatOption(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// LegendBlock is a titled block of static help shown before the fields.
type LegendBlock struct {
	Title   string   `json:"title" yaml:"title"`
	Entries []string `json:"entries" yaml:"entries"`
}

// TaskSchema describes one predictive task: its ordered features, outcome
// labels and layout hints.
type TaskSchema struct {
	Name          string        `json:"name" yaml:"name"`
	Title         string        `json:"title,omitempty" yaml:"title,omitempty"`
	ModelRef      string        `json:"modelRef" yaml:"model_ref"`
	Features      []FeatureSpec `json:"features" yaml:"features"`
	PositiveLabel string        `json:"positiveLabel" yaml:"positive_label"`
	NegativeLabel string        `json:"negativeLabel" yaml:"negative_label"`
	ColumnsPerRow int           `json:"columnsPerRow" yaml:"columns_per_row"`
	HelpText      string        `json:"helpText,omitempty" yaml:"help_text,omitempty"`
	Legend        []LegendBlock `json:"legend,omitempty" yaml:"legend,omitempty"`
	SubmitLabel   string        `json:"submitLabel,omitempty" yaml:"submit_label,omitempty"`
	Icon          string        `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Feature looks up a feature by label.
func (s TaskSchema) Feature(label string) (FeatureSpec, bool) {
	for _, feature := range s.Features {
		if feature.Label == label {
			return feature, true
		}
	}
	return FeatureSpec{}, false
}

// FeatureByName looks up a feature by its machine name.
func (s TaskSchema) FeatureByName(name string) (FeatureSpec, bool) {
	for _, feature := range s.Features {
		if feature.Name == name {
			return feature, true
		}
	}
	return FeatureSpec{}, false
}

// Labels returns the feature labels in schema order.
func (s TaskSchema) Labels() []string {
	out := make([]string, len(s.Features))
	for i, feature := range s.Features {
		out[i] = feature.Label
	}
	return out
}

// OutcomeLabel maps a predicted class onto the schema's outcome labels.
func (s TaskSchema) OutcomeLabel(class int) string {
	if class == 1 {
		return s.PositiveLabel
	}
	return s.NegativeLabel
}

// ButtonLabel returns the submit caption, defaulting to "<title> Prediction".
func (s TaskSchema) ButtonLabel() string {
	if s.SubmitLabel != "" {
		return s.SubmitLabel
	}
	return fmt.Sprintf("%s Prediction", s.Name)
}

// Heading returns the page title, falling back to the schema name.
func (s TaskSchema) Heading() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Validate checks the structural invariants the rest of the pipeline relies
// on: unique labels and names, known kinds, usable choice options and a
// positive column count.
func (s TaskSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema: task name is required")
	}
	if s.ModelRef == "" {
		return fmt.Errorf("schema: task %q: model_ref is required", s.Name)
	}
	if len(s.Features) == 0 {
		return fmt.Errorf("schema: task %q: at least one feature is required", s.Name)
	}
	if s.ColumnsPerRow < 1 {
		return fmt.Errorf("schema: task %q: columns_per_row must be positive, got %d", s.Name, s.ColumnsPerRow)
	}
	if s.PositiveLabel == "" || s.NegativeLabel == "" {
		return fmt.Errorf("schema: task %q: positive and negative labels are required", s.Name)
	}

	labels := make(map[string]struct{}, len(s.Features))
	names := make(map[string]struct{}, len(s.Features))
	for idx, feature := range s.Features {
		if feature.Label == "" {
			return fmt.Errorf("schema: task %q: feature %d has no label", s.Name, idx)
		}
		if _, exists := labels[feature.Label]; exists {
			return fmt.Errorf("schema: task %q: duplicate feature label %q", s.Name, feature.Label)
		}
		labels[feature.Label] = struct{}{}

		if feature.Name != "" {
			if _, exists := names[feature.Name]; exists {
				return fmt.Errorf("schema: task %q: duplicate feature name %q", s.Name, feature.Name)
			}
			names[feature.Name] = struct{}{}
		}

		if !feature.Kind.Valid() {
			return fmt.Errorf("schema: task %q: feature %q has unknown kind %q", s.Name, feature.Label, feature.Kind)
		}
		if feature.Kind == KindChoice {
			if len(feature.Options) == 0 {
				return fmt.Errorf("schema: task %q: choice feature %q declares no options", s.Name, feature.Label)
			}
			if feature.DefaultIndex < 0 || feature.DefaultIndex >= len(feature.Options) {
				return fmt.Errorf("schema: task %q: choice feature %q default_index %d out of range", s.Name, feature.Label, feature.DefaultIndex)
			}
		} else if len(feature.Options) > 0 {
			return fmt.Errorf("schema: task %q: numeric feature %q must not declare options", s.Name, feature.Label)
		}
	}
	return nil
}
