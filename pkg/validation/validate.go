package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

// Reason classifies a field error.
type Reason string

const (
	ReasonMissing       Reason = "missing"
	ReasonInvalidNumber Reason = "invalid number"
)

// FieldError is a single user-input problem.
type FieldError struct {
	Label  string `json:"label"`
	Reason Reason `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

// String renders the user-visible message, e.g. "Glucose: invalid number 'abc'".
func (e FieldError) String() string {
	if e.Reason == ReasonInvalidNumber {
		return e.Label + ": invalid number '" + e.Raw + "'"
	}
	return e.Label + ": " + string(e.Reason)
}

// Errors aggregates field errors in schema order.
type Errors []FieldError

// Error joins the field messages.
func (e Errors) Error() string {
	return "validation: " + strings.Join(e.Messages(), "; ")
}

// Messages returns one display string per field error.
func (e Errors) Messages() []string {
	out := make([]string, len(e))
	for i, fieldErr := range e {
		out[i] = fieldErr.String()
	}
	return out
}

// Outcome is either a full vector or a non-empty error list, never both.
type Outcome struct {
	Vector []float64 `json:"vector,omitempty"`
	Errors Errors    `json:"errors,omitempty"`
}

// OK reports whether validation produced a vector.
func (o Outcome) OK() bool {
	return len(o.Errors) == 0
}

// Err returns the aggregated errors or nil.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return o.Errors
}

// Validate walks the schema's features in order. Every field is checked so
// the caller sees all problems at once; a vector is only returned when every
// field coerced cleanly.
func Validate(s schema.TaskSchema, submission form.Submission) Outcome {
	vector := make([]float64, len(s.Features))
	var errs Errors

	for i, feature := range s.Features {
		value, _ := submission.Get(feature.Label)

		if feature.Kind == schema.KindChoice {
			vector[i] = coerceChoice(feature, value)
			continue
		}

		number, fieldErr := parseNumber(feature, value)
		if fieldErr != nil {
			errs = append(errs, *fieldErr)
			continue
		}
		vector[i] = number
	}

	if len(errs) > 0 {
		return Outcome{Errors: errs}
	}
	return Outcome{Vector: vector}
}

// coerceChoice never fails: a selector always has a selection, so an absent
// value means the default option.
func coerceChoice(feature schema.FeatureSpec, value form.Value) float64 {
	if option, ok := value.Choice(); ok {
		return option
	}
	option, _ := feature.DefaultOption()
	return option
}

func parseNumber(feature schema.FeatureSpec, value form.Value) (float64, *FieldError) {
	raw := value.Raw()
	if option, ok := value.Choice(); ok {
		raw = schema.FormatOption(option)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &FieldError{Label: feature.Label, Reason: ReasonMissing}
	}

	invalid := &FieldError{Label: feature.Label, Reason: ReasonInvalidNumber, Raw: raw}
	if feature.Kind == schema.KindInt {
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, invalid
		}
		return float64(n), nil
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid
	}
	return f, nil
}
