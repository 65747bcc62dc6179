package web

import (
	"context"
	"strings"

	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

// Surface answers renderer requests from posted form values and collects
// the page to display. A Surface serves exactly one request.
type Surface struct {
	values    map[string]string
	submitted bool
	page      Page
}

var _ form.Surface = (*Surface)(nil)

// NewSurface wraps the values of one request. submitted reports whether the
// request carries a submission (a POST) rather than a plain page view.
func NewSurface(values map[string]string, submitted bool) *Surface {
	return &Surface{values: values, submitted: submitted}
}

// Help records the task's help text.
func (s *Surface) Help(_ context.Context, text string) error {
	s.page.HelpHTML = HelpHTML(text)
	return nil
}

// Text renders a text input and echoes the posted value.
func (s *Surface) Text(_ context.Context, field form.Field) (string, error) {
	value, _ := s.lookup(field.Spec)
	w := newWidget(field)
	w.Value = value
	s.page.place(w)
	return value, nil
}

// Choice renders a select and returns the posted option, falling back to
// the feature's default option when the post carries none or an unknown one.
func (s *Surface) Choice(_ context.Context, field form.Field) (float64, error) {
	selected, _ := field.Spec.DefaultOption()
	if raw, ok := s.lookup(field.Spec); ok {
		trimmed := strings.TrimSpace(raw)
		for i, label := range field.Spec.OptionLabels() {
			if label == trimmed {
				selected = field.Spec.Options[i]
				break
			}
		}
	}

	w := newWidget(field)
	w.Value = schema.FormatOption(selected)
	for _, option := range field.Spec.Options {
		w.Options = append(w.Options, SelectOption{
			Value:    schema.FormatOption(option),
			Selected: option == selected,
		})
	}
	s.page.place(w)
	return selected, nil
}

// Submit records the button caption and reports whether the request was a
// submission.
func (s *Surface) Submit(_ context.Context, label string) (bool, error) {
	s.page.SubmitLabel = label
	return s.submitted, nil
}

// Success records a verdict.
func (s *Surface) Success(_ context.Context, message string) error {
	s.page.Successes = append(s.page.Successes, message)
	return nil
}

// Error records a problem.
func (s *Surface) Error(_ context.Context, message string) error {
	s.page.Errors = append(s.page.Errors, message)
	return nil
}

// Page returns the collected page.
func (s *Surface) Page() Page {
	return s.page
}

func (s *Surface) lookup(spec schema.FeatureSpec) (string, bool) {
	if value, ok := s.values[InputName(spec)]; ok {
		return value, true
	}
	value, ok := s.values[spec.Label]
	return value, ok
}

// InputName is the HTML input name of a feature.
func InputName(spec schema.FeatureSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return schema.Slug(spec.Label)
}

func newWidget(field form.Field) Widget {
	return Widget{
		Key:    field.Key.String(),
		Name:   InputName(field.Spec),
		Label:  field.Key.Label,
		Kind:   string(field.Spec.Kind),
		Help:   field.Spec.Help,
		Row:    field.Cell.Row,
		Column: field.Cell.Column,
	}
}
