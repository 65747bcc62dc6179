package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

// Surface renders a task form as a sequence of terminal prompts, one
// Question per grid cell.
type Surface struct {
	driver     PromptDriver
	out        io.Writer
	theme      Theme
	autoSubmit bool
}

var _ form.Surface = (*Surface)(nil)

// New constructs a terminal surface.
func New(opts ...Option) *Surface {
	s := &Surface{theme: DefaultTheme}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s
}

// Help prints the task's static help.
func (s *Surface) Help(ctx context.Context, text string) error {
	return s.driver.Print(ctx, s.theme.HelpPrefix+text)
}

// Text prompts for free-text input.
func (s *Surface) Text(ctx context.Context, field form.Field) (string, error) {
	return s.driver.Ask(ctx, question(field))
}

// Choice prompts for one of the declared options.
func (s *Surface) Choice(ctx context.Context, field form.Field) (float64, error) {
	q := question(field)
	q.Options = field.Spec.OptionLabels()
	q.Default = field.Spec.DefaultIndex
	if q.Default < 0 || q.Default >= len(q.Options) {
		q.Default = 0
	}
	idx, err := s.driver.Pick(ctx, q)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(field.Spec.Options) {
		return 0, fmt.Errorf("%w: %s", ErrNoSelection, field.Key)
	}
	return field.Spec.Options[idx], nil
}

// Submit asks for confirmation using the task's button label.
func (s *Surface) Submit(ctx context.Context, label string) (bool, error) {
	if s.autoSubmit {
		return true, nil
	}
	return s.driver.Confirm(ctx, label+"?")
}

// Success prints a verdict.
func (s *Surface) Success(ctx context.Context, message string) error {
	return s.driver.Print(ctx, s.theme.SuccessPrefix+message)
}

// Error prints a problem.
func (s *Surface) Error(ctx context.Context, message string) error {
	return s.driver.Print(ctx, s.theme.ErrorPrefix+message)
}

// SelectTask asks which task to run from the registry menu.
func (s *Surface) SelectTask(ctx context.Context, registry *schema.Registry) (string, error) {
	names := registry.Names()
	if len(names) == 0 {
		return "", ErrNoSelection
	}
	idx, err := s.driver.Menu(ctx, "Multiple Disease Prediction System", names)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", ErrNoSelection
	}
	return names[idx], nil
}

func question(field form.Field) Question {
	return Question{Cell: field.Cell, Label: field.Key.Label, Help: fieldHelp(field.Spec)}
}

func fieldHelp(spec schema.FeatureSpec) string {
	if semantics, ok := spec.Metadata["semantics"]; ok && semantics != "" {
		if spec.Help == "" {
			return semantics
		}
		return spec.Help + " (" + semantics + ")"
	}
	return spec.Help
}
