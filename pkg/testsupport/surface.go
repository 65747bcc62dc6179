package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formpredict/pkg/form"
)

// ScriptedSurface is a form.Surface driven by canned answers keyed by feature
// label. It records every interaction so tests can assert on order, grid
// placement and displayed messages.
type ScriptedSurface struct {
	Texts   map[string]string
	Choices map[string]float64
	// Submitted is the answer returned by Submit.
	Submitted bool
	// FailOn makes the named label's request return an error.
	FailOn string

	mu        sync.Mutex
	Fields    []form.Field
	HelpTexts []string
	Successes []string
	Errors    []string
	Submits   []string
}

var _ form.Surface = (*ScriptedSurface)(nil)

func (s *ScriptedSurface) Help(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HelpTexts = append(s.HelpTexts, text)
	return nil
}

func (s *ScriptedSurface) Text(_ context.Context, field form.Field) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fields = append(s.Fields, field)
	if field.Key.Label == s.FailOn {
		return "", fmt.Errorf("scripted failure for %s", field.Key.Label)
	}
	return s.Texts[field.Key.Label], nil
}

func (s *ScriptedSurface) Choice(_ context.Context, field form.Field) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fields = append(s.Fields, field)
	if field.Key.Label == s.FailOn {
		return 0, fmt.Errorf("scripted failure for %s", field.Key.Label)
	}
	if v, ok := s.Choices[field.Key.Label]; ok {
		return v, nil
	}
	v, _ := field.Spec.DefaultOption()
	return v, nil
}

func (s *ScriptedSurface) Submit(_ context.Context, label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submits = append(s.Submits, label)
	return s.Submitted, nil
}

func (s *ScriptedSurface) Success(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Successes = append(s.Successes, message)
	return nil
}

func (s *ScriptedSurface) Error(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, message)
	return nil
}
