package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/schema"
	"github.com/goliatone/go-formpredict/pkg/testsupport"
)

func TestLayoutWrapsRowsInSchemaOrder(t *testing.T) {
	fields := form.Layout(testsupport.MixedSchema())

	type placement struct {
		Label string
		Row   int
		Col   int
	}
	var got []placement
	for _, field := range fields {
		got = append(got, placement{Label: field.Key.Label, Row: field.Cell.Row, Col: field.Cell.Column})
	}
	want := []placement{
		{"Age", 0, 0},
		{"Chest Pain", 0, 1},
		{"ST depression", 1, 0},
		{"Fasting Blood Sugar", 1, 1},
		{"Cholesterol", 2, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	rows := form.Rows(fields)
	if len(rows) != 3 || len(rows[2]) != 1 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLayoutKeysIncludeModelRef(t *testing.T) {
	fields := form.Layout(testsupport.ScreeningSchema())
	if got, want := fields[1].Key.String(), "screening_model/Glucose"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestLayoutClampsColumns(t *testing.T) {
	s := testsupport.ScreeningSchema()
	s.ColumnsPerRow = 0
	fields := form.Layout(s)
	if fields[1].Cell != (form.Cell{Row: 1, Column: 0}) {
		t.Fatalf("unexpected cell %+v", fields[1].Cell)
	}
}

func TestRenderCapturesTextAndChoices(t *testing.T) {
	surface := &testsupport.ScriptedSurface{
		Texts:   map[string]string{"Age": "45", "ST depression": "1.5", "Cholesterol": ""},
		Choices: map[string]float64{"Chest Pain": 2},
	}

	submission, err := form.NewRenderer().Render(context.Background(), testsupport.MixedSchema(), surface)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := map[string]string{}
	choices := map[string]bool{}
	for label, value := range submission {
		got[label] = value.String()
		choices[label] = value.IsChoice()
	}
	want := map[string]string{
		"Age":                 "45",
		"Chest Pain":          "2",
		"ST depression":       "1.5",
		"Fasting Blood Sugar": "1",
		"Cholesterol":         "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if !choices["Chest Pain"] || !choices["Fasting Blood Sugar"] || choices["Age"] {
		t.Fatalf("unexpected choice flags: %+v", choices)
	}

	var order []string
	for _, field := range surface.Fields {
		order = append(order, field.Key.Label)
	}
	if diff := cmp.Diff(testsupport.MixedSchema().Labels(), order); diff != "" {
		t.Fatalf("request order mismatch (-want +got):\n%s", diff)
	}
	if len(surface.HelpTexts) != 1 {
		t.Fatalf("expected help text once, got %d", len(surface.HelpTexts))
	}
	if len(surface.Submits) != 0 {
		t.Fatalf("render must not trigger submit")
	}
}

func TestRenderRejectsUndeclaredChoice(t *testing.T) {
	surface := &testsupport.ScriptedSurface{Choices: map[string]float64{"Chest Pain": 7}}

	_, err := form.NewRenderer().Render(context.Background(), testsupport.MixedSchema(), surface)
	if !errors.Is(err, form.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestRenderPropagatesSurfaceErrors(t *testing.T) {
	surface := &testsupport.ScriptedSurface{FailOn: "Glucose"}

	if _, err := form.NewRenderer().Render(context.Background(), testsupport.ScreeningSchema(), surface); err == nil {
		t.Fatal("expected surface error")
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := form.NewRenderer().Render(ctx, testsupport.ScreeningSchema(), &testsupport.ScriptedSurface{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderRequiresSurface(t *testing.T) {
	_, err := form.NewRenderer().Render(context.Background(), testsupport.ScreeningSchema(), nil)
	if !errors.Is(err, form.ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface, got %v", err)
	}
}

func TestHelpTextIncludesLegend(t *testing.T) {
	got := form.HelpText(testsupport.MixedSchema())
	want := "Enter the measurements.\n\nChest Pain:\n  0 -> typical\n  1 -> atypical"
	if got != want {
		t.Fatalf("help text mismatch:\nwant %q\ngot  %q", want, got)
	}
	if form.HelpText(schema.TaskSchema{}) != "" {
		t.Fatal("expected empty help text")
	}
}

func TestSubmissionFromStrings(t *testing.T) {
	values := map[string]string{
		"age":           "50",
		"Chest Pain":    "3.0",
		"fbs":           " ",
		"ST depression": "0.4",
		"unknown":       "1",
	}
	submission, err := form.SubmissionFromStrings(testsupport.MixedSchema(), values)
	if err != nil {
		t.Fatalf("submission: %v", err)
	}

	if v, ok := submission.Get("Age"); !ok || v.Raw() != "50" {
		t.Fatalf("expected Age by name, got %+v", v)
	}
	if v, ok := submission.Get("Chest Pain"); !ok || !v.IsChoice() {
		t.Fatalf("expected Chest Pain selection, got %+v", v)
	} else if option, _ := v.Choice(); option != 3 {
		t.Fatalf("Chest Pain = %v", option)
	}
	if _, ok := submission.Get("Fasting Blood Sugar"); ok {
		t.Fatal("blank choice must be left out")
	}
	if _, ok := submission.Get("Cholesterol"); ok {
		t.Fatal("absent value must be left out")
	}
	if len(submission) != 3 {
		t.Fatalf("unexpected submission size %d", len(submission))
	}
}

func TestSubmissionFromStringsRejectsUndeclaredChoice(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{
			name:   "by name",
			values: map[string]string{"age": "50", "cp": "7"},
			want:   `feature "cp": expected one of 0, 1, 2, 3`,
		},
		{
			name:   "by label",
			values: map[string]string{"Fasting Blood Sugar": "yes"},
			want:   `feature "fbs": expected one of 0, 1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission, err := form.SubmissionFromStrings(testsupport.MixedSchema(), tt.values)
			if !errors.Is(err, form.ErrInvalidChoice) {
				t.Fatalf("expected ErrInvalidChoice, got %v", err)
			}
			if err.Error() != tt.want {
				t.Fatalf("error = %q, want %q", err.Error(), tt.want)
			}
			if submission != nil {
				t.Fatalf("expected no submission, got %v", submission)
			}
		})
	}
}
