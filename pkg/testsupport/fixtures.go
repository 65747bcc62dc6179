package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formpredict/pkg/schema"
)

// ScreeningSchema returns the two-field integer schema used by the
// end-to-end scenarios: [Age:int, Glucose:int].
func ScreeningSchema() schema.TaskSchema {
	return schema.TaskSchema{
		Name:          "Screening",
		ModelRef:      "screening_model",
		PositiveLabel: "Screening Positive",
		NegativeLabel: "Screening Negative",
		ColumnsPerRow: 3,
		Features: []schema.FeatureSpec{
			{Name: "age", Label: "Age", Kind: schema.KindInt},
			{Name: "glucose", Label: "Glucose", Kind: schema.KindInt},
		},
	}
}

// MixedSchema returns a schema mixing int, float and choice features over
// two grid rows.
func MixedSchema() schema.TaskSchema {
	return schema.TaskSchema{
		Name:          "Mixed",
		ModelRef:      "mixed_model",
		PositiveLabel: "Mixed Positive",
		NegativeLabel: "Mixed Negative",
		ColumnsPerRow: 2,
		HelpText:      "Enter the measurements.",
		Legend: []schema.LegendBlock{
			{Title: "Chest Pain", Entries: []string{"0 -> typical", "1 -> atypical"}},
		},
		Features: []schema.FeatureSpec{
			{Name: "age", Label: "Age", Kind: schema.KindInt},
			{Name: "cp", Label: "Chest Pain", Kind: schema.KindChoice, Options: []float64{0, 1, 2, 3}},
			{Name: "oldpeak", Label: "ST depression", Kind: schema.KindFloat},
			{Name: "fbs", Label: "Fasting Blood Sugar", Kind: schema.KindChoice, Options: []float64{0, 1}, DefaultIndex: 1},
			{Name: "chol", Label: "Cholesterol", Kind: schema.KindInt},
		},
	}
}

// MustRegistry builds a registry or fails the test.
func MustRegistry(t testing.TB, schemas ...schema.TaskSchema) *schema.Registry {
	t.Helper()
	reg, err := schema.NewRegistry(schemas...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
