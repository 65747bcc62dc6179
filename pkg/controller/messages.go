package controller

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

// VerdictMessage formats the success message, appending the positive class
// probability when one is available.
func VerdictMessage(label string, probability *inference.Probability) string {
	msg := "Prediction Result: " + label
	if probability != nil {
		msg += fmt.Sprintf(" (probability %.2f%%)", probability.Positive*100)
	}
	return msg
}

// FailureMessage converts a pipeline error into the message shown to users.
func FailureMessage(err error) string {
	var (
		unknown  schema.UnknownSchemaError
		notFound *inference.ModelNotFoundError
		loadErr  *inference.LoadError
		inferErr *inference.InferenceError
	)
	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("unknown task %q", unknown.Name)
	case errors.As(err, &notFound):
		return "model unavailable: " + notFound.Ref
	case errors.As(err, &loadErr):
		return "model unavailable: " + loadErr.Ref
	case errors.As(err, &inferErr):
		return "prediction failed: " + inferErr.Cause.Error()
	default:
		return "prediction failed: " + err.Error()
	}
}
