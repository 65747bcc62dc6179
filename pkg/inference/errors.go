package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound matches any ModelNotFoundError.
	ErrModelNotFound = errors.New("inference: model not found")
	// ErrInference matches any InferenceError.
	ErrInference = errors.New("inference: prediction failed")
	// ErrInvalidClass is the cause recorded when a model predicts a class
	// outside {0, 1}.
	ErrInvalidClass = errors.New("predicted class outside {0,1}")
)

// ModelNotFoundError reports a reference with no backing artifact.
type ModelNotFoundError struct {
	Ref   string
	Cause error
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("inference: model %q not found", e.Ref)
}

func (e *ModelNotFoundError) Unwrap() error { return e.Cause }

// Is matches ErrModelNotFound.
func (e *ModelNotFoundError) Is(target error) bool {
	return target == ErrModelNotFound
}

// InferenceError wraps a failure raised by a model capability or a contract
// violation of its output.
type InferenceError struct {
	Ref   string
	Cause error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference: model %q: %v", e.Ref, e.Cause)
}

func (e *InferenceError) Unwrap() error { return e.Cause }

// Is matches ErrInference.
func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}

// LoadError reports an artifact that exists but could not be decoded.
type LoadError struct {
	Ref   string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("inference: load model %q: %v", e.Ref, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }
