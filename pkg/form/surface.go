package form

import "context"

// Surface is the external UI toolkit the renderer and controller drive. An
// implementation draws widgets, captures input and shows messages; it never
// sees models or validation logic.
type Surface interface {
	// Help displays static help text for the active task.
	Help(ctx context.Context, text string) error
	// Text requests free-text input for a numeric feature.
	Text(ctx context.Context, field Field) (string, error)
	// Choice requests a selection among field.Spec.Options and returns the
	// chosen option.
	Choice(ctx context.Context, field Field) (float64, error)
	// Submit reports whether the user asked for an evaluation.
	Submit(ctx context.Context, label string) (bool, error)
	// Success displays a verdict.
	Success(ctx context.Context, message string) error
	// Error displays a user-visible problem.
	Error(ctx context.Context, message string) error
}
