// Package form walks a task schema and collects one raw value per feature
// from an external Surface (terminal prompts, an HTTP form, a test script).
// Numeric features are requested as free text; choice features are requested
// as a forced selection among the declared options. Fields are laid out on a
// fixed-width grid in schema order.
package form
