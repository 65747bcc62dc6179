// Package validation coerces a raw form submission into the ordered numeric
// feature vector a model expects, or into the complete list of field errors.
package validation
