package artifact

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule evaluates a CEL expression against the feature vector. The
// expression sees x (list of doubles, schema order) and f (map of feature
// name to double when names are declared). A bool result maps true to the
// second class; a numeric result is returned as is.
type Rule struct {
	Expression string
	features   int
	names      []string
	classes    []float64
	program    cel.Program
}

func newRule(doc Document, classes []float64) (*Rule, error) {
	if doc.Expression == "" {
		return nil, errors.New("artifact: rule model requires an expression")
	}
	features := doc.Features
	if features == 0 {
		features = len(doc.Names)
	}
	if len(doc.Names) > 0 && len(doc.Names) != features {
		return nil, fmt.Errorf("artifact: %d names for %d features", len(doc.Names), features)
	}

	env, err := cel.NewEnv(
		cel.Variable("x", cel.ListType(cel.DoubleType)),
		cel.Variable("f", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("artifact: create CEL environment: %w", err)
	}
	ast, issues := env.Compile(doc.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("artifact: compile rule: %w", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("artifact: build rule program: %w", err)
	}

	return &Rule{
		Expression: doc.Expression,
		features:   features,
		names:      doc.Names,
		classes:    classes,
		program:    program,
	}, nil
}

// Predict evaluates the rule for x.
func (r *Rule) Predict(x []float64) (float64, error) {
	if err := checkShape(r.features, x); err != nil {
		return 0, err
	}
	named := make(map[string]float64, len(r.names))
	for i, name := range r.names {
		named[name] = x[i]
	}

	out, _, err := r.program.Eval(map[string]any{"x": x, "f": named})
	if err != nil {
		return 0, fmt.Errorf("artifact: evaluate rule: %w", err)
	}

	switch v := out.Value().(type) {
	case bool:
		if v {
			return r.classes[1], nil
		}
		return r.classes[0], nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("artifact: rule returned %T", v)
	}
}
