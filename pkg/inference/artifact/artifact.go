package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a model family.
type Kind string

const (
	KindLogistic Kind = "logistic"
	KindLinear   Kind = "linear"
	KindTree     Kind = "tree"
	KindRule     Kind = "rule"
)

var (
	// ErrShape is returned when a vector length differs from the artifact's
	// declared feature count.
	ErrShape = errors.New("artifact: feature vector shape mismatch")
	// ErrUnknownKind is returned for unsupported artifact kinds.
	ErrUnknownKind = errors.New("artifact: unknown model kind")
)

// Model is a decoded artifact. Every model predicts; estimators that also
// expose PredictProba are detected by the caller.
type Model interface {
	Predict(x []float64) (float64, error)
}

// Document is the on-disk artifact layout.
type Document struct {
	Kind        Kind      `json:"kind" yaml:"kind"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Features    int       `json:"features,omitempty" yaml:"features,omitempty"`
	Names       []string  `json:"names,omitempty" yaml:"names,omitempty"`
	Classes     []float64 `json:"classes,omitempty" yaml:"classes,omitempty"`
	Weights     []float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Intercept   float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Tree        *Node     `json:"tree,omitempty" yaml:"tree,omitempty"`
	Expression  string    `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// Node is a decision tree node. Leaves carry per-class sample counts; split
// nodes send x[Feature] <= Threshold to Left and everything else to Right.
type Node struct {
	Feature   int       `json:"feature,omitempty" yaml:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Left      *Node     `json:"left,omitempty" yaml:"left,omitempty"`
	Right     *Node     `json:"right,omitempty" yaml:"right,omitempty"`
	Counts    []float64 `json:"counts,omitempty" yaml:"counts,omitempty"`
}

// Leaf reports whether the node terminates a branch.
func (n *Node) Leaf() bool {
	return n.Left == nil && n.Right == nil
}

// Parse reads a document, trying JSON first and YAML second.
func Parse(data []byte) (Document, error) {
	var doc Document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return doc, errors.New("artifact: empty document")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return doc, fmt.Errorf("artifact: decode json: %w", err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return doc, fmt.Errorf("artifact: decode yaml: %w", err)
	}
	return doc, nil
}

// Decode parses and builds a model in one step.
func Decode(data []byte) (Model, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Build constructs the model described by doc.
func Build(doc Document) (Model, error) {
	classes := doc.Classes
	if len(classes) == 0 {
		classes = []float64{0, 1}
	}
	if len(classes) != 2 {
		return nil, fmt.Errorf("artifact: expected 2 classes, got %d", len(classes))
	}

	switch Kind(strings.ToLower(string(doc.Kind))) {
	case KindLogistic, KindLinear:
		if len(doc.Weights) == 0 {
			return nil, fmt.Errorf("artifact: %s model requires weights", doc.Kind)
		}
		features := doc.Features
		if features == 0 {
			features = len(doc.Weights)
		}
		if features != len(doc.Weights) {
			return nil, fmt.Errorf("artifact: %d weights for %d features", len(doc.Weights), features)
		}
		lin := linear{features: features, weights: doc.Weights, intercept: doc.Intercept, classes: classes}
		if Kind(strings.ToLower(string(doc.Kind))) == KindLogistic {
			return &Logistic{linear: lin}, nil
		}
		return &Linear{linear: lin}, nil
	case KindTree:
		return newTree(doc, classes)
	case KindRule:
		return newRule(doc, classes)
	case "":
		return nil, fmt.Errorf("%w: kind is required", ErrUnknownKind)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
}

func checkShape(want int, x []float64) error {
	if want > 0 && len(x) != want {
		return fmt.Errorf("%w: expected %d features, got %d", ErrShape, want, len(x))
	}
	return nil
}
