package artifact_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formpredict/pkg/inference/artifact"
)

type estimator interface {
	PredictProba(x []float64) ([]float64, error)
}

func TestDecodeLogisticJSON(t *testing.T) {
	model, err := artifact.Decode([]byte(`{"kind":"logistic","weights":[1,1],"intercept":-3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	class, err := model.Predict([]float64{2, 2})
	if err != nil || class != 1 {
		t.Fatalf("predict = %v, %v; want 1", class, err)
	}
	class, _ = model.Predict([]float64{0, 1})
	if class != 0 {
		t.Fatalf("predict = %v, want 0", class)
	}

	est, ok := model.(estimator)
	if !ok {
		t.Fatal("logistic model must estimate probabilities")
	}
	proba, err := est.PredictProba([]float64{1.5, 1.5})
	if err != nil {
		t.Fatalf("predict proba: %v", err)
	}
	if diff := cmp.Diff([]float64{0.5, 0.5}, proba, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("proba mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLinearYAMLHasNoProbability(t *testing.T) {
	model, err := artifact.Decode([]byte("kind: linear\nweights: [2, -1]\nintercept: 0.5\nclasses: [0, 1]\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := model.(estimator); ok {
		t.Fatal("linear model must not estimate probabilities")
	}
	class, err := model.Predict([]float64{1, 1})
	if err != nil || class != 1 {
		t.Fatalf("predict = %v, %v; want 1", class, err)
	}
}

func TestShapeMismatch(t *testing.T) {
	model, err := artifact.Decode([]byte(`{"kind":"logistic","features":3,"weights":[1,2,3]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := model.Predict([]float64{1}); !errors.Is(err, artifact.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestTreeModel(t *testing.T) {
	doc := `
kind: tree
features: 2
tree:
  feature: 1
  threshold: 140
  left:
    counts: [9, 1]
  right:
    feature: 0
    threshold: 30
    left:
      counts: [3, 3]
    right:
      counts: [2, 8]
`
	model, err := artifact.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	est := model.(estimator)

	tests := []struct {
		x     []float64
		class float64
		proba []float64
	}{
		{x: []float64{50, 100}, class: 0, proba: []float64{0.9, 0.1}},
		{x: []float64{20, 180}, class: 0, proba: []float64{0.5, 0.5}},
		{x: []float64{45, 180}, class: 1, proba: []float64{0.2, 0.8}},
	}
	for _, tt := range tests {
		class, err := model.Predict(tt.x)
		if err != nil || class != tt.class {
			t.Fatalf("predict(%v) = %v, %v; want %v", tt.x, class, err, tt.class)
		}
		proba, err := est.PredictProba(tt.x)
		if err != nil {
			t.Fatalf("proba(%v): %v", tt.x, err)
		}
		if diff := cmp.Diff(tt.proba, proba, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatalf("proba mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRuleModel(t *testing.T) {
	doc := `{
		"kind": "rule",
		"names": ["age", "glucose"],
		"expression": "f.glucose >= 140.0 || (x[0] > 60.0 && f.glucose > 120.0)"
	}`
	model, err := artifact.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := model.(estimator); ok {
		t.Fatal("rule model must not estimate probabilities")
	}

	for _, tt := range []struct {
		x    []float64
		want float64
	}{
		{[]float64{45, 150}, 1},
		{[]float64{65, 125}, 1},
		{[]float64{45, 125}, 0},
	} {
		got, err := model.Predict(tt.x)
		if err != nil || got != tt.want {
			t.Fatalf("predict(%v) = %v, %v; want %v", tt.x, got, err, tt.want)
		}
	}

	if _, err := model.Predict([]float64{1}); !errors.Is(err, artifact.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestRuleNumericResult(t *testing.T) {
	model, err := artifact.Decode([]byte(`{"kind":"rule","features":1,"expression":"x[0] * 2.0"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := model.Predict([]float64{1.5})
	if err != nil || math.Abs(got-3) > 1e-9 {
		t.Fatalf("predict = %v, %v; want 3", got, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind error
	}{
		{name: "empty", doc: "  "},
		{name: "bad json", doc: `{"kind":`},
		{name: "missing kind", doc: `{"weights":[1]}`, kind: artifact.ErrUnknownKind},
		{name: "unknown kind", doc: `{"kind":"forest"}`, kind: artifact.ErrUnknownKind},
		{name: "no weights", doc: `{"kind":"logistic"}`},
		{name: "weights mismatch", doc: `{"kind":"linear","features":3,"weights":[1]}`},
		{name: "three classes", doc: `{"kind":"linear","weights":[1],"classes":[0,1,2]}`},
		{name: "tree without tree", doc: `{"kind":"tree"}`},
		{name: "bad leaf", doc: `{"kind":"tree","tree":{"counts":[1]}}`},
		{name: "half split", doc: `{"kind":"tree","tree":{"feature":0,"left":{"counts":[1,0]}}}`},
		{name: "rule syntax", doc: `{"kind":"rule","expression":"x[0] >"}`},
		{name: "rule names mismatch", doc: `{"kind":"rule","features":2,"names":["a"],"expression":"true"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := artifact.Decode([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}
