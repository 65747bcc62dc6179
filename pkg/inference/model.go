package inference

import (
	"github.com/goliatone/go-formpredict/pkg/inference/artifact"
)

// Classifier is the capability every model exposes.
type Classifier interface {
	Predict(x []float64) (float64, error)
}

// ProbabilityEstimator is the optional capability of models that report
// class probabilities.
type ProbabilityEstimator interface {
	PredictProba(x []float64) ([]float64, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(x []float64) (float64, error)

// Predict calls f.
func (f ClassifierFunc) Predict(x []float64) (float64, error) {
	return f(x)
}

// Decoder turns raw artifact bytes into a classifier.
type Decoder func(ref string, data []byte) (Classifier, error)

// DecodeArtifact is the default Decoder.
func DecodeArtifact(_ string, data []byte) (Classifier, error) {
	model, err := artifact.Decode(data)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Handle is a loaded model bound to its reference.
type Handle struct {
	Ref   string
	Model Classifier
}

// Probability is the two-class probability pair.
type Probability struct {
	Negative float64 `json:"negative"`
	Positive float64 `json:"positive"`
}

// Result is the normalised output of one inference.
type Result struct {
	Class       int          `json:"class"`
	Probability *Probability `json:"probability,omitempty"`
}
