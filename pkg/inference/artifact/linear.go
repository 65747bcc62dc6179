package artifact

import "math"

type linear struct {
	features  int
	weights   []float64
	intercept float64
	classes   []float64
}

func (l linear) decision(x []float64) (float64, error) {
	if err := checkShape(l.features, x); err != nil {
		return 0, err
	}
	z := l.intercept
	for i, w := range l.weights {
		z += w * x[i]
	}
	return z, nil
}

// Linear is a linear decision function (SVM style): positive scores map to
// the second class. It does not estimate probabilities.
type Linear struct {
	linear
}

// Predict returns the class for x.
func (l *Linear) Predict(x []float64) (float64, error) {
	z, err := l.decision(x)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return l.classes[1], nil
	}
	return l.classes[0], nil
}

// Logistic is a logistic regression classifier.
type Logistic struct {
	linear
}

// Predict returns the second class when its probability reaches 0.5.
func (l *Logistic) Predict(x []float64) (float64, error) {
	proba, err := l.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if proba[1] >= 0.5 {
		return l.classes[1], nil
	}
	return l.classes[0], nil
}

// PredictProba returns [p(class0), p(class1)].
func (l *Logistic) PredictProba(x []float64) ([]float64, error) {
	z, err := l.decision(x)
	if err != nil {
		return nil, err
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}
