// Package artifact decodes persisted model artifacts into classifiers.
//
// An artifact is a JSON or YAML document with a kind discriminator:
//
//	{"kind": "logistic", "features": 2, "weights": [0.04, 0.03], "intercept": -6}
//
// Supported kinds are logistic (predict + predict_proba), linear (decision
// function, predict only), tree (decision tree with leaf class counts,
// predict + predict_proba) and rule (a CEL expression over the feature vector,
// predict only).
package artifact
