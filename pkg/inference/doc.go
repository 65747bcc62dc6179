// Package inference loads opaque classifiers by model reference and turns
// their raw output into a binary prediction with an optional probability.
//
// Loaded models are memoised for the life of the Gateway. Concurrent loads
// for the same reference share a single fetch; failed loads are not cached.
package inference
