package inference

import "go.uber.org/zap"

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for load events.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDecoder overrides how artifact bytes become classifiers.
func WithDecoder(decoder Decoder) Option {
	return func(g *Gateway) {
		if decoder != nil {
			g.decode = decoder
		}
	}
}

// WithModel pre-registers an in-process model under ref.
func WithModel(ref string, model Classifier) Option {
	return func(g *Gateway) {
		if model != nil {
			g.handles[ref] = &Handle{Ref: ref, Model: model}
		}
	}
}
