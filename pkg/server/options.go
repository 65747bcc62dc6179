package server

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formpredict/pkg/openapi"
	"github.com/goliatone/go-formpredict/pkg/surfaces/web"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWebRenderer replaces the HTML page renderer.
func WithWebRenderer(renderer *web.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.pages = renderer
		}
	}
}

// WithAllowedOrigins enables CORS on the JSON API for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBody = limit
		}
	}
}

// WithDocumentOptions tunes the served OpenAPI document.
func WithDocumentOptions(opts openapi.Options) Option {
	return func(s *Server) {
		s.docOptions = opts
	}
}
