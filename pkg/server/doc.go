// Package server exposes the prediction tasks over HTTP: server-rendered
// form pages driven by the web surface, a JSON prediction API described by
// an OpenAPI document, static assets and a health check.
package server
