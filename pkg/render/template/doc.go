// Package template defines the template rendering seam used by the web
// surface. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
