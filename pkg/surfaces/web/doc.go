// Package web is an HTML form surface. A Surface is built per request from
// the posted form values; it records the widgets the renderer asks for and
// the messages the controller shows, and the Renderer turns the resulting
// Page into HTML through the pongo2 template engine.
package web
