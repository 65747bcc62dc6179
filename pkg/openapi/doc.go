// Package openapi describes the JSON prediction API as an OpenAPI 3 document
// derived from the task registry. Every registered task gets its own predict
// operation whose request body lists the task's features in vector order.
package openapi
