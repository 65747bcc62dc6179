// Package tui is a terminal form surface. Prompts go through a PromptDriver
// (survey by default) so the surface can be scripted in tests.
package tui
