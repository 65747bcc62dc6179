package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formpredict/pkg/schema"
)

var (
	// ErrInvalidChoice signals a value outside the declared options of a
	// choice feature, returned by a surface or given as text.
	ErrInvalidChoice = errors.New("form: undeclared choice")
	// ErrNilSurface is returned when Render is called without a surface.
	ErrNilSurface = errors.New("form: surface is nil")
)

// Renderer requests one raw value per feature from a Surface. It holds no
// per-cycle state and is safe for concurrent use.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render shows the schema's help text, then walks the features in schema
// order and records each captured value under its label.
func (r *Renderer) Render(ctx context.Context, s schema.TaskSchema, surface Surface) (Submission, error) {
	if ctx == nil {
		return nil, errors.New("form: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, ErrNilSurface
	}

	if help := HelpText(s); help != "" {
		if err := surface.Help(ctx, help); err != nil {
			return nil, fmt.Errorf("form: help: %w", err)
		}
	}

	submission := make(Submission, len(s.Features))
	for _, field := range Layout(s) {
		value, err := r.capture(ctx, field, surface)
		if err != nil {
			return nil, err
		}
		submission[field.Key.Label] = value
	}
	return submission, nil
}

func (r *Renderer) capture(ctx context.Context, field Field, surface Surface) (Value, error) {
	if field.Spec.Kind == schema.KindChoice {
		option, err := surface.Choice(ctx, field)
		if err != nil {
			return Value{}, fmt.Errorf("form: choice %s: %w", field.Key, err)
		}
		if !field.Spec.HasOption(option) {
			return Value{}, fmt.Errorf("%w: %s got %s", ErrInvalidChoice, field.Key, schema.FormatOption(option))
		}
		return Selected(option), nil
	}

	raw, err := surface.Text(ctx, field)
	if err != nil {
		return Value{}, fmt.Errorf("form: input %s: %w", field.Key, err)
	}
	return Text(raw), nil
}

// HelpText composes the static help shown above the fields: the schema's
// help text followed by its legend blocks.
func HelpText(s schema.TaskSchema) string {
	var b strings.Builder
	if text := strings.TrimSpace(s.HelpText); text != "" {
		b.WriteString(text)
	}
	for _, block := range s.Legend {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.Title)
		b.WriteString(":")
		for _, entry := range block.Entries {
			b.WriteString("\n  ")
			b.WriteString(entry)
		}
	}
	return b.String()
}
