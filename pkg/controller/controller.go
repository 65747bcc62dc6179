package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/schema"
	"github.com/goliatone/go-formpredict/pkg/validation"
)

// Option customises the controller.
type Option func(*Controller)

// WithLogger sets the logger used for cycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRenderer injects a custom field renderer.
func WithRenderer(renderer *form.Renderer) Option {
	return func(c *Controller) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// Controller coordinates registry, renderer, validator and gateway. It keeps
// no per-cycle state, so one instance serves any number of concurrent cycles.
type Controller struct {
	registry *schema.Registry
	gateway  *inference.Gateway
	renderer *form.Renderer
	logger   *zap.Logger
}

// New constructs a Controller. Missing collaborators fall back to the
// built-in defaults.
func New(registry *schema.Registry, gateway *inference.Gateway, options ...Option) *Controller {
	c := &Controller{
		registry: registry,
		gateway:  gateway,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.registry == nil {
		c.registry = schema.MustNewRegistry()
	}
	if c.gateway == nil {
		c.gateway = inference.NewGateway(nil)
	}
	if c.renderer == nil {
		c.renderer = form.NewRenderer()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Registry exposes the schema registry backing the controller.
func (c *Controller) Registry() *schema.Registry {
	return c.registry
}

// Gateway exposes the model gateway backing the controller.
func (c *Controller) Gateway() *inference.Gateway {
	return c.gateway
}

// Cycle runs one render cycle for the named task on surface. Only surface
// failures (cancellation, an aborted terminal) are returned as errors; every
// pipeline problem is displayed on the surface and recorded in the report.
func (c *Controller) Cycle(ctx context.Context, surface form.Surface, name string) (Report, error) {
	if surface == nil {
		return Report{}, form.ErrNilSurface
	}
	report := newReport(name)

	s, err := c.registry.Get(name)
	if err != nil {
		c.fail(&report, err)
		c.log(report)
		return report, surface.Error(ctx, report.Message)
	}

	submission, err := c.renderer.Render(ctx, s, surface)
	if err != nil {
		report.enter(StateIdle)
		return report, fmt.Errorf("controller: render %s: %w", s.Name, err)
	}
	report.enter(StateRendered)

	submitted, err := surface.Submit(ctx, s.ButtonLabel())
	if err != nil {
		report.enter(StateIdle)
		return report, fmt.Errorf("controller: submit %s: %w", s.Name, err)
	}
	if !submitted {
		report.enter(StateIdle)
		return report, nil
	}

	c.evaluate(ctx, s, submission, &report)
	c.log(report)
	return report, c.display(ctx, surface, report)
}

// Evaluate runs a cycle from Submitted for a submission captured elsewhere
// (an HTTP request, CLI flags). The returned report always ends in Idle.
func (c *Controller) Evaluate(ctx context.Context, name string, submission form.Submission) Report {
	report := newReport(name)

	s, err := c.registry.Get(name)
	if err != nil {
		c.fail(&report, err)
		c.log(report)
		return report
	}

	report.enter(StateSubmitted)
	c.evaluate(ctx, s, submission, &report)
	c.log(report)
	return report
}

func (c *Controller) evaluate(ctx context.Context, s schema.TaskSchema, submission form.Submission, report *Report) {
	if !report.reached(StateSubmitted) {
		report.enter(StateSubmitted)
	}

	report.Outcome = validation.Validate(s, submission)
	report.enter(StateValidated)
	if !report.Outcome.OK() {
		report.Errors = report.Outcome.Errors.Messages()
		report.Message = strings.Join(report.Errors, "\n")
		report.enter(StateIdle)
		return
	}

	report.enter(StatePredicted)
	result, err := c.gateway.Predict(ctx, s.ModelRef, report.Outcome.Vector)
	if err != nil {
		c.fail(report, err)
		return
	}

	report.Result = &result
	report.Verdict = s.OutcomeLabel(result.Class)
	report.Message = VerdictMessage(report.Verdict, result.Probability)
	report.enter(StateIdle)
}

func (c *Controller) fail(report *Report, err error) {
	report.Failure = err
	report.Message = FailureMessage(err)
	if report.Final() != StateIdle {
		report.enter(StateIdle)
	}
}

func (c *Controller) display(ctx context.Context, surface form.Surface, report Report) error {
	switch {
	case report.Result != nil:
		return surface.Success(ctx, report.Message)
	case len(report.Errors) > 0:
		var errs []error
		for _, msg := range report.Errors {
			errs = append(errs, surface.Error(ctx, msg))
		}
		return errors.Join(errs...)
	case report.Message != "":
		return surface.Error(ctx, report.Message)
	}
	return nil
}

func (c *Controller) log(report Report) {
	fields := []zap.Field{
		zap.String("cycle_id", report.CycleID.String()),
		zap.String("task", report.Schema),
		zap.Any("states", report.States),
	}
	switch {
	case report.Failure != nil:
		c.logger.Warn("cycle failed", append(fields, zap.Error(report.Failure))...)
	case len(report.Errors) > 0:
		c.logger.Info("submission rejected", append(fields, zap.Strings("errors", report.Errors))...)
	case report.Result != nil:
		c.logger.Info("prediction", append(fields, zap.String("verdict", report.Verdict), zap.Int("class", report.Result.Class))...)
	}
}

func newReport(name string) Report {
	return Report{
		CycleID: uuid.New(),
		Schema:  name,
		States:  []State{StateIdle},
	}
}
