package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formpredict/pkg/schema"
)

const (
	// Version is the OpenAPI version emitted by Describe.
	Version = "3.0.3"

	// TasksPath lists the registered tasks.
	TasksPath = "/api/v1/tasks"
)

// Options tune the generated document.
type Options struct {
	Title       string
	Version     string
	Description string
}

// PredictPath returns the predict endpoint of the task with the given name.
func PredictPath(name string) string {
	return TasksPath + "/" + schema.Slug(name) + "/predict"
}

// OperationID returns the operationId of a task's predict endpoint.
func OperationID(name string) string {
	return "predict_" + schema.Slug(name)
}

// Describe builds and validates the OpenAPI document for the registry.
func Describe(ctx context.Context, registry *schema.Registry, opts Options) (*openapi3.T, error) {
	if registry == nil {
		return nil, errors.New("openapi: registry is nil")
	}
	if opts.Title == "" {
		opts.Title = "Multiple Disease Prediction System"
	}
	if opts.Version == "" {
		opts.Version = "v1"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       opts.Title,
			Version:     opts.Version,
			Description: opts.Description,
		},
		Paths: openapi3.NewPaths(),
	}

	doc.Paths.Set(TasksPath, &openapi3.PathItem{Get: listOperation()})
	doc.Paths.Set(TasksPath+"/{name}", &openapi3.PathItem{Get: showOperation()})
	for _, s := range registry.Schemas() {
		doc.Paths.Set(PredictPath(s.Name), &openapi3.PathItem{Post: predictOperation(s)})
	}

	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks doc against the OpenAPI specification rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return errors.New("openapi: document is nil")
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi: validate document: %w", err)
	}
	return nil
}

// Load parses and validates a serialized document, e.g. one written by the
// openapi command.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RequestSchema is the body schema of a task's predict endpoint.
func RequestSchema(s schema.TaskSchema) *openapi3.Schema {
	features := openapi3.NewObjectSchema()
	features.Description = "Feature values keyed by name or label, in model order."
	for _, f := range s.Features {
		features.WithProperty(f.Name, featureSchema(f))
		if f.Kind.Numeric() {
			features.Required = append(features.Required, f.Name)
		}
	}

	body := openapi3.NewObjectSchema().WithProperty("features", features)
	body.Required = []string{"features"}
	return body
}

func featureSchema(f schema.FeatureSpec) *openapi3.Schema {
	var out *openapi3.Schema
	switch f.Kind {
	case schema.KindInt:
		out = openapi3.NewIntegerSchema()
	case schema.KindChoice:
		out = openapi3.NewFloat64Schema()
		values := make([]any, 0, len(f.Options))
		for _, option := range f.Options {
			values = append(values, option)
		}
		out.WithEnum(values...)
		if def, ok := f.DefaultOption(); ok {
			out.Default = def
		}
	default:
		out = openapi3.NewFloat64Schema()
	}
	out.Title = f.Label
	out.Description = f.Help
	return out
}

// ResponseSchema describes a prediction report.
func ResponseSchema() *openapi3.Schema {
	probability := openapi3.NewObjectSchema().
		WithProperty("negative", openapi3.NewFloat64Schema()).
		WithProperty("positive", openapi3.NewFloat64Schema())

	out := openapi3.NewObjectSchema().
		WithProperty("cycleId", openapi3.NewUUIDSchema()).
		WithProperty("task", openapi3.NewStringSchema()).
		WithProperty("states", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("vector", openapi3.NewArraySchema().WithItems(openapi3.NewFloat64Schema())).
		WithProperty("verdict", openapi3.NewStringSchema()).
		WithProperty("class", openapi3.NewIntegerSchema().WithEnum(0, 1)).
		WithProperty("probability", probability).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("errors", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	out.Required = []string{"cycleId", "task", "states", "message"}
	return out
}

// TaskSchemaDoc describes a task as listed by the API.
func TaskSchemaDoc() *openapi3.Schema {
	feature := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum(
			string(schema.KindInt), string(schema.KindFloat), string(schema.KindChoice))).
		WithProperty("options", openapi3.NewArraySchema().WithItems(openapi3.NewFloat64Schema()))

	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("modelRef", openapi3.NewStringSchema()).
		WithProperty("columnsPerRow", openapi3.NewIntegerSchema()).
		WithProperty("features", openapi3.NewArraySchema().WithItems(feature))
}

func listOperation() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "list_tasks"
	op.Summary = "List prediction tasks"
	op.Tags = []string{"tasks"}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Registered tasks.",
			openapi3.NewArraySchema().WithItems(TaskSchemaDoc()))),
	)
	return op
}

func showOperation() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "get_task"
	op.Summary = "Describe a prediction task"
	op.Tags = []string{"tasks"}
	op.Parameters = openapi3.Parameters{
		{Value: openapi3.NewPathParameter("name").
			WithDescription("Task name or slug.").
			WithSchema(openapi3.NewStringSchema())},
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Task schema.", TaskSchemaDoc())),
		openapi3.WithStatus(404, jsonResponse("Unknown task.", errorSchema())),
	)
	return op
}

func predictOperation(s schema.TaskSchema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = OperationID(s.Name)
	op.Summary = s.ButtonLabel()
	op.Description = s.Heading()
	op.Tags = []string{"predict"}
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(RequestSchema(s)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Verdict for a valid submission.", ResponseSchema())),
		openapi3.WithStatus(400, jsonResponse("Malformed request body.", errorSchema())),
		openapi3.WithStatus(404, jsonResponse("Unknown task.", errorSchema())),
		openapi3.WithStatus(422, jsonResponse("Submission rejected by validation.", ResponseSchema())),
		openapi3.WithStatus(500, jsonResponse("Prediction failed.", ResponseSchema())),
		openapi3.WithStatus(503, jsonResponse("Model unavailable.", ResponseSchema())),
	)
	return op
}

func errorSchema() *openapi3.Schema {
	out := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
	out.Required = []string{"error"}
	return out
}

func jsonResponse(description string, body *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(body),
	}
}
