package schema

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSchema is returned when a task name is not registered.
var ErrUnknownSchema = errors.New("schema: unknown schema")

// UnknownSchemaError names the missing task. It matches ErrUnknownSchema via
// errors.Is.
type UnknownSchemaError struct {
	Name string
}

func (e UnknownSchemaError) Error() string {
	return fmt.Sprintf("schema: unknown schema %q", e.Name)
}

func (e UnknownSchemaError) Is(target error) bool {
	return target == ErrUnknownSchema
}

// Registry stores task schemas by name, preserving registration order so
// selection menus and tests can enumerate them deterministically.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	schemas map[string]TaskSchema
}

// NewRegistry creates a registry from the supplied schemas, validating each.
func NewRegistry(schemas ...TaskSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]TaskSchema, len(schemas))}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry panics on registration failure. Useful for init-time wiring.
func MustNewRegistry(schemas ...TaskSchema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a schema. Duplicate names return an error.
func (r *Registry) Register(s TaskSchema) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schemas == nil {
		r.schemas = make(map[string]TaskSchema)
	}
	if _, exists := r.schemas[s.Name]; exists {
		return fmt.Errorf("schema: task %q already registered", s.Name)
	}
	r.schemas[s.Name] = cloneSchema(s)
	r.order = append(r.order, s.Name)
	return nil
}

// Get retrieves a schema by name.
func (r *Registry) Get(name string) (TaskSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return TaskSchema{}, UnknownSchemaError{Name: name}
	}
	return cloneSchema(s), nil
}

// Lookup resolves a task by exact name or by its URL slug
// ("heart_disease_prediction").
func (r *Registry) Lookup(key string) (TaskSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.schemas[key]; ok {
		return cloneSchema(s), nil
	}
	slug := Slug(key)
	for _, name := range r.order {
		if slug != "" && Slug(name) == slug {
			return cloneSchema(r.schemas[name]), nil
		}
	}
	return TaskSchema{}, UnknownSchemaError{Name: key}
}

// Names returns the registered task names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Schemas returns every registered schema in registration order.
func (r *Registry) Schemas() []TaskSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TaskSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, cloneSchema(r.schemas[name]))
	}
	return out
}

// Default returns the first registered schema, the default selection.
func (r *Registry) Default() (TaskSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return TaskSchema{}, errors.New("schema: registry is empty")
	}
	return cloneSchema(r.schemas[r.order[0]]), nil
}

// Len reports the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func cloneSchema(s TaskSchema) TaskSchema {
	out := s
	out.Features = make([]FeatureSpec, len(s.Features))
	for i, feature := range s.Features {
		out.Features[i] = cloneFeature(feature)
	}
	if len(s.Legend) > 0 {
		out.Legend = make([]LegendBlock, len(s.Legend))
		for i, block := range s.Legend {
			out.Legend[i] = LegendBlock{
				Title:   block.Title,
				Entries: append([]string(nil), block.Entries...),
			}
		}
	}
	return out
}

func cloneFeature(f FeatureSpec) FeatureSpec {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]float64(nil), f.Options...)
	}
	if len(f.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
