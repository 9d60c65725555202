// Package load reads model definitions into a schema.Model.
package load

import (
	"context"
	"fmt"
	"slices"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

// Reader fills the model it was created for from a model source.
type Reader interface {
	// ReadModel reads the model source at path. Reading several sources
	// into the same model fails on names defined twice.
	ReadModel(ctx context.Context, path string) error
}

// Factory creates a reader for a model.
type Factory func(*schema.Model) Reader

// Registry maps reader names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("entigen: invalid reader registration %q", name)
	}
	if _, ok := r.factories[name]; ok {
		return entigen.NewDuplicateDefinitionError(entigen.KindReader, name)
	}
	r.factories[name] = f
	return nil
}

// New creates the reader registered under name.
func (r *Registry) New(name string, m *schema.Model) (Reader, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, entigen.NewNotFoundError(entigen.KindReader, name)
	}
	return f(m), nil
}

// Names returns the registered reader names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterDefaults registers the readers of this package.
func RegisterDefaults(r *Registry) error {
	for name, f := range map[string]Factory{
		"csv":      NewCSVReader,
		"yaml":     NewYAMLReader,
		"sql":      NewSQLReader,
		"snapshot": NewSnapshotReader,
	} {
		if err := r.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// Load creates a model, reads every path with the named reader and
// validates the result.
func Load(ctx context.Context, r *Registry, reader string, paths ...string) (*schema.Model, error) {
	m := schema.NewModel()
	rd, err := r.New(reader, m)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := rd.ReadModel(ctx, path); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
