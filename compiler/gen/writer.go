package gen

import (
	"slices"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/schema"
)

// Writer turns a model into blocks of target language code.
type Writer interface {
	// Name returns the registered name of the writer.
	Name() string
	// BlockTypes lists the block types CreateBlock accepts.
	BlockTypes() []string
	// CreateBlock builds a block of the given type for the named entities.
	// An empty entity list selects every entity of the model.
	CreateBlock(blockType string, entities []string) (*block.Block, error)
}

// Formatter is implemented by writers that post-process rendered text,
// for example with a language formatter.
type Formatter interface {
	Format(path string, src []byte) ([]byte, error)
}

// Factory creates a writer for a model.
type Factory func(*schema.Model, Options) (Writer, error)

// Registry maps writer names to factories.
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
		return NewConfigError("writer", name, "invalid registration")
	}
	if _, ok := r.factories[name]; ok {
		return entigen.NewDuplicateDefinitionError(entigen.KindWriter, name)
	}
	r.factories[name] = f
	return nil
}

// New creates the writer registered under name.
func (r *Registry) New(name string, m *schema.Model, opts Options) (Writer, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, entigen.NewNotFoundError(entigen.KindWriter, name)
	}
	return f(m, opts)
}

// Names returns the registered writer names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CheckBlockType returns a ConfigError if w does not support blockType.
// Writers call it first in CreateBlock.
func CheckBlockType(w Writer, blockType string) error {
	if slices.Contains(w.BlockTypes(), blockType) {
		return nil
	}
	return NewConfigError("block", blockType, "unknown block type for writer "+w.Name())
}
