// Package cli implements the entigen command-line interface.
//
// # Commands
//
// The main commands are:
//   - generate: Load a model and write blocks of target language code
//   - inspect: List the entities and enumerations of a model
//   - snapshot: Save a model as a msgpack snapshot
//   - writers: List the registered readers and writers
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and handed to the generator as a
// *slog.Logger.
package cli

import (
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/compiler/gen/golang"
	"github.com/syssam/entigen/compiler/gen/graphql"
	"github.com/syssam/entigen/compiler/gen/info"
	"github.com/syssam/entigen/compiler/gen/python"
	"github.com/syssam/entigen/compiler/gen/sql"
	"github.com/syssam/entigen/compiler/load"
)

// appName is the application name used in messages and headers.
const appName = "entigen"

// registries holds the readers and writers available to commands.
type registries struct {
	readers *load.Registry
	writers *gen.Registry
}

// newRegistries registers the built-in readers and writers.
func newRegistries() (*registries, error) {
	readers := load.NewRegistry()
	if err := load.RegisterDefaults(readers); err != nil {
		return nil, err
	}
	writers := gen.NewRegistry()
	for name, f := range map[string]gen.Factory{
		info.Name:    info.New,
		python.Name:  python.New,
		golang.Name:  golang.New,
		sql.Name:     sql.New,
		graphql.Name: graphql.New,
	} {
		if err := writers.Register(name, f); err != nil {
			return nil, err
		}
	}
	return &registries{readers: readers, writers: writers}, nil
}
