// Package gen runs code generation for entigen models.
//
// A generation run reads a model with a registered reader and renders a
// list of targets. Each target names a writer, one of the block types the
// writer supports, the entities to include and an output file:
//
//	Model source (csv, yaml, sql, snapshot)
//	        ↓
//	   load.Reader
//	        ↓
//	   schema.Model (validated, read-only)
//	        ↓
//	   Writer.CreateBlock (one block tree per target)
//	        ↓
//	   Formatter (optional) → output file or stdout
//
// Writers are created from a Registry of factories. Nothing registers
// itself: the command line registers the writers it ships with.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid options, targets or config files
//   - GenerationError: a target could not be rendered or written
//
// Example error handling:
//
//	results, err := gen.Run(ctx, cfg, readers, writers, logger)
//	if gen.IsConfigError(err) {
//		// fix the configuration
//	}
//	if errors.Is(err, gen.ErrGenerationFailed) {
//		// inspect the *.error file next to the output
//	}
package gen
