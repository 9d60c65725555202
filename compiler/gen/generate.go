package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/entigen/compiler/load"
	"github.com/syssam/entigen/schema"
)

// Result is the generated text of one target.
type Result struct {
	Target Target
	// Path is the written file, empty for standard output targets.
	Path    string
	Content []byte
}

// Generator renders targets of a model in parallel. The model is only read
// during generation and every target builds its own block tree.
type Generator struct {
	model    *schema.Model
	registry *Registry
	workers  int
	logger   *slog.Logger
}

// NewGenerator creates a generator for m using the writers of r.
func NewGenerator(m *schema.Model, r *Registry) *Generator {
	return &Generator{
		model:    m,
		registry: r,
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithLogger sets the logger reporting generated files.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Generate renders every target. Results are returned in target order.
// The first failing target cancels the others.
func (g *Generator) Generate(ctx context.Context, targets ...Target) ([]*Result, error) {
	results := make([]*Result, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, t := range targets {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := g.generate(t)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// generate renders a single target.
func (g *Generator) generate(t Target) (*Result, error) {
	start := time.Now()
	w, err := g.registry.New(t.Writer, g.model, t.Options)
	if err != nil {
		return nil, NewGenerationError(t, "", "create writer", err)
	}
	b, err := w.CreateBlock(t.Block, t.Entities)
	if err != nil {
		return nil, NewGenerationError(t, "", "create block", err)
	}
	src := []byte(b.String())
	if len(src) > 0 {
		src = append(src, '\n')
	}

	res := &Result{Target: t, Content: src}
	if !t.Stdout() {
		res.Path = t.Output
	}
	if f, ok := w.(Formatter); ok {
		formatted, err := f.Format(t.Output, src)
		if err != nil {
			if res.Path == "" {
				return nil, NewGenerationError(t, "", "format", err)
			}
			// Best effort, the format error is the one reported.
			debugPath := res.Path + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, src, 0o644)
			return nil, NewGenerationError(t, res.Path, fmt.Sprintf("format (unformatted written to %s)", debugPath), err)
		}
		res.Content = formatted
	}
	if res.Path != "" {
		if err := os.MkdirAll(filepath.Dir(res.Path), 0o755); err != nil {
			return nil, NewGenerationError(t, res.Path, "create directory", err)
		}
		if err := os.WriteFile(res.Path, res.Content, 0o644); err != nil {
			return nil, NewGenerationError(t, res.Path, "write", err)
		}
	}
	g.logger.Info("generated", "target", t.String(), "file", res.Path, "bytes", len(res.Content), "took", time.Since(start))
	return res, nil
}

// Run loads the model described by c and generates its targets.
func Run(ctx context.Context, c *Config, readers *load.Registry, writers *Registry, logger *slog.Logger) ([]*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m, err := load.Load(ctx, readers, c.Reader, c.Models...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(m, writers).
		WithWorkers(c.Workers).
		WithLogger(logger).
		Generate(ctx, c.ResolvedTargets()...)
}
