package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/entigen/compiler/gen"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	config   string   // YAML or TOML config file
	reader   string   // model reader name
	writer   string   // writer name
	block    string   // block type
	entities []string // selected entities, all if empty
	output   string   // output file path (stdout if empty)
	options  []string // writer options as key=value
	header   string   // default header of every target
	workers  int      // targets rendered in parallel
	watch    bool     // regenerate on model changes
}

func newGenerateCmd(regs *registries) *cobra.Command {
	opts := generateOpts{reader: "csv"}

	cmd := &cobra.Command{
		Use:   "generate [model...]",
		Short: "Generate code from a model",
		Long: `Generate loads the model paths with a reader and writes a block of a
writer for the selected entities. A config file describes several targets
at once; model arguments and --reader override its settings.`,
		Example: `  entigen generate -w python -b module -o models.py ./model
  entigen generate -w sql -b schema --option dialect=postgres ./model
  entigen generate -c entigen.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.buildConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runGenerate(ctx, cmd, regs, c)
			if !opts.watch {
				return err
			}
			logger := loggerFromContext(ctx)
			if err != nil {
				logger.Error("Generation failed", "err", err)
			}
			paths := c.Models
			if opts.config != "" {
				paths = append(paths, opts.config)
			}
			logger.Info("Watching for changes", "paths", paths)
			return watchPaths(ctx, logger, paths, defaultDebounce, func() {
				if opts.config != "" {
					reloaded, err := opts.buildConfig(cmd, args)
					if err != nil {
						logger.Error("Reload config", "err", err)
						return
					}
					c = reloaded
				}
				if err := runGenerate(ctx, cmd, regs, c); err != nil {
					logger.Error("Generation failed", "err", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&opts.reader, "reader", "r", opts.reader, "model reader")
	cmd.Flags().StringVarP(&opts.writer, "writer", "w", "", "writer name")
	cmd.Flags().StringVarP(&opts.block, "block", "b", "", "block type")
	cmd.Flags().StringArrayVarP(&opts.entities, "entity", "e", nil, "entity to generate (repeatable, default all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringArrayVar(&opts.options, "option", nil, "writer option as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.header, "header", "", "header put at the top of every output")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "targets rendered in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "regenerate when the model changes")

	return cmd
}

// buildConfig reads the config file, if any, and applies the flags on top.
func (o *generateOpts) buildConfig(cmd *cobra.Command, args []string) (*gen.Config, error) {
	var (
		c   *gen.Config
		err error
	)
	if o.config != "" {
		c, err = gen.ReadConfigFile(o.config)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			c.Models = nil
		}
	} else {
		c, err = gen.NewConfig()
		if err != nil {
			return nil, err
		}
		target, err := o.target()
		if err != nil {
			return nil, err
		}
		if err := c.Apply(gen.WithTargets(target)); err != nil {
			return nil, err
		}
	}

	var apply []gen.Option
	if len(args) > 0 {
		apply = append(apply, gen.WithModels(args...))
	}
	if o.config == "" || cmd.Flags().Changed("reader") {
		apply = append(apply, gen.WithReader(o.reader))
	}
	if cmd.Flags().Changed("workers") {
		apply = append(apply, gen.WithWorkers(o.workers))
	}
	if cmd.Flags().Changed("header") {
		apply = append(apply, gen.WithHeader(o.header))
	}
	if err := c.ApplyAll(apply...); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// target builds the single target described by the flags.
func (o *generateOpts) target() (gen.Target, error) {
	options := gen.Options{}
	for _, kv := range o.options {
		if err := options.ParseOption(kv); err != nil {
			return gen.Target{}, err
		}
	}
	return gen.Target{
		Writer:   o.writer,
		Block:    o.block,
		Entities: o.entities,
		Output:   o.output,
		Options:  options,
	}, nil
}

// runGenerate runs the generator and prints the targets without output
// file.
func runGenerate(ctx context.Context, cmd *cobra.Command, regs *registries, c *gen.Config) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	results, err := gen.Run(ctx, c, regs.readers, regs.writers, slogFromContext(ctx))
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Path == "" {
			if _, err := cmd.OutOrStdout().Write(res.Content); err != nil {
				return err
			}
		}
	}
	prog.done(fmt.Sprintf("Generated %d target(s)", len(results)))
	return nil
}
