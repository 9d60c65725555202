package gen

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
)

// Config holds the settings of a generation run: where the model comes
// from and which blocks are written where.
type Config struct {
	// Models are the paths handed to the reader.
	Models []string `yaml:"models" toml:"models"`
	// Reader is the registered name of the model reader.
	Reader string `yaml:"reader" toml:"reader"`
	// Targets are generated in parallel.
	Targets []Target `yaml:"targets" toml:"targets"`
	// Workers bounds the number of targets rendered at once.
	Workers int `yaml:"workers" toml:"workers"`
	// Header is the default "header" option of every target.
	Header string `yaml:"header" toml:"header"`
}

// Target selects a block of a writer and the file it is written to.
type Target struct {
	Writer   string   `yaml:"writer" toml:"writer"`
	Block    string   `yaml:"block" toml:"block"`
	Entities []string `yaml:"entities" toml:"entities"`
	// Output is the file path. Empty or "-" means standard output.
	Output  string  `yaml:"output" toml:"output"`
	Options Options `yaml:"options" toml:"options"`
}

// String returns writer/block, as used in log messages.
func (t Target) String() string {
	return t.Writer + "/" + t.Block
}

// Stdout reports whether the target is written to standard output.
func (t Target) Stdout() bool {
	return t.Output == "" || t.Output == "-"
}

// Option configures code generation.
type Option func(*Config) error

// WithModels sets the model paths.
func WithModels(paths ...string) Option {
	return func(c *Config) error {
		if len(paths) == 0 {
			return NewConfigError("models", nil, "at least one model path is required")
		}
		c.Models = append(c.Models, paths...)
		return nil
	}
}

// WithReader sets the model reader by registered name.
func WithReader(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("reader", nil, "reader cannot be empty")
		}
		c.Reader = name
		return nil
	}
}

// WithTargets adds generation targets.
func WithTargets(targets ...Target) Option {
	return func(c *Config) error {
		for _, t := range targets {
			if err := t.validate(); err != nil {
				return err
			}
		}
		c.Targets = append(c.Targets, targets...)
		return nil
	}
}

// WithWorkers sets the number of targets rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithHeader sets the file header used by targets without a header option.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks that the config describes a complete run.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Models) == 0 {
		errs = append(errs, NewConfigError("models", nil, "at least one model path is required"))
	}
	if c.Reader == "" {
		errs = append(errs, NewConfigError("reader", nil, "reader cannot be empty"))
	}
	if len(c.Targets) == 0 {
		errs = append(errs, NewConfigError("targets", nil, "at least one target is required"))
	}
	for _, t := range c.Targets {
		if err := t.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Workers < 1 {
		errs = append(errs, NewConfigError("workers", c.Workers, "must be positive"))
	}
	return errors.Join(errs...)
}

// ResolvedTargets returns the targets with the config header filled in.
// The options of the config are not modified.
func (c *Config) ResolvedTargets() []Target {
	targets := make([]Target, len(c.Targets))
	for i, t := range c.Targets {
		opts := make(Options, len(t.Options)+1)
		maps.Copy(opts, t.Options)
		if _, ok := opts["header"]; !ok && c.Header != "" {
			opts["header"] = c.Header
		}
		t.Options = opts
		targets[i] = t
	}
	return targets
}

func (t Target) validate() error {
	switch {
	case t.Writer == "":
		return NewConfigError("writer", nil, fmt.Sprintf("target %q has no writer", t.Output))
	case t.Block == "":
		return NewConfigError("block", nil, fmt.Sprintf("target %q has no block type", t.Output))
	}
	return nil
}

// NewConfig creates a new Config with the given options. The reader
// defaults to csv and the worker count to GOMAXPROCS.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Reader: "csv", Workers: runtime.GOMAXPROCS(0)}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
