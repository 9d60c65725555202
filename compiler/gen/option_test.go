package gen

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Generated by entigen")(c)

		require.NoError(t, err)
		assert.Equal(t, "Generated by entigen", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithModels(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithModels("a", "b")(c))
	require.NoError(t, WithModels("c")(c))
	assert.Equal(t, []string{"a", "b", "c"}, c.Models)

	err := WithModels()(c)
	assert.True(t, IsConfigError(err))
}

func TestWithReader(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithReader("yaml")(c))
	assert.Equal(t, "yaml", c.Reader)
	assert.True(t, IsConfigError(WithReader("")(c)))
}

func TestWithTargets(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{"complete", Target{Writer: "python", Block: "module", Output: "m.py"}, false},
		{"stdout", Target{Writer: "info", Block: "summary"}, false},
		{"no writer", Target{Block: "module"}, true},
		{"no block", Target{Writer: "python"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithTargets(tt.target)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Empty(t, c.Targets)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.Targets, 1)
		})
	}
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.Workers)
	assert.True(t, IsConfigError(WithWorkers(0)(c)))
	assert.Equal(t, 3, c.Workers)
}

func TestTarget(t *testing.T) {
	assert.True(t, Target{}.Stdout())
	assert.True(t, Target{Output: "-"}.Stdout())
	assert.False(t, Target{Output: "x.py"}.Stdout())
	assert.Equal(t, "sql/schema", Target{Writer: "sql", Block: "schema"}.String())
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithReader(""), WithHeader("h"))
		require.Error(t, err)
		assert.Empty(t, c.Header)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithReader(""), WithHeader("h"), WithWorkers(-1))
		require.Error(t, err)
		assert.Equal(t, "h", c.Header)
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.Contains(t, err.Error(), "reader")
		assert.Contains(t, err.Error(), "workers")
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "csv", c.Reader)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(0))
		assert.True(t, IsConfigError(err))
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithReader("")) })
		assert.NotPanics(t, func() { MustNewConfig(WithReader("yaml")) })
	})

	t.Run("validate", func(t *testing.T) {
		c := MustNewConfig()
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "models")
		assert.Contains(t, err.Error(), "targets")

		require.NoError(t, c.Apply(
			WithModels("testdata/shop"),
			WithTargets(Target{Writer: "info", Block: "summary"}),
		))
		assert.NoError(t, c.Validate())
	})
}

func TestResolvedTargets(t *testing.T) {
	c := MustNewConfig(
		WithHeader("Generated"),
		WithTargets(
			Target{Writer: "python", Block: "module"},
			Target{Writer: "sql", Block: "schema", Options: Options{"header": "Custom"}},
		),
	)
	targets := c.ResolvedTargets()
	require.Len(t, targets, 2)
	assert.Equal(t, "Generated", targets[0].Options["header"])
	assert.Equal(t, "Custom", targets[1].Options["header"])
	assert.Nil(t, c.Targets[0].Options)
}
