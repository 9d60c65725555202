package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entigen/compiler/block"
)

func TestParseOption(t *testing.T) {
	o := Options{}
	require.NoError(t, o.ParseOption("indent=2"))
	require.NoError(t, o.ParseOption("query=false"))
	require.NoError(t, o.ParseOption("package=shop"))
	require.NoError(t, o.ParseOption("empty="))
	assert.Equal(t, Options{"indent": 2, "query": false, "package": "shop", "empty": ""}, o)

	err := o.ParseOption("indent")
	assert.True(t, IsConfigError(err))
	err = o.ParseOption("=2")
	assert.True(t, IsConfigError(err))
}

func TestContent(t *testing.T) {
	for value, want := range map[string]string{
		"header=2024":           "2024",
		"header=true":           "true",
		"header=Shop models":    "Shop models",
		"header=Copyright=ACME": "Copyright=ACME",
	} {
		t.Run(value, func(t *testing.T) {
			o := Options{}
			require.NoError(t, o.ParseOption(value))
			c, err := o.Content("header")
			require.NoError(t, err)
			assert.Equal(t, block.Line(want), c)

			b, err := block.New(c, block.Prefix("// "))
			require.NoError(t, err)
			assert.Equal(t, "// "+want, b.String())
		})
	}

	t.Run("unset", func(t *testing.T) {
		c, err := Options{}.Content("header")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("list", func(t *testing.T) {
		c, err := Options{"header": []string{"a", "b"}}.Content("header")
		require.NoError(t, err)
		b, err := block.New(c, block.Prefix("# "))
		require.NoError(t, err)
		assert.Equal(t, "# a\n# b", b.String())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Options{"header": 1.5}.Content("header")
		assert.True(t, IsConfigError(err))
	})
}
