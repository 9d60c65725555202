package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entigen"
)

func TestParse(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		typ, err := Parse("string")
		require.NoError(t, err)
		assert.Equal(t, "string", typ.Name)
		assert.Nil(t, typ.Children)
		assert.True(t, typ.IsBase())
		assert.False(t, typ.IsComposite())
		assert.False(t, typ.IsReference())
	})

	t.Run("composed", func(t *testing.T) {
		typ, err := Parse("list<string>")
		require.NoError(t, err)
		assert.Equal(t, "list", typ.Name)
		require.Len(t, typ.Children, 1)
		assert.True(t, typ.IsComposite())

		child, err := typ.FirstChild()
		require.NoError(t, err)
		assert.Equal(t, "string", child.Name)
		assert.Nil(t, child.Children)
	})

	t.Run("map with whitespace", func(t *testing.T) {
		typ, err := Parse(" map< string , list<Address> > ")
		require.NoError(t, err)
		assert.Equal(t, "map<string,list<Address>>", typ.String())
		assert.Equal(t, []string{"Address"}, typ.References())
		assert.True(t, typ.Uses(String))
		assert.False(t, typ.Uses(Int))
	})

	t.Run("reference", func(t *testing.T) {
		typ := MustParse("Color")
		assert.True(t, typ.IsReference())
		assert.Equal(t, []string{"Color"}, typ.References())
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty", "", "empty type"},
		{"syntax", "list<", "syntax error"},
		{"base as composite", "string<int>", "base type string"},
		{"list without argument", "list", "list expects 1"},
		{"list with two arguments", "list<int,int>", "got 2"},
		{"map with one argument", "map<int>", "map expects 2"},
		{"unknown composite", "Address<int>", "unknown composite type Address"},
		{"nested error", "list<string<int>>", "base type string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.True(t, entigen.IsDatatypeError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	t.Run("MustParse panics", func(t *testing.T) {
		assert.Panics(t, func() { MustParse("list") })
	})
}

func TestFirstChild(t *testing.T) {
	_, err := MustParse("int").FirstChild()
	require.Error(t, err)
	assert.True(t, entigen.IsDatatypeError(err))
	assert.Contains(t, err.Error(), "not a composite type")
}

func TestString(t *testing.T) {
	for _, s := range []string{"int", "list<string>", "map<string,int>", "list<list<Color>>"} {
		assert.Equal(t, s, MustParse(s).String())
	}
}
