package python

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/compiler/load"
	"github.com/syssam/entigen/schema"
)

func shopModel(t *testing.T) *schema.Model {
	t.Helper()
	r := load.NewRegistry()
	require.NoError(t, load.RegisterDefaults(r))
	m, err := load.Load(context.Background(), r, "csv", "../../load/testdata/shop")
	require.NoError(t, err)
	return m
}

func render(t *testing.T, m *schema.Model, opts gen.Options, blockType string, entities ...string) string {
	t.Helper()
	w, err := New(m, opts)
	require.NoError(t, err)
	b, err := w.CreateBlock(blockType, entities)
	require.NoError(t, err)
	return b.String()
}

func TestModule(t *testing.T) {
	golden.Assert(t, render(t, shopModel(t), nil, Module)+"\n", "module.golden")
}

func TestClasses(t *testing.T) {
	out := render(t, shopModel(t), gen.Options{"indent": 2}, Classes, "Customer")
	assert.Equal(t, `class Customer:
  """A person placing orders"""

  # Id
  id: UUID
  # Full name
  fullName: str
  # Birthday
  birthday: Optional[date]

  def __init__(self,
               id: UUID,
               fullName: str,
               birthday: Optional[date] = None) -> None:
    """Create Customer"""
    self.id = id
    self.fullName = fullName
    self.birthday = birthday`, out)
}

func TestEnums(t *testing.T) {
	m := shopModel(t)
	assert.Equal(t, `class Status(Enum):
    """Status"""
    NEW = "new"
    PAID = "paid"
    SHIPPED = "SHIPPED"`, render(t, m, nil, Enums))
	assert.Empty(t, render(t, m, nil, Enums, "OrderLine"))
}

func TestHeader(t *testing.T) {
	m := schema.NewModel()
	require.NoError(t, m.AddEntity(schema.NewEntity("Empty")))
	out := render(t, m, gen.Options{"header": "Generated by entigen. Do not edit."}, Module)
	assert.Equal(t, `# Generated by entigen. Do not edit.

class Empty:
    """Empty"""

    def __init__(self) -> None:
        """Create Empty"""`, out)
}

func TestDescriptions(t *testing.T) {
	m := schema.NewModel()
	e := schema.NewEntity("Note")
	e.Label = "Note"
	p, err := schema.NewProperty("text", 1, "string")
	require.NoError(t, err)
	p.Label, p.Description = "Text", "Body of the note"
	def := "hello"
	p.Default = &def
	require.NoError(t, e.AddProperty(p))
	require.NoError(t, m.AddEntity(e))

	out := render(t, m, nil, Classes)
	assert.Contains(t, out, "    text: str\n    \"\"\"Body of the note\"\"\"\n")
	assert.Contains(t, out, `text: str = "hello") -> None:`)
}

func TestOptions(t *testing.T) {
	m := shopModel(t)
	for name, opts := range map[string]gen.Options{
		"unknown":     {"tabs": true},
		"bad indent":  {"indent": "wide"},
		"zero indent": {"indent": 0},
		"bad header":  {"header": 42},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(m, opts)
			assert.True(t, gen.IsConfigError(err))
		})
	}

	w, err := New(m, nil)
	require.NoError(t, err)
	_, err = w.CreateBlock("package", nil)
	assert.True(t, gen.IsConfigError(err))
}

func TestEnumNameCollision(t *testing.T) {
	m := schema.NewModel()
	kind := schema.NewEnumeration("Kind")
	require.NoError(t, kind.AddValue(&schema.EnumValue{Name: "newItem"}))
	require.NoError(t, kind.AddValue(&schema.EnumValue{Name: "new_item"}))
	require.NoError(t, m.AddEnumeration(kind))
	e := schema.NewEntity("Item")
	p, err := schema.NewProperty("kind", 1, "Kind")
	require.NoError(t, err)
	require.NoError(t, e.AddProperty(p))
	require.NoError(t, m.AddEntity(e))

	w, err := New(m, nil)
	require.NoError(t, err)
	_, err = w.CreateBlock(Enums, nil)
	require.Error(t, err)
	assert.True(t, entigen.IsMetadataError(err))
	assert.Contains(t, err.Error(), `"newItem" and "new_item" both map to "NEW_ITEM"`)
}
