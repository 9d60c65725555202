// Package graphql writes a GraphQL schema (SDL) for the entities of a model.
package graphql

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/schema"
	"github.com/syssam/entigen/schema/datatype"
)

// Name is the registered name of the writer.
const Name = "graphql"

// Schema is the only block type: a complete SDL document.
const Schema = "schema"

// Custom scalars, declared when used.
const (
	DateScalar = "Date"
	UUIDScalar = "UUID"
	JSONScalar = "JSON"
)

var baseTypes = map[string]string{
	datatype.String:     "String",
	datatype.Identifier: "ID",
	datatype.Int:        "Int",
	datatype.Float:      "Float",
	datatype.Bool:       "Boolean",
	datatype.UUID:       UUIDScalar,
	datatype.Date:       DateScalar,
}

// Writer creates object types for entities and enum types for
// enumerations.
type Writer struct {
	model  *schema.Model
	indent int
	query  bool
	header block.Content
}

// New creates a GraphQL writer. Options: indent (default 2), query (default
// true) adding a Query type with one list field per entity, and header,
// comment lines put at the top of the document.
func New(m *schema.Model, opts gen.Options) (gen.Writer, error) {
	if err := opts.Check("indent", "query", "header"); err != nil {
		return nil, err
	}
	indent, err := opts.Int("indent", 2)
	if err != nil {
		return nil, err
	}
	if indent < 1 {
		return nil, gen.NewConfigError("indent", indent, "must be positive")
	}
	query, err := opts.Bool("query", true)
	if err != nil {
		return nil, err
	}
	header, err := opts.Content("header")
	if err != nil {
		return nil, err
	}
	return &Writer{model: m, indent: indent, query: query, header: header}, nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return Name }

// BlockTypes implements gen.Writer.
func (w *Writer) BlockTypes() []string { return []string{Schema} }

// Format implements gen.Formatter. The document is returned unchanged once
// it loads as a valid schema.
func (w *Writer) Format(path string, src []byte) ([]byte, error) {
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: path, Input: string(src)}); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return src, nil
}

// CreateBlock implements gen.Writer. Entities referenced by the selected
// ones are included so the document is self-contained.
func (w *Writer) CreateBlock(blockType string, entities []string) (*block.Block, error) {
	if err := gen.CheckBlockType(w, blockType); err != nil {
		return nil, err
	}
	ents, err := w.model.SelectEntities(entities...)
	if err != nil {
		return nil, err
	}
	ents = w.closure(ents)

	var defs []*block.Block
	for _, s := range w.scalars(ents) {
		defs = append(defs, block.MustNew(block.Line("scalar "+s)))
	}
	for _, e := range w.model.UsedEnumerations(ents) {
		if err := e.CheckNames(strcase.ToScreamingSnake); err != nil {
			return nil, err
		}
		defs = append(defs, w.enum(e))
	}
	for _, e := range ents {
		defs = append(defs, w.object(e))
	}
	if w.query && len(ents) > 0 {
		defs = append(defs, w.queryType(ents))
	}

	b := block.MustNew(nil)
	if w.header != nil {
		header, err := block.New(w.header, block.Prefix("# "))
		if err != nil {
			return nil, err
		}
		b.Add(header).Add(block.Line(""))
	}
	for i, d := range defs {
		if i > 0 {
			b.Add(block.Line(""))
		}
		b.Add(d)
	}
	return b, nil
}

// closure appends the entities referenced from ents, directly or through
// composite types, in first-seen order.
func (w *Writer) closure(ents []*schema.Entity) []*schema.Entity {
	out := slices.Clone(ents)
	for i := 0; i < len(out); i++ {
		for _, p := range out[i].Properties {
			for _, name := range p.Type.References() {
				ref, err := w.model.Entity(name)
				if err != nil || slices.Contains(out, ref) {
					continue
				}
				out = append(out, ref)
			}
		}
	}
	return out
}

// scalars returns the custom scalars used by the entities.
func (w *Writer) scalars(ents []*schema.Entity) []string {
	var out []string
	use := func(s string) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	for _, e := range ents {
		for _, p := range e.Properties {
			if p.Type.Uses(datatype.Date) {
				use(DateScalar)
			}
			if p.Type.Uses(datatype.UUID) {
				use(UUIDScalar)
			}
			if p.Type.Uses(datatype.Map) {
				use(JSONScalar)
			}
		}
	}
	slices.Sort(out)
	return out
}

func (w *Writer) body(content block.Content) *block.Block {
	return block.MustNew(content, block.Indent(w.indent))
}

// enum writes an enum type with screaming snake case values.
func (w *Writer) enum(e *schema.Enumeration) *block.Block {
	body := w.body(nil)
	for _, v := range e.Values {
		if v.Label != "" && v.Label != schema.DefaultLabel(v.Name) {
			body.Add(block.Line(description(v.Label)))
		}
		body.Add(block.Line(strcase.ToScreamingSnake(v.Name)))
	}
	b := block.MustNew(nil)
	if e.Description != "" {
		b.Add(block.Line(description(e.Description)))
	}
	if body.Len() == 0 {
		return b.Addf("enum %s", e.Name)
	}
	return b.Addf("enum %s {", e.Name).Add(body).Add(block.Line("}"))
}

// object writes the object type of an entity. Required properties are
// non-null fields.
func (w *Writer) object(e *schema.Entity) *block.Block {
	body := w.body(nil)
	for _, p := range e.Properties {
		if p.Description != "" {
			body.Add(block.Line(description(p.Description)))
		}
		t := w.fieldType(p.Type)
		if !p.Optional {
			t += "!"
		}
		body.Addf("%s: %s", FieldName(p.Name), t)
	}
	b := block.MustNew(nil)
	if e.Description != "" {
		b.Add(block.Line(description(e.Description)))
	}
	if body.Len() == 0 {
		return b.Addf("type %s", e.Name)
	}
	return b.Addf("type %s {", e.Name).Add(body).Add(block.Line("}"))
}

// queryType writes the Query type listing every entity.
func (w *Writer) queryType(ents []*schema.Entity) *block.Block {
	body := w.body(nil)
	for _, e := range ents {
		body.Addf("%s: [%s!]!", FieldName(inflect.Pluralize(e.Name)), e.Name)
	}
	return block.MustNew(block.Seq{block.Line("type Query {"), body, block.Line("}")})
}

// fieldType converts a type into a GraphQL type reference. Maps have no
// GraphQL counterpart and are exposed as JSON.
func (w *Writer) fieldType(t *datatype.Type) string {
	switch {
	case t.Name == datatype.List:
		return "[" + w.fieldType(t.Children[0]) + "!]"
	case t.Name == datatype.Map:
		return JSONScalar
	case t.IsBase():
		return baseTypes[t.Name]
	default:
		return t.Name
	}
}

// FieldName returns the lower camel case field name of a property.
func FieldName(name string) string {
	return strcase.ToLowerCamel(name)
}

func description(text string) string {
	return `"""` + strings.ReplaceAll(text, `"""`, `\"""`) + `"""`
}
