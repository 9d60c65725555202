// Package python writes Python classes for the entities of a model.
package python

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/schema"
	"github.com/syssam/entigen/schema/datatype"
)

// Name is the registered name of the writer.
const Name = "python"

// Block types.
const (
	Module  = "module"
	Classes = "classes"
	Enums   = "enums"
)

// initArgsIndent aligns __init__ arguments after "def __init__(".
const initArgsIndent = 13

var baseTypes = map[string]string{
	datatype.String:     "str",
	datatype.Identifier: "str",
	datatype.Int:        "int",
	datatype.Float:      "float",
	datatype.Bool:       "bool",
	datatype.UUID:       "UUID",
	datatype.Date:       "date",
}

// Writer creates Python modules with one class per entity and one Enum
// class per enumeration.
type Writer struct {
	model  *schema.Model
	indent int
	header block.Content
}

// New creates a Python writer. Options: indent (default 4) and header,
// comment lines put at the top of a module.
func New(m *schema.Model, opts gen.Options) (gen.Writer, error) {
	if err := opts.Check("indent", "header"); err != nil {
		return nil, err
	}
	indent, err := opts.Int("indent", 4)
	if err != nil {
		return nil, err
	}
	if indent < 1 {
		return nil, gen.NewConfigError("indent", indent, "must be positive")
	}
	header, err := opts.Content("header")
	if err != nil {
		return nil, err
	}
	return &Writer{model: m, indent: indent, header: header}, nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return Name }

// BlockTypes implements gen.Writer.
func (w *Writer) BlockTypes() []string {
	return []string{Module, Classes, Enums}
}

// CreateBlock implements gen.Writer.
func (w *Writer) CreateBlock(blockType string, entities []string) (*block.Block, error) {
	if err := gen.CheckBlockType(w, blockType); err != nil {
		return nil, err
	}
	ents, err := w.model.SelectEntities(entities...)
	if err != nil {
		return nil, err
	}
	enums := w.model.UsedEnumerations(ents)
	for _, e := range enums {
		if err := e.CheckNames(memberName); err != nil {
			return nil, err
		}
	}
	switch blockType {
	case Classes:
		return w.definitions(nil, ents), nil
	case Enums:
		return w.definitions(enums, nil), nil
	default:
		return w.module(ents, enums)
	}
}

// module writes the header, the imports and all definitions.
func (w *Writer) module(ents []*schema.Entity, enums []*schema.Enumeration) (*block.Block, error) {
	b := block.MustNew(nil)
	if w.header != nil {
		header, err := block.New(w.header, block.Prefix("# "))
		if err != nil {
			return nil, err
		}
		b.Add(header).Add(block.Line(""))
	}
	if imports := w.imports(ents, enums); imports.Len() > 0 {
		b.Add(imports).Add(block.Line("")).Add(block.Line(""))
	}
	return b.Add(w.definitions(enums, ents)), nil
}

// definitions writes enum classes followed by entity classes, separated
// by two empty lines.
func (w *Writer) definitions(enums []*schema.Enumeration, ents []*schema.Entity) *block.Block {
	var defs []*block.Block
	for _, e := range enums {
		defs = append(defs, w.enumClass(e))
	}
	for _, e := range ents {
		defs = append(defs, w.class(e))
	}
	b := block.MustNew(nil)
	for i, d := range defs {
		if i > 0 {
			b.Add(block.Line("")).Add(block.Line(""))
		}
		b.Add(d)
	}
	return b
}

// imports writes the import statements needed by the definitions.
func (w *Writer) imports(ents []*schema.Entity, enums []*schema.Enumeration) *block.Block {
	var (
		typing     []string
		date, uuid bool
	)
	use := func(name string) {
		if !slices.Contains(typing, name) {
			typing = append(typing, name)
		}
	}
	for _, e := range ents {
		for _, p := range e.Properties {
			if p.Optional {
				use("Optional")
			}
			if p.Type.Uses(datatype.List) {
				use("List")
			}
			if p.Type.Uses(datatype.Map) {
				use("Dict")
			}
			date = date || p.Type.Uses(datatype.Date)
			uuid = uuid || p.Type.Uses(datatype.UUID)
		}
	}
	slices.Sort(typing)

	b := block.MustNew(nil)
	if date {
		b.Add(block.Line("from datetime import date"))
	}
	if len(enums) > 0 {
		b.Add(block.Line("from enum import Enum"))
	}
	if len(typing) > 0 {
		b.Addf("from typing import %s", strings.Join(typing, ", "))
	}
	if uuid {
		b.Add(block.Line("from uuid import UUID"))
	}
	return b
}

func (w *Writer) body(content block.Content) *block.Block {
	return block.MustNew(content, block.Indent(w.indent))
}

// enumClass writes an Enum subclass with screaming snake case members.
func (w *Writer) enumClass(e *schema.Enumeration) *block.Block {
	body := w.body(block.Line(docstring(e.Description, cmp.Or(e.Label, e.Name))))
	for _, v := range e.Values {
		body.Addf("%s = %s", memberName(v.Name), strconv.Quote(v.Value))
	}
	return block.MustNew(block.Seq{
		block.Line(fmt.Sprintf("class %s(Enum):", e.Name)),
		body,
	})
}

// class writes an entity class: annotated attributes preceded by their
// label and an __init__ method.
func (w *Writer) class(e *schema.Entity) *block.Block {
	b := block.MustNew(block.Seq{
		block.Line(fmt.Sprintf("class %s:", e.Name)),
		w.body(block.Line(docstring(e.Description, cmp.Or(e.Label, e.Name)))),
	})
	if len(e.Properties) > 0 {
		attrs := w.body(nil)
		for _, p := range e.Properties {
			attrs.Add(block.Line("# " + p.Label))
			attrs.Add(block.Line(w.typedProperty(p)))
			if p.Description != "" {
				attrs.Add(block.Line(docstring(p.Description, "")))
			}
		}
		b.Add(block.Line("")).Add(attrs)
	}
	return b.Add(block.Line("")).Add(w.body(w.initMethod(e)))
}

// initMethod writes __init__ taking one argument per property. Arguments
// with a default value follow the others.
func (w *Writer) initMethod(e *schema.Entity) *block.Block {
	body := w.body(block.Line(docstring("Create "+e.Name, "")))
	for _, p := range e.Properties {
		body.Addf("self.%s = %s", p.Name, p.Name)
	}
	if len(e.Properties) == 0 {
		return block.MustNew(block.Seq{block.Line("def __init__(self) -> None:"), body})
	}

	var required, defaulted []string
	for _, p := range e.Properties {
		arg := w.typedProperty(p)
		if def, ok := w.defaultValue(p); ok {
			defaulted = append(defaulted, arg+" = "+def)
			continue
		}
		required = append(required, arg)
	}
	args := block.MustNew(block.Lines(append(required, defaulted...)...),
		block.Indent(initArgsIndent),
		block.Suffix(","),
		block.LastSuffix(") -> None:"),
	)
	return block.MustNew(block.Seq{block.Line("def __init__(self,"), args, body})
}

func (w *Writer) typedProperty(p *schema.Property) string {
	ann := w.annotation(p.Type)
	if p.Optional {
		ann = "Optional[" + ann + "]"
	}
	return p.Name + ": " + ann
}

// annotation converts a type into a Python annotation. Entities are
// referenced by name as they may be defined later in the module.
func (w *Writer) annotation(t *datatype.Type) string {
	switch {
	case t.Name == datatype.List:
		return "List[" + w.annotation(t.Children[0]) + "]"
	case t.Name == datatype.Map:
		return "Dict[" + w.annotation(t.Children[0]) + ", " + w.annotation(t.Children[1]) + "]"
	case t.IsBase():
		return baseTypes[t.Name]
	case w.model.IsEnumeration(t.Name):
		return t.Name
	default:
		return strconv.Quote(t.Name)
	}
}

// defaultValue returns the Python literal of the property default. Optional
// properties without a default take None.
func (w *Writer) defaultValue(p *schema.Property) (string, bool) {
	if p.Default == nil {
		if p.Optional {
			return "None", true
		}
		return "", false
	}
	def := *p.Default
	switch name := p.Type.Name; {
	case name == datatype.String || name == datatype.Identifier:
		return strconv.Quote(def), true
	case name == datatype.Bool:
		if v, _ := schema.ToBool(def); v {
			return "True", true
		}
		return "False", true
	case name == datatype.UUID:
		return fmt.Sprintf("UUID(%q)", def), true
	case name == datatype.Date:
		return fmt.Sprintf("date.fromisoformat(%q)", def), true
	case w.model.IsEnumeration(name):
		return name + "." + memberName(def), true
	default:
		return def, true
	}
}

// memberName returns the enum member name of an enumeration value.
func memberName(value string) string {
	return strcase.ToScreamingSnake(value)
}

func docstring(text, fallback string) string {
	if text == "" {
		text = fallback
	}
	return `"""` + text + `"""`
}
