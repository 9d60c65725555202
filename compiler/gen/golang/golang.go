// Package golang writes Go model types for the entities of a model.
package golang

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/schema"
	"github.com/syssam/entigen/schema/datatype"
)

// Name is the registered name of the writer.
const Name = "go"

// Models is the only block type: a complete Go source file.
const Models = "models"

const uuidPackage = "github.com/google/uuid"

var baseTypes = map[string]string{
	datatype.String:     "string",
	datatype.Identifier: "string",
	datatype.Int:        "int64",
	datatype.Float:      "float64",
	datatype.Bool:       "bool",
	datatype.UUID:       "uuid.UUID",
	datatype.Date:       "time.Time",
}

// acronyms are written in upper case inside identifiers.
var acronyms = map[string]bool{
	"ID":   true,
	"UUID": true,
	"URL":  true,
	"URI":  true,
	"API":  true,
	"HTTP": true,
	"JSON": true,
	"SQL":  true,
}

// Writer creates Go structs for entities and string types with constants
// for enumerations.
type Writer struct {
	model  *schema.Model
	pkg    string
	header block.Content
}

// New creates a Go writer. Options: package (default "models") and header,
// comment lines put above the package clause.
func New(m *schema.Model, opts gen.Options) (gen.Writer, error) {
	if err := opts.Check("package", "header"); err != nil {
		return nil, err
	}
	pkg, err := opts.String("package", "models")
	if err != nil {
		return nil, err
	}
	if !token.IsIdentifier(pkg) {
		return nil, gen.NewConfigError("package", pkg, "not a valid package name")
	}
	header, err := opts.Content("header")
	if err != nil {
		return nil, err
	}
	return &Writer{model: m, pkg: pkg, header: header}, nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return Name }

// BlockTypes implements gen.Writer.
func (w *Writer) BlockTypes() []string { return []string{Models} }

// Format implements gen.Formatter with goimports.
func (w *Writer) Format(path string, src []byte) ([]byte, error) {
	return imports.Process(path, src, nil)
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
	b := block.MustNew(nil)
	if w.header != nil {
		header, err := block.New(w.header, block.Prefix("// "))
		if err != nil {
			return nil, err
		}
		b.Add(header).Add(block.Line(""))
	}
	b.Addf("package %s", w.pkg)
	if decl := w.imports(ents); decl != nil {
		b.Add(block.Line("")).Add(decl)
	}
	for _, e := range w.model.UsedEnumerations(ents) {
		if err := e.CheckNames(Identifier); err != nil {
			return nil, err
		}
		b.Add(block.Line("")).Add(w.enum(e))
	}
	var pointers bool
	for _, e := range ents {
		b.Add(block.Line("")).Add(w.structType(e))
		if ctor := w.constructor(e); ctor != nil {
			b.Add(block.Line("")).Add(ctor)
			pointers = pointers || hasOptionalDefault(e)
		}
	}
	if pointers {
		b.Add(block.Line("")).Add(block.Line("func ptr[T any](v T) *T { return &v }"))
	}
	return b, nil
}

// imports writes the import declaration of the standard and third-party
// packages used by the entities.
func (w *Writer) imports(ents []*schema.Entity) *block.Block {
	var date, id bool
	for _, e := range ents {
		for _, p := range e.Properties {
			date = date || p.Type.Uses(datatype.Date)
			id = id || p.Type.Uses(datatype.UUID)
		}
	}
	if !date && !id {
		return nil
	}
	b := block.MustNew(block.Line("import ("))
	if date {
		b.Addf("\t%q", "time")
	}
	if date && id {
		b.Add(block.Line(""))
	}
	if id {
		b.Addf("\t%q", uuidPackage)
	}
	return b.Add(block.Line(")"))
}

// enum writes a string type with one constant per value.
func (w *Writer) enum(e *schema.Enumeration) *block.Block {
	b := block.MustNew(nil)
	b.Add(comment(e.Name, e.Description, e.Label))
	b.Addf("type %s string", e.Name)
	if len(e.Values) == 0 {
		return b
	}
	consts := block.MustNew(nil, block.Prefix("\t"))
	for _, v := range e.Values {
		if v.Label != "" && v.Label != schema.DefaultLabel(v.Name) {
			consts.Addf("// %s", v.Label)
		}
		consts.Addf("%s %s = %s", constName(e.Name, v.Name), e.Name, strconv.Quote(v.Value))
	}
	return b.Add(block.Line("")).Add(block.MustNew(block.Seq{
		block.Line("const ("),
		consts,
		block.Line(")"),
	}))
}

// structType writes the struct of an entity with one json tagged field per
// property. Optional properties are pointers omitted when empty.
func (w *Writer) structType(e *schema.Entity) *block.Block {
	b := block.MustNew(comment(e.Name, e.Description, e.Label))
	if len(e.Properties) == 0 {
		return b.Addf("type %s struct{}", e.Name)
	}
	fields := block.MustNew(nil, block.Prefix("\t"))
	for _, p := range e.Properties {
		if p.Description != "" {
			fields.Addf("// %s", p.Description)
		}
		tag := p.Name
		if p.Optional {
			tag += ",omitempty"
		}
		fields.Addf("%s %s `json:%s`", Identifier(p.Name), w.fieldType(p), strconv.Quote(tag))
	}
	return b.Add(block.MustNew(block.Seq{
		block.Line(fmt.Sprintf("type %s struct {", e.Name)),
		fields,
		block.Line("}"),
	}))
}

// constructor writes New<Entity> setting the default values. Entities
// without defaults get none.
func (w *Writer) constructor(e *schema.Entity) *block.Block {
	values := block.MustNew(nil, block.Prefix("\t"), block.Suffix(","))
	for _, p := range e.Properties {
		if p.Default == nil {
			continue
		}
		v := w.literal(p.Type, *p.Default)
		if p.Optional {
			v = fmt.Sprintf("ptr[%s](%s)", w.goType(p.Type), v)
		}
		values.Addf("%s: %s", Identifier(p.Name), v)
	}
	if values.Len() == 0 {
		return nil
	}
	return block.MustNew(block.Seq{
		block.Line(fmt.Sprintf("// New%s returns a %s with default values.", e.Name, e.Name)),
		block.Line(fmt.Sprintf("func New%s() *%s {", e.Name, e.Name)),
		block.MustNew(block.Seq{block.Line(fmt.Sprintf("return &%s{", e.Name)), values, block.Line("}")}, block.Prefix("\t")),
		block.Line("}"),
	})
}

func hasOptionalDefault(e *schema.Entity) bool {
	for _, p := range e.Properties {
		if p.Optional && p.Default != nil {
			return true
		}
	}
	return false
}

// fieldType returns the Go type of a property.
func (w *Writer) fieldType(p *schema.Property) string {
	t := w.goType(p.Type)
	if p.Optional && !strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "[]") && !strings.HasPrefix(t, "map[") {
		t = "*" + t
	}
	return t
}

// goType converts a type into a Go type expression. Entities are
// referenced by pointer, inside containers by value.
func (w *Writer) goType(t *datatype.Type) string {
	switch {
	case t.Name == datatype.List:
		return "[]" + strings.TrimPrefix(w.goType(t.Children[0]), "*")
	case t.Name == datatype.Map:
		return "map[" + w.goType(t.Children[0]) + "]" + strings.TrimPrefix(w.goType(t.Children[1]), "*")
	case t.IsBase():
		return baseTypes[t.Name]
	case w.model.IsEntity(t.Name):
		return "*" + t.Name
	default:
		return t.Name
	}
}

// literal converts a default value into a Go expression.
func (w *Writer) literal(t *datatype.Type, def string) string {
	switch t.Name {
	case datatype.String, datatype.Identifier:
		return strconv.Quote(def)
	case datatype.Int, datatype.Float:
		return def
	case datatype.Bool:
		v, _ := schema.ToBool(def)
		return strconv.FormatBool(v)
	case datatype.UUID:
		return fmt.Sprintf("uuid.MustParse(%q)", def)
	case datatype.Date:
		d, err := time.Parse(schema.DateLayout, def)
		if err != nil {
			return "time.Time{}"
		}
		return fmt.Sprintf("time.Date(%d, time.%s, %d, 0, 0, 0, 0, time.UTC)", d.Year(), d.Month(), d.Day())
	}
	if w.model.IsEnumeration(t.Name) {
		return constName(t.Name, def)
	}
	return def
}

// Identifier returns the exported Go identifier of a name: "fullName"
// gives FullName and "customer_id" gives CustomerID.
func Identifier(name string) string {
	var sb strings.Builder
	for _, word := range strings.Split(inflect.Underscore(name), "_") {
		if word == "" {
			continue
		}
		if upper := strings.ToUpper(word); acronyms[upper] {
			sb.WriteString(upper)
			continue
		}
		sb.WriteString(inflect.Camelize(word))
	}
	return sb.String()
}

func constName(enum, value string) string {
	return enum + Identifier(value)
}

// comment writes the doc comment of a type.
func comment(name, description, label string) *block.Block {
	text := description
	if text == "" {
		text = label
	}
	if text == "" || text == name {
		return block.MustNew(block.Line(fmt.Sprintf("// %s is generated from the model.", name)))
	}
	return block.MustNew(block.Line(fmt.Sprintf("// %s: %s", name, text)))
}
