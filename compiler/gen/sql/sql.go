// Package sql writes CREATE TABLE statements for the entities of a model.
package sql

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/schema"
	"github.com/syssam/entigen/schema/datatype"
)

// Name is the registered name of the writer.
const Name = "sql"

// Schema is the only block type: one statement per entity.
const Schema = "schema"

// Supported dialects.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// IDColumn is the primary key column. Entities without an id property get
// a generated integer key.
const IDColumn = "id"

// dialect holds the column types and quoting of a database.
type dialect struct {
	types    map[string]string
	json     string
	serialID string
	intID    string
	quote    func(string) string
	boolean  func(bool) string
}

var dialects = map[string]*dialect{
	SQLite: {
		types: map[string]string{
			datatype.String:     "TEXT",
			datatype.Identifier: "TEXT",
			datatype.Int:        "INTEGER",
			datatype.Float:      "REAL",
			datatype.Bool:       "INTEGER",
			datatype.UUID:       "TEXT",
			datatype.Date:       "TEXT",
		},
		json:     "TEXT",
		serialID: "INTEGER PRIMARY KEY AUTOINCREMENT",
		intID:    "INTEGER",
		quote:    doubleQuote,
		boolean: func(b bool) string {
			if b {
				return "1"
			}
			return "0"
		},
	},
	MySQL: {
		types: map[string]string{
			datatype.String:     "VARCHAR(255)",
			datatype.Identifier: "VARCHAR(255)",
			datatype.Int:        "BIGINT",
			datatype.Float:      "DOUBLE",
			datatype.Bool:       "BOOLEAN",
			datatype.UUID:       "CHAR(36)",
			datatype.Date:       "DATE",
		},
		json:     "JSON",
		serialID: "BIGINT AUTO_INCREMENT PRIMARY KEY",
		intID:    "BIGINT",
		quote:    func(s string) string { return "`" + s + "`" },
		boolean:  sqlBool,
	},
	Postgres: {
		types: map[string]string{
			datatype.String:     "TEXT",
			datatype.Identifier: "TEXT",
			datatype.Int:        "BIGINT",
			datatype.Float:      "DOUBLE PRECISION",
			datatype.Bool:       "BOOLEAN",
			datatype.UUID:       "UUID",
			datatype.Date:       "DATE",
		},
		json:     "JSONB",
		serialID: "BIGSERIAL PRIMARY KEY",
		intID:    "BIGINT",
		quote:    doubleQuote,
		boolean:  sqlBool,
	},
}

func doubleQuote(s string) string { return `"` + s + `"` }

func sqlBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Writer creates SQL DDL.
type Writer struct {
	model       *schema.Model
	dialect     *dialect
	ifNotExists bool
	header      block.Content
}

// New creates a SQL writer. Options: dialect (sqlite, mysql or postgres),
// if_not_exists and header, comment lines put above the statements.
func New(m *schema.Model, opts gen.Options) (gen.Writer, error) {
	if err := opts.Check("dialect", "if_not_exists", "header"); err != nil {
		return nil, err
	}
	name, err := opts.String("dialect", SQLite)
	if err != nil {
		return nil, err
	}
	d, ok := dialects[name]
	if !ok {
		return nil, gen.NewConfigError("dialect", name, "use sqlite, mysql or postgres")
	}
	ifNotExists, err := opts.Bool("if_not_exists", false)
	if err != nil {
		return nil, err
	}
	header, err := opts.Content("header")
	if err != nil {
		return nil, err
	}
	return &Writer{model: m, dialect: d, ifNotExists: ifNotExists, header: header}, nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return Name }

// BlockTypes implements gen.Writer.
func (w *Writer) BlockTypes() []string { return []string{Schema} }

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
		header, err := block.New(w.header, block.Prefix("-- "))
		if err != nil {
			return nil, err
		}
		b.Add(header).Add(block.Line(""))
	}
	for i, e := range ents {
		if i > 0 {
			b.Add(block.Line(""))
		}
		b.Add(w.table(e))
	}
	return b, nil
}

// TableName returns the table of an entity: the plural of its name in
// snake case.
func TableName(entity string) string {
	return inflect.Underscore(inflect.Pluralize(entity))
}

// ColumnName returns the column of a property in snake case. Properties
// referencing an entity are stored in a <name>_id column.
func ColumnName(p *schema.Property, isEntity func(string) bool) string {
	col := inflect.Underscore(p.Name)
	if isEntity(p.Type.Name) && col != IDColumn {
		col += "_" + IDColumn
	}
	return col
}

// table writes the CREATE TABLE statement of an entity.
func (w *Writer) table(e *schema.Entity) *block.Block {
	create := "CREATE TABLE "
	if w.ifNotExists {
		create += "IF NOT EXISTS "
	}
	cols := block.MustNew(nil, block.Indent(4), block.Suffix(","), block.LastSuffix(""))
	if !hasID(e) {
		cols.Addf("%s %s", w.dialect.quote(IDColumn), w.dialect.serialID)
	}
	for _, p := range e.Properties {
		cols.Add(block.Line(w.column(p)))
	}
	return block.MustNew(block.Seq{
		block.Line(create + w.dialect.quote(TableName(e.Name)) + " ("),
		cols,
		block.Line(");"),
	})
}

func hasID(e *schema.Entity) bool {
	for _, p := range e.Properties {
		if p.Name == IDColumn {
			return true
		}
	}
	return false
}

// column writes a column definition with its constraints.
func (w *Writer) column(p *schema.Property) string {
	name := ColumnName(p, w.model.IsEntity)
	parts := []string{w.dialect.quote(name), w.columnType(p.Type)}
	if !p.Optional {
		parts = append(parts, "NOT NULL")
	}
	if p.Name == IDColumn {
		parts = append(parts, "PRIMARY KEY")
	}
	if p.Default != nil {
		parts = append(parts, "DEFAULT "+w.literal(p, *p.Default))
	}
	switch t := p.Type.Name; {
	case w.model.IsEnumeration(t):
		enum, _ := w.model.Enumeration(t)
		values := make([]string, len(enum.Values))
		for i, v := range enum.Values {
			values[i] = quoteString(v.Value)
		}
		parts = append(parts, fmt.Sprintf("CHECK (%s IN (%s))", w.dialect.quote(name), strings.Join(values, ", ")))
	case w.model.IsEntity(t):
		parts = append(parts, fmt.Sprintf("REFERENCES %s (%s)", w.dialect.quote(TableName(t)), w.dialect.quote(IDColumn)))
	}
	return strings.Join(parts, " ")
}

// columnType maps a property type to a column type. Composite types are
// stored as JSON and references by the type of the referenced key.
func (w *Writer) columnType(t *datatype.Type) string {
	switch {
	case t.IsComposite():
		return w.dialect.json
	case t.IsBase():
		return w.dialect.types[t.Name]
	case w.model.IsEnumeration(t.Name):
		return w.dialect.types[datatype.String]
	}
	ref, err := w.model.Entity(t.Name)
	if err != nil {
		return w.dialect.intID
	}
	for _, p := range ref.Properties {
		if p.Name == IDColumn && p.Type.IsBase() {
			return w.dialect.types[p.Type.Name]
		}
	}
	return w.dialect.intID
}

// literal converts a default value into a SQL literal.
func (w *Writer) literal(p *schema.Property, def string) string {
	switch t := p.Type.Name; {
	case t == datatype.Int || t == datatype.Float:
		return def
	case t == datatype.Bool:
		v, _ := schema.ToBool(def)
		return w.dialect.boolean(v)
	case w.model.IsEnumeration(t):
		enum, _ := w.model.Enumeration(t)
		for _, v := range enum.Values {
			if v.Name == def {
				return quoteString(v.Value)
			}
		}
	}
	return quoteString(def)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
