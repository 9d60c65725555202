// Package info writes plain text overviews of a model.
package info

import (
	"fmt"
	"strings"

	"github.com/syssam/entigen/compiler/block"
	"github.com/syssam/entigen/compiler/gen"
	"github.com/syssam/entigen/schema"
)

// Name is the registered name of the writer.
const Name = "info"

// Block types.
const (
	EntityList = "entity_list"
	EnumList   = "enum_list"
	Summary    = "summary"
)

// Writer creates basic information about the model.
type Writer struct {
	model  *schema.Model
	header block.Content
}

// New creates an info writer. The only option is header, lines put above
// the output.
func New(m *schema.Model, opts gen.Options) (gen.Writer, error) {
	if err := opts.Check("header"); err != nil {
		return nil, err
	}
	header, err := opts.Content("header")
	if err != nil {
		return nil, err
	}
	return &Writer{model: m, header: header}, nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return Name }

// BlockTypes implements gen.Writer.
func (w *Writer) BlockTypes() []string {
	return []string{EntityList, EnumList, Summary}
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
	b, err := block.New(w.header)
	if err != nil {
		return nil, err
	}
	if w.header != nil {
		b.Add(block.Line(""))
	}
	switch blockType {
	case EntityList:
		b.Add(w.entityList(ents))
	case EnumList:
		b.Add(w.enumList(w.model.UsedEnumerations(ents)))
	case Summary:
		b.Add(w.summary(ents))
	}
	return b, nil
}

// entityList writes the entity names, one per line.
func (w *Writer) entityList(ents []*schema.Entity) *block.Block {
	b := block.MustNew(nil)
	for _, e := range ents {
		b.Add(block.Line(e.Name))
	}
	return b
}

func (w *Writer) enumList(enums []*schema.Enumeration) *block.Block {
	b := block.MustNew(nil)
	for _, e := range enums {
		b.Add(block.Line(e.Name))
	}
	return b
}

// summary writes a section per entity followed by the enumerations the
// entities use.
func (w *Writer) summary(ents []*schema.Entity) *block.Block {
	b := block.MustNew(nil)
	for i, e := range ents {
		if i > 0 {
			b.Add(block.Line(""))
		}
		b.Addf("%s: %s", e.Name, schema.Title(e.Label))
		if e.Description != "" {
			b.Add(block.MustNew(block.Line(e.Description), block.Indent(2)))
		}
		props := block.MustNew(nil, block.Indent(2), block.Prefix("- "))
		for _, p := range e.Properties {
			props.Add(block.Line(property(p)))
		}
		b.Add(props)
	}
	for _, enum := range w.model.UsedEnumerations(ents) {
		b.Add(block.Line(""))
		b.Addf("%s: %s (enumeration)", enum.Name, schema.Title(enum.Label))
		values := block.MustNew(nil, block.Indent(2), block.Prefix("- "))
		for _, v := range enum.Values {
			if v.Value != v.Name {
				values.Addf("%s = %s", v.Name, v.Value)
				continue
			}
			values.Add(block.Line(v.Name))
		}
		b.Add(values)
	}
	return b
}

// property describes a property on a single line.
func property(p *schema.Property) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s #%d", p.Name, p.Type, p.Tag)
	if p.Optional {
		sb.WriteString(" optional")
	}
	if p.Default != nil {
		fmt.Fprintf(&sb, " default=%s", *p.Default)
	}
	return sb.String()
}
