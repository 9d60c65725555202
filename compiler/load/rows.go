package load

import (
	"strconv"
	"strings"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema"
)

// Column names of the tabular sources.
const (
	ColEntity      = "entity"
	ColEnumeration = "enumeration"
	ColName        = "name"
	ColTag         = "tag"
	ColType        = "type"
	ColLabel       = "label"
	ColDescription = "description"
	ColDefault     = "default"
	ColOptional    = "optional"
	ColValue       = "value"
)

// row is a record of a metadata table keyed by column name.
type row struct {
	source string // file:line or table#n.
	fields map[string]string
}

func (r row) get(col string) string {
	return strings.TrimSpace(r.fields[col])
}

func (r row) has(col string) bool {
	_, ok := r.fields[col]
	return ok
}

// rowBuilder turns rows of one model source into model objects. Objects
// created by the same source may be extended by later rows, objects of a
// previous source may not.
type rowBuilder struct {
	model    *schema.Model
	entities map[string]*schema.Entity
	enums    map[string]*schema.Enumeration
}

func newRowBuilder(m *schema.Model) *rowBuilder {
	return &rowBuilder{
		model:    m,
		entities: make(map[string]*schema.Entity),
		enums:    make(map[string]*schema.Enumeration),
	}
}

// entityRow declares an entity.
func (b *rowBuilder) entityRow(r row) error {
	name := r.get(ColName)
	if name == "" {
		return &entigen.MetadataError{Source: r.source, Message: "entity has no name"}
	}
	e := schema.NewEntity(name)
	e.Label = r.get(ColLabel)
	if e.Label == "" {
		e.Label = schema.Decamelize(name)
	}
	e.Description = r.get(ColDescription)
	if err := b.model.AddEntity(e); err != nil {
		return &entigen.MetadataError{Source: r.source, Entity: name, Cause: err}
	}
	b.entities[name] = e
	return nil
}

// entity returns the entity of this source with the given name, creating
// it on first use.
func (b *rowBuilder) entity(source, name string) (*schema.Entity, error) {
	if e, ok := b.entities[name]; ok {
		return e, nil
	}
	e := schema.NewEntity(name)
	e.Label = schema.Decamelize(name)
	if err := b.model.AddEntity(e); err != nil {
		return nil, &entigen.MetadataError{Source: source, Entity: name, Cause: err}
	}
	b.entities[name] = e
	return e, nil
}

// propertyRow adds a property to its entity.
func (b *rowBuilder) propertyRow(r row) error {
	name, entName := r.get(ColName), r.get(ColEntity)
	if name == "" {
		return &entigen.MetadataError{Source: r.source, Entity: entName, Message: "property has no name"}
	}
	if entName == "" {
		return &entigen.MetadataError{Source: r.source, Property: name, Message: "property has no entity"}
	}
	newErr := func(msg string, cause error) error {
		return &entigen.MetadataError{Source: r.source, Entity: entName, Property: name, Message: msg, Cause: cause}
	}
	tag, err := strconv.Atoi(r.get(ColTag))
	if err != nil {
		return newErr("invalid tag", err)
	}
	p, err := schema.NewProperty(name, tag, r.get(ColType))
	if err != nil {
		return newErr("", err)
	}
	p.Label = r.get(ColLabel)
	if p.Label == "" {
		p.Label = schema.DefaultLabel(name)
	}
	p.Description = r.get(ColDescription)
	// An empty cell is an unset default.
	if def := r.get(ColDefault); def != "" {
		p.Default = &def
	}
	if opt := r.get(ColOptional); opt != "" {
		v, ok := schema.ToBool(opt)
		if !ok {
			return newErr("invalid optional flag "+strconv.Quote(opt), nil)
		}
		p.Optional = v
	}
	e, err := b.entity(r.source, entName)
	if err != nil {
		return err
	}
	if err := e.AddProperty(p); err != nil {
		return newErr("", err)
	}
	return nil
}

// enumerationRow adds a value to its enumeration, declaring the
// enumeration on first use.
func (b *rowBuilder) enumerationRow(r row) error {
	enumName, name := r.get(ColEnumeration), r.get(ColName)
	if enumName == "" {
		return &entigen.MetadataError{Source: r.source, Property: name, Message: "value has no enumeration"}
	}
	if name == "" {
		return &entigen.MetadataError{Source: r.source, Entity: enumName, Message: "value has no name"}
	}
	enum, ok := b.enums[enumName]
	if !ok {
		enum = schema.NewEnumeration(enumName)
		enum.Label = schema.Decamelize(enumName)
		if err := b.model.AddEnumeration(enum); err != nil {
			return &entigen.MetadataError{Source: r.source, Entity: enumName, Cause: err}
		}
		b.enums[enumName] = enum
	}
	v := &schema.EnumValue{Name: name, Value: r.get(ColValue), Label: r.get(ColLabel)}
	if v.Label == "" {
		v.Label = schema.DefaultLabel(name)
	}
	if err := enum.AddValue(v); err != nil {
		return &entigen.MetadataError{Source: r.source, Entity: enumName, Cause: err}
	}
	return nil
}

// requireColumns checks the header of a table.
func requireColumns(source string, header []string, cols ...string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	for _, c := range cols {
		if !present[c] {
			return &entigen.MetadataError{Source: source, Message: "missing column " + strconv.Quote(c)}
		}
	}
	return nil
}
