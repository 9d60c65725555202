package schema

import (
	"fmt"
	"strconv"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema/datatype"
)

// Property of an entity.
type Property struct {
	// Name is the property identifier.
	Name string
	// Tag is a numeric identifier, similar to a Protobuf or Thrift tag.
	Tag int
	// RawType is the data type as provided by the model source.
	RawType string
	// Type is the parsed data type.
	Type *datatype.Type
	// Label is a human-readable label.
	Label string
	// Description is a human-readable description.
	Description string
	// Default is the string form of the default value, nil when unset.
	Default *string
	// Optional marks properties that may be absent.
	Optional bool
}

// NewProperty creates a property and parses its raw type.
func NewProperty(name string, tag int, rawType string) (*Property, error) {
	typ, err := datatype.Parse(rawType)
	if err != nil {
		return nil, err
	}
	return &Property{Name: name, Tag: tag, RawType: rawType, Type: typ}, nil
}

// Entity is a named collection of properties.
type Entity struct {
	Name        string
	Label       string
	Description string
	Properties  []*Property
}

// NewEntity creates an entity without properties.
func NewEntity(name string) *Entity {
	return &Entity{Name: name}
}

// AddProperty appends p. Property names and tags are unique within an
// entity.
func (e *Entity) AddProperty(p *Property) error {
	for _, q := range e.Properties {
		if q.Name == p.Name {
			return &entigen.DuplicateDefinitionError{Kind: entigen.KindProperty, Name: p.Name, Owner: e.Name}
		}
		if q.Tag == p.Tag {
			return &entigen.MetadataError{
				Entity:   e.Name,
				Property: p.Name,
				Message:  "tag " + strconv.Itoa(p.Tag) + " already used by " + q.Name,
				Cause:    entigen.ErrDuplicate,
			}
		}
	}
	e.Properties = append(e.Properties, p)
	return nil
}

// Property returns the property with the given name.
func (e *Entity) Property(name string) (*Property, error) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, entigen.NewNotFoundError(entigen.KindProperty, e.Name+"."+name)
}

// EnumValue is a member of an enumeration.
type EnumValue struct {
	Name  string
	Value string // Stored value. Defaults to Name.
	Label string
}

// Enumeration is a closed set of named values.
type Enumeration struct {
	Name        string
	Label       string
	Description string
	Values      []*EnumValue
}

// NewEnumeration creates an enumeration without values.
func NewEnumeration(name string) *Enumeration {
	return &Enumeration{Name: name}
}

// AddValue appends v. Value names are unique within an enumeration.
func (e *Enumeration) AddValue(v *EnumValue) error {
	for _, w := range e.Values {
		if w.Name == v.Name {
			return &entigen.DuplicateDefinitionError{Kind: entigen.KindValue, Name: v.Name, Owner: e.Name}
		}
	}
	if v.Value == "" {
		v.Value = v.Name
	}
	e.Values = append(e.Values, v)
	return nil
}

// CheckNames returns a MetadataError when convert maps two value names to
// the same identifier, as with "newItem" and "new_item" in snake case.
func (e *Enumeration) CheckNames(convert func(string) string) error {
	seen := make(map[string]string, len(e.Values))
	for _, v := range e.Values {
		id := convert(v.Name)
		if prev, ok := seen[id]; ok {
			return &entigen.MetadataError{
				Entity:  e.Name,
				Message: fmt.Sprintf("values %q and %q both map to %q", prev, v.Name, id),
			}
		}
		seen[id] = v.Name
	}
	return nil
}

// Has reports whether the enumeration holds a value with the given name.
func (e *Enumeration) Has(name string) bool {
	for _, v := range e.Values {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Model is the metamodel container. It holds entities and enumerations,
// which share a single namespace.
type Model struct {
	entities []*Entity
	enums    []*Enumeration
	names    map[string]string // name -> kind.
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{names: make(map[string]string)}
}

func (m *Model) claim(kind, name string) error {
	if m.names == nil {
		m.names = make(map[string]string)
	}
	if _, ok := m.names[name]; ok {
		return entigen.NewDuplicateDefinitionError(kind, name)
	}
	m.names[name] = kind
	return nil
}

// AddEntity adds e to the model. It fails if an entity or an enumeration
// with the same name already exists.
func (m *Model) AddEntity(e *Entity) error {
	if err := m.claim(entigen.KindEntity, e.Name); err != nil {
		return err
	}
	m.entities = append(m.entities, e)
	return nil
}

// AddEnumeration adds e to the model. It fails if an entity or an
// enumeration with the same name already exists.
func (m *Model) AddEnumeration(e *Enumeration) error {
	if err := m.claim(entigen.KindEnumeration, e.Name); err != nil {
		return err
	}
	m.enums = append(m.enums, e)
	return nil
}

// Entities returns the entities in insertion order.
func (m *Model) Entities() []*Entity {
	return m.entities
}

// Enumerations returns the enumerations in insertion order.
func (m *Model) Enumerations() []*Enumeration {
	return m.enums
}

// Entity returns the entity with the given name.
func (m *Model) Entity(name string) (*Entity, error) {
	for _, e := range m.entities {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, entigen.NewNotFoundError(entigen.KindEntity, name)
}

// Enumeration returns the enumeration with the given name.
func (m *Model) Enumeration(name string) (*Enumeration, error) {
	for _, e := range m.enums {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, entigen.NewNotFoundError(entigen.KindEnumeration, name)
}

// EntityNames returns the names of all entities in insertion order.
func (m *Model) EntityNames() []string {
	names := make([]string, len(m.entities))
	for i, e := range m.entities {
		names[i] = e.Name
	}
	return names
}

// IsEntity reports whether name is an entity of the model.
func (m *Model) IsEntity(name string) bool {
	return m.names[name] == entigen.KindEntity
}

// IsEnumeration reports whether name is an enumeration of the model.
func (m *Model) IsEnumeration(name string) bool {
	return m.names[name] == entigen.KindEnumeration
}

// SelectEntities returns the entities with the given names, in the order
// requested. No names selects all entities.
func (m *Model) SelectEntities(names ...string) ([]*Entity, error) {
	if len(names) == 0 {
		return m.entities, nil
	}
	ents := make([]*Entity, 0, len(names))
	for _, name := range names {
		e, err := m.Entity(name)
		if err != nil {
			return nil, err
		}
		ents = append(ents, e)
	}
	return ents, nil
}

// UsedEnumerations returns the enumerations referenced by the properties
// of ents, in model order.
func (m *Model) UsedEnumerations(ents []*Entity) []*Enumeration {
	used := make(map[string]bool)
	for _, e := range ents {
		for _, p := range e.Properties {
			if p.Type == nil {
				continue
			}
			for _, ref := range p.Type.References() {
				used[ref] = true
			}
		}
	}
	var enums []*Enumeration
	for _, e := range m.enums {
		if used[e.Name] {
			enums = append(enums, e)
		}
	}
	return enums
}
