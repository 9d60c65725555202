package schema

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/entigen"
	"github.com/syssam/entigen/schema/datatype"
)

// DateLayout is the layout of date default values.
const DateLayout = "2006-01-02"

// Validate checks the cross references of the model: every reference type
// names an entity or an enumeration, and default values parse according to
// their property type. All problems are reported, joined.
func (m *Model) Validate() error {
	var errs []error
	for _, e := range m.entities {
		for _, p := range e.Properties {
			if err := m.validateProperty(e, p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, e := range m.enums {
		if len(e.Values) == 0 {
			errs = append(errs, &entigen.MetadataError{Entity: e.Name, Message: "enumeration has no values"})
		}
	}
	return errors.Join(errs...)
}

func (m *Model) validateProperty(e *Entity, p *Property) error {
	newErr := func(format string, args ...any) error {
		return &entigen.MetadataError{Entity: e.Name, Property: p.Name, Message: fmt.Sprintf(format, args...)}
	}
	if p.Type == nil {
		return newErr("type %q was not parsed", p.RawType)
	}
	for _, ref := range p.Type.References() {
		if !m.IsEntity(ref) && !m.IsEnumeration(ref) {
			return newErr("unknown type %q", ref)
		}
	}
	if p.Default == nil {
		return nil
	}
	def := *p.Default
	var err error
	switch name := p.Type.Name; {
	case name == datatype.Int:
		_, err = strconv.ParseInt(def, 10, 64)
	case name == datatype.Float:
		_, err = strconv.ParseFloat(def, 64)
	case name == datatype.Bool:
		if _, ok := ToBool(def); !ok {
			err = errors.New("not a boolean")
		}
	case name == datatype.UUID:
		_, err = uuid.Parse(def)
	case name == datatype.Date:
		_, err = time.Parse(DateLayout, def)
	case p.Type.IsComposite():
		return newErr("default values are not supported for %s", p.Type)
	case m.IsEnumeration(name):
		enum, _ := m.Enumeration(name)
		if !enum.Has(def) {
			return newErr("default %q is not a value of %s", def, name)
		}
	case m.IsEntity(name):
		return newErr("default values are not supported for entity %s", name)
	}
	if err != nil {
		return &entigen.MetadataError{
			Entity:   e.Name,
			Property: p.Name,
			Message:  fmt.Sprintf("invalid %s default %q", p.Type.Name, def),
			Cause:    err,
		}
	}
	return nil
}
