// Package entigen holds the errors shared by the metamodel, the readers and
// the generators.
package entigen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for metamodel operations.
var (
	// ErrNotFound is returned when a named model object does not exist.
	ErrNotFound = errors.New("entigen: object not found")

	// ErrDuplicate is returned when a model object is defined twice.
	ErrDuplicate = errors.New("entigen: duplicate definition")

	// ErrMetadata is returned for malformed metadata.
	ErrMetadata = errors.New("entigen: malformed metadata")

	// ErrDatatype is returned for malformed or misused data types.
	ErrDatatype = errors.New("entigen: invalid data type")
)

// Kinds of model objects used in error messages.
const (
	KindEntity      = "entity"
	KindEnumeration = "enumeration"
	KindProperty    = "property"
	KindValue       = "enumeration value"
	KindReader      = "reader"
	KindWriter      = "writer"
)

// NotFoundError is returned on lookup of an unknown name.
type NotFoundError struct {
	Kind string // entity, enumeration, property, ...
	Name string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entigen: %s %q not found", e.Kind, e.Name)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// NewNotFoundError returns a new NotFoundError.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// DuplicateDefinitionError is returned when a name is added twice.
type DuplicateDefinitionError struct {
	Kind  string
	Name  string
	Owner string // Enclosing object, if any.
}

// Error returns the error string.
func (e *DuplicateDefinitionError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("entigen: %s %q already exists in %s", e.Kind, e.Name, e.Owner)
	}
	return fmt.Sprintf("entigen: %s %q already exists", e.Kind, e.Name)
}

// Is reports whether the target error matches DuplicateDefinitionError.
func (e *DuplicateDefinitionError) Is(err error) bool {
	return err == ErrDuplicate
}

// NewDuplicateDefinitionError returns a new DuplicateDefinitionError.
func NewDuplicateDefinitionError(kind, name string) *DuplicateDefinitionError {
	return &DuplicateDefinitionError{Kind: kind, Name: name}
}

// IsDuplicate returns true if the error is a DuplicateDefinitionError.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateDefinitionError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicate)
}

// MetadataError describes malformed metadata, usually a row of a table.
type MetadataError struct {
	Source   string // File and line, table, or document.
	Entity   string
	Property string
	Message  string
	Cause    error
}

// Error returns the error string.
func (e *MetadataError) Error() string {
	var b strings.Builder
	b.WriteString("entigen: metadata error")
	if e.Source != "" {
		b.WriteString(" at ")
		b.WriteString(e.Source)
	}
	switch {
	case e.Entity != "" && e.Property != "":
		fmt.Fprintf(&b, " on %s.%s", e.Entity, e.Property)
	case e.Entity != "":
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	case e.Property != "":
		b.WriteString(" on property ")
		b.WriteString(e.Property)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches MetadataError.
func (e *MetadataError) Is(err error) bool {
	return err == ErrMetadata
}

// NewMetadataError returns a new MetadataError.
func NewMetadataError(source, message string, cause error) *MetadataError {
	return &MetadataError{Source: source, Message: message, Cause: cause}
}

// IsMetadataError returns true if the error is a MetadataError.
func IsMetadataError(err error) bool {
	if err == nil {
		return false
	}
	var e *MetadataError
	return errors.As(err, &e)
}

// DatatypeError is returned for type strings that can not be parsed or
// for queries that do not apply to a type.
type DatatypeError struct {
	Type    string
	Message string
	Cause   error
}

// Error returns the error string.
func (e *DatatypeError) Error() string {
	msg := fmt.Sprintf("entigen: type %q: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DatatypeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches DatatypeError.
func (e *DatatypeError) Is(err error) bool {
	return err == ErrDatatype
}

// NewDatatypeError returns a new DatatypeError.
func NewDatatypeError(typ, message string, cause error) *DatatypeError {
	return &DatatypeError{Type: typ, Message: message, Cause: cause}
}

// IsDatatypeError returns true if the error is a DatatypeError.
func IsDatatypeError(err error) bool {
	if err == nil {
		return false
	}
	var e *DatatypeError
	return errors.As(err, &e)
}
