// Package datatype parses the type strings used by model properties, such
// as "string", "list<int>" or "map<string,Address>".
package datatype

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/syssam/entigen"
)

// Base type names.
const (
	String     = "string"
	Int        = "int"
	Float      = "float"
	Bool       = "bool"
	Identifier = "identifier" // A string subject to identifier validation.
	UUID       = "uuid"
	Date       = "date"
)

// Composite type names.
const (
	List = "list"
	Map  = "map"
)

var baseTypes = map[string]bool{
	String:     true,
	Int:        true,
	Float:      true,
	Bool:       true,
	Identifier: true,
	UUID:       true,
	Date:       true,
}

// arity of the composite types.
var compositeTypes = map[string]int{
	List: 1,
	Map:  2,
}

// Type is a parsed data type. Composite types have children, for example
// list<string> is a "list" with one "string" child. Any name that is not a
// base or a composite type is a reference to an entity or an enumeration.
type Type struct {
	Name     string
	Children []*Type
}

// typeExpr is the participle grammar of a type string.
//
//nolint:govet // participle grammar tags are not standard struct tags
type typeExpr struct {
	Name string      `@Ident`
	Args []*typeExpr `( "<" @@ ( "," @@ )* ">" )?`
}

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[<>,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var typeParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a type string.
func Parse(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, entigen.NewDatatypeError(s, "empty type", nil)
	}
	expr, err := typeParser.ParseString("", s)
	if err != nil {
		return nil, entigen.NewDatatypeError(s, "syntax error", err)
	}
	return build(s, expr)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func build(src string, expr *typeExpr) (*Type, error) {
	t := &Type{Name: expr.Name}
	arity, composite := compositeTypes[expr.Name]
	switch {
	case composite && len(expr.Args) != arity:
		return nil, entigen.NewDatatypeError(src,
			fmt.Sprintf("%s expects %d type argument(s), got %d", expr.Name, arity, len(expr.Args)), nil)
	case !composite && len(expr.Args) > 0 && baseTypes[expr.Name]:
		return nil, entigen.NewDatatypeError(src,
			fmt.Sprintf("base type %s can not be used as a composite type", expr.Name), nil)
	case !composite && len(expr.Args) > 0:
		return nil, entigen.NewDatatypeError(src,
			fmt.Sprintf("unknown composite type %s", expr.Name), nil)
	}
	for _, arg := range expr.Args {
		child, err := build(src, arg)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
	return t, nil
}

// IsComposite reports whether the type is composed of other types.
func (t *Type) IsComposite() bool {
	_, ok := compositeTypes[t.Name]
	return ok
}

// IsBase reports whether the type is one of the base types.
func (t *Type) IsBase() bool {
	return baseTypes[t.Name]
}

// IsReference reports whether the type names an entity or enumeration.
func (t *Type) IsReference() bool {
	return !t.IsBase() && !t.IsComposite()
}

// FirstChild returns the first child of a composite type, e.g. the element
// type of a list.
func (t *Type) FirstChild() (*Type, error) {
	if !t.IsComposite() || len(t.Children) == 0 {
		return nil, entigen.NewDatatypeError(t.String(), "not a composite type", nil)
	}
	return t.Children[0], nil
}

// References returns the names of the reference types used by t, in
// order of appearance.
func (t *Type) References() []string {
	var names []string
	t.walk(func(n *Type) {
		if n.IsReference() {
			names = append(names, n.Name)
		}
	})
	return names
}

// Uses reports whether the base type name appears anywhere in t.
func (t *Type) Uses(name string) bool {
	found := false
	t.walk(func(n *Type) {
		found = found || n.Name == name
	})
	return found
}

func (t *Type) walk(fn func(*Type)) {
	fn(t)
	for _, c := range t.Children {
		c.walk(fn)
	}
}

// String returns the canonical type string.
func (t *Type) String() string {
	if len(t.Children) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Children))
	for i, c := range t.Children {
		args[i] = c.String()
	}
	return t.Name + "<" + strings.Join(args, ",") + ">"
}
