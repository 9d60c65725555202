package schema

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	camelWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	camelUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Decamelize splits a CamelCase name into words: "CamelCase" becomes
// "Camel Case".
func Decamelize(name string) string {
	s := camelWord.ReplaceAllString(name, "$1 $2")
	return camelUpper.ReplaceAllString(s, "$1 $2")
}

// ToIdentifier replaces whitespace with underscores and lower-cases the
// result.
func ToIdentifier(name string) string {
	return strings.ToLower(spaces.ReplaceAllString(strings.TrimSpace(name), "_"))
}

// ToBool converts "1", "true", "yes" and "0", "false", "no" (any case) to
// a boolean. ok is false for any other string.
func ToBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// DefaultLabel derives a human-readable label from an identifier, e.g.
// "firstName" and "first_name" both give "First name".
func DefaultLabel(name string) string {
	return inflect.Humanize(inflect.Underscore(name))
}

var titler = cases.Title(language.English)

// Title upper-cases the first letter of every word of s.
func Title(s string) string {
	return titler.String(s)
}
