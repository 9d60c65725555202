package gen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/entigen/compiler/block"
)

// Options are the free-form settings of a writer, as given on the command
// line or in a config file.
type Options map[string]any

// ParseOption parses a key=value pair into opts. Values that parse as
// integers or booleans are stored as such.
func (o Options) ParseOption(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return NewConfigError("option", kv, "expected key=value")
	}
	if n, err := strconv.Atoi(value); err == nil {
		o[key] = n
		return nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		o[key] = b
		return nil
	}
	o[key] = value
	return nil
}

// String returns the string option key, or def if unset.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, bool:
		// ParseOption converts values like "8" or "true".
		return fmt.Sprint(v), nil
	default:
		return "", NewConfigError(key, v, "expected a string")
	}
}

// Int returns the integer option key, or def if unset.
func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return 0, NewConfigError(key, v, "expected an integer")
}

// Bool returns the boolean option key, or def if unset.
func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, nil
		}
	}
	return false, NewConfigError(key, v, "expected a boolean")
}

// Content returns the option key converted to block content, or nil if
// unset. Strings and other scalars become lines, lists become sequences.
func (o Options) Content(key string) (block.Content, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch s := v.(type) {
	case int, bool:
		// ParseOption converts values like "2024" or "true".
		v = fmt.Sprint(s)
	}
	c, err := block.FromValue(v)
	if err != nil {
		return nil, NewConfigError(key, v, err.Error())
	}
	return c, nil
}

// Check returns a ConfigError for the first option not in known.
func (o Options) Check(known ...string) error {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(known, k) {
			return NewConfigError(k, nil, "unknown option")
		}
	}
	return nil
}
