package unformat

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Values holds the captures of one successful match, in placeholder order.
// Captures of named patterns can also be looked up by identifier.
type Values struct {
	values []string
	index  NameIndex
	names  []string
}

// Len returns the number of captured values.
func (v Values) Len() int {
	return len(v.values)
}

// At returns the i-th captured value. It panics if i is out of range.
func (v Values) At(i int) string {
	return v.values[i]
}

// Get returns the value captured by the placeholder named name.
// It always reports false for positional patterns.
func (v Values) Get(name string) (string, bool) {
	i, ok := v.index[name]
	if !ok {
		return "", false
	}
	return v.values[i], true
}

// Slice returns a copy of the captured values.
func (v Values) Slice() []string {
	return slices.Clone(v.values)
}

// Index returns a copy of the name index, or nil for positional patterns.
func (v Values) Index() NameIndex {
	if v.index == nil {
		return nil
	}
	return maps.Clone(v.index)
}

// IsNamed reports whether the values came from a named pattern.
func (v Values) IsNamed() bool {
	return v.index != nil
}

// Names returns the identifiers in placeholder order, or nil for positional
// patterns.
func (v Values) Names() []string {
	return slices.Clone(v.names)
}

// Map returns the captures keyed by identifier, or nil for positional
// patterns.
func (v Values) Map() map[string]string {
	if v.index == nil {
		return nil
	}
	m := make(map[string]string, len(v.names))
	for i, name := range v.names {
		m[name] = v.values[i]
	}
	return m
}

// String formats the values as Values(x="1", y="2") for named patterns and
// Values("1", "2") for positional ones.
func (v Values) String() string {
	parts := make([]string, len(v.values))
	for i, val := range v.values {
		if v.names != nil {
			parts[i] = fmt.Sprintf("%s=%q", v.names[i], val)
		} else {
			parts[i] = fmt.Sprintf("%q", val)
		}
	}
	return "Values(" + strings.Join(parts, ", ") + ")"
}
