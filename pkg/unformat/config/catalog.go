package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

// ErrUnknownPattern indicates a catalog lookup for a name that is not defined.
var ErrUnknownPattern = errors.New("unknown catalog pattern")

// Discipline values accepted in catalog entries.
const (
	DisciplineAuto       = "auto"
	DisciplinePositional = "positional"
	DisciplineNamed      = "named"
)

// Entry is one named template in a catalog.
type Entry struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Template    string `yaml:"template" json:"template" validate:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Discipline is auto (the default), positional or named.
	Discipline string `yaml:"discipline,omitempty" json:"discipline,omitempty" validate:"omitempty,oneof=auto positional named"`
	// Formats, when set, replace the template's hints positionally.
	Formats []string `yaml:"formats,omitempty" json:"formats,omitempty"`
}

// Compile compiles the entry under its discipline and applies Formats.
func (e Entry) Compile() (unformat.Unformatter, error) {
	var (
		p   unformat.Unformatter
		err error
	)
	switch e.Discipline {
	case "", DisciplineAuto:
		p, err = unformat.Compile(e.Template)
	case DisciplinePositional:
		p, err = compiled(unformat.CompilePositional(e.Template))
	case DisciplineNamed:
		p, err = compiled(unformat.CompileNamed(e.Template))
	default:
		return nil, fmt.Errorf("pattern %q: unknown discipline %q", e.Name, e.Discipline)
	}
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", e.Name, err)
	}

	if e.Formats != nil {
		if p, err = unformat.Reformat(p, e.Formats); err != nil {
			return nil, fmt.Errorf("pattern %q: formats: %w", e.Name, err)
		}
	}
	return p, nil
}

// compiled converts a typed compile result to the interface without
// wrapping a nil pointer.
func compiled[K unformat.Keying](p *unformat.Pattern[K], err error) (unformat.Unformatter, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Catalog is a library of named templates.
type Catalog struct {
	Patterns []Entry `yaml:"patterns" json:"patterns" validate:"dive"`
}

// FromFile loads a catalog from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension: %s", ext)
	}
}

// FromYAML parses and validates a YAML catalog.
func FromYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromJSON parses and validates a JSON catalog.
func FromJSON(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks entry fields, rejects duplicate names, and compiles every
// template.
func (c *Catalog) Validate() error {
	if err := validateStruct("catalog", c); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Patterns))
	for _, e := range c.Patterns {
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("catalog validation failed: duplicate pattern name %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		if _, err := e.Compile(); err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}
	}
	return nil
}

// Names returns the entry names in file order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Patterns))
	for i, e := range c.Patterns {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry called name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i := slices.IndexFunc(c.Patterns, func(e Entry) bool { return e.Name == name })
	if i < 0 {
		return Entry{}, false
	}
	return c.Patterns[i], true
}

// Compile compiles the entry called name.
// Returns an error wrapping ErrUnknownPattern if there is none.
func (c *Catalog) Compile(name string) (unformat.Unformatter, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return e.Compile()
}
