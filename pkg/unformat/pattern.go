package unformat

import (
	"maps"
	"slices"
)

// Discipline selects how a pattern's captures are keyed.
type Discipline int

const (
	// DisciplinePositional patterns address captures by index only.
	// Identifiers may be empty or repeated.
	DisciplinePositional Discipline = iota

	// DisciplineNamed patterns also address captures by identifier.
	// Identifiers must be pairwise unique.
	DisciplineNamed
)

// String returns "positional" or "named".
func (d Discipline) String() string {
	if d == DisciplineNamed {
		return "named"
	}
	return "positional"
}

// Keying is the type-level keying strategy of a Pattern.
type Keying interface {
	Positional | Named
	discipline() Discipline
}

// Positional is the keying strategy for index-addressed patterns.
type Positional struct{}

func (Positional) discipline() Discipline { return DisciplinePositional }

// Named is the keying strategy for name-addressed patterns.
type Named struct{}

func (Named) discipline() Discipline { return DisciplineNamed }

// NameIndex maps a placeholder identifier to its capture index.
// It is nil for positional patterns.
type NameIndex map[string]int

// Placeholder describes one gap in a template.
type Placeholder struct {
	// Identifier is the placeholder name; empty for anonymous placeholders.
	Identifier string
	// Format is the trimmed format hint. It is opaque to this package.
	Format string
	// HasFormat reports whether the placeholder carried a ':' separator.
	HasFormat bool
}

// Pattern is a compiled template: N+1 literal segments interleaved with N
// placeholders.
//
// A Pattern is immutable after compilation and safe for concurrent use.
// Share it by pointer; derived patterns are produced by WithFormats.
type Pattern[K Keying] struct {
	template     string
	literals     []string
	needles      [][]byte
	placeholders []Placeholder
	index        NameIndex
	names        []string
}

// newPattern assembles a pattern from scanner output and precomputes the
// search needles and name index.
func newPattern[K Keying](template string, literals []string, placeholders []Placeholder) *Pattern[K] {
	p := &Pattern[K]{
		template:     template,
		literals:     literals,
		needles:      make([][]byte, len(literals)),
		placeholders: placeholders,
	}
	for i, lit := range literals {
		p.needles[i] = []byte(lit)
	}
	var k K
	if k.discipline() == DisciplineNamed {
		p.index = make(NameIndex, len(placeholders))
		p.names = make([]string, len(placeholders))
		for i, ph := range placeholders {
			p.index[ph.Identifier] = i
			p.names[i] = ph.Identifier
		}
	}
	return p
}

// Discipline returns the pattern's keying discipline.
func (p *Pattern[K]) Discipline() Discipline {
	var k K
	return k.discipline()
}

// Template returns the text the pattern was compiled from. Patterns derived
// with WithFormats return their rendered text.
func (p *Pattern[K]) Template() string {
	return p.template
}

// NumPlaceholders returns the number of placeholders.
func (p *Pattern[K]) NumPlaceholders() int {
	return len(p.placeholders)
}

// Literals returns a copy of the literal segments. Its length is always
// NumPlaceholders()+1.
func (p *Pattern[K]) Literals() []string {
	return slices.Clone(p.literals)
}

// Placeholders returns a copy of the placeholder descriptors.
func (p *Pattern[K]) Placeholders() []Placeholder {
	return slices.Clone(p.placeholders)
}

// Index returns a copy of the name index, or nil for positional patterns.
func (p *Pattern[K]) Index() NameIndex {
	if p.index == nil {
		return nil
	}
	return maps.Clone(p.index)
}

// Equal reports whether two patterns have the same literals and
// placeholders. The original template text is not compared.
func (p *Pattern[K]) Equal(other *Pattern[K]) bool {
	if p == nil || other == nil {
		return p == other
	}
	return slices.Equal(p.literals, other.literals) &&
		slices.Equal(p.placeholders, other.placeholders)
}
