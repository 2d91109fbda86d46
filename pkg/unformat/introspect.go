package unformat

import (
	"slices"
	"strings"
)

// braceEscaper doubles braces so literal text re-compiles to itself.
var braceEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// Formats returns each placeholder's format hint in declaration order, with
// "" where none was given.
func (p *Pattern[K]) Formats() []string {
	formats := make([]string, len(p.placeholders))
	for i, ph := range p.placeholders {
		formats[i] = ph.Format
	}
	return formats
}

// Identifiers returns each placeholder's identifier in declaration order,
// with "" for anonymous placeholders.
func (p *Pattern[K]) Identifiers() []string {
	ids := make([]string, len(p.placeholders))
	for i, ph := range p.placeholders {
		ids[i] = ph.Identifier
	}
	return ids
}

// Render rebuilds canonical template text. Placeholders render as {id} or
// {id:hint}; braces in literal text are doubled. Compiling the result yields
// a pattern Equal to p.
func (p *Pattern[K]) Render() string {
	return p.renderUntil(len(p.placeholders))
}

// renderUntil renders the template up to the '{' of placeholder n, or the
// whole template when n is the placeholder count.
func (p *Pattern[K]) renderUntil(n int) string {
	var b strings.Builder
	for i, ph := range p.placeholders {
		b.WriteString(braceEscaper.Replace(p.literals[i]))
		if i == n {
			return b.String()
		}
		b.WriteByte('{')
		b.WriteString(ph.Identifier)
		if ph.HasFormat {
			b.WriteByte(':')
			b.WriteString(ph.Format)
		}
		b.WriteByte('}')
	}
	b.WriteString(braceEscaper.Replace(p.literals[len(p.literals)-1]))
	return b.String()
}

// String implements fmt.Stringer and returns Render().
func (p *Pattern[K]) String() string {
	return p.Render()
}

// WithFormats returns a new pattern with the same literals and identifiers
// and the format hints replaced positionally by hints. The receiver is not
// modified.
//
// Hints are trimmed the same way the compiler trims them, so Formats of the
// result may differ from hints in surrounding whitespace. A hint containing
// ':', '{' or '}' could not be written back into a template and is rejected
// with a *SyntaxError wrapping ErrInvalidPlaceholder.
//
// Returns a *LengthMismatchError when len(hints) != NumPlaceholders().
func (p *Pattern[K]) WithFormats(hints []string) (*Pattern[K], error) {
	if len(hints) != len(p.placeholders) {
		return nil, &LengthMismatchError{Want: len(p.placeholders), Got: len(hints)}
	}
	placeholders := slices.Clone(p.placeholders)
	for i := range placeholders {
		hint := strings.TrimSpace(hints[i])
		if strings.ContainsAny(hint, ":{}") {
			return nil, &SyntaxError{
				Template:   p.Render(),
				Offset:     len(p.renderUntil(i)),
				Identifier: placeholders[i].Identifier + ":" + hint,
				Err:        ErrInvalidPlaceholder,
			}
		}
		placeholders[i].Format = hint
		placeholders[i].HasFormat = true
	}
	q := &Pattern[K]{
		literals:     p.literals,
		needles:      p.needles,
		placeholders: placeholders,
		index:        p.index,
		names:        p.names,
	}
	q.template = q.Render()
	return q, nil
}

// Fill substitutes values into the placeholders in order. It is the inverse
// of Unformat for values that do not contain the following literal.
//
// Returns a *LengthMismatchError when len(values) != NumPlaceholders().
func (p *Pattern[K]) Fill(values ...string) (string, error) {
	if len(values) != len(p.placeholders) {
		return "", &LengthMismatchError{Want: len(p.placeholders), Got: len(values)}
	}
	var b strings.Builder
	for i, v := range values {
		b.WriteString(p.literals[i])
		b.WriteString(v)
	}
	b.WriteString(p.literals[len(p.literals)-1])
	return b.String(), nil
}

// FillMap substitutes values by identifier. Placeholders sharing an
// identifier receive the same value.
//
// Returns an *UndefinedIdentifierError listing every identifier without a
// value.
func (p *Pattern[K]) FillMap(values map[string]string) (string, error) {
	filled := make([]string, len(p.placeholders))
	var missing []string
	for i, ph := range p.placeholders {
		v, ok := values[ph.Identifier]
		if !ok {
			if !slices.Contains(missing, ph.Identifier) {
				missing = append(missing, ph.Identifier)
			}
			continue
		}
		filled[i] = v
	}
	if len(missing) > 0 {
		return "", &UndefinedIdentifierError{Names: missing}
	}
	return p.Fill(filled...)
}
