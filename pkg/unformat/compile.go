package unformat

import (
	"fmt"
	"strings"
)

// scanState is the state of the template scanner.
type scanState int

const (
	stateLiteral scanState = iota
	statePlaceholder
)

// scanResult is the raw output of scanning a template.
type scanResult struct {
	literals     []string
	placeholders []Placeholder
	offsets      []int // offset of each placeholder's '{'
}

// scan tokenizes a template with a two-state automaton. Literal text may
// contain "{{" and "}}" to stand for single braces.
func scan(template string) (scanResult, error) {
	var (
		res       scanResult
		state     = stateLiteral
		lit       strings.Builder
		body      strings.Builder
		openAt    int
		closedEnd = -1 // offset just past the last placeholder's '}'
	)

	fail := func(offset int, err error, ident string) (scanResult, error) {
		return scanResult{}, &SyntaxError{Template: template, Offset: offset, Identifier: ident, Err: err}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch state {
		case stateLiteral:
			switch c {
			case '{':
				if i+1 < len(template) && template[i+1] == '{' {
					lit.WriteByte('{')
					i++
					continue
				}
				if closedEnd == i {
					return fail(i, ErrAdjacentPlaceholders, "")
				}
				res.literals = append(res.literals, lit.String())
				lit.Reset()
				openAt = i
				state = statePlaceholder
			case '}':
				if i+1 < len(template) && template[i+1] == '}' {
					lit.WriteByte('}')
					i++
					continue
				}
				return fail(i, ErrUnbalancedBrace, "")
			default:
				lit.WriteByte(c)
			}

		case statePlaceholder:
			switch c {
			case '}':
				ph, ok := parsePlaceholder(body.String())
				if !ok {
					return fail(openAt, ErrInvalidPlaceholder, body.String())
				}
				res.placeholders = append(res.placeholders, ph)
				res.offsets = append(res.offsets, openAt)
				body.Reset()
				closedEnd = i + 1
				state = stateLiteral
			case '{':
				return fail(i, ErrInvalidPlaceholder, body.String())
			default:
				body.WriteByte(c)
			}
		}
	}

	if state == statePlaceholder {
		return fail(openAt, ErrUnterminatedPlaceholder, body.String())
	}
	res.literals = append(res.literals, lit.String())
	return res, nil
}

// parsePlaceholder splits a placeholder body into identifier and hint.
// It reports false when the body holds more than one ':'.
func parsePlaceholder(body string) (Placeholder, bool) {
	ident, hint, found := strings.Cut(body, ":")
	if !found {
		return Placeholder{Identifier: body}, true
	}
	if strings.Contains(hint, ":") {
		return Placeholder{}, false
	}
	return Placeholder{Identifier: ident, Format: strings.TrimSpace(hint), HasFormat: true}, true
}

// CompileAs compiles template under the keying strategy K.
//
// Named patterns additionally require pairwise-unique identifiers; two
// anonymous placeholders count as a duplicate.
func CompileAs[K Keying](template string) (*Pattern[K], error) {
	res, err := scan(template)
	if err != nil {
		return nil, err
	}

	var k K
	if k.discipline() == DisciplineNamed {
		seen := make(map[string]struct{}, len(res.placeholders))
		for i, ph := range res.placeholders {
			if _, dup := seen[ph.Identifier]; dup {
				return nil, &SyntaxError{
					Template:   template,
					Offset:     res.offsets[i],
					Identifier: ph.Identifier,
					Err:        ErrDuplicateIdentifier,
				}
			}
			seen[ph.Identifier] = struct{}{}
		}
	}

	return newPattern[K](template, res.literals, res.placeholders), nil
}

// CompilePositional compiles template as a positional pattern.
func CompilePositional(template string) (*Pattern[Positional], error) {
	return CompileAs[Positional](template)
}

// CompileNamed compiles template as a named pattern.
func CompileNamed(template string) (*Pattern[Named], error) {
	return CompileAs[Named](template)
}

// Compile classifies template with IsNamed and compiles it under the
// matching discipline.
//
// Example:
//
//	p, err := unformat.Compile("{month}_{day}")
//	if err != nil {
//	    return err
//	}
//	v, err := p.Unformat("Jan_1")
//	// v.Get("month") == "Jan"
func Compile(template string) (Unformatter, error) {
	named, err := IsNamed(template)
	if err != nil {
		return nil, err
	}
	if named {
		p, err := CompileNamed(template)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	p, err := CompilePositional(template)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MustCompile is like Compile but panics if the template is invalid.
// It simplifies initialization of package-level patterns.
func MustCompile(template string) Unformatter {
	p, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("unformat: Compile(%q): %v", template, err))
	}
	return p
}

// IsNamed reports whether template uses named placeholders. It only checks
// brace balance and identifier presence; hint syntax is left to the
// compiler. A template with no placeholders is positional.
//
// Returns a *SyntaxError wrapping ErrMixedPattern when some placeholders
// are named and others are anonymous.
func IsNamed(template string) (bool, error) {
	var (
		inside    bool
		openAt    int
		body      strings.Builder
		named     int
		anonymous int
	)

	for i := 0; i < len(template); i++ {
		c := template[i]
		if !inside {
			switch {
			case (c == '{' || c == '}') && i+1 < len(template) && template[i+1] == c:
				i++
			case c == '{':
				inside = true
				openAt = i
				body.Reset()
			case c == '}':
				return false, &SyntaxError{Template: template, Offset: i, Err: ErrUnbalancedBrace}
			}
			continue
		}

		switch c {
		case '{':
			return false, &SyntaxError{Template: template, Offset: i, Identifier: body.String(), Err: ErrInvalidPlaceholder}
		case '}':
			inside = false
			ident, _, _ := strings.Cut(body.String(), ":")
			if ident == "" {
				anonymous++
			} else {
				named++
			}
			if named > 0 && anonymous > 0 {
				return false, &SyntaxError{Template: template, Offset: openAt, Identifier: ident, Err: ErrMixedPattern}
			}
		default:
			body.WriteByte(c)
		}
	}

	if inside {
		return false, &SyntaxError{Template: template, Offset: openAt, Identifier: body.String(), Err: ErrUnterminatedPlaceholder}
	}
	return named > 0, nil
}
