package unformat

import "fmt"

// Unformatter is the discipline-independent view of a compiled pattern.
// Both *Pattern[Positional] and *Pattern[Named] implement it.
type Unformatter interface {
	Unformat(s string) (Values, error)
	UnformatAll(candidates []string) (NameIndex, [][]string, error)
	UnformatToDict(candidates []string) (NameIndex, map[string][]string, error)
	UnformatEach(candidates []string) []Outcome
	Matches(s string) bool

	Discipline() Discipline
	Template() string
	NumPlaceholders() int
	Literals() []string
	Placeholders() []Placeholder
	Index() NameIndex
	Formats() []string
	Identifiers() []string
	Render() string

	Fill(values ...string) (string, error)
	FillMap(values map[string]string) (string, error)
}

var (
	_ Unformatter = (*Pattern[Positional])(nil)
	_ Unformatter = (*Pattern[Named])(nil)
)

// Reformat applies WithFormats to a pattern of either discipline.
func Reformat(u Unformatter, hints []string) (Unformatter, error) {
	switch p := u.(type) {
	case *Pattern[Positional]:
		q, err := p.WithFormats(hints)
		if err != nil {
			return nil, err
		}
		return q, nil
	case *Pattern[Named]:
		q, err := p.WithFormats(hints)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unformat: cannot reformat %T", u)
	}
}

// Unformat compiles template and matches s against it.
//
// Example:
//
//	v, err := unformat.Unformat("{a}.{b}.{c}", "1.2.3")
//	// v.Slice() == []string{"1", "2", "3"}
func Unformat(template, s string) (Values, error) {
	p, err := Compile(template)
	if err != nil {
		return Values{}, err
	}
	return p.Unformat(s)
}

// Match compiles template and reports whether s matches it. An invalid
// template never matches.
func Match(template, s string) bool {
	p, err := Compile(template)
	if err != nil {
		return false
	}
	return p.Matches(s)
}
