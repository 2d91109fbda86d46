package unformat

import (
	"strings"
	"unsafe"

	"github.com/coregx/coregex/simd"
)

// Unformat matches s against the pattern and returns the captured values.
//
// The candidate must begin with the first literal. Each following literal is
// located at its leftmost occurrence in the remaining text, and everything
// before it is captured for the preceding placeholder. A trailing placeholder
// captures the rest of the string. Text left over after the last literal is
// a mismatch.
//
// Failures are returned as *MatchError values wrapping ErrPrefixMismatch,
// ErrLiteralNotFound or ErrSuffixMismatch.
//
// Example:
//
//	p, _ := unformat.CompileNamed("aa{x:str}bb{y:int}cc")
//	v, err := p.Unformat("aa7bb42cc")
//	// v.Slice() == []string{"7", "42"}, v.Index() == NameIndex{"x": 0, "y": 1}
func (p *Pattern[K]) Unformat(s string) (Values, error) {
	captures, err := p.match(s)
	if err != nil {
		return Values{}, err
	}
	return Values{values: captures, index: p.index, names: p.names}, nil
}

// Matches reports whether s matches the pattern. It never returns an error;
// every match failure collapses to false.
func (p *Pattern[K]) Matches(s string) bool {
	_, err := p.match(s)
	return err == nil
}

// match performs the anchored literal split and returns one capture per
// placeholder. Captures are substrings of s.
func (p *Pattern[K]) match(s string) ([]string, error) {
	head := p.literals[0]
	if !strings.HasPrefix(s, head) {
		return nil, &MatchError{Candidate: s, Literal: head, Err: ErrPrefixMismatch}
	}

	haystack := bytesOf(s)
	cursor := len(head)
	captures := make([]string, len(p.placeholders))

	for i := range p.placeholders {
		lit := p.literals[i+1]
		// Only the final literal can be empty: adjacency is rejected at
		// compile time.
		if lit == "" {
			captures[i] = s[cursor:]
			cursor = len(s)
			continue
		}

		at := simd.Memmem(haystack[cursor:], p.needles[i+1])
		if at < 0 {
			return nil, &MatchError{Candidate: s, Offset: cursor, Literal: lit, Err: ErrLiteralNotFound}
		}
		captures[i] = s[cursor : cursor+at]
		cursor += at + len(lit)
	}

	if cursor != len(s) {
		return nil, &MatchError{Candidate: s, Offset: cursor, Err: ErrSuffixMismatch}
	}
	return captures, nil
}

// bytesOf views s as a byte slice without copying. The slice is only read.
func bytesOf(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
