package unformat

import (
	"errors"
	"fmt"
	"strings"
)

// Family errors. Every compile failure matches ErrSyntax and every match
// failure matches ErrNoMatch under errors.Is.
var (
	// ErrSyntax is the root of all template compilation failures.
	ErrSyntax = errors.New("invalid pattern")

	// ErrNoMatch is the root of all match failures.
	ErrNoMatch = errors.New("string does not match pattern")
)

// Sentinel errors for template compilation.
var (
	// ErrUnterminatedPlaceholder indicates a '{' with no closing '}'.
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")

	// ErrUnbalancedBrace indicates a single '}' outside any placeholder.
	ErrUnbalancedBrace = errors.New("unbalanced '}' in literal text")

	// ErrInvalidPlaceholder indicates a malformed placeholder body, such as
	// more than one ':' separator or a brace inside the body.
	ErrInvalidPlaceholder = errors.New("invalid placeholder syntax")

	// ErrAdjacentPlaceholders indicates two placeholders with no literal
	// text between them. Such patterns cannot be matched unambiguously.
	ErrAdjacentPlaceholders = errors.New("adjacent placeholders")

	// ErrMixedPattern indicates a template mixing named and anonymous
	// placeholders.
	ErrMixedPattern = errors.New("mixed named and anonymous placeholders")

	// ErrDuplicateIdentifier indicates a repeated identifier in a named pattern.
	ErrDuplicateIdentifier = errors.New("duplicate placeholder identifier")
)

// Sentinel errors for matching.
var (
	// ErrPrefixMismatch indicates the candidate does not start with the
	// pattern's leading literal.
	ErrPrefixMismatch = errors.New("prefix mismatch")

	// ErrLiteralNotFound indicates a literal segment could not be located in
	// the remainder of the candidate.
	ErrLiteralNotFound = errors.New("literal not found")

	// ErrSuffixMismatch indicates unconsumed text after the final literal.
	ErrSuffixMismatch = errors.New("suffix mismatch")
)

// ErrLengthMismatch indicates a value or hint list whose length differs from
// the pattern's placeholder count.
var ErrLengthMismatch = errors.New("length mismatch")

// SyntaxError describes why a template failed to compile.
type SyntaxError struct {
	// Template is the template text that was being compiled.
	Template string
	// Offset is the byte offset in Template where the problem was detected.
	Offset int
	// Identifier names the offending placeholder, when there is one.
	Identifier string
	// Err is one of the compile sentinels.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("unformat: %v %q at offset %d in %q", e.Err, e.Identifier, e.Offset, e.Template)
	}
	return fmt.Sprintf("unformat: %v at offset %d in %q", e.Err, e.Offset, e.Template)
}

// Unwrap returns the specific cause and ErrSyntax.
func (e *SyntaxError) Unwrap() []error {
	return []error{e.Err, ErrSyntax}
}

// MatchError describes why a candidate did not match a pattern.
type MatchError struct {
	// Candidate is the string that failed to match.
	Candidate string
	// Offset is the cursor position in Candidate when matching stopped.
	Offset int
	// Literal is the literal segment that could not be matched, if any.
	Literal string
	// Err is one of the match sentinels.
	Err error
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	switch {
	case errors.Is(e.Err, ErrSuffixMismatch):
		return fmt.Sprintf("unformat: %v: unexpected %q at offset %d", e.Err, e.Candidate[e.Offset:], e.Offset)
	case e.Literal != "":
		return fmt.Sprintf("unformat: %v: %q not found at offset %d of %q", e.Err, e.Literal, e.Offset, e.Candidate)
	default:
		return fmt.Sprintf("unformat: %v at offset %d of %q", e.Err, e.Offset, e.Candidate)
	}
}

// Unwrap returns the specific cause and ErrNoMatch.
func (e *MatchError) Unwrap() []error {
	return []error{e.Err, ErrNoMatch}
}

// LengthMismatchError is returned when a list of hints or values does not
// have exactly one entry per placeholder.
type LengthMismatchError struct {
	Want int
	Got  int
}

// Error implements the error interface.
func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("unformat: %v: pattern has %d placeholders, got %d", ErrLengthMismatch, e.Want, e.Got)
}

// Is reports whether target is ErrLengthMismatch.
func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// BatchError wraps the first failure of a fail-fast batch operation.
type BatchError struct {
	// Index is the position of the failing candidate in the input slice.
	Index int
	// Err is the candidate's match error.
	Err error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying match error for errors.Is/As support.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// UndefinedIdentifierError is returned by FillMap when one or more
// placeholder identifiers have no value.
type UndefinedIdentifierError struct {
	// Names lists the missing identifiers in declaration order.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedIdentifierError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined identifier: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined identifiers: %s", strings.Join(e.Names, ", "))
}
