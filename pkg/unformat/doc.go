/*
Package unformat reverses template formatting: given a pattern such as
"{month}_{day}" and a string such as "Jan_1", it decides whether the string
could have been produced by filling the pattern and extracts the text that
occupied each placeholder.

# Overview

A template is literal text interleaved with placeholders. A placeholder is
written {identifier} or {identifier:hint}; both parts may be empty. The
hint is an opaque label kept for callers and never interpreted here.
Literal braces are written {{ and }}.

	p, err := unformat.CompileNamed("aa{x:str}bb{y:int}cc")
	if err != nil {
	    return err
	}
	v, err := p.Unformat("aa7bb42cc")
	// v.Slice()  == []string{"7", "42"}
	// v.Get("y") == "42", true
	// p.Formats() == []string{"str", "int"}

# Disciplines

Patterns come in two keying disciplines, selected by a type parameter:

  - Pattern[Positional]: captures are addressed by index. Identifiers may
    be empty or repeated.
  - Pattern[Named]: captures are also addressed by identifier, which must
    be unique (two anonymous placeholders count as a duplicate).

Compile picks the discipline with IsNamed. A template whose placeholders
are partly named and partly anonymous is rejected with ErrMixedPattern.

# Matching

Matching is anchored and deterministic. The string must start with the
first literal; every following literal is found at its leftmost occurrence
in the rest of the string, and the text before it is the capture. A
placeholder at the end of the template captures the remainder. Anything
left unconsumed is a mismatch.

Two placeholders with nothing between them ("{a}{b}") cannot be split and
are rejected when compiling.

# Batches

UnformatAll and UnformatToDict apply one pattern to many strings and stop
at the first failure, returning a *BatchError that records which candidate
failed. UnformatEach reports every outcome instead.

	p := unformat.MustCompile("{month}_{day}")
	_, cols, err := p.UnformatToDict([]string{"Jan_1", "Feb_2"})
	// cols == map[string][]string{"month": {"Jan", "Feb"}, "day": {"1", "2"}}

# Errors

Compile failures are *SyntaxError values and match failures are
*MatchError values. Use errors.Is with the sentinels (ErrSyntax,
ErrAdjacentPlaceholders, ErrNoMatch, ErrLiteralNotFound, ...) to classify
them.

# Thread Safety

A compiled Pattern is immutable and safe for concurrent use. Values and
batch results are owned by the caller.
*/
package unformat
