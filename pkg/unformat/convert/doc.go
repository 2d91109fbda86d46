// Package convert turns captured strings into typed values using the format
// hints of the placeholders they came from.
//
// The unformat core treats hints as opaque text. This package gives them
// meaning: a Registry maps each hint to a Func, and ConvertValues applies
// them positionally to the Values of a match.
//
// # Basic Usage
//
//	p, _ := unformat.CompileNamed("{name}:{age:int}")
//	v, _ := p.Unformat("ada:36")
//
//	typed, err := convert.Default().ConvertValues(p.Formats(), v)
//	// typed == []any{"ada", int64(36)}
//
// # Custom Hints
//
// Register adds or replaces converters:
//
//	r := convert.Default()
//	r.Register("duration", func(s string) (any, error) {
//	    return time.ParseDuration(s)
//	})
//
// All Registry methods are safe for concurrent use.
package convert
