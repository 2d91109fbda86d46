package convert

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

// ErrUnknownHint indicates a format hint with no registered converter.
var ErrUnknownHint = errors.New("unknown format hint")

// Func converts one captured string into a typed value.
type Func func(s string) (any, error)

// ConversionError describes a value that failed to convert.
type ConversionError struct {
	// Index is the placeholder position of the value.
	Index int
	// Hint is the format hint that selected the converter.
	Hint string
	// Value is the raw captured text.
	Value string
	// Err is the converter's error, or ErrUnknownHint.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert: value %d (%q) as %q: %v", e.Index, e.Value, e.Hint, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Registry maps format hints to converters.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// New creates an empty registry. Use Default for the builtin hints.
func New() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default returns a new registry with the builtin hints registered:
//
//	""          the string unchanged
//	str         the string unchanged
//	int         int64, base prefixes (0x, 0o, 0b) and underscores allowed
//	float       float64
//	bool        bool, per strconv.ParseBool
//	complex     complex128
//	bytes       []byte
//	bytearray   []byte
//
// Leading and trailing whitespace is ignored for the numeric and bool hints.
func Default() *Registry {
	r := New()
	r.Register("", identity)
	r.Register("str", identity)
	r.Register("int", parseInt)
	r.Register("float", parseFloat)
	r.Register("bool", parseBool)
	r.Register("complex", parseComplex)
	r.Register("bytes", toBytes)
	r.Register("bytearray", toBytes)
	return r
}

// Register adds or replaces the converter for hint.
func (r *Registry) Register(hint string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[hint] = fn
}

// Lookup returns the converter for hint and whether one exists.
func (r *Registry) Lookup(hint string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[hint]
	return fn, ok
}

// Hints returns the registered hints in sorted order.
func (r *Registry) Hints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hints := make([]string, 0, len(r.funcs))
	for h := range r.funcs {
		hints = append(hints, h)
	}
	slices.Sort(hints)
	return hints
}

// Validate checks that every hint has a registered converter. It returns a
// *ConversionError for the first one that does not.
func (r *Registry) Validate(hints []string) error {
	for i, h := range hints {
		if _, ok := r.Lookup(h); !ok {
			return &ConversionError{Index: i, Hint: h, Err: ErrUnknownHint}
		}
	}
	return nil
}

// Convert converts a single value with the converter registered for hint.
func (r *Registry) Convert(hint, s string) (any, error) {
	fn, ok := r.Lookup(hint)
	if !ok {
		return nil, &ConversionError{Hint: hint, Value: s, Err: ErrUnknownHint}
	}
	v, err := fn(s)
	if err != nil {
		return nil, &ConversionError{Hint: hint, Value: s, Err: err}
	}
	return v, nil
}

// ConvertValues converts each captured value with the hint of the
// placeholder it came from. hints is usually the pattern's Formats().
//
// Returns an error wrapping unformat.ErrLengthMismatch when the counts
// differ, or a *ConversionError for the first value that fails.
func (r *Registry) ConvertValues(hints []string, values unformat.Values) ([]any, error) {
	return r.ConvertStrings(hints, values.Slice())
}

// ConvertStrings is ConvertValues for captures already taken out of their
// Values, such as the rows of UnformatAll.
func (r *Registry) ConvertStrings(hints, captures []string) ([]any, error) {
	if len(hints) != len(captures) {
		return nil, &unformat.LengthMismatchError{Want: len(captures), Got: len(hints)}
	}
	out := make([]any, len(captures))
	for i, h := range hints {
		v, err := r.Convert(h, captures[i])
		if err != nil {
			var convErr *ConversionError
			if errors.As(err, &convErr) {
				convErr.Index = i
			}
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ConvertMap converts the values of a named match and keys them by
// identifier. Positional values return a nil map.
func (r *Registry) ConvertMap(hints []string, values unformat.Values) (map[string]any, error) {
	typed, err := r.ConvertValues(hints, values)
	if err != nil {
		return nil, err
	}
	names := values.Names()
	if names == nil {
		return nil, nil
	}
	m := make(map[string]any, len(names))
	for i, name := range names {
		m[name] = typed[i]
	}
	return m, nil
}

func identity(s string) (any, error) {
	return s, nil
}

func parseInt(s string) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 0, 64)
}

func parseFloat(s string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseBool(s string) (any, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

func parseComplex(s string) (any, error) {
	return strconv.ParseComplex(strings.TrimSpace(s), 128)
}

func toBytes(s string) (any, error) {
	return []byte(s), nil
}
