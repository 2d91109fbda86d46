package convert

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

// TestDefault_Convert tests the builtin hints.
func TestDefault_Convert(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		hint     string
		input    string
		expected any
	}{
		{"no hint", "", " raw ", " raw "},
		{"str", "str", "text", "text"},
		{"int", "int", "42", int64(42)},
		{"int negative", "int", "-7", int64(-7)},
		{"int hex", "int", "0x1f", int64(31)},
		{"int underscores", "int", "1_000", int64(1000)},
		{"int padded", "int", " 5 ", int64(5)},
		{"float", "float", "3.5", 3.5},
		{"float exponent", "float", "1e3", 1000.0},
		{"bool true", "bool", "true", true},
		{"bool numeric", "bool", "0", false},
		{"complex", "complex", "1+2i", complex(1, 2)},
		{"bytes", "bytes", "ab", []byte("ab")},
		{"bytearray", "bytearray", "ab", []byte("ab")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Convert(tt.hint, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestConvert_Errors tests failing conversions.
func TestConvert_Errors(t *testing.T) {
	r := Default()

	t.Run("bad int", func(t *testing.T) {
		_, err := r.Convert("int", "4x")
		require.Error(t, err)

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "int", convErr.Hint)
		assert.Equal(t, "4x", convErr.Value)
		assert.ErrorIs(t, err, strconv.ErrSyntax)
	})

	t.Run("unknown hint", func(t *testing.T) {
		_, err := r.Convert("uuid", "x")
		assert.ErrorIs(t, err, ErrUnknownHint)
	})

	t.Run("message", func(t *testing.T) {
		err := &ConversionError{Index: 1, Hint: "int", Value: "x", Err: ErrUnknownHint}
		assert.Equal(t, `convert: value 1 ("x") as "int": unknown format hint`, err.Error())
	})
}

// TestRegistry tests registration and lookup.
func TestRegistry(t *testing.T) {
	r := New()
	assert.Empty(t, r.Hints())

	_, ok := r.Lookup("duration")
	assert.False(t, ok)

	r.Register("duration", func(s string) (any, error) {
		return time.ParseDuration(s)
	})
	got, err := r.Convert("duration", "1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, got)

	assert.Equal(t, []string{"", "bool", "bytearray", "bytes", "complex", "float", "int", "str"}, Default().Hints())
}

// TestRegistry_Validate tests hint validation.
func TestRegistry_Validate(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate([]string{"int", "", "str"}))
	require.NoError(t, r.Validate(nil))

	err := r.Validate([]string{"int", "date"})
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 1, convErr.Index)
	assert.Equal(t, "date", convErr.Hint)
	assert.ErrorIs(t, err, ErrUnknownHint)
}

// TestConvertValues tests positional conversion of a match.
func TestConvertValues(t *testing.T) {
	r := Default()
	p, err := unformat.CompileNamed("{name}:{age:int}:{ratio:float}")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		v, err := p.Unformat("ada:36:0.5")
		require.NoError(t, err)

		typed, err := r.ConvertValues(p.Formats(), v)
		require.NoError(t, err)
		assert.Equal(t, []any{"ada", int64(36), 0.5}, typed)

		m, err := r.ConvertMap(p.Formats(), v)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "ada", "age": int64(36), "ratio": 0.5}, m)
	})

	t.Run("failure reports index", func(t *testing.T) {
		v, err := p.Unformat("ada:old:0.5")
		require.NoError(t, err)

		_, err = r.ConvertValues(p.Formats(), v)
		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, 1, convErr.Index)
		assert.Equal(t, "old", convErr.Value)
	})

	t.Run("length mismatch", func(t *testing.T) {
		v, err := p.Unformat("a:1:2")
		require.NoError(t, err)
		_, err = r.ConvertValues([]string{"int"}, v)
		assert.ErrorIs(t, err, unformat.ErrLengthMismatch)
	})

	t.Run("rows from UnformatAll", func(t *testing.T) {
		_, rows, err := p.UnformatAll([]string{"ada:36:0.5", "bob:x:1"})
		require.NoError(t, err)

		typed, err := r.ConvertStrings(p.Formats(), rows[0])
		require.NoError(t, err)
		assert.Equal(t, []any{"ada", int64(36), 0.5}, typed)

		_, err = r.ConvertStrings(p.Formats(), rows[1])
		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, 1, convErr.Index)

		_, err = r.ConvertStrings(p.Formats(), rows[0][:2])
		assert.ErrorIs(t, err, unformat.ErrLengthMismatch)
	})

	t.Run("positional map is nil", func(t *testing.T) {
		pos, err := unformat.CompilePositional("{:int}-{:int}")
		require.NoError(t, err)
		v, err := pos.Unformat("1-2")
		require.NoError(t, err)

		m, err := r.ConvertMap(pos.Formats(), v)
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}

// TestRegistry_Concurrent tests concurrent registration and conversion.
func TestRegistry_Concurrent(t *testing.T) {
	r := Default()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register("custom", func(s string) (any, error) { return i, nil })
		}(i)
		go func() {
			defer wg.Done()
			_, err := r.Convert("int", "1")
			if err != nil && !errors.Is(err, ErrUnknownHint) {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	_, ok := r.Lookup("custom")
	assert.True(t, ok)
}
