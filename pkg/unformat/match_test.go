package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnformat_Positional tests successful positional matches.
func TestUnformat_Positional(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		candidate string
		expected  []string
	}{
		{"basic", "aa{}bb{}cc", "aa1bb2cc", []string{"1", "2"}},
		{"empty outer literals", "{}bb{}", "1bb2", []string{"1", "2"}},
		{"trailing placeholder takes rest", "{}-{}", "1-2-3", []string{"1", "2-3"}},
		{"leftmost literal wins", "{}.{}.{}", "1.2.3.4", []string{"1", "2", "3.4"}},
		{"empty capture", "a{}b", "ab", []string{""}},
		{"braces inside capture", "<{}>", "<{x}>", []string{"{x}"}},
		{"escaped literal braces", "{{{}}}", "{v}", []string{"v"}},
		{"multibyte", "é{}ü", "éxyü", []string{"xy"}},
		{"no placeholders", "exact", "exact", []string{}},
		{"only placeholder", "{}", "anything at all", []string{"anything at all"}},
		{"only placeholder empty", "{}", "", []string{""}},
		{"repeated identifier", "{a}/{a}", "x/y", []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompilePositional(tt.template)
			require.NoError(t, err)

			v, err := p.Unformat(tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.Slice())
			assert.Nil(t, v.Index())
			assert.False(t, v.IsNamed())
			assert.True(t, p.Matches(tt.candidate))
		})
	}
}

// TestUnformat_Named tests named matches and the name index.
func TestUnformat_Named(t *testing.T) {
	p, err := CompileNamed("aa{x:str}bb{y:int}cc")
	require.NoError(t, err)

	v, err := p.Unformat("aa7bb42cc")
	require.NoError(t, err)

	assert.Equal(t, []string{"7", "42"}, v.Slice())
	assert.Equal(t, NameIndex{"x": 0, "y": 1}, v.Index())

	y, ok := v.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "42", y)

	_, ok = v.Get("z")
	assert.False(t, ok)
}

// TestUnformat_Failures tests each match-time failure.
func TestUnformat_Failures(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		candidate string
		want      error
		offset    int
		literal   string
	}{
		{"prefix mismatch", "aa{}bb", "xa1bb", ErrPrefixMismatch, 0, "aa"},
		{"candidate shorter than prefix", "aa{}", "a", ErrPrefixMismatch, 0, "aa"},
		{"middle literal missing", "aa{}bb{}cc", "aa1xx2cc", ErrLiteralNotFound, 2, "bb"},
		{"final literal missing", "aa{}bb{}cc", "aa1bb2", ErrLiteralNotFound, 5, "cc"},
		{"trailing text", "{}x", "axbx", ErrSuffixMismatch, 2, ""},
		{"no placeholders extra text", "abc", "abcd", ErrSuffixMismatch, 3, ""},
		{"no placeholders different text", "abc", "abd", ErrPrefixMismatch, 0, "abc"},
		{"empty candidate", "a{}", "", ErrPrefixMismatch, 0, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompilePositional(tt.template)
			require.NoError(t, err)

			_, err = p.Unformat(tt.candidate)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrNoMatch)

			var matchErr *MatchError
			require.ErrorAs(t, err, &matchErr)
			assert.Equal(t, tt.candidate, matchErr.Candidate)
			assert.Equal(t, tt.offset, matchErr.Offset)
			assert.Equal(t, tt.literal, matchErr.Literal)

			assert.False(t, p.Matches(tt.candidate))
		})
	}
}

// TestMatchError_Message tests error formatting for each failure kind.
func TestMatchError_Message(t *testing.T) {
	t.Run("literal not found", func(t *testing.T) {
		err := &MatchError{Candidate: "aa1bb2", Offset: 5, Literal: "cc", Err: ErrLiteralNotFound}
		assert.Equal(t, `unformat: literal not found: "cc" not found at offset 5 of "aa1bb2"`, err.Error())
	})

	t.Run("suffix mismatch", func(t *testing.T) {
		err := &MatchError{Candidate: "axbx", Offset: 2, Err: ErrSuffixMismatch}
		assert.Equal(t, `unformat: suffix mismatch: unexpected "bx" at offset 2`, err.Error())
	})

	t.Run("no literal", func(t *testing.T) {
		err := &MatchError{Candidate: "x", Err: ErrPrefixMismatch}
		assert.Equal(t, `unformat: prefix mismatch at offset 0 of "x"`, err.Error())
	})
}

// TestMatches_NeverErrors tests that Matches agrees with Unformat.
func TestMatches_NeverErrors(t *testing.T) {
	p, err := CompileNamed("{month}_{day}")
	require.NoError(t, err)

	for _, s := range []string{"Jan_1", "Jan-1", "", "_", "a_b_c", "Jan_"} {
		_, uerr := p.Unformat(s)
		assert.Equal(t, uerr == nil, p.Matches(s), "candidate %q", s)
	}
}

// TestPackageLevelFunctions tests the convenience helpers.
func TestPackageLevelFunctions(t *testing.T) {
	t.Run("Unformat named", func(t *testing.T) {
		v, err := Unformat("{month}_{day}", "Jan_1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Jan", "1"}, v.Slice())
		month, _ := v.Get("month")
		assert.Equal(t, "Jan", month)
	})

	t.Run("Unformat positional", func(t *testing.T) {
		v, err := Unformat("{}.{}.{}", "1.2.3")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, v.Slice())
	})

	t.Run("Unformat bad template", func(t *testing.T) {
		_, err := Unformat("{a", "x")
		assert.ErrorIs(t, err, ErrSyntax)
	})

	t.Run("Match", func(t *testing.T) {
		assert.True(t, Match("{a}.{b}", "1.2"))
		assert.False(t, Match("{a}.{b}", "12"))
		assert.False(t, Match("{a}{b}", "12"))
	})
}
