package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatsAndIdentifiers tests per-placeholder metadata.
func TestFormatsAndIdentifiers(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		formats     []string
		identifiers []string
	}{
		{"anonymous", "aa{}bb{}cc", []string{"", ""}, []string{"", ""}},
		{"hints only", "{:int}-{:str}", []string{"int", "str"}, []string{"", ""}},
		{"mixed hints", "{a}.{b:int}.{c}", []string{"", "int", ""}, []string{"a", "b", "c"}},
		{"none", "plain", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompilePositional(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.formats, p.Formats())
			assert.Equal(t, tt.identifiers, p.Identifiers())
		})
	}
}

// TestRender tests canonical template reconstruction.
func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"anonymous", "aa{}bb{}cc", "aa{}bb{}cc"},
		{"named with hints", "aa{x:str}bb{y:int}cc", "aa{x:str}bb{y:int}cc"},
		{"hint whitespace dropped", "{x:  int }-", "{x:int}-"},
		{"empty hint kept", "{x:}-", "{x:}-"},
		{"escaped braces", "a{{b}}{x}", "a{{b}}{x}"},
		{"no placeholders", "plain", "plain"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompilePositional(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Render())
			assert.Equal(t, tt.expected, p.String())

			again, err := CompilePositional(p.Render())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

// TestWithFormats tests hint replacement.
func TestWithFormats(t *testing.T) {
	p, err := CompileNamed("{a}.{b:int}.{c}")
	require.NoError(t, err)

	t.Run("replaces hints", func(t *testing.T) {
		q, err := p.WithFormats([]string{"str", "float", "bool"})
		require.NoError(t, err)
		assert.Equal(t, []string{"str", "float", "bool"}, q.Formats())
		assert.Equal(t, p.Identifiers(), q.Identifiers())
		assert.Equal(t, p.Literals(), q.Literals())
		assert.Equal(t, "{a:str}.{b:float}.{c:bool}", q.Template())
		assert.Equal(t, p.Index(), q.Index())
	})

	t.Run("receiver unchanged", func(t *testing.T) {
		_, err := p.WithFormats([]string{"x", "y", "z"})
		require.NoError(t, err)
		assert.Equal(t, []string{"", "int", ""}, p.Formats())
		assert.Equal(t, "{a}.{b:int}.{c}", p.Render())
	})

	t.Run("derived pattern still matches", func(t *testing.T) {
		q, err := p.WithFormats([]string{"", "", ""})
		require.NoError(t, err)
		v, err := q.Unformat("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, v.Slice())
	})

	t.Run("hints are trimmed", func(t *testing.T) {
		q, err := p.WithFormats([]string{" int ", "\tstr", "float\n"})
		require.NoError(t, err)
		assert.Equal(t, []string{"int", "str", "float"}, q.Formats())
		assert.Equal(t, "{a:int}.{b:str}.{c:float}", q.Render())
	})

	t.Run("hints that cannot be rendered", func(t *testing.T) {
		tests := []struct {
			name   string
			hints  []string
			offset int
		}{
			{name: "colon", hints: []string{"a:b", "", ""}, offset: 0},
			{name: "open brace", hints: []string{"", "{", ""}, offset: 4},
			{name: "close brace", hints: []string{"", "", "x}"}, offset: 12},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				q, err := p.WithFormats(tt.hints)
				require.Error(t, err)
				assert.Nil(t, q)
				assert.ErrorIs(t, err, ErrInvalidPlaceholder)
				assert.ErrorIs(t, err, ErrSyntax)

				var synErr *SyntaxError
				require.ErrorAs(t, err, &synErr)
				assert.Equal(t, "{a}.{b:int}.{c}", synErr.Template)
				assert.Equal(t, tt.offset, synErr.Offset)
			})
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		for _, hints := range [][]string{nil, {"a"}, {"a", "b", "c", "d"}} {
			q, err := p.WithFormats(hints)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.ErrorIs(t, err, ErrLengthMismatch)

			var lenErr *LengthMismatchError
			require.ErrorAs(t, err, &lenErr)
			assert.Equal(t, 3, lenErr.Want)
			assert.Equal(t, len(hints), lenErr.Got)
		}
	})

	t.Run("no placeholders", func(t *testing.T) {
		plain, err := CompilePositional("plain")
		require.NoError(t, err)
		q, err := plain.WithFormats([]string{})
		require.NoError(t, err)
		assert.True(t, plain.Equal(q))
	})
}

// TestReformat tests discipline-independent hint replacement.
func TestReformat(t *testing.T) {
	for _, template := range []string{"{a}-{b}", "{}-{}"} {
		u, err := Compile(template)
		require.NoError(t, err)

		r, err := Reformat(u, []string{"int", "int"})
		require.NoError(t, err)
		assert.Equal(t, u.Discipline(), r.Discipline())
		assert.Equal(t, []string{"int", "int"}, r.Formats())

		_, err = Reformat(u, []string{"int"})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	}
}

// TestFill tests forward substitution.
func TestFill(t *testing.T) {
	p, err := CompilePositional("aa{}bb{}cc")
	require.NoError(t, err)

	t.Run("positional", func(t *testing.T) {
		s, err := p.Fill("1", "2")
		require.NoError(t, err)
		assert.Equal(t, "aa1bb2cc", s)
	})

	t.Run("round trip", func(t *testing.T) {
		s, err := p.Fill("x", "y")
		require.NoError(t, err)
		v, err := p.Unformat(s)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, v.Slice())
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := p.Fill("1")
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("escaped braces are emitted once", func(t *testing.T) {
		q, err := CompilePositional("{{{}}}")
		require.NoError(t, err)
		s, err := q.Fill("v")
		require.NoError(t, err)
		assert.Equal(t, "{v}", s)
	})
}

// TestFillMap tests substitution by identifier.
func TestFillMap(t *testing.T) {
	p, err := CompileNamed("{greeting}, {name}!")
	require.NoError(t, err)

	t.Run("all present", func(t *testing.T) {
		s, err := p.FillMap(map[string]string{"greeting": "Hello", "name": "World", "extra": "x"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", s)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := p.FillMap(map[string]string{"greeting": "Hi"})
		require.Error(t, err)

		var undefErr *UndefinedIdentifierError
		require.ErrorAs(t, err, &undefErr)
		assert.Equal(t, []string{"name"}, undefErr.Names)
		assert.Equal(t, "undefined identifier: name", err.Error())
	})

	t.Run("multiple missing", func(t *testing.T) {
		_, err := p.FillMap(nil)
		require.Error(t, err)
		assert.Equal(t, "undefined identifiers: greeting, name", err.Error())
	})

	t.Run("repeated positional identifier", func(t *testing.T) {
		q, err := CompilePositional("{a}/{a}")
		require.NoError(t, err)
		s, err := q.FillMap(map[string]string{"a": "x"})
		require.NoError(t, err)
		assert.Equal(t, "x/x", s)

		_, err = q.FillMap(nil)
		var undefErr *UndefinedIdentifierError
		require.ErrorAs(t, err, &undefErr)
		assert.Equal(t, []string{"a"}, undefErr.Names)
	})
}
