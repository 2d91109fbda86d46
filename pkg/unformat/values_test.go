package unformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_Named(t *testing.T) {
	p, err := CompileNamed("{a}.{b}.{c}")
	require.NoError(t, err)
	v, err := p.Unformat("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, "2", v.At(1))
	assert.True(t, v.IsNamed())
	assert.Equal(t, []string{"a", "b", "c"}, v.Names())
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, v.Map())
	assert.Equal(t, `Values(a="1", b="2", c="3")`, v.String())

	// Mutating returned copies does not affect the values.
	s := v.Slice()
	s[0] = "changed"
	assert.Equal(t, "1", v.At(0))
	idx := v.Index()
	idx["a"] = 2
	got, _ := v.Get("a")
	assert.Equal(t, "1", got)
}

func TestValues_Positional(t *testing.T) {
	p, err := CompilePositional("{}:{}")
	require.NoError(t, err)
	v, err := p.Unformat("x:y")
	require.NoError(t, err)

	assert.False(t, v.IsNamed())
	assert.Nil(t, v.Names())
	assert.Nil(t, v.Map())
	assert.Nil(t, v.Index())
	assert.Equal(t, `Values("x", "y")`, v.String())

	_, ok := v.Get("")
	assert.False(t, ok)
	assert.Panics(t, func() { v.At(2) })
}

func TestValues_Zero(t *testing.T) {
	var v Values
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Slice())
	assert.Equal(t, "Values()", v.String())
}
