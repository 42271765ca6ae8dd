package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBoolAndAbbreviation(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("ai", "true"))
	assert.True(t, s.Bool("autoindent"))
}

func TestAmbiguousPrefixPicksShortest(t *testing.T) {
	s := New()
	// "tab" prefixes "tabindent", "tabs" and "tabstop"; "tabs" is shortest.
	p, err := s.resolve("tab")
	require.NoError(t, err)
	assert.Equal(t, "tabs", p.Name)
}

func TestUnknownOption(t *testing.T) {
	s := New()
	err := s.Set("nosuchoption", "1")
	assert.Error(t, err)
}

func TestMagicRegextypeCrossUpdate(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("magic", "false"))
	rt, err := s.Get("regextype")
	require.NoError(t, err)
	assert.Equal(t, "none", rt.S)

	require.NoError(t, s.Set("regextype", "grep"))
	assert.True(t, s.Bool("magic"))
}

func TestTagParamHookFires(t *testing.T) {
	s := New()
	var invalidated bool
	s.Attach(&Hooks{InvalidateTags: func(*Store) { invalidated = true }})
	require.NoError(t, s.Set("taglength", "6"))
	assert.True(t, invalidated)
}

func TestEnumRejectsUnknownValue(t *testing.T) {
	s := New()
	err := s.Set("format", "ebcdic")
	assert.Error(t, err)
}

func TestUndoLevelsRejectsNegative(t *testing.T) {
	s := New()
	err := s.Set("undolevels", "-1")
	assert.Error(t, err)
	// Failed Set must not leave Changed set or mutate Value.
	v, _ := s.Get("undolevels")
	assert.Equal(t, 100, v.N)
}

func TestStringListParsesCommaSeparated(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("tags", "tags,./tags,../tags"))
	v, _ := s.Get("tags")
	assert.Equal(t, []string{"tags", "./tags", "../tags"}, v.L)
}
