package search

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandReplacementAmpersandAndGroups(t *testing.T) {
	groups := [][]byte{[]byte("foobar"), []byte("foo"), []byte("bar")}
	out := expandReplacement(`[&] [\1-\2]`, groups, 1, "")
	assert.Equal(t, "[foobar] [foo-bar]", string(out))
}

func TestExpandReplacementCaseFolding(t *testing.T) {
	groups := [][]byte{[]byte("hello")}
	out := expandReplacement(`\u&`, groups, 1, "")
	assert.Equal(t, "Hello", string(out))

	out = expandReplacement(`\U&\e!`, groups, 1, "")
	assert.Equal(t, "HELLO!", string(out))
}

func TestExpandReplacementLineNumber(t *testing.T) {
	out := expandReplacement(`line \#`, nil, 42, "")
	assert.Equal(t, "line 42", string(out))
}

func TestExpandReplacementTilde(t *testing.T) {
	out := expandReplacement(`x~y`, nil, 1, "PREV")
	assert.Equal(t, "xPREVy", string(out))
}

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := Compile(pattern, DialectEgrep)
	require.NoError(t, err)
	return re
}

func TestSubstituteGlobalFlagReplacesAllMatches(t *testing.T) {
	changed, out := substituteLine(mustCompile(t, "o"), []byte("foo boo woo"), "0", 1, true, "")
	assert.True(t, changed)
	assert.Equal(t, "f00 b00 w00", string(out))
}

func TestSubstituteWithoutGlobalReplacesFirstOnly(t *testing.T) {
	changed, out := substituteLine(mustCompile(t, "o"), []byte("foo boo woo"), "0", 1, false, "")
	assert.True(t, changed)
	assert.Equal(t, "f0o boo woo", string(out))
}

func TestSubstituteZeroWidthMatchAdvances(t *testing.T) {
	changed, out := substituteLine(mustCompile(t, "x*"), []byte("ab"), "-", 1, true, "")
	assert.True(t, changed)
	assert.NotEmpty(t, out)
}

func TestBRE2ERETranslatesGroupingEscapes(t *testing.T) {
	out := bre2ere(`\(foo\)\+`)
	assert.Equal(t, `(foo)+`, out)
}

func TestCompileLiteralDialectEscapesMetacharacters(t *testing.T) {
	re, err := Compile("a.b", DialectNone)
	require.NoError(t, err)
	assert.True(t, re.MatchString("a.b"))
	assert.False(t, re.MatchString("axb"))
}
